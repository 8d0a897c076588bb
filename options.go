package blit

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/blit/driver"
)

// Option configures a Renderer during creation.
//
// Example:
//
//	// Best tier the driver supports, default batch size
//	r, err := blit.NewRenderer(drv, win)
//
//	// Force client arrays and a larger batch
//	r, err := blit.NewRenderer(drv, win,
//	    blit.WithBackend("gl2"),
//	    blit.WithMaxBatchSprites(4000))
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	backend     string
	maxSprites  int
	required    driver.Features
	flushHook   func(FlushInfo)
	workarounds bool
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		maxSprites:  0, // batch.DefaultSprites
		workarounds: true,
	}
}

// WithBackend selects a submission tier by registry name ("gl1", "gl2",
// "gl3"). Creation fails if the driver cannot run it. The default picks the
// best supported tier.
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithMaxBatchSprites sets the initial batch capacity in sprites. Values
// below one keep the default of 1000.
func WithMaxBatchSprites(n int) Option {
	return func(o *options) {
		o.maxSprites = n
	}
}

// WithRequiredFeatures makes creation fail with ErrMissingFeatures unless
// the driver supports every feature in f.
func WithRequiredFeatures(f driver.Features) Option {
	return func(o *options) {
		o.required |= f
	}
}

// WithFlushHook registers a function called after every flush with the
// submitted vertex counts.
func WithFlushHook(fn func(FlushInfo)) Option {
	return func(o *options) {
		o.flushHook = fn
	}
}

// WithVendorWorkarounds enables or disables driver-specific workarounds.
// They are on by default.
func WithVendorWorkarounds(enabled bool) Option {
	return func(o *options) {
		o.workarounds = enabled
	}
}

// FlushInfo describes one flush.
type FlushInfo struct {
	// Target is the destination of the flushed geometry.
	Target *Target
	// Vertices and Indices count what was submitted.
	Vertices int
	Indices  int
	// Passes is the number of draw submissions the flush was split into.
	Passes int
	// Topology is the primitive type of the flushed geometry.
	Topology gputypes.PrimitiveTopology
}
