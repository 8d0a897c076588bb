package blit

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gogpu/blit/backend"
	"github.com/gogpu/blit/driver"
	"github.com/gogpu/blit/internal/cache"
)

// Renderer owns the driver, the selected submission tier and every window
// context created through it. A Renderer is not safe for concurrent use; all
// calls must come from the goroutine that owns the GL contexts.
type Renderer struct {
	d       driver.Driver
	info    driver.Info
	backend backend.Backend
	opts    options

	// Window targets in creation order. Each owns a Context.
	windows []*Target
	// current is the window target whose context is current.
	current *Target

	// locations caches attribute and uniform lookups by program and name.
	locations *cache.Cache[locationKey, int32]

	lastErr       error
	shaderMessage string
	stats         Stats
	closed        bool
}

// Ensure Renderer implements io.Closer
var _ io.Closer = (*Renderer)(nil)

// Stats counts work submitted to the driver since creation or the last
// ResetStats.
type Stats struct {
	Flushes      int
	Passes       int
	Vertices     int
	Indices      int
	StateChanges int
}

// NewRenderer probes the driver, selects a submission tier and creates the
// first window target. The window's context is made current.
//
//	d, err := gl21.New()
//	if err != nil {
//	    return err
//	}
//	r, err := blit.NewRenderer(d, win)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	screen := r.Current()
func NewRenderer(d driver.Driver, win Window, opts ...Option) (*Renderer, error) {
	if d == nil || win == nil {
		return nil, fmt.Errorf("blit: NewRenderer: %w: nil driver or window", ErrInvalidArgument)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	win.MakeCurrent()
	info := driver.Probe(d)
	if missing := o.required &^ info.Features; missing != 0 {
		return nil, fmt.Errorf("blit: NewRenderer: %w: %v", ErrMissingFeatures, missing)
	}
	b, err := backend.Select(o.backend, info.Features)
	if err != nil {
		return nil, fmt.Errorf("blit: NewRenderer: %w: %w", ErrNoBackend, err)
	}

	r := &Renderer{
		d:         d,
		info:      info,
		backend:   b,
		opts:      o,
		locations: cache.New[locationKey, int32](maxCachedLocations),
	}
	Logger().Info("blit: renderer created",
		slog.String("backend", b.Name()),
		slog.Int("tier", int(b.Tier())),
		slog.String("vendor", info.Vendor),
		slog.Int("major", info.Major),
		slog.Int("minor", info.Minor),
		slog.Bool("es", info.ES),
		slog.String("features", info.Features.String()))

	if _, err := r.CreateTargetFromWindow(win); err != nil {
		return nil, err
	}
	return r, nil
}

// Driver returns the driver the renderer issues calls to.
func (r *Renderer) Driver() driver.Driver { return r.d }

// Info returns the probed driver description.
func (r *Renderer) Info() driver.Info { return r.info }

// BackendName returns the registry name of the selected tier.
func (r *Renderer) BackendName() string { return r.backend.Name() }

// Tier returns the feature level of the selected tier.
func (r *Renderer) Tier() backend.Tier { return r.backend.Tier() }

// IsFeatureEnabled reports whether the driver supports every feature in f.
func (r *Renderer) IsFeatureEnabled(f driver.Features) bool { return r.info.Features.Has(f) }

// Current returns the window target whose context is current, or nil.
func (r *Renderer) Current() *Target { return r.current }

// ShaderMessage returns the driver log of the last failed shader compile or
// program link.
func (r *Renderer) ShaderMessage() string { return r.shaderMessage }

// Stats returns the work counters.
func (r *Renderer) Stats() Stats {
	s := r.stats
	for _, w := range r.windows {
		s.StateChanges += w.ctx.state.Changes() - w.ctx.changesBase
	}
	return s
}

// ResetStats zeroes the work counters.
func (r *Renderer) ResetStats() {
	r.stats = Stats{}
	for _, w := range r.windows {
		w.ctx.changesBase = w.ctx.state.Changes()
	}
}

// FlushBatch submits the pending geometry of the current context.
func (r *Renderer) FlushBatch() {
	if r.current != nil {
		r.current.ctx.flush()
	}
}

// Close flushes and releases every window context. Images and image targets
// must be released by the caller first; their GL objects die with the
// contexts.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	for _, w := range r.windows {
		r.makeCurrent(w)
		w.ctx.flush()
		w.ctx.release()
	}
	r.windows = nil
	r.current = nil
	r.closed = true
	return nil
}

// makeCurrent switches to the context of window target t, flushing the
// previous context.
func (r *Renderer) makeCurrent(t *Target) {
	if r.current == t {
		return
	}
	if prev := r.current; prev != nil {
		prev.ctx.flush()
		// Image targets are shared between contexts; the next context to
		// draw into one binds it afresh.
		if prev.ctx.target != nil && prev.ctx.target.image != nil {
			prev.ctx.target = nil
		}
	}
	t.win.MakeCurrent()
	r.current = t
}

// context returns the current context.
func (r *Renderer) context(op string) (*Context, error) {
	if r.closed || r.current == nil {
		return nil, r.fail(op, ErrNoContext)
	}
	return r.current.ctx, nil
}

// recordFlush accounts a flush and calls the hook.
func (r *Renderer) recordFlush(fi FlushInfo) {
	r.stats.Flushes++
	r.stats.Passes += fi.Passes
	r.stats.Vertices += fi.Vertices
	r.stats.Indices += fi.Indices
	if r.opts.flushHook != nil {
		r.opts.flushHook(fi)
	}
}
