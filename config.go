package blit

import (
	"fmt"
	"strings"

	"github.com/gogpu/blit/driver"
)

// Config is the serializable renderer configuration. It is typically
// loaded from a TOML file and turned into options with Options.
type Config struct {
	// Backend names the submission tier; empty selects the best one.
	Backend string `toml:"backend"`
	// MaxBatchSprites is the initial batch capacity.
	MaxBatchSprites int `toml:"max_batch_sprites"`
	// RequiredFeatures lists feature names such as "render-targets".
	RequiredFeatures []string `toml:"required_features"`
	// VendorWorkarounds toggles driver-specific workarounds.
	VendorWorkarounds bool `toml:"vendor_workarounds"`
}

// DefaultConfig returns the configuration NewRenderer uses without options.
func DefaultConfig() Config {
	return Config{
		MaxBatchSprites:   1000,
		VendorWorkarounds: true,
	}
}

// Options converts the configuration to renderer options.
func (c Config) Options() ([]Option, error) {
	opts := []Option{
		WithBackend(c.Backend),
		WithMaxBatchSprites(c.MaxBatchSprites),
		WithVendorWorkarounds(c.VendorWorkarounds),
	}
	if len(c.RequiredFeatures) > 0 {
		var f driver.Features
		for _, name := range c.RequiredFeatures {
			bit, ok := driver.ParseFeature(strings.TrimSpace(name))
			if !ok {
				return nil, fmt.Errorf("%w: unknown feature %q", ErrInvalidArgument, name)
			}
			f |= bit
		}
		opts = append(opts, WithRequiredFeatures(f))
	}
	return opts, nil
}
