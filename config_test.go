package blit

import (
	"errors"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/blit/backend"
	"github.com/gogpu/blit/driver"
	"github.com/gogpu/blit/driver/record"
)

func TestConfigDecode(t *testing.T) {
	const doc = `
backend = "gl2"
max_batch_sprites = 250
required_features = ["render-targets", " blend-equations "]
vendor_workarounds = false
`
	cfg := DefaultConfig()
	if _, err := toml.Decode(doc, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != backend.NameClientArrays || cfg.MaxBatchSprites != 250 || cfg.VendorWorkarounds {
		t.Errorf("decoded %+v", cfg)
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	want := driver.FeatureRenderTargets | driver.FeatureBlendEquations
	if o.backend != "gl2" || o.maxSprites != 250 || o.workarounds || o.required != want {
		t.Errorf("options = %+v", o)
	}
}

func TestConfigUnknownFeature(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequiredFeatures = []string{"teleport"}
	if _, err := cfg.Options(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestConfigRenderer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = backend.NameImmediate
	cfg.MaxBatchSprites = 10
	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	r, _, _ := newTestRenderer(t, record.Full, opts...)
	if r.BackendName() != backend.NameImmediate {
		t.Errorf("BackendName() = %q", r.BackendName())
	}
	if got := r.current.ctx.batch.Cap(); got != 40 {
		t.Errorf("batch capacity = %d vertices, want 40", got)
	}
}
