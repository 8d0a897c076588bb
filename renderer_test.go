package blit

import (
	"errors"
	"testing"

	"github.com/gogpu/blit/backend"
	"github.com/gogpu/blit/driver"
	"github.com/gogpu/blit/driver/record"
)

// fakeWindow is a Window backed by the recording driver's framebuffer.
type fakeWindow struct {
	id    uint32
	w, h  int
	d     *record.Driver
	binds int
	swaps int
}

func (w *fakeWindow) ID() uint32       { return w.id }
func (w *fakeWindow) Size() (int, int) { return w.w, w.h }
func (w *fakeWindow) MakeCurrent()     { w.binds++ }
func (w *fakeWindow) SwapBuffers()     { w.swaps++ }
func (w *fakeWindow) SetSize(width, height int) error {
	w.w, w.h = width, height
	w.d.Resize(width, height)
	return nil
}

const testW, testH = 64, 48

func newTestRenderer(t *testing.T, p record.Profile, opts ...Option) (*Renderer, *record.Driver, *fakeWindow) {
	t.Helper()
	d := record.New(p, testW, testH)
	win := &fakeWindow{id: 1, w: testW, h: testH, d: d}
	r, err := NewRenderer(d, win, opts...)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r, d, win
}

// newTestImage creates a 4-channel image.
func newTestImage(t *testing.T, r *Renderer, w, h int) *Image {
	t.Helper()
	img, err := r.CreateImage(w, h, 4)
	if err != nil {
		t.Fatalf("CreateImage(%d, %d): %v", w, h, err)
	}
	return img
}

func TestNewRendererTiers(t *testing.T) {
	tests := []struct {
		name    string
		profile record.Profile
		backend string
		want    string
		tier    backend.Tier
	}{
		{"full", record.Full, "", backend.NameShaders, backend.Tier3},
		{"core", record.Core33, "", backend.NameShaders, backend.Tier3},
		{"gl21", record.GL21, "", backend.NameShaders, backend.Tier3},
		{"minimal", record.Minimal, "", backend.NameClientArrays, backend.Tier2},
		{"forced immediate", record.Full, backend.NameImmediate, backend.NameImmediate, backend.Tier1},
		{"forced client arrays", record.GL21, backend.NameClientArrays, backend.NameClientArrays, backend.Tier2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(t, tt.profile, WithBackend(tt.backend))
			if r.BackendName() != tt.want {
				t.Errorf("BackendName() = %q, want %q", r.BackendName(), tt.want)
			}
			if r.Tier() != tt.tier {
				t.Errorf("Tier() = %v, want %v", r.Tier(), tt.tier)
			}
			if r.Current() == nil {
				t.Error("no current target after creation")
			}
		})
	}
}

func TestNewRendererErrors(t *testing.T) {
	win := &fakeWindow{id: 1, w: testW, h: testH}
	if _, err := NewRenderer(nil, win); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil driver: err = %v, want ErrInvalidArgument", err)
	}

	d := record.New(record.Minimal, testW, testH)
	win.d = d
	_, err := NewRenderer(d, win, WithRequiredFeatures(driver.FeatureRenderTargets))
	if !errors.Is(err, ErrMissingFeatures) {
		t.Errorf("missing render targets: err = %v, want ErrMissingFeatures", err)
	}

	_, err = NewRenderer(d, win, WithBackend(backend.NameShaders))
	if !errors.Is(err, ErrNoBackend) || !errors.Is(err, backend.ErrBackendNotAvailable) {
		t.Errorf("gl3 on 1.1: err = %v, want ErrNoBackend", err)
	}
}

func TestRendererDefaultPrograms(t *testing.T) {
	r, d, _ := newTestRenderer(t, record.Full)
	if d.ProgramCount() != 2 {
		t.Fatalf("ProgramCount() = %d, want textured and untextured", d.ProgramCount())
	}
	b := r.ShaderBlock()
	if b.Position != 0 || b.TexCoord != 1 || b.Color != 2 || b.MVP != 0 {
		t.Errorf("textured block = %+v", b)
	}
	if !r.IsDefaultShaderProgram(r.CurrentShaderProgram()) {
		t.Error("active program is not a default program")
	}

	fixed, d2, _ := newTestRenderer(t, record.Minimal)
	if d2.ProgramCount() != 0 || fixed.CurrentShaderProgram() != 0 {
		t.Error("fixed-function tier should not build programs")
	}
}

func TestRendererClose(t *testing.T) {
	r, d, _ := newTestRenderer(t, record.Full)
	img := newTestImage(t, r, 8, 8)
	if err := r.Blit(img, nil, r.Current(), 4, 4); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(d.Draws) != 1 {
		t.Errorf("Close flushed %d draws, want 1", len(d.Draws))
	}
	if d.ProgramCount() != 0 {
		t.Errorf("ProgramCount() = %d after Close", d.ProgramCount())
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := r.CreateImage(4, 4, 4); !errors.Is(err, ErrNoContext) {
		t.Errorf("CreateImage after Close: err = %v, want ErrNoContext", err)
	}
}

func TestLastError(t *testing.T) {
	r, _, _ := newTestRenderer(t, record.Full)
	if r.LastError() != nil {
		t.Fatalf("LastError() = %v on a fresh renderer", r.LastError())
	}
	err := r.Blit(nil, nil, r.Current(), 0, 0)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Blit(nil) = %v", err)
	}
	if !errors.Is(r.PopError(), ErrInvalidArgument) {
		t.Error("PopError did not return the Blit error")
	}
	if r.LastError() != nil {
		t.Error("PopError did not clear the error")
	}
}

func TestForeignObjects(t *testing.T) {
	r1, _, _ := newTestRenderer(t, record.Full)
	r2, _, _ := newTestRenderer(t, record.Full)
	img := newTestImage(t, r2, 4, 4)

	if err := r1.Blit(img, nil, r1.Current(), 0, 0); !errors.Is(err, ErrContextMismatch) {
		t.Errorf("foreign image: err = %v, want ErrContextMismatch", err)
	}
	own := newTestImage(t, r1, 4, 4)
	if err := r1.Blit(own, nil, r2.Current(), 0, 0); !errors.Is(err, ErrContextMismatch) {
		t.Errorf("foreign target: err = %v, want ErrContextMismatch", err)
	}
}

func TestStats(t *testing.T) {
	r, _, _ := newTestRenderer(t, record.Full)
	img := newTestImage(t, r, 8, 8)
	r.ResetStats()
	for i := 0; i < 3; i++ {
		if err := r.Blit(img, nil, r.Current(), 4, 4); err != nil {
			t.Fatal(err)
		}
	}
	r.FlushBatch()

	s := r.Stats()
	if s.Flushes != 1 || s.Passes != 1 || s.Vertices != 12 || s.Indices != 18 {
		t.Errorf("Stats() = %+v", s)
	}
	if s.StateChanges == 0 {
		t.Error("StateChanges = 0, want program and blend changes")
	}
	r.ResetStats()
	if s := r.Stats(); s != (Stats{}) {
		t.Errorf("after ResetStats: %+v", s)
	}
}

func TestMultipleWindows(t *testing.T) {
	r, d, win1 := newTestRenderer(t, record.Full)
	screen1 := r.Current()
	win2 := &fakeWindow{id: 2, w: 32, h: 32, d: d}

	screen2, err := r.CreateTargetFromWindow(win2)
	if err != nil {
		t.Fatalf("CreateTargetFromWindow: %v", err)
	}
	if r.Current() != screen2 {
		t.Error("new window target is not current")
	}
	if again, _ := r.CreateTargetFromWindow(win2); again != screen2 {
		t.Error("second CreateTargetFromWindow returned a new target")
	}

	img := newTestImage(t, r, 8, 8)
	binds := win1.binds
	if err := r.Blit(img, nil, screen1, 4, 4); err != nil {
		t.Fatal(err)
	}
	if r.Current() != screen1 || win1.binds != binds+1 {
		t.Error("drawing into window 1 did not make its context current")
	}

	if err := r.FreeTarget(screen2); err != nil {
		t.Fatalf("FreeTarget: %v", err)
	}
	if err := r.Blit(img, nil, screen2, 4, 4); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Blit to freed window: err = %v", err)
	}
	if r.Current() != screen1 {
		t.Error("freeing window 2 changed the current window")
	}
}

func TestWindowsShareImageTarget(t *testing.T) {
	r, d, _ := newTestRenderer(t, record.Full)
	sprite := newTestImage(t, r, 8, 8)
	canvas := newTestImage(t, r, 32, 32)
	tgt, err := r.LoadTarget(canvas)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Blit(sprite, nil, tgt, 4, 4); err != nil {
		t.Fatal(err)
	}
	c1 := r.current.ctx

	screen2, err := r.CreateTargetFromWindow(&fakeWindow{id: 2, w: 32, h: 32, d: d})
	if err != nil {
		t.Fatal(err)
	}
	c2 := screen2.ctx
	if c1.batch.Len() != 0 {
		t.Fatalf("switching windows left %d vertices in the first context", c1.batch.Len())
	}

	setters := []struct {
		name string
		set  func() error
	}{
		{"SetClipRect", func() error { return r.SetClipRect(tgt, Rect{W: 16, H: 16}) }},
		{"SetTargetColor", func() error { return r.SetTargetColor(tgt, red) }},
		{"SetViewport", func() error { return r.SetViewport(tgt, Rect{W: 32, H: 32}) }},
		{"SetCamera", func() error {
			_, err := r.SetCamera(tgt, Camera{Zoom: 2})
			return err
		}},
	}
	for _, s := range setters {
		t.Run(s.name, func(t *testing.T) {
			if err := r.Blit(sprite, nil, tgt, 4, 4); err != nil {
				t.Fatal(err)
			}
			if c2.batch.Len() != 4 {
				t.Fatalf("second context holds %d vertices, want 4", c2.batch.Len())
			}
			draws := len(d.Draws)
			if err := s.set(); err != nil {
				t.Fatal(err)
			}
			if c2.batch.Len() != 0 {
				t.Errorf("%d vertices still pending after %s", c2.batch.Len(), s.name)
			}
			if len(d.Draws) != draws+1 || d.Draws[len(d.Draws)-1].Framebuffer != tgt.fbo {
				t.Errorf("%s did not flush the pending blit into the target", s.name)
			}
		})
	}

	if x, _ := c2.modelView.Top().Transform(17, 16); !near(x, 18) {
		t.Errorf("active context maps x=17 to %v, want 18 with zoom 2", x)
	}
}
