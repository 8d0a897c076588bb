package blit

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/blit/backend"
	"github.com/gogpu/blit/driver"
	"github.com/gogpu/blit/driver/record"
)

const pulseFrag = `varying vec4 color;
varying vec2 texCoord;
uniform float time;
uniform sampler2D tex;

void main(void)
{
	gl_FragColor = texture2D(tex, texCoord) * color * time;
}
`

// linkPulse builds a program from the default textured vertex shader and a
// fragment shader with a time uniform.
func linkPulse(t *testing.T, r *Renderer) uint32 {
	t.Helper()
	textured, _ := backend.Sources(false)
	vs, err := r.CompileShader(VertexShader, textured.Vertex)
	if err != nil {
		t.Fatalf("vertex: %v", err)
	}
	fs, err := r.CompileShader(FragmentShader, pulseFrag)
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	p, err := r.LinkShaders(vs, fs)
	if err != nil {
		t.Fatalf("LinkShaders: %v", err)
	}
	r.FreeShader(vs)
	r.FreeShader(fs)
	return p
}

func TestCompileShaderError(t *testing.T) {
	r, _, _ := newTestRenderer(t, record.Full)
	tests := []struct {
		name   string
		source string
		msg    string
	}{
		{"error directive", "#error broken\nvoid main(void) {}", "#error"},
		{"no entry point", "attribute vec2 pos;", "no main"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh, err := r.CompileShader(VertexShader, tt.source)
			if !errors.Is(err, ErrShaderCompile) || sh != 0 {
				t.Fatalf("CompileShader = %d, %v; want ErrShaderCompile", sh, err)
			}
			if !strings.Contains(r.ShaderMessage(), tt.msg) {
				t.Errorf("ShaderMessage() = %q, want it to mention %q", r.ShaderMessage(), tt.msg)
			}
		})
	}
}

func TestLinkShaderProgramError(t *testing.T) {
	r, _, _ := newTestRenderer(t, record.Full)
	textured, _ := backend.Sources(false)
	vs, err := r.CompileShader(VertexShader, textured.Vertex)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := r.CreateShaderProgram()
	_ = r.AttachShader(p, vs)
	if err := r.LinkShaderProgram(p); !errors.Is(err, ErrShaderLink) {
		t.Errorf("link without fragment shader: err = %v", err)
	}
	if r.ShaderMessage() == "" {
		t.Error("link log not kept")
	}
	if err := r.AttachShader(0, vs); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("AttachShader(0): err = %v", err)
	}
}

func TestShadersUnsupported(t *testing.T) {
	r, _, _ := newTestRenderer(t, record.Minimal)
	if _, err := r.CompileShader(VertexShader, "void main(void) {}"); !errors.Is(err, ErrShaderCompile) {
		t.Errorf("CompileShader on 1.1: err = %v", err)
	}
	if _, err := r.CreateShaderProgram(); !errors.Is(err, ErrShaderLink) {
		t.Errorf("CreateShaderProgram on 1.1: err = %v", err)
	}
	if !r.IsDefaultShaderProgram(0) {
		t.Error("program 0 is not the default on the fixed-function tier")
	}
}

func TestCustomProgram(t *testing.T) {
	r, d, _ := newTestRenderer(t, record.Full)
	img := newTestImage(t, r, 8, 8)
	p := linkPulse(t, r)

	loc := r.GetUniformLocation(p, "time")
	if loc != 1 {
		t.Fatalf("time location = %d, want 1", loc)
	}
	if err := r.ActivateShaderProgram(p, nil); err != nil {
		t.Fatal(err)
	}
	if r.CurrentShaderProgram() != p || r.IsDefaultShaderProgram(p) {
		t.Fatal("custom program is not active")
	}
	if b := r.ShaderBlock(); b.Position != 0 || b.TexCoord != 1 || b.Color != 2 || b.MVP != 0 {
		t.Errorf("loaded block = %+v", b)
	}

	if err := r.SetUniformf(loc, 0.5); err != nil {
		t.Fatal(err)
	}
	if got := d.UniformFloats(p, loc); !slices.Equal(got, []float32{0.5}) {
		t.Errorf("time = %v, want [0.5]", got)
	}
	var back [1]float32
	r.GetUniformfv(p, loc, back[:])
	if back[0] != 0.5 {
		t.Errorf("GetUniformfv = %v", back[0])
	}

	// A pending sprite keeps the value it was queued under.
	_ = r.Blit(img, nil, r.Current(), 4, 4)
	_ = r.SetUniformf(loc, 1)
	if len(d.Draws) != 1 || d.Draws[0].Program != p {
		t.Fatalf("uniform change did not flush the custom program draw: %+v", d.Draws)
	}

	r.FreeShaderProgram(p)
	if !r.IsDefaultShaderProgram(r.CurrentShaderProgram()) {
		t.Error("freeing the active program did not restore a default program")
	}
	if err := r.DeactivateShaderProgram(); err != nil {
		t.Fatal(err)
	}
}

func TestUniformSetters(t *testing.T) {
	r, d, _ := newTestRenderer(t, record.Full)
	prog := r.CurrentShaderProgram()
	mvp := r.ShaderBlock().MVP

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"vector", r.SetUniformfv(mvp, 4, make([]float32, 8)), nil},
		{"ragged vector", r.SetUniformfv(mvp, 3, make([]float32, 4)), ErrInvalidArgument},
		{"five elements", r.SetUniformiv(mvp, 5, make([]int32, 5)), ErrInvalidArgument},
		{"matrix", r.SetUniformMatrixfv(mvp, 4, 4, false, make([]float32, 16)), nil},
		{"matrix 5x5", r.SetUniformMatrixfv(mvp, 5, 5, false, make([]float32, 25)), ErrInvalidMatrix},
		{"short matrix", r.SetUniformMatrixfv(mvp, 3, 3, false, make([]float32, 8)), ErrInvalidMatrix},
		{"unused location", r.SetUniformi(-1, 3), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want == nil && tt.err != nil || tt.want != nil && !errors.Is(tt.err, tt.want) {
				t.Errorf("err = %v, want %v", tt.err, tt.want)
			}
		})
	}

	_ = r.SetUniformiv(mvp, 2, []int32{7, 8})
	var back [2]int32
	r.GetUniformiv(prog, mvp, back[:])
	if back != [2]int32{7, 8} {
		t.Errorf("GetUniformiv = %v", back)
	}
	if d.CurrentProgram() != prog {
		t.Errorf("current program = %d, want %d", d.CurrentProgram(), prog)
	}
}

func TestCompileShaderWGSL(t *testing.T) {
	t.Run("spirv", func(t *testing.T) {
		r, d, _ := newTestRenderer(t, record.Full)
		vs, err := r.CompileShaderWGSL(VertexShader, SpriteWGSL, "vs_main")
		if err != nil {
			t.Fatalf("vertex: %v", err)
		}
		fs, err := r.CompileShaderWGSL(FragmentShader, SpriteWGSL, "fs_main")
		if err != nil {
			t.Fatalf("fragment: %v", err)
		}
		if !d.ShaderIsBinary(vs) || !d.ShaderIsBinary(fs) {
			t.Error("shaders were not loaded from SPIR-V")
		}
		p, err := r.LinkShaders(vs, fs)
		if err != nil {
			t.Fatalf("LinkShaders: %v", err)
		}
		block := WGSLShaderBlock
		if err := r.ActivateShaderProgram(p, &block); err != nil {
			t.Fatal(err)
		}
		if r.ShaderBlock() != WGSLShaderBlock {
			t.Errorf("block = %+v", r.ShaderBlock())
		}
	})

	t.Run("invalid source", func(t *testing.T) {
		r, _, _ := newTestRenderer(t, record.Full)
		if _, err := r.CompileShaderWGSL(VertexShader, "fn broken(", "vs_main"); !errors.Is(err, ErrShaderCompile) {
			t.Errorf("err = %v, want ErrShaderCompile", err)
		}
		if r.ShaderMessage() == "" {
			t.Error("compiler error not kept")
		}
	})

	t.Run("no spirv", func(t *testing.T) {
		r, _, _ := newTestRenderer(t, record.GL21)
		if _, err := r.CompileShaderWGSL(VertexShader, SpriteWGSL, "vs_main"); !errors.Is(err, ErrShaderCompile) {
			t.Errorf("err = %v, want ErrShaderCompile", err)
		}
	})
}

func TestSetShaderImage(t *testing.T) {
	r, d, _ := newTestRenderer(t, record.Full)
	img := newTestImage(t, r, 8, 8)
	texLoc := r.GetUniformLocation(r.CurrentShaderProgram(), "tex")
	if err := r.SetShaderImage(img, texLoc, 0); err != nil {
		t.Fatal(err)
	}
	if d.BoundTexture() != img.Texture() {
		t.Errorf("bound texture = %d, want %d", d.BoundTexture(), img.Texture())
	}
}

func TestAttributeSourceDraining(t *testing.T) {
	r, d, _ := newTestRenderer(t, record.Full)
	img := newTestImage(t, r, 8, 8)
	screen := r.Current()

	values := make([]float32, 600)
	for i := range values {
		values[i] = float32(i)
	}
	if err := r.SetAttributeSource(3, len(values), driver.Float32Bytes(values), FloatAttribute(1, false)); err != nil {
		t.Fatal(err)
	}
	if got := r.AttributeSourceRemaining(3); got != 600 {
		t.Fatalf("remaining = %d, want 600", got)
	}
	d.Reset()

	for i := 0; i < 300; i++ {
		_ = r.Blit(img, nil, screen, 4, 4)
	}
	r.FlushBatch()

	if len(d.Draws) != 2 {
		t.Fatalf("%d draws, want the source-limited pass and the rest", len(d.Draws))
	}
	if d.Draws[0].Count != 900 || d.Draws[1].Count != 900 {
		t.Errorf("pass sizes = %d, %d indices; want 900, 900", d.Draws[0].Count, d.Draws[1].Count)
	}
	if !slices.Contains(d.Draws[0].Attribs, 3) {
		t.Errorf("first pass attributes %v lack location 3", d.Draws[0].Attribs)
	}
	if slices.Contains(d.Draws[1].Attribs, 3) {
		t.Errorf("drained source still enabled in second pass: %v", d.Draws[1].Attribs)
	}
	if got := r.AttributeSourceRemaining(3); got != 0 {
		t.Errorf("remaining = %d after draining", got)
	}
	if s := r.Stats(); s.Passes < 2 {
		t.Errorf("Stats().Passes = %d", s.Passes)
	}
}

func TestAttributeSourceShortTail(t *testing.T) {
	r, d, _ := newTestRenderer(t, record.Full)
	img := newTestImage(t, r, 8, 8)
	values := []float32{1, 2, 3, 4, 5, 6}
	if err := r.SetAttributeSource(3, len(values), driver.Float32Bytes(values), FloatAttribute(1, false)); err != nil {
		t.Fatal(err)
	}
	d.Reset()
	for i := 0; i < 2; i++ {
		_ = r.Blit(img, nil, r.Current(), 4, 4)
	}
	r.FlushBatch()

	if len(d.Draws) != 2 {
		t.Fatalf("%d draws, want 2", len(d.Draws))
	}
	if !slices.Contains(d.Draws[0].Attribs, 3) {
		t.Errorf("first pass attributes %v lack location 3", d.Draws[0].Attribs)
	}
	if slices.Contains(d.Draws[1].Attribs, 3) {
		t.Errorf("second pass binds a source with 2 values for 4 vertices: %v", d.Draws[1].Attribs)
	}
	if slices.Contains(d.Uploads, 2*4) {
		t.Errorf("uploads = %v, the 2-value tail was uploaded", d.Uploads)
	}
	if got := r.AttributeSourceRemaining(3); got != 0 {
		t.Errorf("remaining = %d, want 0", got)
	}
}

func TestAttributeSourcePerSprite(t *testing.T) {
	r, d, _ := newTestRenderer(t, record.Full)
	img := newTestImage(t, r, 8, 8)
	values := []float32{1, 2, 3}
	if err := r.SetAttributeSource(4, 3, driver.Float32Bytes(values), FloatAttribute(1, true)); err != nil {
		t.Fatal(err)
	}
	d.Reset()
	for i := 0; i < 3; i++ {
		_ = r.Blit(img, nil, r.Current(), 4, 4)
	}
	r.FlushBatch()
	if len(d.Draws) != 1 || d.Draws[0].Count != 18 {
		t.Fatalf("draws = %+v", d.Draws)
	}
	// 3 sprites of 4 float vertices each.
	if len(d.Uploads) == 0 || !slices.Contains(d.Uploads, 3*4*4) {
		t.Errorf("uploads = %v, want a 48-byte expansion", d.Uploads)
	}
}

func TestAttributeSourceErrors(t *testing.T) {
	r, _, _ := newTestRenderer(t, record.Full)
	buf := driver.Float32Bytes(make([]float32, 4))
	tests := []struct {
		name     string
		location int32
		n        int
		f        AttributeFormat
	}{
		{"location too high", 16, 4, FloatAttribute(1, false)},
		{"negative location", -1, 4, FloatAttribute(1, false)},
		{"five elements", 0, 1, FloatAttribute(5, false)},
		{"short data", 0, 8, FloatAttribute(1, false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.SetAttributeSource(tt.location, tt.n, buf, tt.f); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}

	fixed, _, _ := newTestRenderer(t, record.Minimal)
	if err := fixed.SetAttributeSource(0, 4, buf, FloatAttribute(1, false)); !errors.Is(err, ErrMissingFeatures) {
		t.Errorf("fixed tier: err = %v, want ErrMissingFeatures", err)
	}
}

func TestAttributeVertexFormat(t *testing.T) {
	if _, ok := FloatAttribute(2, false).VertexFormat(); !ok {
		t.Error("float2 has no vertex format")
	}
	if _, ok := (AttributeFormat{Type: driver.Int, Elements: 1}).VertexFormat(); ok {
		t.Error("int attribute mapped to a float vertex format")
	}
}

func TestLocationLookupsAreCached(t *testing.T) {
	r, d, _ := newTestRenderer(t, record.Full)
	textured, _ := backend.Sources(false)
	vs, _ := r.CompileShader(VertexShader, textured.Vertex)
	fs, _ := r.CompileShader(FragmentShader, pulseFrag)
	p, err := r.LinkShaders(vs, fs)
	if err != nil {
		t.Fatal(err)
	}
	d.Reset()

	for i := 0; i < 3; i++ {
		if loc := r.GetUniformLocation(p, "time"); loc != 1 {
			t.Fatalf("time location = %d, want 1", loc)
		}
	}
	if n := d.CallCount("GetUniformLocation"); n != 1 {
		t.Errorf("GetUniformLocation reached the driver %d times, want 1", n)
	}

	if err := r.LinkShaderProgram(p); err != nil {
		t.Fatal(err)
	}
	_ = r.GetUniformLocation(p, "time")
	if n := d.CallCount("GetUniformLocation"); n != 2 {
		t.Errorf("relink kept stale locations: %d driver lookups, want 2", n)
	}

	r.FreeShaderProgram(p)
	r.FreeShader(vs)
	r.FreeShader(fs)
	if got := r.GetUniformLocation(p, "time"); got != -1 {
		t.Errorf("freed program location = %d, want -1", got)
	}
}
