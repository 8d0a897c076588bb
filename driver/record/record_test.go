package record

import (
	"bytes"
	"testing"

	"github.com/gogpu/blit/driver"
)

func TestProfilesProbe(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		has     driver.Features
		lacks   driver.Features
		intel   bool
	}{
		{
			name:    "full",
			profile: Full,
			has:     driver.FeatureSPIRV | driver.FeatureFixedFunction | driver.FeatureBufferObjects | driver.FeatureRenderTargets,
		},
		{
			name:    "core33",
			profile: Core33,
			has:     driver.FeatureBasicShaders | driver.FeatureVertexArrayObjects,
			lacks:   driver.FeatureFixedFunction | driver.FeatureClientArrays,
		},
		{
			name:    "gl21",
			profile: GL21,
			has:     driver.FeatureBasicShaders | driver.FeatureRenderTargets | driver.FeatureClientArrays,
			lacks:   driver.FeatureVertexArrayObjects | driver.FeatureSPIRV,
		},
		{
			name:    "minimal",
			profile: Minimal,
			has:     driver.FeatureFixedFunction | driver.FeatureClientArrays,
			lacks:   driver.FeatureBufferObjects | driver.FeatureVertexShader | driver.FeatureRenderTargets,
		},
		{
			name:    "no render targets",
			profile: NoRenderTargets,
			lacks:   driver.FeatureRenderTargets,
		},
		{
			name:    "no separate blend",
			profile: NoSeparateBlend,
			has:     driver.FeatureBlendEquations,
			lacks:   driver.FeatureBlendFuncSeparate,
		},
		{
			name:    "no blend equations",
			profile: NoBlendEquations,
			has:     driver.FeatureBlendFuncSeparate,
			lacks:   driver.FeatureBlendEquations,
		},
		{
			name:    "intel",
			profile: Intel,
			has:     driver.FeatureRenderTargets,
			intel:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := driver.Probe(New(tt.profile, 4, 4))
			if !info.Features.Has(tt.has) {
				t.Errorf("features %v missing %v", info.Features, tt.has)
			}
			if info.Features&tt.lacks != 0 {
				t.Errorf("features %v should lack %v", info.Features, tt.lacks)
			}
			if info.IntelVendor != tt.intel {
				t.Errorf("IntelVendor = %v, want %v", info.IntelVendor, tt.intel)
			}
		})
	}
}

func TestClearHonorsScissor(t *testing.T) {
	d := New(GL21, 4, 2)
	d.ClearColor(1, 0, 0, 1)
	d.Clear(driver.ColorBufferBit)

	d.Enable(driver.ScissorTest)
	d.Scissor(1, 0, 2, 1)
	d.ClearColor(0, 0, 1, 1)
	d.Clear(driver.ColorBufferBit)

	got := make([]byte, 4*2*4)
	d.ReadPixels(0, 0, 4, 2, driver.RGBA, driver.UnsignedByte, got)
	red := []byte{255, 0, 0, 255}
	blue := []byte{0, 0, 255, 255}
	want := [][]byte{red, blue, blue, red, red, red, red, red}
	for i, w := range want {
		if px := got[i*4 : i*4+4]; !bytes.Equal(px, w) {
			t.Errorf("pixel %d = %v, want %v", i, px, w)
		}
	}
}

func TestTextureUploadFormats(t *testing.T) {
	tests := []struct {
		name   string
		format driver.Enum
		src    []byte
		want   []byte
	}{
		{"rgba", driver.RGBA, []byte{1, 2, 3, 4}, []byte{1, 2, 3, 4}},
		{"bgra", driver.BGRA, []byte{1, 2, 3, 4}, []byte{3, 2, 1, 4}},
		{"rgb", driver.RGB, []byte{1, 2, 3}, []byte{1, 2, 3, 255}},
		{"alpha", driver.Alpha, []byte{9}, []byte{255, 255, 255, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(GL21, 1, 1)
			tex := d.GenTexture()
			d.BindTexture(driver.Texture2D, tex)
			d.TexImage2D(driver.Texture2D, 0, driver.RGBA, 1, 1, tt.format, driver.UnsignedByte, tt.src)

			fbo := d.GenFramebuffer()
			d.BindFramebuffer(driver.Framebuffer, fbo)
			d.FramebufferTexture2D(driver.Framebuffer, driver.ColorAttachment0, driver.Texture2D, tex, 0)
			if s := d.CheckFramebufferStatus(driver.Framebuffer); s != driver.FramebufferComplete {
				t.Fatalf("status = %#x", s)
			}
			got := make([]byte, 4)
			d.ReadPixels(0, 0, 1, 1, driver.RGBA, driver.UnsignedByte, got)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("pixel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFramebufferIncompleteWithoutStorage(t *testing.T) {
	d := New(GL21, 1, 1)
	tex := d.GenTexture()
	fbo := d.GenFramebuffer()
	d.BindFramebuffer(driver.Framebuffer, fbo)
	d.FramebufferTexture2D(driver.Framebuffer, driver.ColorAttachment0, driver.Texture2D, tex, 0)
	if s := d.CheckFramebufferStatus(driver.Framebuffer); s == driver.FramebufferComplete {
		t.Error("framebuffer without texture storage reported complete")
	}
	d.DeleteFramebuffer(fbo)
	if d.BoundFramebuffer() != 0 || d.FramebufferCount() != 0 {
		t.Errorf("after delete: bound %d, count %d", d.BoundFramebuffer(), d.FramebufferCount())
	}
}

const (
	testVertex = `attribute vec2 gpu_Vertex;
attribute vec4 gpu_Color;
uniform mat4 gpu_ModelViewProjectionMatrix;
void main() {}`
	testFragment = `uniform sampler2D tex;
void main() {}`
)

func compile(d *Driver, stage driver.Enum, src string) uint32 {
	s := d.CreateShader(stage)
	d.ShaderSource(s, src)
	d.CompileShader(s)
	return s
}

func TestLinkAssignsLocations(t *testing.T) {
	d := New(GL21, 1, 1)
	vs := compile(d, driver.VertexShader, testVertex)
	fs := compile(d, driver.FragmentShader, testFragment)
	p := d.CreateProgram()
	d.AttachShader(p, vs)
	d.AttachShader(p, fs)
	d.LinkProgram(p)
	if d.GetProgrami(p, driver.LinkStatus) != 1 {
		t.Fatalf("link failed: %s", d.GetProgramInfoLog(p))
	}

	attribs := []struct {
		name string
		want int32
	}{
		{"gpu_Vertex", 0},
		{"gpu_Color", 1},
		{"gpu_TexCoord", -1},
	}
	for _, a := range attribs {
		if got := d.GetAttribLocation(p, a.name); got != a.want {
			t.Errorf("GetAttribLocation(%q) = %d, want %d", a.name, got, a.want)
		}
	}
	if got := d.GetUniformLocation(p, "tex"); got != 1 {
		t.Errorf("GetUniformLocation(tex) = %d, want 1", got)
	}

	d.UseProgram(p)
	d.Uniformfv(1, 1, []float32{0.5})
	got := make([]float32, 1)
	d.GetUniformfv(p, 1, got)
	if got[0] != 0.5 {
		t.Errorf("uniform = %v, want 0.5", got[0])
	}
}

func TestCompileAndLinkFailures(t *testing.T) {
	d := New(GL21, 1, 1)
	bad := compile(d, driver.VertexShader, "#error nope\nvoid main() {}")
	if d.GetShaderi(bad, driver.CompileStatus) != 0 || d.GetShaderInfoLog(bad) == "" {
		t.Error("#error source compiled")
	}
	noMain := compile(d, driver.FragmentShader, "uniform float x;")
	if d.GetShaderi(noMain, driver.CompileStatus) != 0 {
		t.Error("source without main compiled")
	}

	vs := compile(d, driver.VertexShader, testVertex)
	p := d.CreateProgram()
	d.AttachShader(p, vs)
	d.LinkProgram(p)
	if d.GetProgrami(p, driver.LinkStatus) != 0 {
		t.Error("program without fragment shader linked")
	}
}

func TestShaderBinaryNeedsSPIRV(t *testing.T) {
	spirv := []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 0, 0}
	d := New(GL21, 1, 1)
	s := d.CreateShader(driver.VertexShader)
	if err := d.ShaderBinary(s, driver.ShaderBinaryFormatSPIRV, spirv); err != driver.ErrUnsupported {
		t.Errorf("GL21 ShaderBinary err = %v, want ErrUnsupported", err)
	}

	d = New(Full, 1, 1)
	s = d.CreateShader(driver.VertexShader)
	if err := d.ShaderBinary(s, driver.ShaderBinaryFormatSPIRV, spirv); err != nil {
		t.Fatal(err)
	}
	if err := d.SpecializeShader(s, "main"); err != nil {
		t.Fatal(err)
	}
	if d.GetShaderi(s, driver.CompileStatus) != 1 || !d.ShaderIsBinary(s) {
		t.Error("specialized SPIR-V shader not compiled")
	}
}

func TestDrawRecordsState(t *testing.T) {
	d := New(GL21, 8, 8)
	tex := d.GenTexture()
	d.BindTexture(driver.Texture2D, tex)
	d.Enable(driver.Blend)
	d.BlendFunc(driver.SrcAlpha, driver.OneMinusSrcAlpha)
	d.DrawElements(driver.Triangles, make([]uint16, 6))
	d.DrawArrays(driver.Triangles, 0, 3)

	if len(d.Draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(d.Draws))
	}
	first := d.Draws[0]
	if !first.Indexed || first.Count != 6 || first.Texture != tex || !first.Blending {
		t.Errorf("first draw = %+v", first)
	}
	if first.Blend.SrcRGB != driver.SrcAlpha || first.Blend.DstAlpha != driver.OneMinusSrcAlpha {
		t.Errorf("blend = %+v", first.Blend)
	}
	if d.Draws[1].Indexed || d.Draws[1].Count != 3 {
		t.Errorf("second draw = %+v", d.Draws[1])
	}
	if d.CallCount("DrawElements") != 1 {
		t.Errorf("CallCount(DrawElements) = %d", d.CallCount("DrawElements"))
	}

	d.Reset()
	if len(d.Calls) != 0 || len(d.Draws) != 0 || d.BoundTexture() != tex {
		t.Error("Reset dropped GL state or kept logs")
	}
}
