package driver

import "testing"

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in           string
		major, minor int
		es           bool
	}{
		{"4.6.0 NVIDIA 535.54.03", 4, 6, false},
		{"2.1 Mesa 23.0.4", 2, 1, false},
		{"1.1", 1, 1, false},
		{"OpenGL ES 3.2 build 1.13", 3, 2, true},
		{"OpenGL ES-CM 1.1", 1, 1, true},
		{"OpenGL ES 2.0", 2, 0, true},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			major, minor, es := ParseVersion(tt.in)
			if major != tt.major || minor != tt.minor || es != tt.es {
				t.Errorf("ParseVersion(%q) = %d.%d es=%v, want %d.%d es=%v",
					tt.in, major, minor, es, tt.major, tt.minor, tt.es)
			}
		})
	}
}

func TestFeatures(t *testing.T) {
	tests := []struct {
		name         string
		major, minor int
		es           bool
		ext          []string
		want         Feature
		wantNot      Feature
	}{
		{
			name: "gl 1.1 bare", major: 1, minor: 1,
			want:    FeatureFixedFunction,
			wantNot: FeatureRenderTargets | FeatureBlendEquations | FeatureBlendFuncSeparate | FeatureVertexShader,
		},
		{
			name: "gl 1.1 with fbo ext", major: 1, minor: 1,
			ext:  []string{"GL_EXT_framebuffer_object", "GL_EXT_blend_subtract"},
			want: FeatureRenderTargets | FeatureBlendEquations,
		},
		{
			name: "gl 2.1", major: 2, minor: 1,
			want:    FeatureNonPowerOfTwo | FeatureBlendFuncSeparate | FeatureBasicShaders | FeatureBufferObjects | FeatureFixedFunction,
			wantNot: FeatureGeometryShader | FeatureSPIRV,
		},
		{
			name: "gl 3.3 core", major: 3, minor: 3,
			want:    FeatureRenderTargets | FeatureGeometryShader | FeatureVertexArrayObjects,
			wantNot: FeatureFixedFunction,
		},
		{
			name: "gl 4.6 compat", major: 4, minor: 6,
			ext:  []string{"GL_ARB_compatibility"},
			want: FeatureSPIRV | FeatureFixedFunction,
		},
		{
			name: "es 2.0", major: 2, es: true,
			want:    FeatureRenderTargets | FeatureBasicShaders | FeatureBufferObjects,
			wantNot: FeatureFixedFunction | FeatureNonPowerOfTwo,
		},
		{
			name: "es 1.1", major: 1, minor: 1, es: true,
			want:    FeatureFixedFunction | FeatureBufferObjects,
			wantNot: FeatureVertexShader,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := make(map[string]bool)
			for _, e := range tt.ext {
				ext[e] = true
			}
			got := features(tt.major, tt.minor, tt.es, ext)
			if !got.Has(tt.want) {
				t.Errorf("features = %v, missing %v", got, tt.want&^got)
			}
			if got&tt.wantNot != 0 {
				t.Errorf("features = %v, unexpected %v", got, got&tt.wantNot)
			}
		})
	}
}

func TestFeatureString(t *testing.T) {
	if got := Feature(0).String(); got != "none" {
		t.Errorf("String() = %q, want none", got)
	}
	if got := (FeatureRenderTargets | FeatureSPIRV).String(); got != "render-targets|spirv" {
		t.Errorf("String() = %q", got)
	}
}

func TestTypeSize(t *testing.T) {
	tests := []struct {
		t    Enum
		want int
	}{
		{UnsignedByte, 1}, {Short, 2}, {Float, 4}, {Int, 4}, {Double, 8}, {RGBA, 0},
	}
	for _, tt := range tests {
		if got := TypeSize(tt.t); got != tt.want {
			t.Errorf("TypeSize(%#x) = %d, want %d", tt.t, got, tt.want)
		}
	}
}

func TestFloat32Bytes(t *testing.T) {
	if Float32Bytes(nil) != nil {
		t.Error("Float32Bytes(nil) should be nil")
	}
	b := Float32Bytes([]float32{1, 2, 3})
	if len(b) != 12 {
		t.Errorf("len = %d, want 12", len(b))
	}
	if got := len(Uint16Bytes([]uint16{1, 2, 3})); got != 6 {
		t.Errorf("Uint16Bytes len = %d, want 6", got)
	}
}

func TestParseFeature(t *testing.T) {
	for _, name := range []string{"render-targets", "spirv", "vao", "npot"} {
		f, ok := ParseFeature(name)
		if !ok || f.String() != name {
			t.Errorf("ParseFeature(%q) = %v, %v", name, f, ok)
		}
	}
	if _, ok := ParseFeature("warp-drive"); ok {
		t.Error("unknown name parsed")
	}
}
