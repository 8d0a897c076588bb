package gl21

import (
	"slices"
	"testing"

	"github.com/gogpu/blit/driver"
)

func TestClampVersion(t *testing.T) {
	tests := []struct {
		in        string
		wantMajor int
		wantMinor int
	}{
		{"2.1 Mesa 23.0.4", 2, 1},
		{"1.5.0", 1, 5},
		{"4.6.0 NVIDIA 535.54", 2, 1},
		{"3.3 (Compatibility Profile) Mesa 24.1", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			major, minor, es := driver.ParseVersion(clampVersion(tt.in))
			if major != tt.wantMajor || minor != tt.wantMinor || es {
				t.Errorf("clampVersion(%q) parses as %d.%d es=%v", tt.in, major, minor, es)
			}
		})
	}
}

func TestFilterExtensions(t *testing.T) {
	got := filterExtensions([]string{
		"GL_EXT_framebuffer_object",
		"GL_ARB_gl_spirv",
		"GL_ARB_vertex_array_object",
		"GL_EXT_abgr",
	})
	want := []string{"GL_EXT_framebuffer_object", "GL_EXT_abgr"}
	if !slices.Equal(got, want) {
		t.Errorf("filterExtensions = %v, want %v", got, want)
	}
}
