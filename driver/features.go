package driver

import (
	"strconv"
	"strings"
)

// Feature is a single capability bit.
type Feature uint32

// Features is a set of capabilities probed from a driver.
type Features = Feature

// Capability bits.
const (
	FeatureNonPowerOfTwo Feature = 1 << iota
	FeatureRenderTargets
	FeatureBlendEquations
	FeatureBlendFuncSeparate
	FeatureGLBGR
	FeatureGLBGRA
	FeatureGLABGR
	FeatureVertexShader
	FeatureFragmentShader
	FeatureGeometryShader
	FeatureBufferObjects
	FeatureVertexArrayObjects
	FeatureFixedFunction
	FeatureClientArrays
	FeatureSPIRV
)

// FeatureBasicShaders is the set needed to run the default shader programs.
const FeatureBasicShaders = FeatureVertexShader | FeatureFragmentShader

var featureNames = []struct {
	f    Feature
	name string
}{
	{FeatureNonPowerOfTwo, "npot"},
	{FeatureRenderTargets, "render-targets"},
	{FeatureBlendEquations, "blend-equations"},
	{FeatureBlendFuncSeparate, "blend-func-separate"},
	{FeatureGLBGR, "bgr"},
	{FeatureGLBGRA, "bgra"},
	{FeatureGLABGR, "abgr"},
	{FeatureVertexShader, "vertex-shader"},
	{FeatureFragmentShader, "fragment-shader"},
	{FeatureGeometryShader, "geometry-shader"},
	{FeatureBufferObjects, "buffer-objects"},
	{FeatureVertexArrayObjects, "vao"},
	{FeatureFixedFunction, "fixed-function"},
	{FeatureClientArrays, "client-arrays"},
	{FeatureSPIRV, "spirv"},
}

// Has reports whether every bit in want is present.
func (f Feature) Has(want Feature) bool { return f&want == want }

// String lists the set bits by name.
func (f Feature) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for _, n := range featureNames {
		if f&n.f != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// ParseFeature returns the feature with the given String name.
func ParseFeature(name string) (Feature, bool) {
	for _, n := range featureNames {
		if n.name == name {
			return n.f, true
		}
	}
	return 0, false
}

// Info describes a probed driver.
type Info struct {
	Vendor         string
	Renderer       string
	Major, Minor   int
	ES             bool
	Features       Features
	MaxTextureSize int
	// IntelVendor is set for drivers that need an empty Begin/End pair
	// before generic attribute 0 updates take effect.
	IntelVendor bool
}

// ParseVersion extracts the GL version from a GL_VERSION string such as
// "4.6.0 NVIDIA 535.54", "2.1 Mesa 23.0" or "OpenGL ES 3.2 build".
func ParseVersion(s string) (major, minor int, es bool) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "OpenGL ES"); ok {
		es = true
		// "OpenGL ES-CM 1.1" and "OpenGL ES-CL 1.1" carry a profile suffix.
		rest = strings.TrimPrefix(rest, "-CM")
		rest = strings.TrimPrefix(rest, "-CL")
		s = strings.TrimSpace(rest)
	}
	field, _, _ := strings.Cut(s, " ")
	parts := strings.Split(field, ".")
	if len(parts) >= 1 {
		major, _ = strconv.Atoi(parts[0])
	}
	if len(parts) >= 2 {
		minor, _ = strconv.Atoi(parts[1])
	}
	return major, minor, es
}

// Probe queries the driver's version, vendor and extension strings and
// derives the feature set.
func Probe(d Driver) Info {
	info := Info{
		Vendor:         d.GetString(Vendor),
		Renderer:       d.GetString(Renderer),
		MaxTextureSize: int(d.GetInteger(MaxTextureSize)),
	}
	info.Major, info.Minor, info.ES = ParseVersion(d.GetString(Version))
	info.IntelVendor = strings.Contains(info.Vendor, "Intel")

	exts := make(map[string]bool)
	for _, e := range d.ExtensionList() {
		exts[e] = true
	}
	info.Features = features(info.Major, info.Minor, info.ES, exts)
	return info
}

func features(major, minor int, es bool, ext map[string]bool) Features {
	at := func(ma, mi int) bool { return major > ma || (major == ma && minor >= mi) }
	var f Features
	set := func(cond bool, bit Feature) {
		if cond {
			f |= bit
		}
	}

	if es {
		set(at(3, 0) || ext["GL_OES_texture_npot"] || ext["GL_ARB_texture_non_power_of_two"], FeatureNonPowerOfTwo)
		set(at(2, 0) || ext["GL_OES_framebuffer_object"], FeatureRenderTargets)
		set(at(2, 0) || ext["GL_OES_blend_subtract"], FeatureBlendEquations)
		set(at(2, 0) || ext["GL_OES_blend_func_separate"], FeatureBlendFuncSeparate)
		set(ext["GL_EXT_texture_format_BGRA8888"], FeatureGLBGRA)
		set(at(2, 0), FeatureVertexShader|FeatureFragmentShader)
		set(at(3, 2) || ext["GL_EXT_geometry_shader"], FeatureGeometryShader)
		set(at(1, 1), FeatureBufferObjects)
		set(at(3, 0) || ext["GL_OES_vertex_array_object"], FeatureVertexArrayObjects)
		set(major == 1, FeatureFixedFunction|FeatureClientArrays)
	} else {
		set(at(2, 0) || ext["GL_ARB_texture_non_power_of_two"], FeatureNonPowerOfTwo)
		set(at(3, 0) || ext["GL_EXT_framebuffer_object"] || ext["GL_ARB_framebuffer_object"], FeatureRenderTargets)
		set(at(1, 4) || ext["GL_EXT_blend_subtract"], FeatureBlendEquations)
		set(at(1, 4) || ext["GL_EXT_blend_func_separate"], FeatureBlendFuncSeparate)
		set(at(1, 2), FeatureGLBGR|FeatureGLBGRA)
		set(at(2, 0) || ext["GL_ARB_vertex_shader"], FeatureVertexShader)
		set(at(2, 0) || ext["GL_ARB_fragment_shader"], FeatureFragmentShader)
		set(at(3, 2) || ext["GL_ARB_geometry_shader4"], FeatureGeometryShader)
		set(at(1, 5) || ext["GL_ARB_vertex_buffer_object"], FeatureBufferObjects)
		set(at(3, 0) || ext["GL_ARB_vertex_array_object"], FeatureVertexArrayObjects)
		fixed := !at(3, 1) || ext["GL_ARB_compatibility"]
		set(fixed, FeatureFixedFunction)
		set(fixed && at(1, 1), FeatureClientArrays)
		set(at(4, 6) || ext["GL_ARB_gl_spirv"], FeatureSPIRV)
	}
	set(ext["GL_EXT_abgr"], FeatureGLABGR)
	return f
}
