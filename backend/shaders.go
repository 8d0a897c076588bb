package backend

import _ "embed"

// Default shader sources. The GLSL bodies carry no #version line; Sources
// prepends the header for the target language.
var (
	//go:embed shaders/textured.vert
	texturedVert string

	//go:embed shaders/textured.frag
	texturedFrag string

	//go:embed shaders/untextured.vert
	untexturedVert string

	//go:embed shaders/untextured.frag
	untexturedFrag string

	// SpriteWGSL is a WGSL sprite program following the batch vertex
	// layout: @location(0) position, @location(1) texcoord, @location(2)
	// color, and the model-view-projection matrix in the uniform block at
	// @group(0) @binding(0). Entry points are vs_main and fs_main.
	//
	//go:embed shaders/sprite.wgsl
	SpriteWGSL string
)

// Attribute and uniform names used by the default programs.
const (
	AttribPosition = "gpu_Vertex"
	AttribTexCoord = "gpu_TexCoord"
	AttribColor    = "gpu_Color"
	UniformMVP     = "gpu_ModelViewProjectionMatrix"
)

// Source is a vertex/fragment source pair.
type Source struct {
	Vertex   string
	Fragment string
}

const (
	desktopHeader = "#version 120\n\n"
	esHeader      = "#version 100\n\n#ifdef GL_FRAGMENT_PRECISION_HIGH\nprecision highp float;\n#else\nprecision mediump float;\n#endif\n\n"
)

// Sources returns the default textured and untextured programs for desktop
// GLSL or GLSL ES.
func Sources(es bool) (textured, untextured Source) {
	h := desktopHeader
	if es {
		h = esHeader
	}
	textured = Source{Vertex: h + texturedVert, Fragment: h + texturedFrag}
	untextured = Source{Vertex: h + untexturedVert, Fragment: h + untexturedFrag}
	return textured, untextured
}
