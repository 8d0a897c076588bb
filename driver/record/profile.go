package record

// Profile describes the GL implementation a recording driver pretends to be.
type Profile struct {
	Version    string
	Vendor     string
	Renderer   string
	Extensions []string
}

// Built-in profiles covering the capability combinations the engine
// degrades across.
var (
	// Full is a 4.6 compatibility context: every feature, including SPIR-V
	// shader ingestion and fixed-function entry points.
	Full = Profile{
		Version:    "4.6.0 Recorder",
		Vendor:     "Recorder",
		Renderer:   "record",
		Extensions: []string{"GL_ARB_compatibility", "GL_EXT_abgr"},
	}

	// Core33 is a 3.3 core context without fixed-function entry points.
	Core33 = Profile{Version: "3.3.0 Recorder", Vendor: "Recorder", Renderer: "record"}

	// GL21 is a 2.1 context with framebuffer objects through the EXT path.
	GL21 = Profile{
		Version:    "2.1 Recorder",
		Vendor:     "Recorder",
		Renderer:   "record",
		Extensions: []string{"GL_EXT_framebuffer_object"},
	}

	// Minimal is a bare 1.1 context: immediate mode and client arrays only.
	Minimal = Profile{Version: "1.1 Recorder", Vendor: "Recorder", Renderer: "record"}

	// NoSeparateBlend has blend equations but no separate blend functions.
	NoSeparateBlend = Profile{
		Version:    "1.3 Recorder",
		Vendor:     "Recorder",
		Renderer:   "record",
		Extensions: []string{"GL_EXT_blend_subtract", "GL_EXT_framebuffer_object"},
	}

	// NoBlendEquations has separate blend functions but no blend equations.
	NoBlendEquations = Profile{
		Version:    "1.3 Recorder",
		Vendor:     "Recorder",
		Renderer:   "record",
		Extensions: []string{"GL_EXT_blend_func_separate", "GL_EXT_framebuffer_object"},
	}

	// NoRenderTargets is a 2.1 context without framebuffer objects.
	NoRenderTargets = Profile{Version: "2.1 Recorder", Vendor: "Recorder", Renderer: "record"}

	// Intel is a 2.1 context reporting the Intel vendor string.
	Intel = Profile{
		Version:    "2.1 Recorder",
		Vendor:     "Intel Open Source Technology Center",
		Renderer:   "record",
		Extensions: []string{"GL_EXT_framebuffer_object"},
	}
)
