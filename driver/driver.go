package driver

import "errors"

// ErrUnsupported is returned by drivers for entry points the underlying GL
// version does not provide.
var ErrUnsupported = errors.New("driver: unsupported operation")

// Driver is the GL entry-point surface used by the engine.
//
// Method names follow the GL functions they wrap. Object creation returns the
// new name directly (0 on failure). Slices passed to pointer-style entry
// points (client arrays, index lists) must stay alive until the call returns;
// drivers never retain them.
//
// All methods must be called from the goroutine that owns the current GL
// context.
type Driver interface {
	// Queries.
	GetString(name Enum) string
	GetInteger(name Enum) int32
	ExtensionList() []string

	// Global state.
	Enable(capability Enum)
	Disable(capability Enum)
	Viewport(x, y, width, height int32)
	Scissor(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	LineWidth(width float32)
	PixelStorei(pname Enum, param int32)

	// Textures.
	GenTexture() uint32
	DeleteTexture(texture uint32)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, texture uint32)
	TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, xtype Enum, pixels []byte)
	TexSubImage2D(target Enum, level, x, y, width, height int32, format, xtype Enum, pixels []byte)
	TexParameteri(target, pname Enum, param int32)
	GenerateMipmap(target Enum)
	ReadPixels(x, y, width, height int32, format, xtype Enum, dst []byte)

	// Framebuffer objects.
	GenFramebuffer() uint32
	DeleteFramebuffer(fbo uint32)
	BindFramebuffer(target Enum, fbo uint32)
	FramebufferTexture2D(target, attachment, texTarget Enum, texture uint32, level int32)
	CheckFramebufferStatus(target Enum) Enum

	// Blending.
	BlendFunc(src, dst Enum)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha Enum)
	BlendEquation(mode Enum)

	// Fixed function pipeline.
	Color4f(r, g, b, a float32)
	MatrixMode(mode Enum)
	LoadMatrixf(m *[16]float32)
	Begin(mode Enum)
	End()
	TexCoord2f(s, t float32)
	Color4fv(c *[4]float32)
	Vertex3f(x, y, z float32)

	// Client-side arrays.
	EnableClientState(array Enum)
	DisableClientState(array Enum)
	VertexPointer(size int32, xtype Enum, stride int32, data []float32)
	TexCoordPointer(size int32, xtype Enum, stride int32, data []float32)
	ColorPointer(size int32, xtype Enum, stride int32, data []float32)
	DrawElements(mode Enum, indices []uint16)
	DrawArrays(mode Enum, first, count int32)

	// Buffer objects.
	GenBuffer() uint32
	DeleteBuffer(buffer uint32)
	BindBuffer(target Enum, buffer uint32)
	BufferData(target Enum, size int, data []byte, usage Enum)
	BufferSubData(target Enum, offset int, data []byte)
	BindBufferBase(target Enum, index, buffer uint32)
	DrawElementsBuffer(mode Enum, count int32, offset int)
	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)

	// Generic vertex attributes.
	EnableVertexAttribArray(location uint32)
	DisableVertexAttribArray(location uint32)
	VertexAttribPointer(location uint32, size int32, xtype Enum, normalized bool, stride int32, offset int)
	VertexAttribfv(location uint32, v []float32)
	VertexAttribiv(location uint32, v []int32)
	VertexAttribuiv(location uint32, v []uint32)

	// Shaders and programs.
	CreateShader(stage Enum) uint32
	ShaderSource(shader uint32, source string)
	ShaderBinary(shader uint32, format Enum, binary []byte) error
	SpecializeShader(shader uint32, entryPoint string) error
	CompileShader(shader uint32)
	GetShaderi(shader uint32, pname Enum) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgrami(program uint32, pname Enum) int32
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	GetAttribLocation(program uint32, name string) int32
	GetUniformLocation(program uint32, name string) int32

	// Uniforms. size is the number of components per value (1..4); the
	// number of values is len(v)/size.
	Uniformiv(location int32, size int, v []int32)
	Uniformuiv(location int32, size int, v []uint32)
	Uniformfv(location int32, size int, v []float32)
	UniformMatrixfv(location int32, rows, cols int, transpose bool, v []float32)
	GetUniformiv(program uint32, location int32, dst []int32)
	GetUniformuiv(program uint32, location int32, dst []uint32)
	GetUniformfv(program uint32, location int32, dst []float32)
}
