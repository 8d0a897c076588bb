package driver

// Enum is an OpenGL enumerant.
type Enum uint32

// Capabilities and targets.
const (
	Texture2D           Enum = 0x0DE1
	Blend               Enum = 0x0BE2
	ScissorTest         Enum = 0x0C11
	Framebuffer         Enum = 0x8D40
	ColorAttachment0    Enum = 0x8CE0
	FramebufferComplete Enum = 0x8CD5
	ArrayBuffer         Enum = 0x8892
	ElementArrayBuffer  Enum = 0x8893
	UniformBuffer       Enum = 0x8A11
)

// Clear masks.
const (
	ColorBufferBit Enum = 0x4000
)

// Primitive modes.
const (
	Points        Enum = 0x0000
	Lines         Enum = 0x0001
	LineLoop      Enum = 0x0002
	LineStrip     Enum = 0x0003
	Triangles     Enum = 0x0004
	TriangleStrip Enum = 0x0005
	TriangleFan   Enum = 0x0006
	Quads         Enum = 0x0007
)

// Data types.
const (
	Byte          Enum = 0x1400
	UnsignedByte  Enum = 0x1401
	Short         Enum = 0x1402
	UnsignedShort Enum = 0x1403
	Int           Enum = 0x1404
	UnsignedInt   Enum = 0x1405
	Float         Enum = 0x1406
	Double        Enum = 0x140A
)

// Pixel formats.
const (
	Alpha Enum = 0x1906
	RGB   Enum = 0x1907
	RGBA  Enum = 0x1908
	BGR   Enum = 0x80E0
	BGRA  Enum = 0x80E1
	ABGR  Enum = 0x8000
)

// Texture parameters and values.
const (
	TextureMagFilter    Enum = 0x2800
	TextureMinFilter    Enum = 0x2801
	TextureWrapS        Enum = 0x2802
	TextureWrapT        Enum = 0x2803
	Nearest             Enum = 0x2600
	Linear              Enum = 0x2601
	LinearMipmapNearest Enum = 0x2701
	LinearMipmapLinear  Enum = 0x2703
	ClampToEdge         Enum = 0x812F
	Texture0            Enum = 0x84C0
	UnpackAlignment     Enum = 0x0CF5
	PackAlignment       Enum = 0x0D05
)

// Blend factors.
const (
	Zero             Enum = 0
	One              Enum = 1
	SrcColor         Enum = 0x0300
	OneMinusSrcColor Enum = 0x0301
	SrcAlpha         Enum = 0x0302
	OneMinusSrcAlpha Enum = 0x0303
	DstAlpha         Enum = 0x0304
	OneMinusDstAlpha Enum = 0x0305
	DstColor         Enum = 0x0306
	OneMinusDstColor Enum = 0x0307
)

// Blend equations.
const (
	FuncAdd             Enum = 0x8006
	Min                 Enum = 0x8007
	Max                 Enum = 0x8008
	FuncSubtract        Enum = 0x800A
	FuncReverseSubtract Enum = 0x800B
)

// Fixed-function matrix modes and client arrays.
const (
	ModelView         Enum = 0x1700
	Projection        Enum = 0x1701
	VertexArray       Enum = 0x8074
	ColorArray        Enum = 0x8076
	TextureCoordArray Enum = 0x8078
)

// Buffer usages.
const (
	StreamDraw  Enum = 0x88E0
	StaticDraw  Enum = 0x88E4
	DynamicDraw Enum = 0x88E8
)

// Shader stages and queries.
const (
	FragmentShader          Enum = 0x8B30
	VertexShader            Enum = 0x8B31
	GeometryShader          Enum = 0x8DD9
	CompileStatus           Enum = 0x8B81
	LinkStatus              Enum = 0x8B82
	ShaderBinaryFormatSPIRV Enum = 0x9551
)

// String and integer queries.
const (
	Vendor                 Enum = 0x1F00
	Renderer               Enum = 0x1F01
	Version                Enum = 0x1F02
	Extensions             Enum = 0x1F03
	ShadingLanguageVersion Enum = 0x8B8C
	MaxTextureSize         Enum = 0x0D33
	FramebufferBinding     Enum = 0x8CA6
)
