// Package gl21 implements driver.Driver on a desktop OpenGL 2.1
// compatibility context through go-gl.
//
// The driver reports itself as GL 2.1 even when the context is newer, so
// feature probing never selects entry points the 2.1 bindings lack (vertex
// array objects, SPIR-V, uniform blocks). Framebuffer objects come from
// GL_EXT_framebuffer_object.
//
// A context must be current on the calling goroutine before [New] and for
// every later call.
package gl21

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v2.1/gl"

	"github.com/gogpu/blit/driver"
)

// Driver is a driver.Driver backed by the current OpenGL context.
type Driver struct {
	version string
	exts    []string
}

var _ driver.Driver = (*Driver)(nil)

// New loads the GL function pointers for the current context.
func New() (*Driver, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl21: init: %w", err)
	}
	d := &Driver{}
	d.version = clampVersion(gl.GoStr(gl.GetString(gl.VERSION)))
	d.exts = filterExtensions(strings.Fields(gl.GoStr(gl.GetString(gl.EXTENSIONS))))
	return d, nil
}

// hiddenExtensions names extensions whose entry points these bindings do
// not load.
var hiddenExtensions = map[string]bool{
	"GL_ARB_gl_spirv":              true,
	"GL_ARB_vertex_array_object":   true,
	"GL_ARB_framebuffer_object":    true,
	"GL_ARB_uniform_buffer_object": true,
}

func filterExtensions(all []string) []string {
	out := all[:0]
	for _, e := range all {
		if !hiddenExtensions[e] {
			out = append(out, e)
		}
	}
	return out
}

// clampVersion rewrites GL_VERSION strings above 2.1 as "2.1 (<original>)".
func clampVersion(v string) string {
	major, minor, es := driver.ParseVersion(v)
	if es || major < 2 || (major == 2 && minor <= 1) {
		return v
	}
	return "2.1 (" + v + ")"
}

func (d *Driver) GetString(name driver.Enum) string {
	if name == driver.Version {
		return d.version
	}
	return gl.GoStr(gl.GetString(uint32(name)))
}

func (d *Driver) GetInteger(name driver.Enum) int32 {
	var v int32
	gl.GetIntegerv(uint32(name), &v)
	return v
}

func (d *Driver) ExtensionList() []string { return d.exts }

func (d *Driver) Enable(c driver.Enum) { gl.Enable(uint32(c)) }
func (d *Driver) Disable(c driver.Enum) { gl.Disable(uint32(c)) }

func (d *Driver) Viewport(x, y, w, h int32) { gl.Viewport(x, y, w, h) }
func (d *Driver) Scissor(x, y, w, h int32) { gl.Scissor(x, y, w, h) }

func (d *Driver) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (d *Driver) Clear(mask driver.Enum) { gl.Clear(uint32(mask)) }
func (d *Driver) LineWidth(w float32) { gl.LineWidth(w) }

func (d *Driver) PixelStorei(pname driver.Enum, param int32) { gl.PixelStorei(uint32(pname), param) }

// Textures.

func (d *Driver) GenTexture() uint32 {
	var t uint32
	gl.GenTextures(1, &t)
	return t
}

func (d *Driver) DeleteTexture(t uint32) { gl.DeleteTextures(1, &t) }
func (d *Driver) ActiveTexture(u driver.Enum) { gl.ActiveTexture(uint32(u)) }
func (d *Driver) GenerateMipmap(t driver.Enum) { gl.GenerateMipmapEXT(uint32(t)) }

func (d *Driver) BindTexture(target driver.Enum, t uint32) { gl.BindTexture(uint32(target), t) }

func (d *Driver) TexImage2D(target driver.Enum, level int32, internalFormat driver.Enum, w, h int32, format, xtype driver.Enum, pixels []byte) {
	gl.TexImage2D(uint32(target), level, int32(internalFormat), w, h, 0, uint32(format), uint32(xtype), bytesPtr(pixels))
}

func (d *Driver) TexSubImage2D(target driver.Enum, level, x, y, w, h int32, format, xtype driver.Enum, pixels []byte) {
	gl.TexSubImage2D(uint32(target), level, x, y, w, h, uint32(format), uint32(xtype), bytesPtr(pixels))
}

func (d *Driver) TexParameteri(target, pname driver.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (d *Driver) ReadPixels(x, y, w, h int32, format, xtype driver.Enum, dst []byte) {
	gl.ReadPixels(x, y, w, h, uint32(format), uint32(xtype), bytesPtr(dst))
}

// Framebuffer objects.

func (d *Driver) GenFramebuffer() uint32 {
	var f uint32
	gl.GenFramebuffersEXT(1, &f)
	return f
}

func (d *Driver) DeleteFramebuffer(f uint32) { gl.DeleteFramebuffersEXT(1, &f) }

func (d *Driver) BindFramebuffer(target driver.Enum, f uint32) {
	gl.BindFramebufferEXT(uint32(target), f)
}

func (d *Driver) FramebufferTexture2D(target, attachment, texTarget driver.Enum, t uint32, level int32) {
	gl.FramebufferTexture2DEXT(uint32(target), uint32(attachment), uint32(texTarget), t, level)
}

func (d *Driver) CheckFramebufferStatus(target driver.Enum) driver.Enum {
	return driver.Enum(gl.CheckFramebufferStatusEXT(uint32(target)))
}

// Blending.

func (d *Driver) BlendFunc(src, dst driver.Enum) { gl.BlendFunc(uint32(src), uint32(dst)) }

func (d *Driver) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha driver.Enum) {
	gl.BlendFuncSeparate(uint32(srcRGB), uint32(dstRGB), uint32(srcAlpha), uint32(dstAlpha))
}

func (d *Driver) BlendEquation(mode driver.Enum) { gl.BlendEquation(uint32(mode)) }

// Fixed function.

func (d *Driver) Color4f(r, g, b, a float32) { gl.Color4f(r, g, b, a) }
func (d *Driver) MatrixMode(m driver.Enum) { gl.MatrixMode(uint32(m)) }
func (d *Driver) LoadMatrixf(m *[16]float32) { gl.LoadMatrixf(&m[0]) }
func (d *Driver) Begin(mode driver.Enum) { gl.Begin(uint32(mode)) }
func (d *Driver) End() { gl.End() }
func (d *Driver) TexCoord2f(s, t float32) { gl.TexCoord2f(s, t) }
func (d *Driver) Color4fv(c *[4]float32) { gl.Color4fv(&c[0]) }
func (d *Driver) Vertex3f(x, y, z float32) { gl.Vertex3f(x, y, z) }
func (d *Driver) EnableClientState(a driver.Enum) { gl.EnableClientState(uint32(a)) }
func (d *Driver) DisableClientState(a driver.Enum) { gl.DisableClientState(uint32(a)) }

// Client arrays. The pointers stay valid only until the draw call that
// consumes them, which the engine issues before its slices change.

func (d *Driver) VertexPointer(size int32, xtype driver.Enum, stride int32, data []float32) {
	gl.VertexPointer(size, uint32(xtype), stride, floatsPtr(data))
}

func (d *Driver) TexCoordPointer(size int32, xtype driver.Enum, stride int32, data []float32) {
	gl.TexCoordPointer(size, uint32(xtype), stride, floatsPtr(data))
}

func (d *Driver) ColorPointer(size int32, xtype driver.Enum, stride int32, data []float32) {
	gl.ColorPointer(size, uint32(xtype), stride, floatsPtr(data))
}

func (d *Driver) DrawElements(mode driver.Enum, indices []uint16) {
	if len(indices) == 0 {
		return
	}
	gl.DrawElements(uint32(mode), int32(len(indices)), gl.UNSIGNED_SHORT, gl.Ptr(indices))
}

func (d *Driver) DrawArrays(mode driver.Enum, first, count int32) {
	gl.DrawArrays(uint32(mode), first, count)
}

// Buffer objects.

func (d *Driver) GenBuffer() uint32 {
	var b uint32
	gl.GenBuffers(1, &b)
	return b
}

func (d *Driver) DeleteBuffer(b uint32) { gl.DeleteBuffers(1, &b) }

func (d *Driver) BindBuffer(target driver.Enum, b uint32) { gl.BindBuffer(uint32(target), b) }

func (d *Driver) BufferData(target driver.Enum, size int, data []byte, usage driver.Enum) {
	gl.BufferData(uint32(target), size, bytesPtr(data), uint32(usage))
}

func (d *Driver) BufferSubData(target driver.Enum, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(uint32(target), offset, len(data), gl.Ptr(data))
}

// BindBufferBase is a no-op: uniform blocks are only declared by SPIR-V
// programs, which this driver rejects.
func (d *Driver) BindBufferBase(driver.Enum, uint32, uint32) {}

func (d *Driver) DrawElementsBuffer(mode driver.Enum, count int32, offset int) {
	gl.DrawElements(uint32(mode), count, gl.UNSIGNED_SHORT, gl.PtrOffset(offset))
}

func (d *Driver) GenVertexArray() uint32 { return 0 }
func (d *Driver) BindVertexArray(uint32) {}
func (d *Driver) DeleteVertexArray(uint32) {}

// Generic vertex attributes.

func (d *Driver) EnableVertexAttribArray(loc uint32) { gl.EnableVertexAttribArray(loc) }
func (d *Driver) DisableVertexAttribArray(loc uint32) { gl.DisableVertexAttribArray(loc) }

func (d *Driver) VertexAttribPointer(loc uint32, size int32, xtype driver.Enum, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(loc, size, uint32(xtype), normalized, stride, gl.PtrOffset(offset))
}

func (d *Driver) VertexAttribfv(loc uint32, v []float32) {
	switch len(v) {
	case 1:
		gl.VertexAttrib1fv(loc, &v[0])
	case 2:
		gl.VertexAttrib2fv(loc, &v[0])
	case 3:
		gl.VertexAttrib3fv(loc, &v[0])
	case 4:
		gl.VertexAttrib4fv(loc, &v[0])
	}
}

// VertexAttribiv sets a float attribute from integers; integer attributes
// need GL 3.0.
func (d *Driver) VertexAttribiv(loc uint32, v []int32) {
	if len(v) == 0 || len(v) > 4 {
		return
	}
	full := [4]int32{0, 0, 0, 1}
	copy(full[:], v)
	gl.VertexAttrib4iv(loc, &full[0])
}

func (d *Driver) VertexAttribuiv(loc uint32, v []uint32) {
	if len(v) == 0 || len(v) > 4 {
		return
	}
	full := [4]uint32{0, 0, 0, 1}
	copy(full[:], v)
	gl.VertexAttrib4uiv(loc, &full[0])
}

// Shaders and programs.

func (d *Driver) CreateShader(stage driver.Enum) uint32 { return gl.CreateShader(uint32(stage)) }

func (d *Driver) ShaderSource(s uint32, source string) {
	csrc, free := gl.Strs(source + "\x00")
	gl.ShaderSource(s, 1, csrc, nil)
	free()
}

func (d *Driver) ShaderBinary(uint32, driver.Enum, []byte) error {
	return fmt.Errorf("gl21: shader binaries: %w", driver.ErrUnsupported)
}

func (d *Driver) SpecializeShader(uint32, string) error {
	return fmt.Errorf("gl21: shader specialization: %w", driver.ErrUnsupported)
}

func (d *Driver) CompileShader(s uint32) { gl.CompileShader(s) }

func (d *Driver) GetShaderi(s uint32, pname driver.Enum) int32 {
	var v int32
	gl.GetShaderiv(s, uint32(pname), &v)
	return v
}

func (d *Driver) GetShaderInfoLog(s uint32) string {
	var n int32
	gl.GetShaderiv(s, gl.INFO_LOG_LENGTH, &n)
	if n <= 1 {
		return ""
	}
	buf := make([]byte, n)
	gl.GetShaderInfoLog(s, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (d *Driver) DeleteShader(s uint32) { gl.DeleteShader(s) }
func (d *Driver) CreateProgram() uint32 { return gl.CreateProgram() }
func (d *Driver) AttachShader(p, s uint32) { gl.AttachShader(p, s) }
func (d *Driver) DetachShader(p, s uint32) { gl.DetachShader(p, s) }
func (d *Driver) LinkProgram(p uint32) { gl.LinkProgram(p) }
func (d *Driver) UseProgram(p uint32) { gl.UseProgram(p) }
func (d *Driver) DeleteProgram(p uint32) { gl.DeleteProgram(p) }

func (d *Driver) GetProgrami(p uint32, pname driver.Enum) int32 {
	var v int32
	gl.GetProgramiv(p, uint32(pname), &v)
	return v
}

func (d *Driver) GetProgramInfoLog(p uint32) string {
	var n int32
	gl.GetProgramiv(p, gl.INFO_LOG_LENGTH, &n)
	if n <= 1 {
		return ""
	}
	buf := make([]byte, n)
	gl.GetProgramInfoLog(p, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (d *Driver) GetAttribLocation(p uint32, name string) int32 {
	return gl.GetAttribLocation(p, gl.Str(name+"\x00"))
}

func (d *Driver) GetUniformLocation(p uint32, name string) int32 {
	return gl.GetUniformLocation(p, gl.Str(name+"\x00"))
}

// Uniforms.

func (d *Driver) Uniformiv(loc int32, size int, v []int32) {
	if len(v) == 0 || size < 1 || size > 4 {
		return
	}
	n := int32(len(v) / size)
	switch size {
	case 1:
		gl.Uniform1iv(loc, n, &v[0])
	case 2:
		gl.Uniform2iv(loc, n, &v[0])
	case 3:
		gl.Uniform3iv(loc, n, &v[0])
	case 4:
		gl.Uniform4iv(loc, n, &v[0])
	}
}

// Uniformuiv uploads through the signed entry points; GLSL 1.20 has no
// unsigned types.
func (d *Driver) Uniformuiv(loc int32, size int, v []uint32) {
	iv := make([]int32, len(v))
	for i, x := range v {
		iv[i] = int32(x) //nolint:gosec // bit pattern preserved
	}
	d.Uniformiv(loc, size, iv)
}

func (d *Driver) Uniformfv(loc int32, size int, v []float32) {
	if len(v) == 0 || size < 1 || size > 4 {
		return
	}
	n := int32(len(v) / size)
	switch size {
	case 1:
		gl.Uniform1fv(loc, n, &v[0])
	case 2:
		gl.Uniform2fv(loc, n, &v[0])
	case 3:
		gl.Uniform3fv(loc, n, &v[0])
	case 4:
		gl.Uniform4fv(loc, n, &v[0])
	}
}

func (d *Driver) UniformMatrixfv(loc int32, rows, cols int, transpose bool, v []float32) {
	if len(v) == 0 || rows*cols == 0 {
		return
	}
	n := int32(len(v) / (rows * cols))
	p := &v[0]
	// GL names matrices columns-by-rows.
	switch [2]int{cols, rows} {
	case [2]int{2, 2}:
		gl.UniformMatrix2fv(loc, n, transpose, p)
	case [2]int{3, 3}:
		gl.UniformMatrix3fv(loc, n, transpose, p)
	case [2]int{4, 4}:
		gl.UniformMatrix4fv(loc, n, transpose, p)
	case [2]int{2, 3}:
		gl.UniformMatrix2x3fv(loc, n, transpose, p)
	case [2]int{3, 2}:
		gl.UniformMatrix3x2fv(loc, n, transpose, p)
	case [2]int{2, 4}:
		gl.UniformMatrix2x4fv(loc, n, transpose, p)
	case [2]int{4, 2}:
		gl.UniformMatrix4x2fv(loc, n, transpose, p)
	case [2]int{3, 4}:
		gl.UniformMatrix3x4fv(loc, n, transpose, p)
	case [2]int{4, 3}:
		gl.UniformMatrix4x3fv(loc, n, transpose, p)
	}
}

func (d *Driver) GetUniformiv(p uint32, loc int32, dst []int32) {
	if len(dst) > 0 {
		gl.GetUniformiv(p, loc, &dst[0])
	}
}

func (d *Driver) GetUniformuiv(p uint32, loc int32, dst []uint32) {
	if len(dst) > 0 {
		gl.GetUniformiv(p, loc, (*int32)(unsafe.Pointer(&dst[0]))) //nolint:gosec // same width
	}
}

func (d *Driver) GetUniformfv(p uint32, loc int32, dst []float32) {
	if len(dst) > 0 {
		gl.GetUniformfv(p, loc, &dst[0])
	}
}

func bytesPtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return gl.Ptr(b)
}

func floatsPtr(f []float32) unsafe.Pointer {
	if len(f) == 0 {
		return nil
	}
	return gl.Ptr(f)
}
