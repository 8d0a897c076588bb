// Package record provides an in-memory driver that simulates the GL state
// machine and records every call made through it.
//
// It keeps enough state to answer the questions tests ask about rendering:
// which texture, framebuffer, program and blend state were bound when each
// draw was issued, how many vertices and indices each draw carried, and what
// the framebuffers contain after clears and texture uploads. It does not
// rasterize geometry.
package record

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/blit/driver"
)

// BlendState is the blend configuration in effect for a draw.
type BlendState struct {
	SrcRGB, DstRGB     driver.Enum
	SrcAlpha, DstAlpha driver.Enum
	Equation           driver.Enum
}

// Draw is one recorded draw call.
type Draw struct {
	Mode        driver.Enum
	Count       int
	Indexed     bool
	Immediate   bool
	Program     uint32
	Texture     uint32
	Framebuffer uint32
	Blending    bool
	Blend       BlendState
	Viewport    [4]int32
	Scissor     bool
	// ArrayBuffer is the buffer bound to ARRAY_BUFFER at draw time.
	ArrayBuffer uint32
	// Attribs lists the generic attribute arrays enabled at draw time.
	Attribs []uint32
}

type texture struct {
	w, h   int32
	pixels []byte
	params map[driver.Enum]int32
	mipmap bool
}

type framebuffer struct {
	texture uint32
}

type shader struct {
	stage    driver.Enum
	source   string
	binary   []byte
	compiled bool
	log      string
}

type program struct {
	shaders  []uint32
	linked   bool
	log      string
	attribs  map[string]int32
	uniforms map[string]int32
	ints     map[int32][]int32
	uints    map[int32][]uint32
	floats   map[int32][]float32
}

// Driver is a recording driver. The zero value is not usable; call New.
type Driver struct {
	profile Profile

	// Calls lists the names of every driver method invoked, in order.
	Calls []string
	// Draws lists every draw call issued.
	Draws []Draw
	// Uploads lists the byte sizes of BufferData/BufferSubData calls that
	// carried data to ARRAY_BUFFER.
	Uploads []int
	// MatrixUploads counts UniformMatrixfv calls.
	MatrixUploads int

	next uint32

	enabled    map[driver.Enum]bool
	clientOn   map[driver.Enum]bool
	viewport   [4]int32
	scissor    [4]int32
	clearColor [4]float32
	lineWidth  float32

	textures   map[uint32]*texture
	boundTex   uint32
	activeUnit driver.Enum

	framebuffers map[uint32]*framebuffer
	boundFBO     uint32
	windowW      int32
	windowH      int32
	window       []byte

	blend BlendState

	color      [4]float32
	matrixMode driver.Enum
	modelView  [16]float32
	projection [16]float32
	inBegin    bool
	immVerts   int
	immMode    driver.Enum

	buffers      map[uint32][]byte
	bound        map[driver.Enum]uint32
	vaos         map[uint32]bool
	attribOn     map[uint32]bool
	attribValues map[uint32][]float32

	shaders  map[uint32]*shader
	programs map[uint32]*program
	current  uint32
}

// New returns a recording driver with a window framebuffer of the given size.
func New(p Profile, width, height int) *Driver {
	d := &Driver{
		profile:      p,
		enabled:      make(map[driver.Enum]bool),
		clientOn:     make(map[driver.Enum]bool),
		textures:     make(map[uint32]*texture),
		framebuffers: make(map[uint32]*framebuffer),
		buffers:      make(map[uint32][]byte),
		bound:        make(map[driver.Enum]uint32),
		vaos:         make(map[uint32]bool),
		attribOn:     make(map[uint32]bool),
		attribValues: make(map[uint32][]float32),
		shaders:      make(map[uint32]*shader),
		programs:     make(map[uint32]*program),
		activeUnit:   driver.Texture0,
		lineWidth:    1,
		blend: BlendState{
			SrcRGB: driver.One, DstRGB: driver.Zero,
			SrcAlpha: driver.One, DstAlpha: driver.Zero,
			Equation: driver.FuncAdd,
		},
	}
	d.Resize(width, height)
	return d
}

// Resize reallocates the window framebuffer.
func (d *Driver) Resize(width, height int) {
	d.windowW, d.windowH = int32(width), int32(height)
	d.window = make([]byte, width*height*4)
	d.viewport = [4]int32{0, 0, int32(width), int32(height)}
}

func (d *Driver) call(name string) { d.Calls = append(d.Calls, name) }

func (d *Driver) gen() uint32 {
	d.next++
	return d.next
}

// Reset clears the call, draw and upload logs but keeps GL state.
func (d *Driver) Reset() {
	d.Calls = d.Calls[:0]
	d.Draws = d.Draws[:0]
	d.Uploads = d.Uploads[:0]
	d.MatrixUploads = 0
}

// CallCount returns how many times the named method was invoked.
func (d *Driver) CallCount(name string) int {
	n := 0
	for _, c := range d.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// Blend returns the current blend configuration.
func (d *Driver) Blend() BlendState { return d.blend }

// IsEnabled reports whether a capability is enabled.
func (d *Driver) IsEnabled(c driver.Enum) bool { return d.enabled[c] }

// BoundTexture returns the texture bound to TEXTURE_2D.
func (d *Driver) BoundTexture() uint32 { return d.boundTex }

// BoundFramebuffer returns the bound framebuffer object.
func (d *Driver) BoundFramebuffer() uint32 { return d.boundFBO }

// CurrentProgram returns the program in use.
func (d *Driver) CurrentProgram() uint32 { return d.current }

// CurrentColor returns the fixed-function current color.
func (d *Driver) CurrentColor() [4]float32 { return d.color }

// CurrentLineWidth returns the line width.
func (d *Driver) CurrentLineWidth() float32 { return d.lineWidth }

// CurrentViewport returns the viewport rectangle.
func (d *Driver) CurrentViewport() [4]int32 { return d.viewport }

// CurrentScissor returns the scissor rectangle.
func (d *Driver) CurrentScissor() [4]int32 { return d.scissor }

// Matrix returns the fixed-function matrix for mode.
func (d *Driver) Matrix(mode driver.Enum) [16]float32 {
	if mode == driver.Projection {
		return d.projection
	}
	return d.modelView
}

// TextureCount returns the number of live textures.
func (d *Driver) TextureCount() int { return len(d.textures) }

// FramebufferCount returns the number of live framebuffer objects.
func (d *Driver) FramebufferCount() int { return len(d.framebuffers) }

// ProgramCount returns the number of live programs.
func (d *Driver) ProgramCount() int { return len(d.programs) }

// TextureSize returns the allocated size of a texture.
func (d *Driver) TextureSize(tex uint32) (w, h int, ok bool) {
	t, ok := d.textures[tex]
	if !ok {
		return 0, 0, false
	}
	return int(t.w), int(t.h), true
}

// TextureParam returns a texture parameter.
func (d *Driver) TextureParam(tex uint32, pname driver.Enum) int32 {
	if t, ok := d.textures[tex]; ok {
		return t.params[pname]
	}
	return 0
}

// HasMipmaps reports whether GenerateMipmap ran on the texture.
func (d *Driver) HasMipmaps(tex uint32) bool {
	t, ok := d.textures[tex]
	return ok && t.mipmap
}

// AttribValue returns the last constant value set for a generic attribute.
func (d *Driver) AttribValue(location uint32) []float32 { return d.attribValues[location] }

// UniformFloats returns float uniform values stored in a program.
func (d *Driver) UniformFloats(prog uint32, location int32) []float32 {
	if p, ok := d.programs[prog]; ok {
		return p.floats[location]
	}
	return nil
}

// ProgramShaders returns the shaders attached to a program.
func (d *Driver) ProgramShaders(prog uint32) []uint32 {
	if p, ok := d.programs[prog]; ok {
		return append([]uint32(nil), p.shaders...)
	}
	return nil
}

// ShaderIsBinary reports whether a shader was created from a binary.
func (d *Driver) ShaderIsBinary(s uint32) bool {
	sh, ok := d.shaders[s]
	return ok && sh.binary != nil
}

// Queries.

func (d *Driver) GetString(name driver.Enum) string {
	d.call("GetString")
	switch name {
	case driver.Vendor:
		return d.profile.Vendor
	case driver.Renderer:
		return d.profile.Renderer
	case driver.Version:
		return d.profile.Version
	case driver.ShadingLanguageVersion:
		return "1.20"
	case driver.Extensions:
		return strings.Join(d.profile.Extensions, " ")
	}
	return ""
}

func (d *Driver) GetInteger(name driver.Enum) int32 {
	d.call("GetInteger")
	switch name {
	case driver.MaxTextureSize:
		return 8192
	case driver.FramebufferBinding:
		return int32(d.boundFBO)
	}
	return 0
}

func (d *Driver) ExtensionList() []string {
	d.call("ExtensionList")
	return append([]string(nil), d.profile.Extensions...)
}

// Global state.

func (d *Driver) Enable(c driver.Enum) {
	d.call("Enable")
	d.enabled[c] = true
}

func (d *Driver) Disable(c driver.Enum) {
	d.call("Disable")
	d.enabled[c] = false
}

func (d *Driver) Viewport(x, y, w, h int32) {
	d.call("Viewport")
	d.viewport = [4]int32{x, y, w, h}
}

func (d *Driver) Scissor(x, y, w, h int32) {
	d.call("Scissor")
	d.scissor = [4]int32{x, y, w, h}
}

func (d *Driver) ClearColor(r, g, b, a float32) {
	d.call("ClearColor")
	d.clearColor = [4]float32{r, g, b, a}
}

func (d *Driver) Clear(mask driver.Enum) {
	d.call("Clear")
	if mask&driver.ColorBufferBit == 0 {
		return
	}
	pix, w, h := d.boundPixels()
	if pix == nil {
		return
	}
	x0, y0, x1, y1 := int32(0), int32(0), w, h
	if d.enabled[driver.ScissorTest] {
		s := d.scissor
		x0, y0 = max(x0, s[0]), max(y0, s[1])
		x1, y1 = min(x1, s[0]+s[2]), min(y1, s[1]+s[3])
	}
	var c [4]byte
	for i, v := range d.clearColor {
		c[i] = byte(math.Round(float64(clamp01(v)) * 255))
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			copy(pix[(y*w+x)*4:], c[:])
		}
	}
}

func (d *Driver) LineWidth(w float32) {
	d.call("LineWidth")
	d.lineWidth = w
}

func (d *Driver) PixelStorei(driver.Enum, int32) { d.call("PixelStorei") }

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

// boundPixels returns the RGBA storage of the bound framebuffer.
func (d *Driver) boundPixels() ([]byte, int32, int32) {
	if d.boundFBO == 0 {
		return d.window, d.windowW, d.windowH
	}
	fb, ok := d.framebuffers[d.boundFBO]
	if !ok {
		return nil, 0, 0
	}
	t, ok := d.textures[fb.texture]
	if !ok {
		return nil, 0, 0
	}
	return t.pixels, t.w, t.h
}

// Textures.

func (d *Driver) GenTexture() uint32 {
	d.call("GenTexture")
	id := d.gen()
	d.textures[id] = &texture{params: make(map[driver.Enum]int32)}
	return id
}

func (d *Driver) DeleteTexture(tex uint32) {
	d.call("DeleteTexture")
	delete(d.textures, tex)
	if d.boundTex == tex {
		d.boundTex = 0
	}
}

func (d *Driver) ActiveTexture(unit driver.Enum) {
	d.call("ActiveTexture")
	d.activeUnit = unit
}

func (d *Driver) BindTexture(_ driver.Enum, tex uint32) {
	d.call("BindTexture")
	d.boundTex = tex
}

func (d *Driver) TexImage2D(_ driver.Enum, level int32, _ driver.Enum, w, h int32, format, _ driver.Enum, pixels []byte) {
	d.call("TexImage2D")
	t, ok := d.textures[d.boundTex]
	if !ok || level != 0 {
		return
	}
	t.w, t.h = w, h
	t.pixels = make([]byte, int(w)*int(h)*4)
	if pixels != nil {
		writeRegion(t, 0, 0, w, h, format, pixels)
	}
}

func (d *Driver) TexSubImage2D(_ driver.Enum, level, x, y, w, h int32, format, _ driver.Enum, pixels []byte) {
	d.call("TexSubImage2D")
	t, ok := d.textures[d.boundTex]
	if !ok || level != 0 {
		return
	}
	writeRegion(t, x, y, w, h, format, pixels)
}

func writeRegion(t *texture, x, y, w, h int32, format driver.Enum, src []byte) {
	bpp := int32(4)
	switch format {
	case driver.RGB, driver.BGR:
		bpp = 3
	case driver.Alpha:
		bpp = 1
	}
	for row := int32(0); row < h; row++ {
		for col := int32(0); col < w; col++ {
			tx, ty := x+col, y+row
			if tx < 0 || ty < 0 || tx >= t.w || ty >= t.h {
				continue
			}
			si := int((row*w + col) * bpp)
			if si+int(bpp) > len(src) {
				return
			}
			di := int((ty*t.w + tx) * 4)
			px := t.pixels[di : di+4]
			switch format {
			case driver.RGB:
				px[0], px[1], px[2], px[3] = src[si], src[si+1], src[si+2], 255
			case driver.BGR:
				px[0], px[1], px[2], px[3] = src[si+2], src[si+1], src[si], 255
			case driver.BGRA:
				px[0], px[1], px[2], px[3] = src[si+2], src[si+1], src[si], src[si+3]
			case driver.Alpha:
				px[0], px[1], px[2], px[3] = 255, 255, 255, src[si]
			default:
				copy(px, src[si:si+4])
			}
		}
	}
}

func (d *Driver) TexParameteri(_, pname driver.Enum, param int32) {
	d.call("TexParameteri")
	if t, ok := d.textures[d.boundTex]; ok {
		t.params[pname] = param
	}
}

func (d *Driver) GenerateMipmap(driver.Enum) {
	d.call("GenerateMipmap")
	if t, ok := d.textures[d.boundTex]; ok {
		t.mipmap = true
	}
}

func (d *Driver) ReadPixels(x, y, w, h int32, format, _ driver.Enum, dst []byte) {
	d.call("ReadPixels")
	pix, pw, ph := d.boundPixels()
	if pix == nil || format != driver.RGBA {
		return
	}
	for row := int32(0); row < h; row++ {
		for col := int32(0); col < w; col++ {
			sx, sy := x+col, y+row
			di := int((row*w + col) * 4)
			if di+4 > len(dst) {
				return
			}
			if sx < 0 || sy < 0 || sx >= pw || sy >= ph {
				continue
			}
			copy(dst[di:di+4], pix[(sy*pw+sx)*4:])
		}
	}
}

// Framebuffer objects.

func (d *Driver) GenFramebuffer() uint32 {
	d.call("GenFramebuffer")
	id := d.gen()
	d.framebuffers[id] = &framebuffer{}
	return id
}

func (d *Driver) DeleteFramebuffer(fbo uint32) {
	d.call("DeleteFramebuffer")
	delete(d.framebuffers, fbo)
	if d.boundFBO == fbo {
		d.boundFBO = 0
	}
}

func (d *Driver) BindFramebuffer(_ driver.Enum, fbo uint32) {
	d.call("BindFramebuffer")
	d.boundFBO = fbo
}

func (d *Driver) FramebufferTexture2D(_, _, _ driver.Enum, tex uint32, _ int32) {
	d.call("FramebufferTexture2D")
	if fb, ok := d.framebuffers[d.boundFBO]; ok {
		fb.texture = tex
	}
}

func (d *Driver) CheckFramebufferStatus(driver.Enum) driver.Enum {
	d.call("CheckFramebufferStatus")
	fb, ok := d.framebuffers[d.boundFBO]
	if !ok {
		return 0
	}
	if t, ok := d.textures[fb.texture]; !ok || t.w == 0 || t.h == 0 {
		return 0
	}
	return driver.FramebufferComplete
}

// Blending.

func (d *Driver) BlendFunc(src, dst driver.Enum) {
	d.call("BlendFunc")
	d.blend.SrcRGB, d.blend.DstRGB = src, dst
	d.blend.SrcAlpha, d.blend.DstAlpha = src, dst
}

func (d *Driver) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha driver.Enum) {
	d.call("BlendFuncSeparate")
	d.blend.SrcRGB, d.blend.DstRGB = srcRGB, dstRGB
	d.blend.SrcAlpha, d.blend.DstAlpha = srcAlpha, dstAlpha
}

func (d *Driver) BlendEquation(mode driver.Enum) {
	d.call("BlendEquation")
	d.blend.Equation = mode
}

// Fixed function pipeline.

func (d *Driver) Color4f(r, g, b, a float32) {
	d.call("Color4f")
	d.color = [4]float32{r, g, b, a}
}

func (d *Driver) Color4fv(c *[4]float32) {
	d.call("Color4fv")
	d.color = *c
}

func (d *Driver) MatrixMode(mode driver.Enum) {
	d.call("MatrixMode")
	d.matrixMode = mode
}

func (d *Driver) LoadMatrixf(m *[16]float32) {
	d.call("LoadMatrixf")
	if d.matrixMode == driver.Projection {
		d.projection = *m
	} else {
		d.modelView = *m
	}
}

func (d *Driver) Begin(mode driver.Enum) {
	d.call("Begin")
	d.inBegin = true
	d.immMode = mode
	d.immVerts = 0
}

func (d *Driver) End() {
	d.call("End")
	if d.inBegin && d.immVerts > 0 {
		d.recordDraw(d.immMode, d.immVerts, false, true)
	}
	d.inBegin = false
}

func (d *Driver) TexCoord2f(float32, float32) { d.call("TexCoord2f") }

func (d *Driver) Vertex3f(float32, float32, float32) {
	d.call("Vertex3f")
	if d.inBegin {
		d.immVerts++
	}
}

// Client-side arrays.

func (d *Driver) EnableClientState(a driver.Enum) {
	d.call("EnableClientState")
	d.clientOn[a] = true
}

func (d *Driver) DisableClientState(a driver.Enum) {
	d.call("DisableClientState")
	d.clientOn[a] = false
}

func (d *Driver) VertexPointer(int32, driver.Enum, int32, []float32)   { d.call("VertexPointer") }
func (d *Driver) TexCoordPointer(int32, driver.Enum, int32, []float32) { d.call("TexCoordPointer") }
func (d *Driver) ColorPointer(int32, driver.Enum, int32, []float32)    { d.call("ColorPointer") }

func (d *Driver) DrawElements(mode driver.Enum, indices []uint16) {
	d.call("DrawElements")
	d.recordDraw(mode, len(indices), true, false)
}

func (d *Driver) DrawArrays(mode driver.Enum, _, count int32) {
	d.call("DrawArrays")
	d.recordDraw(mode, int(count), false, false)
}

func (d *Driver) recordDraw(mode driver.Enum, count int, indexed, immediate bool) {
	draw := Draw{
		Mode:        mode,
		Count:       count,
		Indexed:     indexed,
		Immediate:   immediate,
		Program:     d.current,
		Texture:     d.boundTex,
		Framebuffer: d.boundFBO,
		Blending:    d.enabled[driver.Blend],
		Blend:       d.blend,
		Viewport:    d.viewport,
		Scissor:     d.enabled[driver.ScissorTest],
		ArrayBuffer: d.bound[driver.ArrayBuffer],
	}
	for loc, on := range d.attribOn {
		if on {
			draw.Attribs = append(draw.Attribs, loc)
		}
	}
	d.Draws = append(d.Draws, draw)
}

// Buffer objects.

func (d *Driver) GenBuffer() uint32 {
	d.call("GenBuffer")
	id := d.gen()
	d.buffers[id] = nil
	return id
}

func (d *Driver) DeleteBuffer(buf uint32) {
	d.call("DeleteBuffer")
	delete(d.buffers, buf)
}

func (d *Driver) BindBuffer(target driver.Enum, buf uint32) {
	d.call("BindBuffer")
	d.bound[target] = buf
}

func (d *Driver) BufferData(target driver.Enum, size int, data []byte, _ driver.Enum) {
	d.call("BufferData")
	buf := make([]byte, size)
	copy(buf, data)
	d.buffers[d.bound[target]] = buf
	if target == driver.ArrayBuffer && data != nil {
		d.Uploads = append(d.Uploads, len(data))
	}
}

func (d *Driver) BufferSubData(target driver.Enum, offset int, data []byte) {
	d.call("BufferSubData")
	buf := d.buffers[d.bound[target]]
	if offset+len(data) > len(buf) {
		grown := make([]byte, offset+len(data))
		copy(grown, buf)
		buf = grown
	}
	copy(buf[offset:], data)
	d.buffers[d.bound[target]] = buf
	if target == driver.ArrayBuffer {
		d.Uploads = append(d.Uploads, len(data))
	}
}

func (d *Driver) BindBufferBase(target driver.Enum, _, buf uint32) {
	d.call("BindBufferBase")
	d.bound[target] = buf
}

func (d *Driver) DrawElementsBuffer(mode driver.Enum, count int32, _ int) {
	d.call("DrawElementsBuffer")
	d.recordDraw(mode, int(count), true, false)
}

func (d *Driver) GenVertexArray() uint32 {
	d.call("GenVertexArray")
	id := d.gen()
	d.vaos[id] = true
	return id
}

func (d *Driver) BindVertexArray(uint32) { d.call("BindVertexArray") }

func (d *Driver) DeleteVertexArray(vao uint32) {
	d.call("DeleteVertexArray")
	delete(d.vaos, vao)
}

// Generic vertex attributes.

func (d *Driver) EnableVertexAttribArray(loc uint32) {
	d.call("EnableVertexAttribArray")
	d.attribOn[loc] = true
}

func (d *Driver) DisableVertexAttribArray(loc uint32) {
	d.call("DisableVertexAttribArray")
	d.attribOn[loc] = false
}

// AttribArrayEnabled reports whether a generic attribute array is enabled.
func (d *Driver) AttribArrayEnabled(loc uint32) bool { return d.attribOn[loc] }

func (d *Driver) VertexAttribPointer(uint32, int32, driver.Enum, bool, int32, int) {
	d.call("VertexAttribPointer")
}

func (d *Driver) VertexAttribfv(loc uint32, v []float32) {
	d.call("VertexAttribfv")
	d.attribValues[loc] = append([]float32(nil), v...)
}

func (d *Driver) VertexAttribiv(loc uint32, v []int32) {
	d.call("VertexAttribiv")
	f := make([]float32, len(v))
	for i, x := range v {
		f[i] = float32(x)
	}
	d.attribValues[loc] = f
}

func (d *Driver) VertexAttribuiv(loc uint32, v []uint32) {
	d.call("VertexAttribuiv")
	f := make([]float32, len(v))
	for i, x := range v {
		f[i] = float32(x)
	}
	d.attribValues[loc] = f
}

// Shaders and programs.

func (d *Driver) CreateShader(stage driver.Enum) uint32 {
	d.call("CreateShader")
	id := d.gen()
	d.shaders[id] = &shader{stage: stage}
	return id
}

func (d *Driver) ShaderSource(s uint32, source string) {
	d.call("ShaderSource")
	if sh, ok := d.shaders[s]; ok {
		sh.source = source
	}
}

func (d *Driver) ShaderBinary(s uint32, format driver.Enum, binary []byte) error {
	d.call("ShaderBinary")
	if !strings.Contains(d.profile.Version, "4.6") || format != driver.ShaderBinaryFormatSPIRV {
		return driver.ErrUnsupported
	}
	sh, ok := d.shaders[s]
	if !ok {
		return fmt.Errorf("record: unknown shader %d", s)
	}
	sh.binary = append([]byte(nil), binary...)
	return nil
}

func (d *Driver) SpecializeShader(s uint32, _ string) error {
	d.call("SpecializeShader")
	sh, ok := d.shaders[s]
	if !ok || sh.binary == nil {
		return driver.ErrUnsupported
	}
	// SPIR-V modules start with the magic number 0x07230203.
	if len(sh.binary) < 4 || sh.binary[0] != 0x03 || sh.binary[1] != 0x02 || sh.binary[2] != 0x23 || sh.binary[3] != 0x07 {
		sh.log = "invalid SPIR-V module"
		return nil
	}
	sh.compiled = true
	return nil
}

// CompileShader fails sources that contain an #error directive or lack a
// main function.
func (d *Driver) CompileShader(s uint32) {
	d.call("CompileShader")
	sh, ok := d.shaders[s]
	if !ok {
		return
	}
	switch {
	case strings.Contains(sh.source, "#error"):
		sh.log = "0:1: error: #error directive"
	case !strings.Contains(sh.source, "main"):
		sh.log = "0:1: error: no main function"
	default:
		sh.compiled = true
		sh.log = ""
	}
}

func (d *Driver) GetShaderi(s uint32, pname driver.Enum) int32 {
	d.call("GetShaderi")
	if sh, ok := d.shaders[s]; ok && pname == driver.CompileStatus && sh.compiled {
		return 1
	}
	return 0
}

func (d *Driver) GetShaderInfoLog(s uint32) string {
	d.call("GetShaderInfoLog")
	if sh, ok := d.shaders[s]; ok {
		return sh.log
	}
	return ""
}

func (d *Driver) DeleteShader(s uint32) {
	d.call("DeleteShader")
	delete(d.shaders, s)
}

func (d *Driver) CreateProgram() uint32 {
	d.call("CreateProgram")
	id := d.gen()
	d.programs[id] = &program{
		attribs:  make(map[string]int32),
		uniforms: make(map[string]int32),
		ints:     make(map[int32][]int32),
		uints:    make(map[int32][]uint32),
		floats:   make(map[int32][]float32),
	}
	return id
}

func (d *Driver) AttachShader(prog, s uint32) {
	d.call("AttachShader")
	if p, ok := d.programs[prog]; ok {
		p.shaders = append(p.shaders, s)
	}
}

func (d *Driver) DetachShader(prog, s uint32) {
	d.call("DetachShader")
	p, ok := d.programs[prog]
	if !ok {
		return
	}
	for i, x := range p.shaders {
		if x == s {
			p.shaders = append(p.shaders[:i], p.shaders[i+1:]...)
			return
		}
	}
}

// LinkProgram succeeds when a compiled vertex and fragment shader are
// attached. Attribute and uniform locations are assigned in declaration
// order from the GLSL sources.
func (d *Driver) LinkProgram(prog uint32) {
	d.call("LinkProgram")
	p, ok := d.programs[prog]
	if !ok {
		return
	}
	var hasVert, hasFrag bool
	clear(p.attribs)
	clear(p.uniforms)
	for _, s := range p.shaders {
		sh, ok := d.shaders[s]
		if !ok || !sh.compiled {
			p.linked = false
			p.log = fmt.Sprintf("shader %d not compiled", s)
			return
		}
		switch sh.stage {
		case driver.VertexShader:
			hasVert = true
			declare(sh.source, p.attribs, "attribute", "in")
		case driver.FragmentShader:
			hasFrag = true
		}
		declare(sh.source, p.uniforms, "uniform")
	}
	p.linked = hasVert && hasFrag
	if !p.linked {
		p.log = "program needs a vertex and a fragment shader"
	} else {
		p.log = ""
	}
}

// declare scans GLSL declarations starting with one of the qualifiers and
// assigns the next free location to each new name.
func declare(source string, into map[string]int32, qualifiers ...string) {
	for _, line := range strings.Split(source, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) > 0 && strings.HasPrefix(fields[0], "layout") {
			for len(fields) > 0 && !strings.HasSuffix(fields[0], ")") {
				fields = fields[1:]
			}
			if len(fields) > 0 {
				fields = fields[1:]
			}
		}
		if len(fields) < 3 {
			continue
		}
		match := false
		for _, q := range qualifiers {
			if fields[0] == q {
				match = true
			}
		}
		if !match {
			continue
		}
		name := strings.TrimSuffix(fields[len(fields)-1], ";")
		if _, ok := into[name]; !ok {
			into[name] = int32(len(into))
		}
	}
}

func (d *Driver) GetProgrami(prog uint32, pname driver.Enum) int32 {
	d.call("GetProgrami")
	if p, ok := d.programs[prog]; ok && pname == driver.LinkStatus && p.linked {
		return 1
	}
	return 0
}

func (d *Driver) GetProgramInfoLog(prog uint32) string {
	d.call("GetProgramInfoLog")
	if p, ok := d.programs[prog]; ok {
		return p.log
	}
	return ""
}

func (d *Driver) UseProgram(prog uint32) {
	d.call("UseProgram")
	d.current = prog
}

func (d *Driver) DeleteProgram(prog uint32) {
	d.call("DeleteProgram")
	delete(d.programs, prog)
	if d.current == prog {
		d.current = 0
	}
}

func (d *Driver) GetAttribLocation(prog uint32, name string) int32 {
	d.call("GetAttribLocation")
	if p, ok := d.programs[prog]; ok {
		if loc, ok := p.attribs[name]; ok {
			return loc
		}
	}
	return -1
}

func (d *Driver) GetUniformLocation(prog uint32, name string) int32 {
	d.call("GetUniformLocation")
	if p, ok := d.programs[prog]; ok {
		if loc, ok := p.uniforms[name]; ok {
			return loc
		}
	}
	return -1
}

// Uniforms.

func (d *Driver) Uniformiv(loc int32, _ int, v []int32) {
	d.call("Uniformiv")
	if p, ok := d.programs[d.current]; ok && loc >= 0 {
		p.ints[loc] = append([]int32(nil), v...)
	}
}

func (d *Driver) Uniformuiv(loc int32, _ int, v []uint32) {
	d.call("Uniformuiv")
	if p, ok := d.programs[d.current]; ok && loc >= 0 {
		p.uints[loc] = append([]uint32(nil), v...)
	}
}

func (d *Driver) Uniformfv(loc int32, _ int, v []float32) {
	d.call("Uniformfv")
	if p, ok := d.programs[d.current]; ok && loc >= 0 {
		p.floats[loc] = append([]float32(nil), v...)
	}
}

func (d *Driver) UniformMatrixfv(loc int32, _, _ int, _ bool, v []float32) {
	d.call("UniformMatrixfv")
	d.MatrixUploads++
	if p, ok := d.programs[d.current]; ok && loc >= 0 {
		p.floats[loc] = append([]float32(nil), v...)
	}
}

func (d *Driver) GetUniformiv(prog uint32, loc int32, dst []int32) {
	d.call("GetUniformiv")
	if p, ok := d.programs[prog]; ok {
		copy(dst, p.ints[loc])
	}
}

func (d *Driver) GetUniformuiv(prog uint32, loc int32, dst []uint32) {
	d.call("GetUniformuiv")
	if p, ok := d.programs[prog]; ok {
		copy(dst, p.uints[loc])
	}
}

func (d *Driver) GetUniformfv(prog uint32, loc int32, dst []float32) {
	d.call("GetUniformfv")
	if p, ok := d.programs[prog]; ok {
		copy(dst, p.floats[loc])
	}
}

var _ driver.Driver = (*Driver)(nil)
