package blit

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/naga"

	"github.com/gogpu/blit/backend"
	"github.com/gogpu/blit/driver"
)

// ShaderBlock holds the attribute and uniform locations a program is fed
// through. A location of -1 is unused.
type ShaderBlock = backend.ShaderBlock

// WGSLShaderBlock is the block of programs built from the default WGSL
// sprite shader: fixed attribute locations and the matrix in uniform
// binding 0.
var WGSLShaderBlock = ShaderBlock{Position: 0, TexCoord: 1, Color: 2, MVP: -1, MVPBinding: 0}

// SpriteWGSL is the WGSL source of the default sprite shader, with entry
// points vs_main and fs_main.
var SpriteWGSL = backend.SpriteWGSL

// ShaderType is a shader stage.
type ShaderType uint8

// Shader stages.
const (
	VertexShader ShaderType = iota
	FragmentShader
	GeometryShader
)

func (s ShaderType) String() string {
	switch s {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	case GeometryShader:
		return "geometry"
	}
	return fmt.Sprintf("ShaderType(%d)", uint8(s))
}

func (s ShaderType) enum() driver.Enum {
	switch s {
	case FragmentShader:
		return driver.FragmentShader
	case GeometryShader:
		return driver.GeometryShader
	}
	return driver.VertexShader
}

func (s ShaderType) feature() driver.Feature {
	switch s {
	case FragmentShader:
		return driver.FeatureFragmentShader
	case GeometryShader:
		return driver.FeatureGeometryShader
	}
	return driver.FeatureVertexShader
}

// newShader creates a shader object of the given stage.
func (r *Renderer) newShader(op string, typ ShaderType) (uint32, error) {
	if typ > GeometryShader {
		return 0, r.failf(op, ErrInvalidArgument, "shader type %v", typ)
	}
	if !r.info.Features.Has(typ.feature()) {
		return 0, r.failf(op, ErrShaderCompile, "%v shaders not supported", typ)
	}
	if r.closed {
		return 0, r.fail(op, ErrNoContext)
	}
	sh := r.d.CreateShader(typ.enum())
	if sh == 0 {
		return 0, r.failf(op, ErrShaderCompile, "no %v shader name", typ)
	}
	return sh, nil
}

// checkCompiled reads the compile status of sh and deletes it on failure.
func (r *Renderer) checkCompiled(op string, typ ShaderType, sh uint32) (uint32, error) {
	if r.d.GetShaderi(sh, driver.CompileStatus) != 0 {
		return sh, nil
	}
	r.shaderMessage = r.d.GetShaderInfoLog(sh)
	r.d.DeleteShader(sh)
	return 0, r.failf(op, ErrShaderCompile, "%v shader: %s", typ, r.shaderMessage)
}

// CompileShader compiles GLSL source.
func (r *Renderer) CompileShader(typ ShaderType, source string) (uint32, error) {
	const op = "CompileShader"
	sh, err := r.newShader(op, typ)
	if err != nil {
		return 0, err
	}
	r.d.ShaderSource(sh, source)
	r.d.CompileShader(sh)
	return r.checkCompiled(op, typ, sh)
}

// CompileShaderWGSL compiles WGSL source to SPIR-V and loads the stage's
// entry point. The driver must accept SPIR-V shader binaries.
func (r *Renderer) CompileShaderWGSL(typ ShaderType, source, entryPoint string) (uint32, error) {
	const op = "CompileShaderWGSL"
	if !r.info.Features.Has(driver.FeatureSPIRV) {
		return 0, r.failf(op, ErrShaderCompile, "driver cannot load SPIR-V")
	}
	spirv, err := naga.Compile(source)
	if err != nil {
		r.shaderMessage = err.Error()
		return 0, r.failf(op, ErrShaderCompile, "wgsl: %v", err)
	}
	sh, err := r.newShader(op, typ)
	if err != nil {
		return 0, err
	}
	if err := r.d.ShaderBinary(sh, driver.ShaderBinaryFormatSPIRV, spirv); err != nil {
		r.d.DeleteShader(sh)
		return 0, r.failf(op, ErrShaderCompile, "binary: %v", err)
	}
	if err := r.d.SpecializeShader(sh, entryPoint); err != nil {
		r.d.DeleteShader(sh)
		return 0, r.failf(op, ErrShaderCompile, "entry point %q: %v", entryPoint, err)
	}
	Logger().Debug("blit: wgsl shader loaded",
		slog.String("stage", typ.String()),
		slog.String("entry", entryPoint),
		slog.Int("spirv_bytes", len(spirv)))
	return r.checkCompiled(op, typ, sh)
}

// CreateShaderProgram creates an empty program.
func (r *Renderer) CreateShaderProgram() (uint32, error) {
	const op = "CreateShaderProgram"
	if !r.info.Features.Has(driver.FeatureVertexShader | driver.FeatureFragmentShader) {
		return 0, r.failf(op, ErrShaderLink, "shaders not supported")
	}
	if r.closed {
		return 0, r.fail(op, ErrNoContext)
	}
	p := r.d.CreateProgram()
	if p == 0 {
		return 0, r.failf(op, ErrShaderLink, "no program name")
	}
	return p, nil
}

// AttachShader attaches a compiled shader to a program.
func (r *Renderer) AttachShader(program, shader uint32) error {
	if program == 0 || shader == 0 {
		return r.failf("AttachShader", ErrInvalidArgument, "program %d, shader %d", program, shader)
	}
	r.d.AttachShader(program, shader)
	return nil
}

// DetachShader detaches a shader from a program.
func (r *Renderer) DetachShader(program, shader uint32) error {
	if program == 0 || shader == 0 {
		return r.failf("DetachShader", ErrInvalidArgument, "program %d, shader %d", program, shader)
	}
	r.d.DetachShader(program, shader)
	return nil
}

// LinkShaderProgram links a program. On failure the driver log is kept in
// ShaderMessage.
func (r *Renderer) LinkShaderProgram(program uint32) error {
	const op = "LinkShaderProgram"
	if program == 0 {
		return r.failf(op, ErrInvalidArgument, "program 0")
	}
	r.forgetLocations(program)
	r.d.LinkProgram(program)
	if r.d.GetProgrami(program, driver.LinkStatus) == 0 {
		r.shaderMessage = r.d.GetProgramInfoLog(program)
		return r.failf(op, ErrShaderLink, "%s", r.shaderMessage)
	}
	return nil
}

// LinkShaders creates and links a program from a vertex and a fragment
// shader.
func (r *Renderer) LinkShaders(vertex, fragment uint32) (uint32, error) {
	p, err := r.CreateShaderProgram()
	if err != nil {
		return 0, err
	}
	if err := r.AttachShader(p, vertex); err != nil {
		r.d.DeleteProgram(p)
		return 0, err
	}
	if err := r.AttachShader(p, fragment); err != nil {
		r.d.DeleteProgram(p)
		return 0, err
	}
	if err := r.LinkShaderProgram(p); err != nil {
		r.d.DeleteProgram(p)
		return 0, err
	}
	return p, nil
}

// buildProgram compiles and links a vertex/fragment source pair. The
// shaders are deleted once linked.
func (r *Renderer) buildProgram(src backend.Source) (uint32, error) {
	vs, err := r.CompileShader(VertexShader, src.Vertex)
	if err != nil {
		return 0, err
	}
	defer r.d.DeleteShader(vs)
	fs, err := r.CompileShader(FragmentShader, src.Fragment)
	if err != nil {
		return 0, err
	}
	defer r.d.DeleteShader(fs)
	return r.LinkShaders(vs, fs)
}

// FreeShader deletes a shader.
func (r *Renderer) FreeShader(shader uint32) {
	if shader != 0 {
		r.d.DeleteShader(shader)
	}
}

// FreeShaderProgram deletes a program. Contexts using it fall back to the
// default program.
func (r *Renderer) FreeShaderProgram(program uint32) {
	if program == 0 {
		return
	}
	for _, w := range r.windows {
		c := w.ctx
		if c.isDefault(program) {
			return
		}
		if c.program == program {
			c.flush()
			c.program, c.block = c.defaultProgram()
		}
	}
	r.forgetLocations(program)
	r.d.DeleteProgram(program)
}

// defaultProgram returns the default untextured program and its block.
func (c *Context) defaultProgram() (uint32, ShaderBlock) {
	if c.fixed {
		return 0, backend.EmptyShaderBlock
	}
	return c.untexturedProgram, c.untexturedBlock
}

// bindProgram makes the active program current in GL.
func (c *Context) bindProgram() {
	if c.fixed && c.program == 0 && c.state.Program() == 0 {
		return
	}
	c.state.UseProgram(c.program)
}

// ActivateShaderProgram makes program active on the current context. Program
// 0 selects the default program. A nil block loads the locations of the
// default attribute and uniform names.
func (r *Renderer) ActivateShaderProgram(program uint32, block *ShaderBlock) error {
	const op = "ActivateShaderProgram"
	c, err := r.context(op)
	if err != nil {
		return err
	}
	var b ShaderBlock
	switch {
	case program == 0:
		program, b = c.defaultProgram()
	case block != nil:
		b = *block
	case program == c.texturedProgram:
		b = c.texturedBlock
	case program == c.untexturedProgram:
		b = c.untexturedBlock
	default:
		b = r.LoadShaderBlock(program,
			backend.AttribPosition, backend.AttribTexCoord, backend.AttribColor, backend.UniformMVP)
	}
	if program != c.program || b != c.block {
		c.flush()
	}
	c.program, c.block = program, b
	c.bindProgram()
	return nil
}

// DeactivateShaderProgram restores the default program.
func (r *Renderer) DeactivateShaderProgram() error {
	return r.ActivateShaderProgram(0, nil)
}

// IsDefaultShaderProgram reports whether program is a default program of
// the current context.
func (r *Renderer) IsDefaultShaderProgram(program uint32) bool {
	if r.current == nil {
		return false
	}
	c := r.current.ctx
	if c.fixed {
		return program == 0
	}
	return c.isDefault(program)
}

// CurrentShaderProgram returns the active program of the current context.
func (r *Renderer) CurrentShaderProgram() uint32 {
	if r.current == nil {
		return 0
	}
	return r.current.ctx.program
}

// maxCachedLocations bounds the location cache shared by all programs.
const maxCachedLocations = 256

type locationKey struct {
	program uint32
	uniform bool
	name    string
}

// GetAttributeLocation returns the location of a vertex attribute, or -1.
func (r *Renderer) GetAttributeLocation(program uint32, name string) int32 {
	if program == 0 || name == "" {
		return -1
	}
	return r.locations.GetOrCreate(locationKey{program: program, name: name}, func() int32 {
		return r.d.GetAttribLocation(program, name)
	})
}

// GetUniformLocation returns the location of a uniform, or -1.
func (r *Renderer) GetUniformLocation(program uint32, name string) int32 {
	if program == 0 || name == "" {
		return -1
	}
	return r.locations.GetOrCreate(locationKey{program: program, uniform: true, name: name}, func() int32 {
		return r.d.GetUniformLocation(program, name)
	})
}

// forgetLocations drops cached locations of program after a relink or
// delete.
func (r *Renderer) forgetLocations(program uint32) {
	r.locations.DeleteFunc(func(k locationKey) bool { return k.program == program })
}

// LoadShaderBlock looks up the locations of the named position, texture
// coordinate and color attributes and the model-view-projection uniform.
// Empty names are unused.
func (r *Renderer) LoadShaderBlock(program uint32, position, texCoord, color, mvp string) ShaderBlock {
	return ShaderBlock{
		Position:   r.GetAttributeLocation(program, position),
		TexCoord:   r.GetAttributeLocation(program, texCoord),
		Color:      r.GetAttributeLocation(program, color),
		MVP:        r.GetUniformLocation(program, mvp),
		MVPBinding: -1,
	}
}

// SetShaderBlock replaces the locations the active program is fed through.
func (r *Renderer) SetShaderBlock(block ShaderBlock) error {
	c, err := r.context("SetShaderBlock")
	if err != nil {
		return err
	}
	if block != c.block {
		c.flush()
		c.block = block
	}
	return nil
}

// ShaderBlock returns the block of the active program.
func (r *Renderer) ShaderBlock() ShaderBlock {
	if r.current == nil {
		return backend.EmptyShaderBlock
	}
	return r.current.ctx.block
}

// SetShaderImage binds img to texture unit and points the sampler uniform
// at location to it. A nil img unbinds the unit.
func (r *Renderer) SetShaderImage(img *Image, location int32, unit int) error {
	const op = "SetShaderImage"
	c, err := r.context(op)
	if err != nil {
		return err
	}
	var tex uint32
	if img != nil {
		if err := r.checkImage(op, img); err != nil {
			return err
		}
		tex = img.tex
	}
	c.flush()
	if c.program == 0 || unit < 0 {
		return nil
	}
	c.bindProgram()
	d := r.d
	d.Uniformiv(location, 1, []int32{int32(unit)})
	if unit == 0 {
		c.state.ForceBindTexture(tex)
		return nil
	}
	d.ActiveTexture(driver.Texture0 + driver.Enum(unit))
	d.BindTexture(driver.Texture2D, tex)
	d.ActiveTexture(driver.Texture0)
	return nil
}
