package blit

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/blit/driver"
	"github.com/gogpu/blit/internal/attrib"
)

// Uniform setters flush pending geometry first so it renders with the old
// values, then write to the active program. Location -1 is ignored.

// uniformContext flushes the current context and reports whether a program
// is bound to receive uniforms at location.
func (r *Renderer) uniformContext(op string, location int32) (*Context, bool, error) {
	c, err := r.context(op)
	if err != nil {
		return nil, false, err
	}
	c.flush()
	if location < 0 || c.program == 0 {
		return c, false, nil
	}
	c.bindProgram()
	return c, true, nil
}

// SetUniformi sets an int uniform.
func (r *Renderer) SetUniformi(location int32, v int32) error {
	return r.SetUniformiv(location, 1, []int32{v})
}

// SetUniformiv sets an int vector uniform or array. elements is the vector
// size (1 to 4); len(values) must be a multiple of it.
func (r *Renderer) SetUniformiv(location int32, elements int, values []int32) error {
	const op = "SetUniformiv"
	if err := r.checkElements(op, elements, len(values)); err != nil {
		return err
	}
	_, ok, err := r.uniformContext(op, location)
	if ok {
		r.d.Uniformiv(location, elements, values)
	}
	return err
}

// SetUniformui sets an unsigned int uniform.
func (r *Renderer) SetUniformui(location int32, v uint32) error {
	return r.SetUniformuiv(location, 1, []uint32{v})
}

// SetUniformuiv sets an unsigned int vector uniform or array.
func (r *Renderer) SetUniformuiv(location int32, elements int, values []uint32) error {
	const op = "SetUniformuiv"
	if err := r.checkElements(op, elements, len(values)); err != nil {
		return err
	}
	_, ok, err := r.uniformContext(op, location)
	if ok {
		r.d.Uniformuiv(location, elements, values)
	}
	return err
}

// SetUniformf sets a float uniform.
func (r *Renderer) SetUniformf(location int32, v float32) error {
	return r.SetUniformfv(location, 1, []float32{v})
}

// SetUniformfv sets a float vector uniform or array.
func (r *Renderer) SetUniformfv(location int32, elements int, values []float32) error {
	const op = "SetUniformfv"
	if err := r.checkElements(op, elements, len(values)); err != nil {
		return err
	}
	_, ok, err := r.uniformContext(op, location)
	if ok {
		r.d.Uniformfv(location, elements, values)
	}
	return err
}

// SetUniformMatrixfv sets matrix uniforms of rows by cols, each 2 to 4.
// values holds one or more matrices.
func (r *Renderer) SetUniformMatrixfv(location int32, rows, cols int, transpose bool, values []float32) error {
	const op = "SetUniformMatrixfv"
	if rows < 2 || rows > 4 || cols < 2 || cols > 4 {
		return r.failf(op, ErrInvalidMatrix, "%dx%d", rows, cols)
	}
	if n := rows * cols; len(values) == 0 || len(values)%n != 0 {
		return r.failf(op, ErrInvalidMatrix, "%d values for %dx%d matrices", len(values), rows, cols)
	}
	_, ok, err := r.uniformContext(op, location)
	if ok {
		r.d.UniformMatrixfv(location, rows, cols, transpose, values)
	}
	return err
}

func (r *Renderer) checkElements(op string, elements, n int) error {
	if elements < 1 || elements > 4 || n == 0 || n%elements != 0 {
		return r.failf(op, ErrInvalidArgument, "%d values of %d elements", n, elements)
	}
	return nil
}

// GetUniformiv reads int uniform values of program into dst.
func (r *Renderer) GetUniformiv(program uint32, location int32, dst []int32) {
	if program != 0 && location >= 0 {
		r.d.GetUniformiv(program, location, dst)
	}
}

// GetUniformuiv reads unsigned int uniform values of program into dst.
func (r *Renderer) GetUniformuiv(program uint32, location int32, dst []uint32) {
	if program != 0 && location >= 0 {
		r.d.GetUniformuiv(program, location, dst)
	}
}

// GetUniformfv reads float uniform values of program into dst.
func (r *Renderer) GetUniformfv(program uint32, location int32, dst []float32) {
	if program != 0 && location >= 0 {
		r.d.GetUniformfv(program, location, dst)
	}
}

// attributeContext flushes the current context before a constant
// attribute update.
func (r *Renderer) attributeContext(op string, location int32) (*Context, bool, error) {
	c, err := r.context(op)
	if err != nil {
		return nil, false, err
	}
	c.flush()
	if location < 0 {
		return c, false, nil
	}
	c.armIntel(uint32(location))
	return c, true, nil
}

// SetAttributef sets the constant value of a float vertex attribute.
func (r *Renderer) SetAttributef(location int32, v float32) error {
	return r.SetAttributefv(location, []float32{v})
}

// SetAttributei sets the constant value of an int vertex attribute.
func (r *Renderer) SetAttributei(location int32, v int32) error {
	return r.SetAttributeiv(location, []int32{v})
}

// SetAttributeui sets the constant value of an unsigned int vertex
// attribute.
func (r *Renderer) SetAttributeui(location int32, v uint32) error {
	return r.SetAttributeuiv(location, []uint32{v})
}

// SetAttributefv sets the constant value of a float vector attribute of 1
// to 4 elements.
func (r *Renderer) SetAttributefv(location int32, v []float32) error {
	const op = "SetAttributefv"
	if len(v) < 1 || len(v) > 4 {
		return r.failf(op, ErrInvalidArgument, "%d elements", len(v))
	}
	_, ok, err := r.attributeContext(op, location)
	if ok {
		r.d.VertexAttribfv(uint32(location), v)
	}
	return err
}

// SetAttributeiv sets the constant value of an int vector attribute.
func (r *Renderer) SetAttributeiv(location int32, v []int32) error {
	const op = "SetAttributeiv"
	if len(v) < 1 || len(v) > 4 {
		return r.failf(op, ErrInvalidArgument, "%d elements", len(v))
	}
	_, ok, err := r.attributeContext(op, location)
	if ok {
		r.d.VertexAttribiv(uint32(location), v)
	}
	return err
}

// SetAttributeuiv sets the constant value of an unsigned int vector
// attribute.
func (r *Renderer) SetAttributeuiv(location int32, v []uint32) error {
	const op = "SetAttributeuiv"
	if len(v) < 1 || len(v) > 4 {
		return r.failf(op, ErrInvalidArgument, "%d elements", len(v))
	}
	_, ok, err := r.attributeContext(op, location)
	if ok {
		r.d.VertexAttribuiv(uint32(location), v)
	}
	return err
}

// AttributeFormat describes the values of an attribute source.
type AttributeFormat struct {
	// Type is the GL type of each element, e.g. driver.Float.
	Type driver.Enum
	// Elements per value, 1 to 4.
	Elements  int
	Normalize bool
	// Stride is the byte distance between values; 0 means packed.
	Stride int
	// Offset is the byte offset of the first value.
	Offset int
	// PerSprite gives each sprite one value, shared by its four vertices.
	// Otherwise every vertex has its own value.
	PerSprite bool
}

// FloatAttribute returns the format of packed float values.
func FloatAttribute(elements int, perSprite bool) AttributeFormat {
	return AttributeFormat{Type: driver.Float, Elements: elements, PerSprite: perSprite}
}

// VertexFormat returns the gputypes vertex format of float values.
func (f AttributeFormat) VertexFormat() (gputypes.VertexFormat, bool) {
	if f.Type != driver.Float {
		return 0, false
	}
	switch f.Elements {
	case 1:
		return gputypes.VertexFormatFloat32, true
	case 2:
		return gputypes.VertexFormatFloat32x2, true
	case 3:
		return gputypes.VertexFormatFloat32x3, true
	case 4:
		return gputypes.VertexFormatFloat32x4, true
	}
	return 0, false
}

// SetAttributeSource streams values into the attribute at location (0 to
// 15) for the sprites drawn next on the shader tier. numValues counts
// values: one per vertex, or one per sprite for per-sprite formats.
//
// Each flush pass consumes as many values as it draws vertices, and passes
// are shortened so that no source runs out mid-pass. A source that runs out
// rewinds to its start and stops shortening passes. values is read at
// every flush, so it must stay valid until the sprites are drawn.
func (r *Renderer) SetAttributeSource(location int32, numValues int, values []byte, f AttributeFormat) error {
	const op = "SetAttributeSource"
	if location < 0 || location >= attrib.MaxSources {
		return r.failf(op, ErrInvalidArgument, "location %d", location)
	}
	c, err := r.context(op)
	if err != nil {
		return err
	}
	if c.fixed {
		return r.failf(op, ErrMissingFeatures, "attribute sources need the shader tier")
	}
	c.flush()
	err = c.attribs.Set(int(location), uint32(location), numValues, values, attrib.Format{
		Type:      f.Type,
		Elements:  f.Elements,
		Normalize: f.Normalize,
		Stride:    f.Stride,
		Offset:    f.Offset,
		PerSprite: f.PerSprite,
	})
	if err != nil {
		return r.failf(op, ErrInvalidArgument, "%v", err)
	}
	return nil
}

// ClearAttributeSource stops streaming into the attribute at location.
func (r *Renderer) ClearAttributeSource(location int32) error {
	c, err := r.context("ClearAttributeSource")
	if err != nil {
		return err
	}
	c.flush()
	c.attribs.Clear(int(location))
	return nil
}

// AttributeSourceRemaining returns the values of the source at location not
// yet drawn, in the units it was set with.
func (r *Renderer) AttributeSourceRemaining(location int32) int {
	if r.current == nil {
		return 0
	}
	return r.current.ctx.attribs.Remaining(int(location))
}
