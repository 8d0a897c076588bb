package blit

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/blit/backend"
	"github.com/gogpu/blit/driver"
	"github.com/gogpu/blit/internal/attrib"
	"github.com/gogpu/blit/internal/batch"
	"github.com/gogpu/blit/internal/matrix"
	"github.com/gogpu/blit/internal/state"
)

// Context is the GL state of one window: the state cache, the vertex batch,
// the submitter of the selected tier, the matrix stacks and the shader
// program slots. It is created with its window target and released with it.
type Context struct {
	r        *Renderer
	win      Window
	windowID uint32
	fixed    bool // tier reads matrices and color from fixed-function state

	state   *state.Tracker
	batch   *batch.Buffer
	submit  backend.Submitter
	attribs attrib.Manager

	projection *matrix.Stack
	modelView  *matrix.Stack
	mvp        matrix.Mat4

	// Matrices last loaded into fixed-function state.
	loadedProjection matrix.Mat4
	loadedModelView  matrix.Mat4
	matricesLoaded   bool

	// target is the destination the pending batch draws into.
	target *Target

	// Default programs of the shader tier.
	texturedProgram   uint32
	untexturedProgram uint32
	texturedBlock     ShaderBlock
	untexturedBlock   ShaderBlock

	// Active program and the locations it is fed through.
	program uint32
	block   ShaderBlock

	intel      bool // empty Begin/End before attribute 0 updates
	intelArmed bool

	lineThickness  float32
	shapeBlending  bool
	shapeBlendMode BlendMode

	flushing    bool
	changesBase int
	released    bool
}

// newContext creates the context of a window target.
func (r *Renderer) newContext(win Window) (*Context, error) {
	fixed := r.backend.FixedFunction()
	layout := batch.LayoutPosTexColor
	if fixed {
		layout = batch.LayoutPosTex
	}
	buf, err := batch.New(layout, r.opts.maxSprites)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBatchTooLarge, err)
	}
	submit, err := r.backend.NewSubmitter(r.d, r.info.Features, buf.Cap())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoBackend, err)
	}

	c := &Context{
		r:              r,
		win:            win,
		windowID:       win.ID(),
		fixed:          fixed,
		batch:          buf,
		submit:         submit,
		projection:     matrix.NewStack(),
		modelView:      matrix.NewStack(),
		block:          backend.EmptyShaderBlock,
		intel:          r.opts.workarounds && r.info.IntelVendor,
		lineThickness:  1,
		shapeBlending:  true,
		shapeBlendMode: BlendNormal,
	}
	c.intelArmed = c.intel
	c.state = state.New(r.d, r.info.Features, fixed, c.flush)

	if !fixed {
		if err := c.loadDefaultPrograms(); err != nil {
			submit.Release()
			return nil, err
		}
	}
	Logger().Debug("blit: context created",
		slog.Uint64("window", uint64(c.windowID)),
		slog.Int("max_vertices", buf.Cap()),
		slog.Int("stride", layout.Stride))
	return c, nil
}

// loadDefaultPrograms compiles and links the default textured and
// untextured programs and makes the textured one active.
func (c *Context) loadDefaultPrograms() error {
	textured, untextured := backend.Sources(c.r.info.ES)
	var err error
	if c.texturedProgram, err = c.r.buildProgram(textured); err != nil {
		return err
	}
	if c.untexturedProgram, err = c.r.buildProgram(untextured); err != nil {
		c.r.d.DeleteProgram(c.texturedProgram)
		return err
	}
	c.texturedBlock = c.r.LoadShaderBlock(c.texturedProgram,
		backend.AttribPosition, backend.AttribTexCoord, backend.AttribColor, backend.UniformMVP)
	c.untexturedBlock = c.r.LoadShaderBlock(c.untexturedProgram,
		backend.AttribPosition, "", backend.AttribColor, backend.UniformMVP)
	c.program, c.block = c.texturedProgram, c.texturedBlock
	return nil
}

// release frees the GL objects owned by the context.
func (c *Context) release() {
	if c.released {
		return
	}
	c.submit.Release()
	c.attribs.Release(c.r.d)
	for _, p := range []uint32{c.texturedProgram, c.untexturedProgram} {
		if p != 0 {
			c.r.forgetLocations(p)
			c.r.d.DeleteProgram(p)
		}
	}
	c.released = true
}

// Window returns the window the context presents to.
func (c *Context) Window() Window { return c.win }

// Target returns the destination the pending batch draws into.
func (c *Context) Target() *Target { return c.target }

// Pending returns the number of batched vertices.
func (c *Context) Pending() int { return c.batch.Len() }

// isDefault reports whether p is one of the default programs.
func (c *Context) isDefault(p uint32) bool {
	return p == c.texturedProgram || p == c.untexturedProgram
}

// prepareProgram binds the program for textured or untextured geometry.
// A default program is swapped for the matching default; a custom program
// stays active.
func (c *Context) prepareProgram(textured bool) {
	if !c.fixed && c.isDefault(c.program) {
		if textured {
			c.program, c.block = c.texturedProgram, c.texturedBlock
		} else {
			c.program, c.block = c.untexturedProgram, c.untexturedBlock
		}
	}
	c.bindProgram()
}

// applyCamera loads the projection and model-view of t's camera.
func (c *Context) applyCamera(t *Target) {
	cam := t.camera
	w, h := float32(t.w), float32(t.h)
	c.projection.Load(matrix.Ortho(cam.X, w+cam.X, h+cam.Y, cam.Y, -1, 1))
	c.modelView.Load(cameraMatrix(cam, w, h))
}

// cameraMatrix rotates and zooms about the center of a w by h view.
func cameraMatrix(cam Camera, w, h float32) matrix.Mat4 {
	m := matrix.Identity()
	m.Translate(w/2, h/2, 0)
	m.RotateZ(cam.Angle)
	m.Translate(-w/2, -h/2, 0)

	m.Translate(cam.X+w/2, cam.Y+h/2, 0)
	m.Scale(cam.Zoom, cam.Zoom, 1)
	m.Translate(-cam.X-w/2, -cam.Y-h/2, 0)
	return m
}

// applyBlending sets blending for pending geometry.
func (c *Context) applyBlending(on bool, mode BlendMode) {
	c.state.SetBlending(on)
	if on {
		c.state.SetBlendMode(mode)
	}
}

// applyColor sets the fixed-function current color. Shader tiers carry
// color per vertex.
func (c *Context) applyColor(col Color) {
	if c.fixed {
		c.state.SetColor(col.floats())
	}
}

// armIntel issues the empty Begin/End pair the Intel driver needs before
// generic attribute 0 takes a new value.
func (c *Context) armIntel(location uint32) {
	if c.intel && c.intelArmed && location == 0 {
		c.intelArmed = false
		c.r.d.Begin(driver.Triangles)
		c.r.d.End()
	}
}
