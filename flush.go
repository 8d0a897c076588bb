package blit

import (
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/blit/backend"
	"github.com/gogpu/blit/driver"
	"github.com/gogpu/blit/internal/batch"
	"github.com/gogpu/blit/internal/matrix"
)

// flush submits the pending batch to the bound target and resets it.
//
// Sprites are drawn in passes of whole quads. On the shader tier an active
// attribute source with fewer values left than the batch caps the pass size,
// so every pass consumes the sources in step with the geometry.
func (c *Context) flush() {
	if c.flushing || c.batch.Empty() {
		return
	}
	dst := c.target
	if dst == nil {
		c.batch.Reset()
		return
	}
	c.flushing = true
	defer func() { c.flushing = false }()

	pushed := c.beginDraw(dst)
	kind := c.batch.Kind()
	fi := FlushInfo{
		Target:   dst,
		Vertices: c.batch.Len(),
		Indices:  c.batch.NumIndices(),
		Topology: topology(kind),
	}
	layout := c.batch.Layout()
	if kind == batch.KindSprites {
		fi.Passes = c.submitQuads(c.batch.Vertices(), c.batch.Len(), layout.Stride, layout.HasColor())
	} else {
		c.submit.Submit(&backend.Pass{
			Mode:        primitiveMode(kind),
			Vertices:    c.batch.Vertices(),
			NumVertices: c.batch.Len(),
			Stride:      layout.Stride,
			Colors:      layout.HasColor(),
			Indices:     c.batch.Indices(),
			Block:       c.block,
			MVP:         (*[16]float32)(&c.mvp),
		})
		fi.Passes = 1
	}
	c.batch.Reset()
	c.endDraw(dst, pushed)

	c.r.recordFlush(fi)
	Logger().Debug("blit: flush",
		slog.String("kind", kind.String()),
		slog.Int("vertices", fi.Vertices),
		slog.Int("indices", fi.Indices),
		slog.Int("passes", fi.Passes),
		slog.Bool("image_target", dst.image != nil))
}

// submitQuads draws n vertices of whole quads from verts and returns the
// number of passes. Passes never exceed the batch capacity.
func (c *Context) submitQuads(verts []float32, n, stride int, colors bool) int {
	maxPass := c.batch.Cap() / 4 * 4
	passes := 0
	for n >= 4 {
		count := min(n/4*4, maxPass)
		if !c.fixed {
			if limit := c.attribs.Limit(count); limit < count && limit >= 4 {
				count = limit / 4 * 4
			}
		}
		p := backend.Pass{
			Mode:        driver.Triangles,
			Quads:       true,
			Vertices:    verts[:count*stride],
			NumVertices: count,
			Stride:      stride,
			TexCoords:   true,
			Colors:      colors,
			Indices:     c.batch.QuadIndices(count),
			Block:       c.block,
			MVP:         (*[16]float32)(&c.mvp),
		}
		if !c.fixed && c.attribs.Active() {
			p.Attributes = &c.attribs
		}
		c.submit.Submit(&p)
		verts = verts[count*stride:]
		n -= count
		passes++
	}
	return passes
}

// beginDraw applies the viewport, projection, matrices and scissor of dst.
// It reports whether a render-to-texture projection was pushed.
func (c *Context) beginDraw(dst *Target) bool {
	c.state.SetViewport(dst.glViewport())

	pushed := false
	if dst.image != nil && c.projection.Push() == nil {
		// Texture rows run bottom-up, so the projection is flipped.
		cam := dst.camera
		w, h := float32(dst.w), float32(dst.h)
		c.projection.Load(matrix.Ortho(cam.X, w+cam.X, cam.Y, h+cam.Y, -1, 1))
		pushed = true
	}

	if c.fixed {
		c.loadMatrices()
	} else {
		c.mvp = matrix.Mul(c.projection.Top(), c.modelView.Top())
		c.attribs.Refresh()
	}

	if dst.useClip {
		c.r.d.Enable(driver.ScissorTest)
		c.r.d.Scissor(dst.glScissor())
	}
	return pushed
}

// endDraw undoes beginDraw.
func (c *Context) endDraw(dst *Target, pushed bool) {
	if dst.useClip {
		c.r.d.Disable(driver.ScissorTest)
	}
	if pushed {
		_ = c.projection.Pop()
	}
}

// loadMatrices loads the projection and model-view into fixed-function
// state when they changed since the last load.
func (c *Context) loadMatrices() {
	p, mv := c.projection.Top(), c.modelView.Top()
	if c.matricesLoaded && *p == c.loadedProjection && *mv == c.loadedModelView {
		return
	}
	d := c.r.d
	d.MatrixMode(driver.Projection)
	d.LoadMatrixf((*[16]float32)(p))
	d.MatrixMode(driver.ModelView)
	d.LoadMatrixf((*[16]float32)(mv))
	c.loadedProjection, c.loadedModelView = *p, *mv
	c.matricesLoaded = true
}

func primitiveMode(k batch.Kind) driver.Enum {
	switch k {
	case batch.KindLines:
		return driver.Lines
	case batch.KindPoints:
		return driver.Points
	}
	return driver.Triangles
}

func topology(k batch.Kind) gputypes.PrimitiveTopology {
	switch k {
	case batch.KindLines:
		return gputypes.PrimitiveTopologyLineList
	case batch.KindPoints:
		return gputypes.PrimitiveTopologyPointList
	}
	return gputypes.PrimitiveTopologyTriangleList
}
