package blit

import (
	"fmt"

	"github.com/gogpu/blit/internal/batch"
	"github.com/gogpu/blit/internal/tess"
)

// Shapes are untextured and batched by primitive: consecutive outlines share
// one line batch and consecutive fills one triangle batch. Angles are in
// degrees, clockwise from +x.

func meshKind(p tess.Primitive) batch.Kind {
	switch p {
	case tess.Points:
		return batch.KindPoints
	case tess.Lines:
		return batch.KindLines
	}
	return batch.KindTriangles
}

// shape queues a tessellated mesh in col.
func (r *Renderer) shape(op string, t *Target, col Color, m tess.Mesh) error {
	c, err := r.bind(op, t)
	if err != nil {
		return err
	}
	c.state.BindTexture(0)
	col = t.tint(col)
	c.applyColor(col)
	c.applyBlending(c.shapeBlending, c.shapeBlendMode)
	c.prepareProgram(false)

	kind := meshKind(m.Primitive)
	if kind == batch.KindLines {
		c.state.SetLineWidth(c.lineThickness)
	}
	nv, ni := m.NumVertices(), len(m.Indices)
	if nv == 0 {
		return nil
	}
	if !c.batch.Fits(kind, nv, ni) {
		c.flush()
		if !c.batch.Fits(kind, nv, ni) {
			if err := c.batch.Grow(max(nv, ni/3+1)); err != nil {
				return r.fail(op, fmt.Errorf("%w: %w", ErrBatchTooLarge, err))
			}
			c.submit.Reserve(c.batch.Cap())
		}
	}

	f := col.floats()
	verts := make([]batch.Vertex, nv)
	for i := range verts {
		verts[i] = batch.Vertex{
			X: m.Points[2*i], Y: m.Points[2*i+1],
			R: f[0], G: f[1], B: f[2], A: f[3],
		}
	}
	c.batch.AppendShape(kind, verts, m.Indices)
	return nil
}

func (r *Renderer) checkRadius(op string, radii ...float32) error {
	for _, v := range radii {
		if v < 0 {
			return r.failf(op, ErrInvalidArgument, "radius %v", v)
		}
	}
	return nil
}

// SetLineThickness sets the width of outlines drawn on the current context
// and returns the previous width.
func (r *Renderer) SetLineThickness(thickness float32) float32 {
	c, err := r.context("SetLineThickness")
	if err != nil {
		return 1
	}
	old := c.lineThickness
	if thickness > 0 {
		c.lineThickness = thickness
	}
	return old
}

// LineThickness returns the outline width of the current context.
func (r *Renderer) LineThickness() float32 {
	if r.current == nil {
		return 1
	}
	return r.current.ctx.lineThickness
}

// SetShapeBlending enables or disables blending for shapes on the current
// context. Shapes blend by default.
func (r *Renderer) SetShapeBlending(on bool) error {
	c, err := r.context("SetShapeBlending")
	if err != nil {
		return err
	}
	c.shapeBlending = on
	return nil
}

// SetShapeBlendMode sets the blend mode of shapes on the current context.
func (r *Renderer) SetShapeBlendMode(mode BlendMode) error {
	const op = "SetShapeBlendMode"
	c, err := r.context(op)
	if err != nil {
		return err
	}
	if !mode.Valid() {
		return r.failf(op, ErrInvalidArgument, "blend mode %v", mode)
	}
	c.shapeBlendMode = mode
	return nil
}

// Pixel draws a single point.
func (r *Renderer) Pixel(t *Target, x, y float32, col Color) error {
	return r.shape("Pixel", t, col, tess.Pixel(x, y))
}

// Line draws a line segment.
func (r *Renderer) Line(t *Target, x1, y1, x2, y2 float32, col Color) error {
	return r.shape("Line", t, col, tess.Line(x1, y1, x2, y2))
}

// Arc draws a circular arc from startAngle to endAngle.
func (r *Renderer) Arc(t *Target, x, y, radius, startAngle, endAngle float32, col Color) error {
	if err := r.checkRadius("Arc", radius); err != nil {
		return err
	}
	return r.shape("Arc", t, col, tess.Arc(x, y, radius, startAngle, endAngle))
}

// ArcFilled draws a filled pie slice from startAngle to endAngle.
func (r *Renderer) ArcFilled(t *Target, x, y, radius, startAngle, endAngle float32, col Color) error {
	if err := r.checkRadius("ArcFilled", radius); err != nil {
		return err
	}
	return r.shape("ArcFilled", t, col, tess.ArcFilled(x, y, radius, startAngle, endAngle))
}

// Circle draws a circle outline.
func (r *Renderer) Circle(t *Target, x, y, radius float32, col Color) error {
	if err := r.checkRadius("Circle", radius); err != nil {
		return err
	}
	return r.shape("Circle", t, col, tess.Circle(x, y, radius))
}

// CircleFilled draws a filled circle.
func (r *Renderer) CircleFilled(t *Target, x, y, radius float32, col Color) error {
	if err := r.checkRadius("CircleFilled", radius); err != nil {
		return err
	}
	return r.shape("CircleFilled", t, col, tess.CircleFilled(x, y, radius))
}

// Sector draws the outline of a ring segment between two radii.
func (r *Renderer) Sector(t *Target, x, y, innerRadius, outerRadius, startAngle, endAngle float32, col Color) error {
	if err := r.checkRadius("Sector", innerRadius, outerRadius); err != nil {
		return err
	}
	return r.shape("Sector", t, col, tess.Sector(x, y, innerRadius, outerRadius, startAngle, endAngle))
}

// SectorFilled draws a filled ring segment between two radii.
func (r *Renderer) SectorFilled(t *Target, x, y, innerRadius, outerRadius, startAngle, endAngle float32, col Color) error {
	if err := r.checkRadius("SectorFilled", innerRadius, outerRadius); err != nil {
		return err
	}
	return r.shape("SectorFilled", t, col, tess.SectorFilled(x, y, innerRadius, outerRadius, startAngle, endAngle))
}

// Tri draws a triangle outline.
func (r *Renderer) Tri(t *Target, x1, y1, x2, y2, x3, y3 float32, col Color) error {
	return r.shape("Tri", t, col, tess.Tri(x1, y1, x2, y2, x3, y3))
}

// TriFilled draws a filled triangle.
func (r *Renderer) TriFilled(t *Target, x1, y1, x2, y2, x3, y3 float32, col Color) error {
	return r.shape("TriFilled", t, col, tess.TriFilled(x1, y1, x2, y2, x3, y3))
}

// Rectangle draws a rectangle outline between two corners.
func (r *Renderer) Rectangle(t *Target, x1, y1, x2, y2 float32, col Color) error {
	return r.shape("Rectangle", t, col, tess.Rectangle(x1, y1, x2, y2))
}

// RectangleFilled draws a filled rectangle between two corners.
func (r *Renderer) RectangleFilled(t *Target, x1, y1, x2, y2 float32, col Color) error {
	return r.shape("RectangleFilled", t, col, tess.RectangleFilled(x1, y1, x2, y2))
}

// RectangleRound draws a rectangle outline with rounded corners.
func (r *Renderer) RectangleRound(t *Target, x1, y1, x2, y2, radius float32, col Color) error {
	if err := r.checkRadius("RectangleRound", radius); err != nil {
		return err
	}
	return r.shape("RectangleRound", t, col, tess.RectangleRound(x1, y1, x2, y2, radius))
}

// RectangleRoundFilled draws a filled rectangle with rounded corners.
func (r *Renderer) RectangleRoundFilled(t *Target, x1, y1, x2, y2, radius float32, col Color) error {
	if err := r.checkRadius("RectangleRoundFilled", radius); err != nil {
		return err
	}
	return r.shape("RectangleRoundFilled", t, col, tess.RectangleRoundFilled(x1, y1, x2, y2, radius))
}

// Polygon draws a closed outline through points, given as x, y pairs.
func (r *Renderer) Polygon(t *Target, points []float32, col Color) error {
	const op = "Polygon"
	if len(points) < 4 || len(points)%2 != 0 {
		return r.failf(op, ErrInvalidArgument, "%d coordinates", len(points))
	}
	return r.shape(op, t, col, tess.Polygon(points))
}

// PolygonFilled draws a filled convex polygon through points, given as x, y
// pairs.
func (r *Renderer) PolygonFilled(t *Target, points []float32, col Color) error {
	const op = "PolygonFilled"
	if len(points) < 6 || len(points)%2 != 0 {
		return r.failf(op, ErrInvalidArgument, "%d coordinates", len(points))
	}
	return r.shape(op, t, col, tess.PolygonFilled(points))
}
