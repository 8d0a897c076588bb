package blit

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/blit/internal/batch"
)

// nearestOffset moves NEAREST-filtered quads off texel boundaries so that
// rasterization picks the intended texels.
const nearestOffset = 0.375

// FloatsPerBatchSprite is the number of floats BlitBatch reads per sprite:
// four vertices of x, y, s, t, r, g, b, a.
const FloatsPerBatchSprite = 32

// sprite is the geometry of one blit before it is queued.
type sprite struct {
	img    *Image
	region Rect
	// s1, t1, s2, t2 are the normalized texture coordinates of the region.
	s1, t1, s2, t2 float32
}

func newSprite(img *Image, src *Rect) sprite {
	region := Rect{W: float32(img.w), H: float32(img.h)}
	if src != nil {
		region = *src
	}
	tw, th := float32(img.texW), float32(img.texH)
	return sprite{
		img:    img,
		region: region,
		s1:     region.X / tw,
		t1:     region.Y / th,
		s2:     (region.X + region.W) / tw,
		t2:     (region.Y + region.H) / th,
	}
}

// prepareImage binds everything needed to draw img into dst and returns the
// vertex color.
func (r *Renderer) prepareImage(op string, img *Image, src *Rect, dst *Target) (*Context, Color, error) {
	if err := r.checkImage(op, img); err != nil {
		return nil, Color{}, err
	}
	if src != nil && (src.W < 0 || src.H < 0) {
		return nil, Color{}, r.failf(op, ErrInvalidArgument, "source %vx%v", src.W, src.H)
	}
	if dst != nil && dst.image == img {
		return nil, Color{}, r.failf(op, ErrInvalidArgument, "image drawn into itself")
	}
	c, err := r.bind(op, dst)
	if err != nil {
		return nil, Color{}, err
	}
	c.state.BindTexture(img.tex)
	col := dst.tint(img.color)
	c.applyColor(col)
	c.applyBlending(img.blending, img.blendMode)
	c.prepareProgram(true)
	return c, col, nil
}

// queueQuad appends a quad, flushing first when the batch is full.
func (c *Context) queueQuad(q *[4]batch.Vertex, col Color) {
	if !c.fixed {
		f := col.floats()
		for i := range q {
			q[i].R, q[i].G, q[i].B, q[i].A = f[0], f[1], f[2], f[3]
		}
	}
	if !c.batch.Fits(batch.KindSprites, 4, 6) {
		c.flush()
	}
	c.batch.AppendQuad(q)
}

// quad builds the four corners of a sprite in the standard order: top-left,
// top-right, bottom-right, bottom-left.
func (s *sprite) quad(x1, y1, x2, y2, x3, y3, x4, y4 float32) [4]batch.Vertex {
	return [4]batch.Vertex{
		{X: x1, Y: y1, S: s.s1, T: s.t1},
		{X: x2, Y: y2, S: s.s2, T: s.t1},
		{X: x3, Y: y3, S: s.s2, T: s.t2},
		{X: x4, Y: y4, S: s.s1, T: s.t2},
	}
}

// Blit draws the src region of img centered at (x, y) on dst. A nil src
// draws the whole image.
func (r *Renderer) Blit(img *Image, src *Rect, dst *Target, x, y float32) error {
	c, col, err := r.prepareImage("Blit", img, src, dst)
	if err != nil {
		return err
	}
	s := newSprite(img, src)
	if img.filter == FilterNearest {
		x += nearestOffset
		y += nearestOffset
	}
	dx1, dy1 := x-s.region.W/2, y-s.region.H/2
	dx2, dy2 := x+s.region.W/2, y+s.region.H/2
	q := s.quad(dx1, dy1, dx2, dy1, dx2, dy2, dx1, dy2)
	c.queueQuad(&q, col)
	return nil
}

// BlitRotate draws img centered at (x, y), rotated by degrees about its
// center.
func (r *Renderer) BlitRotate(img *Image, src *Rect, dst *Target, x, y, degrees float32) error {
	w, h := regionSize(img, src)
	return r.blitTransform("BlitRotate", img, src, dst, x, y, w/2, h/2, degrees, 1, 1)
}

// BlitScale draws img centered at (x, y), scaled about its center.
func (r *Renderer) BlitScale(img *Image, src *Rect, dst *Target, x, y, scaleX, scaleY float32) error {
	w, h := regionSize(img, src)
	return r.blitTransform("BlitScale", img, src, dst, x, y, w/2, h/2, 0, scaleX, scaleY)
}

// BlitTransform draws img centered at (x, y), scaled and then rotated about
// its center.
func (r *Renderer) BlitTransform(img *Image, src *Rect, dst *Target, x, y, degrees, scaleX, scaleY float32) error {
	w, h := regionSize(img, src)
	return r.blitTransform("BlitTransform", img, src, dst, x, y, w/2, h/2, degrees, scaleX, scaleY)
}

// BlitTransformX draws img with its pivot point (relative to the region's
// top-left corner) placed at (x, y), scaled and rotated about the pivot.
func (r *Renderer) BlitTransformX(img *Image, src *Rect, dst *Target, x, y, pivotX, pivotY, degrees, scaleX, scaleY float32) error {
	return r.blitTransform("BlitTransformX", img, src, dst, x, y, pivotX, pivotY, degrees, scaleX, scaleY)
}

func regionSize(img *Image, src *Rect) (w, h float32) {
	if src != nil {
		return src.W, src.H
	}
	if img == nil {
		return 0, 0
	}
	return float32(img.w), float32(img.h)
}

func (r *Renderer) blitTransform(op string, img *Image, src *Rect, dst *Target, x, y, pivotX, pivotY, degrees, scaleX, scaleY float32) error {
	c, col, err := r.prepareImage(op, img, src, dst)
	if err != nil {
		return err
	}
	s := newSprite(img, src)
	w, h := s.region.W, s.region.H
	if img.filter == FilterNearest {
		x += nearestOffset
		y += nearestOffset
	}

	// Corners about the region center, scaled.
	dx1, dy1 := -w/2*scaleX, -h/2*scaleY
	dx2, dy2 := w/2*scaleX, h/2*scaleY

	// Shift so the pivot, not the center, lands on (x, y).
	px, py := (pivotX-w/2)*scaleX, (pivotY-h/2)*scaleY
	dx1, dx2 = dx1-px, dx2-px
	dy1, dy2 = dy1-py, dy2-py

	corners := [4][2]float32{{dx1, dy1}, {dx2, dy1}, {dx2, dy2}, {dx1, dy2}}
	if degrees != 0 {
		sin, cos := math32.Sincos(degrees * math32.Pi / 180)
		for i, p := range corners {
			corners[i] = [2]float32{p[0]*cos - p[1]*sin, p[0]*sin + p[1]*cos}
		}
	}
	q := s.quad(
		corners[0][0]+x, corners[0][1]+y,
		corners[1][0]+x, corners[1][1]+y,
		corners[2][0]+x, corners[2][1]+y,
		corners[3][0]+x, corners[3][1]+y,
	)
	c.queueQuad(&q, col)
	return nil
}

// BlitTransformMatrix draws img with its corners, taken about the region
// center, transformed by the column-major 3x3 matrix m and then offset by
// (x, y). The transform runs on the CPU so sprites drawn with different
// matrices still batch together.
func (r *Renderer) BlitTransformMatrix(img *Image, src *Rect, dst *Target, x, y float32, m []float32) error {
	const op = "BlitTransformMatrix"
	mat, err := MatrixFromColumnMajor(m)
	if err != nil {
		return r.fail(op, err)
	}
	c, col, err := r.prepareImage(op, img, src, dst)
	if err != nil {
		return err
	}
	s := newSprite(img, src)
	if img.filter == FilterNearest {
		x += nearestOffset
		y += nearestOffset
	}
	mat = Translate(x, y).Multiply(mat)
	w, h := s.region.W/2, s.region.H/2
	x1, y1 := mat.TransformPoint(-w, -h)
	x2, y2 := mat.TransformPoint(w, -h)
	x3, y3 := mat.TransformPoint(w, h)
	x4, y4 := mat.TransformPoint(-w, h)
	q := s.quad(x1, y1, x2, y2, x3, y3, x4, y4)
	c.queueQuad(&q, col)
	return nil
}

// BlitBatch draws numSprites sprites of img from interleaved values: for
// each sprite four vertices of x, y, s, t, r, g, b, a in the standard corner
// order. Positions are in target pixels and texture coordinates are
// normalized. The values are submitted in capacity-sized passes without
// being copied into the batch.
func (r *Renderer) BlitBatch(img *Image, dst *Target, numSprites int, values []float32) error {
	const op = "BlitBatch"
	if numSprites < 0 {
		return r.failf(op, ErrInvalidArgument, "%d sprites", numSprites)
	}
	if need := numSprites * FloatsPerBatchSprite; len(values) < need {
		return r.failf(op, ErrInvalidArgument, "%d values for %d sprites, need %d", len(values), numSprites, need)
	}
	c, _, err := r.prepareImage(op, img, nil, dst)
	if err != nil {
		return err
	}
	if numSprites == 0 {
		return nil
	}
	c.flush()

	c.flushing = true
	pushed := c.beginDraw(dst)
	n := numSprites * 4
	passes := c.submitQuads(values, n, 8, true)
	c.endDraw(dst, pushed)
	c.flushing = false
	if c.fixed {
		c.state.ForgetColor()
	}

	c.r.recordFlush(FlushInfo{
		Target:   dst,
		Vertices: n,
		Indices:  numSprites * 6,
		Passes:   passes,
		Topology: topology(batch.KindSprites),
	})
	return nil
}
