// Package tess generates vertex lists for untextured shapes.
//
// Every function returns a Mesh of one primitive kind with indices relative
// to its first point. Filled shapes are triangle lists, outlines are line
// lists. Angles are in degrees, measured clockwise from +x in a y-down
// coordinate system.
package tess

import "github.com/chewxy/math32"

// Primitive is the kind of geometry in a Mesh.
type Primitive uint8

// Primitives.
const (
	Points Primitive = iota
	Lines
	Triangles
)

// Mesh is tessellated geometry.
type Mesh struct {
	Primitive Primitive
	// Points holds x, y pairs.
	Points  []float32
	Indices []uint16
}

// NumVertices returns the number of points.
func (m *Mesh) NumVertices() int { return len(m.Points) / 2 }

func (m *Mesh) add(x, y float32) uint16 {
	m.Points = append(m.Points, x, y)
	return uint16(len(m.Points)/2 - 1)
}

// Segments returns the number of segments used for a full circle of
// radius r.
func Segments(r float32) int {
	if r <= 0 {
		return 8
	}
	step := 1.25 / math32.Sqrt(r)
	n := int(math32.Ceil(2 * math32.Pi / step))
	return min(max(n, 8), 360)
}

func rad(deg float32) float32 { return deg * math32.Pi / 180 }

// sweep normalizes an angle range so that end > start and end-start <= 360.
func sweep(start, end float32) (float32, float32) {
	for end < start {
		end += 360
	}
	if end-start > 360 {
		end = start + 360
	}
	return start, end
}

// arcPoints appends points along an arc and returns their indices.
func (m *Mesh) arcPoints(cx, cy, r, start, end float32) []uint16 {
	start, end = sweep(start, end)
	n := max(int(math32.Ceil(float32(Segments(r))*(end-start)/360)), 1)
	idx := make([]uint16, 0, n+1)
	for i := 0; i <= n; i++ {
		a := rad(start + (end-start)*float32(i)/float32(n))
		sin, cos := math32.Sincos(a)
		idx = append(idx, m.add(cx+r*cos, cy+r*sin))
	}
	return idx
}

// strip connects consecutive indices with line segments.
func (m *Mesh) strip(idx []uint16) {
	for i := 0; i+1 < len(idx); i++ {
		m.Indices = append(m.Indices, idx[i], idx[i+1])
	}
}

// loop connects consecutive indices and closes the ring.
func (m *Mesh) loop(idx []uint16) {
	m.strip(idx)
	if len(idx) > 2 {
		m.Indices = append(m.Indices, idx[len(idx)-1], idx[0])
	}
}

// fan triangulates a convex ring around a center index.
func (m *Mesh) fan(center uint16, ring []uint16) {
	for i := 0; i+1 < len(ring); i++ {
		m.Indices = append(m.Indices, center, ring[i], ring[i+1])
	}
}

// Pixel is a single point.
func Pixel(x, y float32) Mesh {
	m := Mesh{Primitive: Points}
	m.Indices = append(m.Indices, m.add(x, y))
	return m
}

// Line is a single segment.
func Line(x1, y1, x2, y2 float32) Mesh {
	m := Mesh{Primitive: Lines}
	m.Indices = append(m.Indices, m.add(x1, y1), m.add(x2, y2))
	return m
}

// Arc is an open arc outline.
func Arc(x, y, r, start, end float32) Mesh {
	m := Mesh{Primitive: Lines}
	m.strip(m.arcPoints(x, y, r, start, end))
	return m
}

// ArcFilled is a pie slice.
func ArcFilled(x, y, r, start, end float32) Mesh {
	m := Mesh{Primitive: Triangles}
	c := m.add(x, y)
	m.fan(c, m.arcPoints(x, y, r, start, end))
	return m
}

// Circle is a circle outline.
func Circle(x, y, r float32) Mesh {
	m := Mesh{Primitive: Lines}
	ring := m.circleRing(x, y, r)
	m.loop(ring)
	return m
}

// CircleFilled is a filled disc.
func CircleFilled(x, y, r float32) Mesh {
	m := Mesh{Primitive: Triangles}
	c := m.add(x, y)
	ring := m.circleRing(x, y, r)
	m.fan(c, append(ring, ring[0]))
	return m
}

func (m *Mesh) circleRing(x, y, r float32) []uint16 {
	n := Segments(r)
	ring := make([]uint16, n)
	for i := range ring {
		sin, cos := math32.Sincos(2 * math32.Pi * float32(i) / float32(n))
		ring[i] = m.add(x+r*cos, y+r*sin)
	}
	return ring
}

// Sector is the outline of an annulus segment.
func Sector(x, y, inner, outer, start, end float32) Mesh {
	m := Mesh{Primitive: Lines}
	in := m.arcPoints(x, y, inner, start, end)
	out := m.arcPoints(x, y, outer, start, end)
	m.strip(in)
	m.strip(out)
	m.Indices = append(m.Indices, in[0], out[0], in[len(in)-1], out[len(out)-1])
	return m
}

// SectorFilled is a filled annulus segment.
func SectorFilled(x, y, inner, outer, start, end float32) Mesh {
	m := Mesh{Primitive: Triangles}
	start, end = sweep(start, end)
	n := max(int(math32.Ceil(float32(Segments(outer))*(end-start)/360)), 1)
	for i := 0; i <= n; i++ {
		sin, cos := math32.Sincos(rad(start + (end-start)*float32(i)/float32(n)))
		m.add(x+inner*cos, y+inner*sin)
		m.add(x+outer*cos, y+outer*sin)
	}
	for i := 0; i < n; i++ {
		a := uint16(i * 2)
		m.Indices = append(m.Indices, a, a+1, a+3, a, a+3, a+2)
	}
	return m
}

// Tri is a triangle outline.
func Tri(x1, y1, x2, y2, x3, y3 float32) Mesh {
	m := Mesh{Primitive: Lines}
	m.loop([]uint16{m.add(x1, y1), m.add(x2, y2), m.add(x3, y3)})
	return m
}

// TriFilled is a filled triangle.
func TriFilled(x1, y1, x2, y2, x3, y3 float32) Mesh {
	m := Mesh{Primitive: Triangles}
	m.Indices = append(m.Indices, m.add(x1, y1), m.add(x2, y2), m.add(x3, y3))
	return m
}

// Rectangle is a rectangle outline between two corners.
func Rectangle(x1, y1, x2, y2 float32) Mesh {
	m := Mesh{Primitive: Lines}
	m.loop([]uint16{m.add(x1, y1), m.add(x2, y1), m.add(x2, y2), m.add(x1, y2)})
	return m
}

// RectangleFilled is a filled rectangle between two corners.
func RectangleFilled(x1, y1, x2, y2 float32) Mesh {
	m := Mesh{Primitive: Triangles}
	a, b, c, d := m.add(x1, y1), m.add(x2, y1), m.add(x2, y2), m.add(x1, y2)
	m.Indices = append(m.Indices, a, b, c, a, c, d)
	return m
}

// roundedRing appends the outline of a rounded rectangle.
func (m *Mesh) roundedRing(x1, y1, x2, y2, r float32) []uint16 {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	r = min(r, (x2-x1)/2, (y2-y1)/2)
	var ring []uint16
	ring = append(ring, m.arcPoints(x2-r, y1+r, r, 270, 360)...)
	ring = append(ring, m.arcPoints(x2-r, y2-r, r, 0, 90)...)
	ring = append(ring, m.arcPoints(x1+r, y2-r, r, 90, 180)...)
	ring = append(ring, m.arcPoints(x1+r, y1+r, r, 180, 270)...)
	return ring
}

// RectangleRound is a rounded rectangle outline. A radius of 0 or less
// yields a plain rectangle.
func RectangleRound(x1, y1, x2, y2, r float32) Mesh {
	if r <= 0 {
		return Rectangle(x1, y1, x2, y2)
	}
	m := Mesh{Primitive: Lines}
	m.loop(m.roundedRing(x1, y1, x2, y2, r))
	return m
}

// RectangleRoundFilled is a filled rounded rectangle.
func RectangleRoundFilled(x1, y1, x2, y2, r float32) Mesh {
	if r <= 0 {
		return RectangleFilled(x1, y1, x2, y2)
	}
	m := Mesh{Primitive: Triangles}
	c := m.add((x1+x2)/2, (y1+y2)/2)
	ring := m.roundedRing(x1, y1, x2, y2, r)
	m.fan(c, append(ring, ring[0]))
	return m
}

// Polygon is a closed outline through the given x, y pairs.
func Polygon(points []float32) Mesh {
	m := Mesh{Primitive: Lines}
	ring := make([]uint16, 0, len(points)/2)
	for i := 0; i+1 < len(points); i += 2 {
		ring = append(ring, m.add(points[i], points[i+1]))
	}
	m.loop(ring)
	return m
}

// PolygonFilled fans a convex polygon from its first point.
func PolygonFilled(points []float32) Mesh {
	m := Mesh{Primitive: Triangles}
	n := len(points) / 2
	for i := 0; i < n; i++ {
		m.add(points[i*2], points[i*2+1])
	}
	for i := 1; i+1 < n; i++ {
		m.Indices = append(m.Indices, 0, uint16(i), uint16(i+1))
	}
	return m
}
