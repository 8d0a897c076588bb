// Package batch implements the CPU-side vertex batch shared by every
// submission tier.
//
// A Buffer holds interleaved per-vertex floats (position, texcoord and, for
// shader tiers, an RGBA color) plus a parallel 16-bit index list. Sprites are
// appended as quads of 4 vertices and 6 indices; shapes are appended as
// arbitrary indexed vertex lists of a single primitive kind. A Buffer never
// shrinks: Reset rewinds the counts and keeps the storage.
package batch

import (
	"errors"
	"fmt"
)

// MaxVertices is the most vertices a batch can address with 16-bit indices.
const MaxVertices = 1 << 16

// DefaultSprites is the default batch capacity in sprites.
const DefaultSprites = 1000

// ErrTooLarge is returned when a batch would need more vertices than 16-bit
// indices can address.
var ErrTooLarge = errors.New("batch: capacity exceeds 16-bit index range")

// Kind identifies what a batch currently holds. A batch only ever holds one
// kind; appending a different kind requires a flush first.
type Kind uint8

const (
	// KindEmpty is an empty batch.
	KindEmpty Kind = iota
	// KindSprites holds textured quads.
	KindSprites
	// KindTriangles holds untextured triangle lists.
	KindTriangles
	// KindLines holds untextured line lists.
	KindLines
	// KindPoints holds untextured points.
	KindPoints
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindSprites:
		return "sprites"
	case KindTriangles:
		return "triangles"
	case KindLines:
		return "lines"
	case KindPoints:
		return "points"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Layout describes the floats stored per vertex.
type Layout struct {
	// Stride is the number of floats per vertex: 4 (x, y, s, t) or
	// 8 (x, y, s, t, r, g, b, a).
	Stride int
}

// HasColor reports whether vertices carry an RGBA color.
func (l Layout) HasColor() bool { return l.Stride >= 8 }

// Layouts used by the tiers.
var (
	LayoutPosTex      = Layout{Stride: 4}
	LayoutPosTexColor = Layout{Stride: 8}
)

// Vertex is one vertex in batch coordinates.
type Vertex struct {
	X, Y       float32
	S, T       float32
	R, G, B, A float32
}

// Buffer is the vertex/index accumulator for one context.
type Buffer struct {
	layout      Layout
	maxVertices int
	vertices    []float32
	indices     []uint16
	numVertices int
	numIndices  int
	kind        Kind
	pattern     []uint16
}

// New allocates a buffer for maxSprites quads.
func New(layout Layout, maxSprites int) (*Buffer, error) {
	if maxSprites <= 0 {
		maxSprites = DefaultSprites
	}
	b := &Buffer{layout: layout}
	if err := b.Grow(maxSprites * 4); err != nil {
		return nil, err
	}
	return b, nil
}

// Layout returns the vertex layout.
func (b *Buffer) Layout() Layout { return b.layout }

// Kind returns what the batch currently holds.
func (b *Buffer) Kind() Kind { return b.kind }

// Len returns the pending vertex count.
func (b *Buffer) Len() int { return b.numVertices }

// NumIndices returns the pending index count.
func (b *Buffer) NumIndices() int { return b.numIndices }

// Cap returns the vertex capacity.
func (b *Buffer) Cap() int { return b.maxVertices }

// Empty reports whether nothing is pending.
func (b *Buffer) Empty() bool { return b.numVertices == 0 }

// Vertices returns the pending interleaved vertex floats.
func (b *Buffer) Vertices() []float32 { return b.vertices[:b.numVertices*b.layout.Stride] }

// Indices returns the pending indices.
func (b *Buffer) Indices() []uint16 { return b.indices[:b.numIndices] }

// Grow raises the vertex capacity to at least maxVertices, keeping pending
// contents. It never shrinks.
func (b *Buffer) Grow(maxVertices int) error {
	if maxVertices <= b.maxVertices {
		return nil
	}
	if maxVertices > MaxVertices {
		return fmt.Errorf("%w: %d vertices", ErrTooLarge, maxVertices)
	}
	vertices := make([]float32, maxVertices*b.layout.Stride)
	copy(vertices, b.vertices)
	// Shapes may index each vertex more than once; reserve two indices per
	// vertex beyond the quad ratio.
	indices := make([]uint16, maxVertices*3)
	copy(indices, b.indices)
	b.vertices, b.indices = vertices, indices
	b.maxVertices = maxVertices
	b.pattern = quadPattern(maxVertices)
	return nil
}

// quadPattern returns the static index list for n vertices of quads:
// i, i+1, i+2, i, i+2, i+3 for every fourth i.
func quadPattern(n int) []uint16 {
	p := make([]uint16, 0, n/4*6)
	for i := 0; i+3 < n; i += 4 {
		v := uint16(i)
		p = append(p, v, v+1, v+2, v, v+2, v+3)
	}
	return p
}

// QuadIndices returns the index pattern for n quad vertices starting at
// vertex 0. n must be a multiple of 4 and at most Cap.
func (b *Buffer) QuadIndices(n int) []uint16 { return b.pattern[:n/4*6] }

// Fits reports whether nv more vertices and ni more indices of kind k can be
// appended without a flush.
func (b *Buffer) Fits(k Kind, nv, ni int) bool {
	if b.kind != KindEmpty && b.kind != k {
		return false
	}
	return b.numVertices+nv <= b.maxVertices && b.numIndices+ni <= len(b.indices)
}

// AppendQuad writes 4 vertices and the two triangles covering them.
// The caller must have checked Fits.
func (b *Buffer) AppendQuad(v *[4]Vertex) {
	base := b.numVertices
	for i := range v {
		b.put(base+i, &v[i])
	}
	ib := uint16(base)
	idx := b.indices[b.numIndices : b.numIndices+6]
	idx[0], idx[1], idx[2] = ib, ib+1, ib+2
	idx[3], idx[4], idx[5] = ib, ib+2, ib+3
	b.numVertices += 4
	b.numIndices += 6
	b.kind = KindSprites
}

// AppendShape writes an indexed vertex list of kind k. Indices are relative
// to the first vertex given. The caller must have checked Fits.
func (b *Buffer) AppendShape(k Kind, verts []Vertex, indices []uint16) {
	base := b.numVertices
	for i := range verts {
		b.put(base+i, &verts[i])
	}
	for i, idx := range indices {
		b.indices[b.numIndices+i] = uint16(base) + idx
	}
	b.numVertices += len(verts)
	b.numIndices += len(indices)
	b.kind = k
}

func (b *Buffer) put(i int, v *Vertex) {
	f := b.vertices[i*b.layout.Stride:]
	f[0], f[1], f[2], f[3] = v.X, v.Y, v.S, v.T
	if b.layout.HasColor() {
		f[4], f[5], f[6], f[7] = v.R, v.G, v.B, v.A
	}
}

// Reset zeroes the counts without releasing storage.
func (b *Buffer) Reset() {
	b.numVertices = 0
	b.numIndices = 0
	b.kind = KindEmpty
}
