// Package attrib manages generic vertex-attribute sources that stream
// caller data into custom shader attributes alongside the sprite batch.
//
// A source is either per-vertex, where caller memory is uploaded directly
// with its stride and offset, or per-sprite, where each value is replicated
// to the four vertices of its quad in an owned expansion buffer. Sources are
// consumed in step with the batch: each uploaded pass advances the source by
// the vertices it covered. A source that runs out rewinds to its start and
// stops limiting pass sizes until it is set again.
package attrib

import (
	"errors"
	"fmt"

	"github.com/gogpu/blit/driver"
)

// MaxSources is the number of attribute slots.
const MaxSources = 16

// ErrInvalidSource is returned for malformed source descriptions.
var ErrInvalidSource = errors.New("attrib: invalid source")

// Format describes the element layout of a source.
type Format struct {
	Type      driver.Enum
	Elements  int
	Normalize bool
	// Stride is the byte distance between values in the caller's data;
	// 0 means tightly packed.
	Stride int
	// Offset is the byte offset of the first value.
	Offset int
	// PerSprite broadcasts each value to the 4 vertices of a quad.
	PerSprite bool
}

// ValueSize returns the byte size of one value.
func (f Format) ValueSize() int { return driver.TypeSize(f.Type) * f.Elements }

type source struct {
	enabled bool
	format  Format
	// location is the shader attribute location.
	location uint32
	// values is the caller's data.
	values []byte
	// next is the vertex index of the next value to upload.
	next int
	// left is the number of vertices not yet uploaded.
	left int
	// expanded holds the per-sprite expansion, 4 copies per value.
	expanded []byte
	vbo      uint32
	// arrayOn records that the attribute array was enabled by Upload.
	arrayOn bool
}

func (s *source) remaining() int { return s.left }

// Manager holds the sources of one context.
type Manager struct {
	slots [MaxSources]source
}

// Set registers the source for a slot. numValues counts values in the
// caller's data: vertices for per-vertex sources, sprites for per-sprite
// sources. values must hold numValues values at the format's stride and
// offset.
func (m *Manager) Set(slot int, location uint32, numValues int, values []byte, f Format) error {
	if slot < 0 || slot >= MaxSources {
		return fmt.Errorf("%w: slot %d out of range", ErrInvalidSource, slot)
	}
	if f.Elements < 1 || f.Elements > 4 || driver.TypeSize(f.Type) == 0 {
		return fmt.Errorf("%w: %d elements of type %#x", ErrInvalidSource, f.Elements, f.Type)
	}
	if numValues < 0 || f.Stride < 0 || f.Offset < 0 {
		return fmt.Errorf("%w: negative size", ErrInvalidSource)
	}
	if f.Stride == 0 {
		f.Stride = f.ValueSize()
	}
	if numValues > 0 {
		need := f.Offset + (numValues-1)*f.Stride + f.ValueSize()
		if len(values) < need {
			return fmt.Errorf("%w: %d bytes for %d values, need %d", ErrInvalidSource, len(values), numValues, need)
		}
	}

	s := &m.slots[slot]
	s.enabled = numValues > 0
	s.format = f
	s.location = location
	s.values = values
	s.next = 0
	s.left = numValues
	if f.PerSprite {
		s.left = numValues * 4
		if need := s.left * f.ValueSize(); cap(s.expanded) < need {
			s.expanded = make([]byte, need)
		} else {
			s.expanded = s.expanded[:need]
		}
	}
	return nil
}

// Clear disables a slot.
func (m *Manager) Clear(slot int) {
	if slot >= 0 && slot < MaxSources {
		s := &m.slots[slot]
		s.enabled = false
		s.values = nil
		s.next, s.left = 0, 0
	}
}

// Active reports whether any source still has values to upload.
func (m *Manager) Active() bool {
	for i := range m.slots {
		if s := &m.slots[i]; s.enabled && s.remaining() > 0 {
			return true
		}
	}
	return false
}

// Remaining returns the unconsumed values of a slot, in the units Set was
// called with.
func (m *Manager) Remaining(slot int) int {
	if slot < 0 || slot >= MaxSources {
		return 0
	}
	s := &m.slots[slot]
	if !s.enabled {
		return 0
	}
	if s.format.PerSprite {
		return s.remaining() / 4
	}
	return s.remaining()
}

// Limit returns the smallest remaining vertex count across active sources,
// or n if no source has fewer than n vertices left.
func (m *Manager) Limit(n int) int {
	for i := range m.slots {
		s := &m.slots[i]
		if s.enabled && s.remaining() > 0 && s.remaining() < n {
			n = s.remaining()
		}
	}
	return n
}

// Refresh replicates the unconsumed per-sprite values into their expansion
// buffers. It runs once at the start of every flush so that edits to the
// caller's data since Set are picked up.
func (m *Manager) Refresh() {
	for i := range m.slots {
		s := &m.slots[i]
		if !s.enabled || !s.format.PerSprite || s.remaining() <= 0 {
			continue
		}
		size := s.format.ValueSize()
		for sprite := s.next / 4; sprite < (s.next+s.left)/4; sprite++ {
			src := s.values[s.format.Offset+sprite*s.format.Stride:]
			src = src[:size]
			dst := s.expanded[sprite*4*size:]
			for v := 0; v < 4; v++ {
				copy(dst[v*size:], src)
			}
		}
	}
}

// Upload binds every active source for a pass of n vertices and advances
// each by n. A source with fewer than n vertices left is not bound for the
// pass and rewinds, as does a source that runs out.
func (m *Manager) Upload(d driver.Driver, n int) {
	for i := range m.slots {
		s := &m.slots[i]
		if !s.enabled || s.remaining() <= 0 {
			continue
		}
		if s.remaining() < n {
			// Too few values to cover the pass: leave the array off and
			// rewind.
			s.next, s.left = 0, 0
			continue
		}
		used := n
		if s.vbo == 0 {
			s.vbo = d.GenBuffer()
		}
		d.BindBuffer(driver.ArrayBuffer, s.vbo)

		var data []byte
		var stride, offset int
		if s.format.PerSprite {
			size := s.format.ValueSize()
			start := s.next * size
			data = s.expanded[start : start+used*size]
			stride = size
		} else {
			start := s.next * s.format.Stride
			end := min(start+used*s.format.Stride+s.format.Offset, len(s.values))
			data = s.values[start:end]
			stride = s.format.Stride
			offset = s.format.Offset
		}
		d.BufferData(driver.ArrayBuffer, len(data), data, driver.StreamDraw)
		d.EnableVertexAttribArray(s.location)
		d.VertexAttribPointer(s.location, int32(s.format.Elements), s.format.Type, s.format.Normalize, int32(stride), offset)
		s.arrayOn = true

		s.next += used
		s.left -= used
		if s.left <= 0 {
			s.next, s.left = 0, 0
		}
	}
}

// Disable turns off every attribute array Upload enabled.
func (m *Manager) Disable(d driver.Driver) {
	for i := range m.slots {
		s := &m.slots[i]
		if s.arrayOn {
			d.DisableVertexAttribArray(s.location)
			s.arrayOn = false
		}
	}
}

// Release deletes the per-source buffer objects.
func (m *Manager) Release(d driver.Driver) {
	for i := range m.slots {
		s := &m.slots[i]
		if s.vbo != 0 {
			d.DeleteBuffer(s.vbo)
			s.vbo = 0
		}
		s.enabled = false
	}
}
