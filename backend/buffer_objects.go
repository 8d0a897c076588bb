package backend

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/blit/driver"
)

func init() {
	Register(NameShaders, func() Backend { return bufferObjects{} })
}

// bufferObjects uploads each pass into one of two vertex buffers, flipping
// between them so a pass never overwrites the storage the previous draw
// reads, and draws through the active shader program.
type bufferObjects struct{}

const shaderFloatsPerVertex = 8

func (bufferObjects) Name() string         { return NameShaders }
func (bufferObjects) Tier() Tier           { return Tier3 }
func (bufferObjects) FixedFunction() bool  { return false }
func (bufferObjects) FloatsPerVertex() int { return shaderFloatsPerVertex }

func (bufferObjects) Supports(f driver.Features) bool {
	return f.Has(driver.FeatureBasicShaders | driver.FeatureBufferObjects)
}

func (bufferObjects) NewSubmitter(d driver.Driver, f driver.Features, maxVertices int) (Submitter, error) {
	s := &bufferObjectSubmitter{d: d}
	if f.Has(driver.FeatureVertexArrayObjects) {
		s.vao = d.GenVertexArray()
	}
	for i := range s.vbo {
		s.vbo[i] = d.GenBuffer()
		if s.vbo[i] == 0 {
			s.Release()
			return nil, fmt.Errorf("%w: vertex buffer %d", ErrBufferAllocation, i)
		}
	}
	s.ibo = d.GenBuffer()
	if s.ibo == 0 {
		s.Release()
		return nil, fmt.Errorf("%w: index buffer", ErrBufferAllocation)
	}
	s.Reserve(maxVertices)
	return s, nil
}

type bufferObjectSubmitter struct {
	d        driver.Driver
	vao      uint32
	vbo      [2]uint32
	ibo      uint32
	ubo      uint32
	flip     int
	capacity int
}

// Reserve reallocates both vertex buffers when maxVertices exceeds their
// size.
func (s *bufferObjectSubmitter) Reserve(maxVertices int) {
	if maxVertices <= s.capacity {
		return
	}
	size := maxVertices * shaderFloatsPerVertex * 4
	for _, vbo := range s.vbo {
		s.d.BindBuffer(driver.ArrayBuffer, vbo)
		s.d.BufferData(driver.ArrayBuffer, size, nil, driver.StreamDraw)
	}
	s.d.BindBuffer(driver.ElementArrayBuffer, s.ibo)
	s.d.BufferData(driver.ElementArrayBuffer, maxVertices*3*2, nil, driver.StreamDraw)
	s.capacity = maxVertices
	logger().Debug("backend: vertex buffers reserved",
		slog.Int("vertices", maxVertices), slog.Int("bytes", size))
}

func (s *bufferObjectSubmitter) Submit(p *Pass) {
	d := s.d
	if s.vao != 0 {
		d.BindVertexArray(s.vao)
	}
	s.uploadMVP(p)

	vbo := s.vbo[s.flip]
	s.flip ^= 1
	d.BindBuffer(driver.ArrayBuffer, vbo)
	d.BufferSubData(driver.ArrayBuffer, 0, driver.Float32Bytes(p.Vertices[:p.NumVertices*p.Stride]))

	stride := int32(p.Stride * 4)
	enable := func(loc int32, size int32, offset int) {
		if loc < 0 {
			return
		}
		d.EnableVertexAttribArray(uint32(loc))
		d.VertexAttribPointer(uint32(loc), size, driver.Float, false, stride, offset)
	}
	enable(p.Block.Position, 2, 0)
	if p.TexCoords {
		enable(p.Block.TexCoord, 2, 2*4)
	}
	if p.Colors {
		enable(p.Block.Color, 4, 4*4)
	}
	if p.Attributes != nil {
		p.Attributes.Upload(d, p.NumVertices)
	}

	d.BindBuffer(driver.ElementArrayBuffer, s.ibo)
	d.BufferSubData(driver.ElementArrayBuffer, 0, driver.Uint16Bytes(p.Indices))
	d.DrawElementsBuffer(p.Mode, int32(len(p.Indices)), 0)

	disable := func(loc int32) {
		if loc >= 0 {
			d.DisableVertexAttribArray(uint32(loc))
		}
	}
	disable(p.Block.Position)
	if p.TexCoords {
		disable(p.Block.TexCoord)
	}
	if p.Colors {
		disable(p.Block.Color)
	}
	if p.Attributes != nil {
		p.Attributes.Disable(d)
	}
	if s.vao != 0 {
		d.BindVertexArray(0)
	}
}

func (s *bufferObjectSubmitter) uploadMVP(p *Pass) {
	if p.MVP == nil {
		return
	}
	switch {
	case p.Block.MVP >= 0:
		s.d.UniformMatrixfv(p.Block.MVP, 4, 4, false, p.MVP[:])
	case p.Block.MVPBinding >= 0:
		if s.ubo == 0 {
			s.ubo = s.d.GenBuffer()
		}
		s.d.BindBuffer(driver.UniformBuffer, s.ubo)
		s.d.BufferData(driver.UniformBuffer, 64, driver.Float32Bytes(p.MVP[:]), driver.StreamDraw)
		s.d.BindBufferBase(driver.UniformBuffer, uint32(p.Block.MVPBinding), s.ubo)
	}
}

func (s *bufferObjectSubmitter) Release() {
	for i, vbo := range s.vbo {
		if vbo != 0 {
			s.d.DeleteBuffer(vbo)
			s.vbo[i] = 0
		}
	}
	for _, b := range []*uint32{&s.ibo, &s.ubo} {
		if *b != 0 {
			s.d.DeleteBuffer(*b)
			*b = 0
		}
	}
	if s.vao != 0 {
		s.d.DeleteVertexArray(s.vao)
		s.vao = 0
	}
	s.capacity = 0
}
