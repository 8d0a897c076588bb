package backend

import "github.com/gogpu/blit/driver"

func init() {
	Register(NameImmediate, func() Backend { return immediate{} })
}

// immediate replays every vertex through Begin/Vertex/End.
type immediate struct{}

func (immediate) Name() string         { return NameImmediate }
func (immediate) Tier() Tier           { return Tier1 }
func (immediate) FixedFunction() bool  { return true }
func (immediate) FloatsPerVertex() int { return 4 }

func (immediate) Supports(f driver.Features) bool {
	return f.Has(driver.FeatureFixedFunction)
}

func (immediate) NewSubmitter(d driver.Driver, _ driver.Features, _ int) (Submitter, error) {
	return &immediateSubmitter{d: d}, nil
}

type immediateSubmitter struct {
	d driver.Driver
}

func (s *immediateSubmitter) Submit(p *Pass) {
	d := s.d
	if p.Quads {
		d.Begin(driver.Quads)
		for v := 0; v < p.NumVertices; v++ {
			s.vertex(p, v)
		}
	} else {
		d.Begin(p.Mode)
		for _, idx := range p.Indices {
			s.vertex(p, int(idx))
		}
	}
	d.End()
}

func (s *immediateSubmitter) vertex(p *Pass, v int) {
	f := p.Vertices[v*p.Stride:]
	if p.Colors {
		s.d.Color4f(f[4], f[5], f[6], f[7])
	}
	if p.TexCoords {
		s.d.TexCoord2f(f[2], f[3])
	}
	s.d.Vertex3f(f[0], f[1], 0)
}

func (s *immediateSubmitter) Reserve(int) {}
func (s *immediateSubmitter) Release()    {}
