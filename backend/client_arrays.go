package backend

import "github.com/gogpu/blit/driver"

func init() {
	Register(NameClientArrays, func() Backend { return clientArrays{} })
}

// clientArrays points GL at the CPU-side batch and issues one indexed draw
// per pass.
type clientArrays struct{}

func (clientArrays) Name() string         { return NameClientArrays }
func (clientArrays) Tier() Tier           { return Tier2 }
func (clientArrays) FixedFunction() bool  { return true }
func (clientArrays) FloatsPerVertex() int { return 4 }

func (clientArrays) Supports(f driver.Features) bool {
	return f.Has(driver.FeatureFixedFunction | driver.FeatureClientArrays)
}

func (clientArrays) NewSubmitter(d driver.Driver, _ driver.Features, _ int) (Submitter, error) {
	return &clientArraySubmitter{d: d}, nil
}

type clientArraySubmitter struct {
	d driver.Driver
}

func (s *clientArraySubmitter) Submit(p *Pass) {
	d := s.d
	stride := int32(p.Stride * 4)
	verts := p.Vertices[:p.NumVertices*p.Stride]

	d.EnableClientState(driver.VertexArray)
	d.VertexPointer(2, driver.Float, stride, verts)
	if p.TexCoords {
		d.EnableClientState(driver.TextureCoordArray)
		d.TexCoordPointer(2, driver.Float, stride, verts[2:])
	}
	if p.Colors {
		d.EnableClientState(driver.ColorArray)
		d.ColorPointer(4, driver.Float, stride, verts[4:])
	}

	d.DrawElements(p.Mode, p.Indices)

	if p.Colors {
		d.DisableClientState(driver.ColorArray)
	}
	if p.TexCoords {
		d.DisableClientState(driver.TextureCoordArray)
	}
	d.DisableClientState(driver.VertexArray)
}

func (s *clientArraySubmitter) Reserve(int) {}
func (s *clientArraySubmitter) Release()    {}
