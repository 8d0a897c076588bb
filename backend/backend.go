package backend

import (
	"errors"

	"github.com/gogpu/blit/driver"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or not supported by the driver.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrBufferAllocation is returned when a GPU buffer object cannot be
	// created.
	ErrBufferAllocation = errors.New("backend: buffer allocation failed")
)

// Tier is the feature level of a backend.
type Tier int

// Tiers.
const (
	Tier1 Tier = 1 + iota
	Tier2
	Tier3
)

// Backend names.
const (
	NameImmediate    = "gl1"
	NameClientArrays = "gl2"
	NameShaders      = "gl3"
)

// ShaderBlock holds the attribute and uniform locations the shader tier
// feeds. A location of -1 means the program does not use it.
type ShaderBlock struct {
	Position int32
	TexCoord int32
	Color    int32
	MVP      int32
	// MVPBinding is the uniform block binding of the model-view-projection
	// matrix for programs created from SPIR-V, where uniforms live in
	// blocks rather than at locations.
	MVPBinding int32
}

// EmptyShaderBlock has every location unused.
var EmptyShaderBlock = ShaderBlock{Position: -1, TexCoord: -1, Color: -1, MVP: -1, MVPBinding: -1}

// AttributeUploader streams extra per-vertex attributes alongside a pass.
type AttributeUploader interface {
	Upload(d driver.Driver, vertices int)
	Disable(d driver.Driver)
}

// Pass is one draw submission.
type Pass struct {
	// Mode is the GL primitive of Indices.
	Mode driver.Enum
	// Quads marks sprite passes: Vertices holds whole quads in the
	// standard corner order and Indices the two-triangle pattern.
	Quads bool
	// Vertices holds NumVertices vertices of Stride floats each: x, y, s, t
	// and, when Colors is set, r, g, b, a.
	Vertices    []float32
	NumVertices int
	Stride      int
	TexCoords   bool
	Colors      bool
	Indices     []uint16
	// Block and MVP are used by the shader tier.
	Block ShaderBlock
	MVP   *[16]float32
	// Attributes, if non-nil, uploads custom attribute sources.
	Attributes AttributeUploader
}

// Backend is a submission tier.
type Backend interface {
	// Name returns the registry name.
	Name() string

	// Tier returns the feature level.
	Tier() Tier

	// Supports reports whether the driver features can run this tier.
	Supports(f driver.Features) bool

	// FixedFunction reports whether the tier reads matrices and color from
	// fixed-function state rather than per-vertex data and uniforms.
	FixedFunction() bool

	// FloatsPerVertex returns the batch vertex stride the tier consumes.
	FloatsPerVertex() int

	// NewSubmitter creates the per-context submission state, sized for
	// maxVertices per pass.
	NewSubmitter(d driver.Driver, f driver.Features, maxVertices int) (Submitter, error)
}

// Submitter submits passes for one context.
type Submitter interface {
	// Submit issues the draw calls for one pass.
	Submit(p *Pass)

	// Reserve grows per-pass storage to hold maxVertices.
	Reserve(maxVertices int)

	// Release deletes GPU objects owned by the submitter.
	Release()
}
