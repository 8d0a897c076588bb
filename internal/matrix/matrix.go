// Package matrix provides the 4x4 column-major float32 matrices and matrix
// stacks the engine feeds to fixed-function GL or uploads as the
// model-view-projection uniform.
package matrix

import (
	"errors"

	"github.com/chewxy/math32"
)

// Mat4 is a column-major 4x4 matrix, laid out the way GL expects it.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Ortho returns an orthographic projection.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	m := Identity()
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = -2 / (far - near)
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = -(far + near) / (far - near)
	return m
}

// Mul returns a*b.
func Mul(a, b *Mat4) Mat4 {
	var r Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			r[col*4+row] = sum
		}
	}
	return r
}

// Translate post-multiplies m by a translation.
func (m *Mat4) Translate(x, y, z float32) {
	t := Identity()
	t[12], t[13], t[14] = x, y, z
	*m = Mul(m, &t)
}

// Scale post-multiplies m by a scale.
func (m *Mat4) Scale(x, y, z float32) {
	s := Identity()
	s[0], s[5], s[10] = x, y, z
	*m = Mul(m, &s)
}

// RotateZ post-multiplies m by a rotation of degrees about the z axis.
func (m *Mat4) RotateZ(degrees float32) {
	rad := degrees * math32.Pi / 180
	sin, cos := math32.Sincos(rad)
	r := Identity()
	r[0], r[1] = cos, sin
	r[4], r[5] = -sin, cos
	*m = Mul(m, &r)
}

// Transform applies m to the point (x, y, 0, 1) and returns x and y.
func (m *Mat4) Transform(x, y float32) (float32, float32) {
	return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
}

// Stack errors.
var (
	ErrOverflow  = errors.New("matrix: stack overflow")
	ErrUnderflow = errors.New("matrix: stack underflow")
)

// MaxDepth bounds a Stack.
const MaxDepth = 16

// Stack is a matrix stack whose top is the current matrix.
type Stack struct {
	mats [MaxDepth]Mat4
	top  int
}

// NewStack returns a stack holding one identity matrix.
func NewStack() *Stack {
	s := &Stack{}
	s.mats[0] = Identity()
	return s
}

// Top returns the current matrix.
func (s *Stack) Top() *Mat4 { return &s.mats[s.top] }

// Depth returns the number of matrices on the stack.
func (s *Stack) Depth() int { return s.top + 1 }

// Push duplicates the current matrix.
func (s *Stack) Push() error {
	if s.top+1 >= MaxDepth {
		return ErrOverflow
	}
	s.mats[s.top+1] = s.mats[s.top]
	s.top++
	return nil
}

// Pop discards the current matrix.
func (s *Stack) Pop() error {
	if s.top == 0 {
		return ErrUnderflow
	}
	s.top--
	return nil
}

// Load replaces the current matrix.
func (s *Stack) Load(m Mat4) { s.mats[s.top] = m }

// LoadIdentity replaces the current matrix with the identity.
func (s *Stack) LoadIdentity() { s.mats[s.top] = Identity() }
