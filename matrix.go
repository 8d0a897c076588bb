package blit

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Matrix represents a 2D affine transformation of sprite vertices.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Matrix struct {
	A, B, C float32
	D, E, F float32
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float32) Matrix {
	return Matrix{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling matrix.
func Scale(x, y float32) Matrix {
	return Matrix{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
	}
}

// Rotate creates a rotation matrix. The angle is in degrees, clockwise on a
// y-down target.
func Rotate(degrees float32) Matrix {
	sin, cos := math32.Sincos(degrees * math32.Pi / 180)
	return Matrix{
		A: cos, B: -sin, C: 0,
		D: sin, E: cos, F: 0,
	}
}

// Multiply multiplies two matrices (m * other).
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(x, y float32) (float32, float32) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// Invert returns the inverse matrix.
// Returns the identity matrix if the matrix is not invertible.
func (m Matrix) Invert() Matrix {
	det := m.A*m.E - m.B*m.D
	if math32.Abs(det) < 1e-10 {
		return Identity()
	}

	invDet := 1 / det
	return Matrix{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 &&
		m.D == 0 && m.E == 1 && m.F == 0
}

// ColumnMajor returns the matrix as the column-major 3x3 array
// BlitTransformMatrix takes.
func (m Matrix) ColumnMajor() [9]float32 {
	return [9]float32{
		m.A, m.D, 0,
		m.B, m.E, 0,
		m.C, m.F, 1,
	}
}

// MatrixFromColumnMajor reads a column-major 3x3 matrix. The bottom row is
// ignored.
func MatrixFromColumnMajor(v []float32) (Matrix, error) {
	if len(v) != 9 {
		return Matrix{}, fmt.Errorf("%w: %d values, want 9", ErrInvalidMatrix, len(v))
	}
	for i, f := range v {
		if math32.IsNaN(f) || math32.IsInf(f, 0) {
			return Matrix{}, fmt.Errorf("%w: value %d is %v", ErrInvalidMatrix, i, f)
		}
	}
	return Matrix{
		A: v[0], B: v[3], C: v[6],
		D: v[1], E: v[4], F: v[7],
	}, nil
}
