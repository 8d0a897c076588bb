package matrix

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
)

const eps = 1e-4

func near(a, b float32) bool { return math32.Abs(a-b) < eps }

func TestOrthoMapsCorners(t *testing.T) {
	m := Ortho(0, 800, 600, 0, -1, 1)
	tests := []struct {
		x, y, wx, wy float32
	}{
		{0, 0, -1, 1},
		{800, 600, 1, -1},
		{400, 300, 0, 0},
	}
	for _, tt := range tests {
		x, y := m.Transform(tt.x, tt.y)
		if !near(x, tt.wx) || !near(y, tt.wy) {
			t.Errorf("Ortho(%v,%v) = (%v,%v), want (%v,%v)", tt.x, tt.y, x, y, tt.wx, tt.wy)
		}
	}
}

func TestTranslateScaleOrder(t *testing.T) {
	m := Identity()
	m.Translate(10, 20, 0)
	m.Scale(2, 3, 1)
	x, y := m.Transform(1, 1)
	if !near(x, 12) || !near(y, 23) {
		t.Errorf("T*S*(1,1) = (%v,%v), want (12,23)", x, y)
	}
}

func TestRotateZ(t *testing.T) {
	m := Identity()
	m.RotateZ(90)
	x, y := m.Transform(1, 0)
	if !near(x, 0) || !near(y, 1) {
		t.Errorf("RotateZ(90)*(1,0) = (%v,%v), want (0,1)", x, y)
	}
}

func TestMulIdentity(t *testing.T) {
	a := Ortho(0, 10, 10, 0, -1, 1)
	id := Identity()
	if got := Mul(&a, &id); got != a {
		t.Errorf("a*I != a")
	}
	if got := Mul(&id, &a); got != a {
		t.Errorf("I*a != a")
	}
}

func TestStack(t *testing.T) {
	s := NewStack()
	if s.Depth() != 1 || *s.Top() != Identity() {
		t.Fatal("new stack should hold one identity")
	}
	if err := s.Pop(); !errors.Is(err, ErrUnderflow) {
		t.Errorf("Pop on base: err = %v, want ErrUnderflow", err)
	}
	s.Top().Translate(5, 0, 0)
	if err := s.Push(); err != nil {
		t.Fatal(err)
	}
	s.LoadIdentity()
	if err := s.Pop(); err != nil {
		t.Fatal(err)
	}
	if x, _ := s.Top().Transform(0, 0); !near(x, 5) {
		t.Errorf("Pop did not restore matrix: x = %v, want 5", x)
	}
	for i := 1; i < MaxDepth; i++ {
		if err := s.Push(); err != nil {
			t.Fatalf("Push %d: %v", i, err)
		}
	}
	if err := s.Push(); !errors.Is(err, ErrOverflow) {
		t.Errorf("Push past MaxDepth: err = %v, want ErrOverflow", err)
	}
}
