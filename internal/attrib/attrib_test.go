package attrib

import (
	"errors"
	"testing"

	"github.com/gogpu/blit/driver"
	"github.com/gogpu/blit/driver/record"
)

func floats(n int) []byte {
	v := make([]float32, n)
	for i := range v {
		v[i] = float32(i)
	}
	return driver.Float32Bytes(v)
}

var float1 = Format{Type: driver.Float, Elements: 1}

func TestSetValidation(t *testing.T) {
	var m Manager
	tests := []struct {
		name string
		slot int
		n    int
		data []byte
		f    Format
	}{
		{"slot too high", MaxSources, 1, floats(1), float1},
		{"slot negative", -1, 1, floats(1), float1},
		{"zero elements", 0, 1, floats(1), Format{Type: driver.Float}},
		{"five elements", 0, 1, floats(5), Format{Type: driver.Float, Elements: 5}},
		{"unknown type", 0, 1, floats(1), Format{Type: driver.RGBA, Elements: 1}},
		{"short data", 0, 4, floats(3), float1},
		{"negative count", 0, -1, floats(1), float1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.Set(tt.slot, 0, tt.n, tt.data, tt.f); !errors.Is(err, ErrInvalidSource) {
				t.Errorf("Set err = %v, want ErrInvalidSource", err)
			}
		})
	}
}

func TestPerVertexDraining(t *testing.T) {
	const k = 16
	var m Manager
	d := record.New(record.Full, 8, 8)
	if err := m.Set(0, 3, k, floats(k), float1); err != nil {
		t.Fatal(err)
	}
	if got := m.Limit(1000); got != k {
		t.Errorf("Limit = %d, want %d", got, k)
	}
	m.Upload(d, k/2)
	if got := m.Remaining(0); got != k/2 {
		t.Errorf("after first pass Remaining = %d, want %d", got, k/2)
	}
	m.Upload(d, k/2)
	if got := m.Remaining(0); got != 0 {
		t.Errorf("after second pass Remaining = %d, want 0", got)
	}
	if m.Active() {
		t.Error("exhausted source should not be active")
	}
	if got := m.Limit(1000); got != 1000 {
		t.Errorf("exhausted source still limits: %d", got)
	}
	if len(d.Uploads) != 2 || d.Uploads[0] != k/2*4 || d.Uploads[1] != k/2*4 {
		t.Errorf("Uploads = %v, want two uploads of %d bytes", d.Uploads, k/2*4)
	}
}

func TestPerSpriteDraining(t *testing.T) {
	const k = 6
	var m Manager
	d := record.New(record.Full, 8, 8)
	f := Format{Type: driver.Float, Elements: 1, PerSprite: true}
	if err := m.Set(2, 1, k, floats(k), f); err != nil {
		t.Fatal(err)
	}
	if got := m.Limit(1 << 20); got != 4*k {
		t.Errorf("Limit = %d, want %d vertices", got, 4*k)
	}
	m.Refresh()
	m.Upload(d, 4*k/2)
	if got := m.Remaining(2); got != k/2 {
		t.Errorf("Remaining = %d, want %d", got, k/2)
	}
	m.Refresh()
	m.Upload(d, 4*k/2)
	if got := m.Remaining(2); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
}

func TestRefreshReplicates(t *testing.T) {
	var m Manager
	vals := []float32{10, 20}
	f := Format{Type: driver.Float, Elements: 1, PerSprite: true}
	if err := m.Set(0, 0, 2, driver.Float32Bytes(vals), f); err != nil {
		t.Fatal(err)
	}
	vals[1] = 30
	m.Refresh()
	exp := m.slots[0].expanded
	want := driver.Float32Bytes([]float32{10, 10, 10, 10, 30, 30, 30, 30})
	if string(exp) != string(want) {
		t.Errorf("expanded = %v, want %v", exp, want)
	}
}

func TestStrideAndOffset(t *testing.T) {
	var m Manager
	d := record.New(record.Full, 8, 8)
	// Interleaved (pad, value) pairs: stride 8 bytes, offset 4.
	data := driver.Float32Bytes([]float32{0, 1, 0, 2, 0, 3, 0, 4})
	f := Format{Type: driver.Float, Elements: 1, Stride: 8, Offset: 4}
	if err := m.Set(0, 0, 4, data, f); err != nil {
		t.Fatal(err)
	}
	m.Upload(d, 2)
	// Two strides plus the offset of the trailing value.
	if d.Uploads[0] != 20 {
		t.Errorf("first upload = %d bytes, want 20", d.Uploads[0])
	}
	m.Upload(d, 2)
	if d.Uploads[1] != 16 {
		t.Errorf("second upload = %d bytes, want 16 (clamped to data)", d.Uploads[1])
	}
}

func TestLimitTakesSmallest(t *testing.T) {
	var m Manager
	_ = m.Set(0, 0, 40, floats(40), float1)
	_ = m.Set(1, 1, 12, floats(12), float1)
	if got := m.Limit(100); got != 12 {
		t.Errorf("Limit = %d, want 12", got)
	}
	if got := m.Limit(8); got != 8 {
		t.Errorf("Limit(8) = %d, want 8", got)
	}
	m.Clear(1)
	if got := m.Limit(100); got != 40 {
		t.Errorf("Limit after Clear = %d, want 40", got)
	}
}

func TestDisableAndRelease(t *testing.T) {
	var m Manager
	d := record.New(record.Full, 8, 8)
	_ = m.Set(0, 5, 4, floats(4), float1)
	m.Upload(d, 4)
	if !d.AttribArrayEnabled(5) {
		t.Fatal("Upload should enable the attribute array")
	}
	m.Disable(d)
	if d.AttribArrayEnabled(5) {
		t.Error("Disable left the attribute array enabled")
	}
	m.Release(d)
	if d.CallCount("DeleteBuffer") != 1 {
		t.Errorf("Release deleted %d buffers, want 1", d.CallCount("DeleteBuffer"))
	}
}

func TestShortSourceSkipsPass(t *testing.T) {
	var m Manager
	d := record.New(record.Full, 8, 8)
	if err := m.Set(0, 3, 6, floats(6), float1); err != nil {
		t.Fatal(err)
	}
	m.Upload(d, 4)
	m.Disable(d)
	if got := m.Remaining(0); got != 2 {
		t.Fatalf("Remaining = %d, want 2", got)
	}

	m.Upload(d, 4)
	if d.AttribArrayEnabled(3) {
		t.Error("array enabled for a pass the source cannot cover")
	}
	if len(d.Uploads) != 1 {
		t.Errorf("Uploads = %v, want only the first pass", d.Uploads)
	}
	if m.Active() || m.Remaining(0) != 0 {
		t.Errorf("short source not rewound: active %v, remaining %d", m.Active(), m.Remaining(0))
	}
}
