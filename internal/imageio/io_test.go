package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}
	return img
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"a.png", PNG, false},
		{"a.PNG", PNG, false},
		{"a.jpg", JPEG, false},
		{"a.jpeg", JPEG, false},
		{"a.bmp", BMP, false},
		{"a.tif", TIFF, false},
		{"a.tga", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
		if tt.err && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("FormatFromPath(%q) err = %v, want ErrUnsupportedFormat", tt.path, err)
		}
	}
}

func TestLosslessRoundTrip(t *testing.T) {
	src := checker(4, 3)
	for _, f := range []Format{PNG, BMP, TIFF} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, f); err != nil {
				t.Fatal(err)
			}
			img, got, err := Decode(&buf)
			if err != nil {
				t.Fatal(err)
			}
			if got != f {
				t.Errorf("decoded format = %q, want %q", got, f)
			}
			n := ToNRGBA(img)
			if !bytes.Equal(n.Pix, src.Pix) {
				t.Errorf("pixels differ after %s round trip", f)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := Save(path, checker(2, 2)); err != nil {
		t.Fatal(err)
	}
	img, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("loaded bounds = %v", img.Bounds())
	}
	if err := Save(filepath.Join(t.TempDir(), "out.xyz"), checker(1, 1)); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Save unknown ext err = %v", err)
	}
}

func TestLoadBytesEmpty(t *testing.T) {
	if _, err := LoadBytes(nil); !errors.Is(err, ErrEmptyData) {
		t.Errorf("LoadBytes(nil) err = %v, want ErrEmptyData", err)
	}
}

func TestToNRGBAOffsetOrigin(t *testing.T) {
	src := checker(4, 4).SubImage(image.Rect(1, 1, 3, 3))
	n := ToNRGBA(src)
	if n.Rect != image.Rect(0, 0, 2, 2) {
		t.Fatalf("Rect = %v, want origin at zero", n.Rect)
	}
	if got := n.NRGBAAt(0, 0); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("pixel (0,0) = %v", got)
	}
}

func TestFit(t *testing.T) {
	img := checker(100, 50)
	got := Fit(img, 40).Bounds()
	if got.Dx() != 40 || got.Dy() != 20 {
		t.Errorf("Fit = %v, want 40x20", got)
	}
	if Fit(img, 200) != image.Image(img) {
		t.Error("image that fits should be returned unchanged")
	}
}

func TestChannels(t *testing.T) {
	if Channels(image.NewGray(image.Rect(0, 0, 1, 1))) != 3 {
		t.Error("gray should be 3 channels")
	}
	if Channels(image.NewNRGBA(image.Rect(0, 0, 1, 1))) != 4 {
		t.Error("NRGBA should be 4 channels")
	}
}
