package blit

import (
	"image"

	"github.com/gogpu/blit/driver"
)

// readContext flushes pending drawing into t and binds its framebuffer for
// reading.
func (r *Renderer) readContext(op string, t *Target) (*Context, error) {
	c, err := r.bind(op, t)
	if err != nil {
		return nil, err
	}
	c.flush()
	return c, nil
}

// toPixels maps logical target coordinates to framebuffer pixels.
func (t *Target) toPixels(x, y int) (int, int) {
	if t.w > 0 && t.h > 0 && (t.w != t.baseW || t.h != t.baseH) {
		x = x * t.baseW / t.w
		y = y * t.baseH / t.h
	}
	return x, y
}

// GetPixel returns the color of t at (x, y). Coordinates outside the
// target yield transparent black.
func (r *Renderer) GetPixel(t *Target, x, y int) (Color, error) {
	const op = "GetPixel"
	if _, err := r.readContext(op, t); err != nil {
		return Color{}, err
	}
	if x < 0 || y < 0 || x >= t.w || y >= t.h {
		return Transparent, nil
	}
	px, py := t.toPixels(x, y)
	if t.image == nil {
		py = t.baseH - 1 - py
	}
	var buf [4]byte
	r.d.PixelStorei(driver.PackAlignment, 1)
	r.d.ReadPixels(int32(px), int32(py), 1, 1, driver.RGBA, driver.UnsignedByte, buf[:])
	return Color{R: buf[0], G: buf[1], B: buf[2], A: buf[3]}, nil
}

// ReadPixels returns the contents of t at its real resolution, top row
// first.
func (r *Renderer) ReadPixels(t *Target) (*image.NRGBA, error) {
	const op = "ReadPixels"
	if _, err := r.readContext(op, t); err != nil {
		return nil, err
	}
	w, h := t.baseW, t.baseH
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out, nil
	}
	r.d.PixelStorei(driver.PackAlignment, 1)
	r.d.ReadPixels(0, 0, int32(w), int32(h), driver.RGBA, driver.UnsignedByte, out.Pix)
	if t.image == nil {
		flipRows(out.Pix, w*4, h)
	}
	return out, nil
}

// flipRows reverses the row order of a tightly packed pixel buffer.
func flipRows(pix []byte, stride, h int) {
	tmp := make([]byte, stride)
	for top, bottom := 0, h-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// CopyImageFromTarget returns a new 4-channel image holding the contents of
// t.
func (r *Renderer) CopyImageFromTarget(t *Target) (*Image, error) {
	pix, err := r.ReadPixels(t)
	if err != nil {
		return nil, err
	}
	img, err := r.CreateImage(pix.Rect.Dx(), pix.Rect.Dy(), 4)
	if err != nil {
		return nil, err
	}
	if err := r.UpdateImage(img, nil, pix); err != nil {
		_ = r.Release(img)
		return nil, err
	}
	return img, nil
}
