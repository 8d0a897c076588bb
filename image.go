package blit

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/blit/driver"
	"github.com/gogpu/blit/internal/blend"
	"github.com/gogpu/blit/internal/imageio"
)

// BlendMode is a named blending policy.
type BlendMode = blend.Mode

// Blend modes.
const (
	BlendNormal        = blend.Normal
	BlendPremultiplied = blend.Premultiplied
	BlendMultiply      = blend.Multiply
	BlendAdd           = blend.Add
	BlendSubtract      = blend.Subtract
	BlendAddColor      = blend.AddColor
	BlendSubtractColor = blend.SubtractColor
	BlendDifference    = blend.Difference
	BlendPunchout      = blend.Punchout
	BlendCutout        = blend.Cutout
)

// Filter is the texture sampling filter of an image.
type Filter uint8

// Filters.
const (
	FilterNearest Filter = iota
	FilterLinear
	FilterLinearMipmap
)

// Mode returns the gputypes filter mode used for magnification.
func (f Filter) Mode() gputypes.FilterMode {
	if f == FilterNearest {
		return gputypes.FilterModeNearest
	}
	return gputypes.FilterModeLinear
}

// Image is a texture the renderer can draw and draw into.
//
// Images are reference counted. CreateImage returns an image holding one
// reference; Retain adds one and Release drops one. The last Release frees
// the image's render target and deletes the texture.
type Image struct {
	r   *Renderer
	tex uint32

	w, h       int // logical size
	texW, texH int // allocated size, padded to powers of two without NPOT support
	channels   int

	color     Color
	blending  bool
	blendMode BlendMode
	filter    Filter
	mipmaps   bool

	refs   int
	target *Target // created by LoadTarget, owned by the image
}

// Size returns the logical size.
func (img *Image) Size() (w, h int) { return img.w, img.h }

// TextureSize returns the allocated texture size.
func (img *Image) TextureSize() (w, h int) { return img.texW, img.texH }

// Channels returns 3 or 4.
func (img *Image) Channels() int { return img.channels }

// Texture returns the GL texture name.
func (img *Image) Texture() uint32 { return img.tex }

// Color returns the tint.
func (img *Image) Color() Color { return img.color }

// Blending reports whether the image is drawn with blending.
func (img *Image) Blending() bool { return img.blending }

// BlendMode returns the blend mode.
func (img *Image) BlendMode() BlendMode { return img.blendMode }

// Filter returns the sampling filter.
func (img *Image) Filter() Filter { return img.filter }

// HasMipmaps reports whether mipmaps were generated.
func (img *Image) HasMipmaps() bool { return img.mipmaps }

// Target returns the render target created by LoadTarget, or nil.
func (img *Image) Target() *Target { return img.target }

// Refs returns the reference count.
func (img *Image) Refs() int { return img.refs }

// Format returns the texture format of 4-channel images. 3-channel images
// report TextureFormatUndefined.
func (img *Image) Format() gputypes.TextureFormat {
	if img.channels == 4 {
		return gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureFormatUndefined
}

func (img *Image) glFormat() driver.Enum {
	if img.channels == 3 {
		return driver.RGB
	}
	return driver.RGBA
}

// checkImage rejects nil, foreign and released images.
func (r *Renderer) checkImage(op string, img *Image) error {
	switch {
	case img == nil:
		return r.failf(op, ErrInvalidArgument, "nil image")
	case img.r != r:
		return r.fail(op, ErrContextMismatch)
	case img.refs <= 0:
		return r.fail(op, ErrImageReleased)
	}
	return nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// CreateImage allocates an uninitialized w by h image with 3 (RGB) or 4
// (RGBA) channels. Without non-power-of-two texture support the texture is
// padded. 4-channel images blend by default.
func (r *Renderer) CreateImage(w, h, channels int) (*Image, error) {
	const op = "CreateImage"
	if w <= 0 || h <= 0 {
		return nil, r.failf(op, ErrInvalidArgument, "size %dx%d", w, h)
	}
	if channels != 3 && channels != 4 {
		return nil, r.failf(op, ErrInvalidArgument, "%d channels", channels)
	}
	c, err := r.context(op)
	if err != nil {
		return nil, err
	}

	texW, texH := w, h
	if !r.info.Features.Has(driver.FeatureNonPowerOfTwo) {
		texW, texH = nextPow2(w), nextPow2(h)
	}
	if limit := r.info.MaxTextureSize; limit > 0 && (texW > limit || texH > limit) {
		return nil, r.failf(op, ErrTextureAllocation, "%dx%d exceeds maximum %d", texW, texH, limit)
	}
	tex := r.d.GenTexture()
	if tex == 0 {
		return nil, r.failf(op, ErrTextureAllocation, "no texture name")
	}

	img := &Image{
		r:         r,
		tex:       tex,
		w:         w,
		h:         h,
		texW:      texW,
		texH:      texH,
		channels:  channels,
		color:     White,
		blending:  channels == 4,
		blendMode: BlendNormal,
		filter:    FilterLinear,
		refs:      1,
	}

	d := r.d
	c.state.BindTexture(tex)
	d.TexParameteri(driver.Texture2D, driver.TextureMinFilter, int32(driver.Linear))
	d.TexParameteri(driver.Texture2D, driver.TextureMagFilter, int32(driver.Linear))
	d.TexParameteri(driver.Texture2D, driver.TextureWrapS, int32(driver.ClampToEdge))
	d.TexParameteri(driver.Texture2D, driver.TextureWrapT, int32(driver.ClampToEdge))
	d.PixelStorei(driver.UnpackAlignment, 1)
	d.TexImage2D(driver.Texture2D, 0, img.glFormat(), int32(texW), int32(texH), img.glFormat(), driver.UnsignedByte, nil)

	Logger().Debug("blit: image created",
		slog.Uint64("texture", uint64(tex)),
		slog.Int("width", w),
		slog.Int("height", h),
		slog.Int("channels", channels))
	return img, nil
}

// CreateImageFromRGBA creates an image holding a copy of src. Images
// without an alpha channel get 3 channels.
func (r *Renderer) CreateImageFromRGBA(src image.Image) (*Image, error) {
	const op = "CreateImageFromRGBA"
	if src == nil {
		return nil, r.failf(op, ErrInvalidArgument, "nil source")
	}
	b := src.Bounds()
	img, err := r.CreateImage(b.Dx(), b.Dy(), imageio.Channels(src))
	if err != nil {
		return nil, err
	}
	if err := r.UpdateImage(img, nil, src); err != nil {
		_ = r.Release(img)
		return nil, err
	}
	return img, nil
}

// UpdateImage copies src into the region of img given by rect, or all of
// img when rect is nil. The region is clipped to the image.
func (r *Renderer) UpdateImage(img *Image, rect *Rect, src image.Image) error {
	const op = "UpdateImage"
	if err := r.checkImage(op, img); err != nil {
		return err
	}
	if src == nil {
		return r.failf(op, ErrInvalidArgument, "nil source")
	}
	c, err := r.context(op)
	if err != nil {
		return err
	}

	region := image.Rect(0, 0, img.w, img.h)
	if rect != nil {
		if rect.W < 0 || rect.H < 0 {
			return r.failf(op, ErrInvalidArgument, "region %vx%v", rect.W, rect.H)
		}
		x, y := int(rect.X), int(rect.Y)
		region = image.Rect(x, y, x+int(rect.W), y+int(rect.H)).Intersect(region)
	}
	pix := imageio.ToNRGBA(src)
	w := min(region.Dx(), pix.Rect.Dx())
	h := min(region.Dy(), pix.Rect.Dy())
	if w <= 0 || h <= 0 {
		return nil
	}
	data := packRows(pix, w, h, img.channels)

	c.flush()
	c.state.BindTexture(img.tex)
	r.d.PixelStorei(driver.UnpackAlignment, 1)
	r.d.TexSubImage2D(driver.Texture2D, 0, int32(region.Min.X), int32(region.Min.Y), int32(w), int32(h),
		img.glFormat(), driver.UnsignedByte, data)
	return nil
}

// packRows copies the top-left w by h pixels of src into a tight buffer of
// the given channel count.
func packRows(src *image.NRGBA, w, h, channels int) []byte {
	out := make([]byte, w*h*channels)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			copy(out[(y*w+x)*channels:(y*w+x+1)*channels], row[x*4:x*4+channels])
		}
	}
	return out
}

// CopyImage returns a new image with the contents and settings of img. It
// draws img into the new image, so render target support is required.
func (r *Renderer) CopyImage(img *Image) (*Image, error) {
	const op = "CopyImage"
	if err := r.checkImage(op, img); err != nil {
		return nil, err
	}
	cp, err := r.CreateImage(img.w, img.h, img.channels)
	if err != nil {
		return nil, err
	}
	t, err := r.LoadTarget(cp)
	if err != nil {
		_ = r.Release(cp)
		return nil, err
	}

	color, blending := img.color, img.blending
	img.color, img.blending = White, false
	err = r.Blit(img, nil, t, float32(img.w)/2, float32(img.h)/2)
	r.flushTarget(t)
	img.color, img.blending = color, blending
	if err != nil {
		_ = r.Release(cp)
		return nil, err
	}

	cp.color, cp.blending, cp.blendMode = img.color, img.blending, img.blendMode
	if err := r.SetImageFilter(cp, img.filter); err != nil {
		_ = r.Release(cp)
		return nil, err
	}
	return cp, nil
}

// Retain adds a reference to img.
func (r *Renderer) Retain(img *Image) error {
	if err := r.checkImage("Retain", img); err != nil {
		return err
	}
	img.refs++
	return nil
}

// Release drops a reference to img. The last release frees the image's
// render target, flushes geometry still using the texture and deletes it.
func (r *Renderer) Release(img *Image) error {
	const op = "Release"
	if err := r.checkImage(op, img); err != nil {
		return err
	}
	if img.refs > 1 {
		img.refs--
		return nil
	}
	if img.target != nil {
		if err := r.FreeTarget(img.target); err != nil {
			return err
		}
	}
	for _, w := range r.windows {
		c := w.ctx
		if tex, ok := c.state.Texture(); ok && tex == img.tex {
			c.flush()
			c.state.ForgetTexture(img.tex)
		}
	}
	r.d.DeleteTexture(img.tex)
	img.refs = 0
	return nil
}

// GenerateMipmaps builds the mipmap chain of img from its current contents.
// A linear filter switches to the nearest mipmap level.
func (r *Renderer) GenerateMipmaps(img *Image) error {
	const op = "GenerateMipmaps"
	if err := r.checkImage(op, img); err != nil {
		return err
	}
	c, err := r.context(op)
	if err != nil {
		return err
	}
	c.flush()
	c.state.BindTexture(img.tex)
	r.d.GenerateMipmap(driver.Texture2D)
	img.mipmaps = true
	if img.filter == FilterLinear {
		r.d.TexParameteri(driver.Texture2D, driver.TextureMinFilter, int32(driver.LinearMipmapNearest))
	}
	return nil
}

// SetImageFilter sets the sampling filter of img. Mipmap filters only take
// effect once mipmaps exist.
func (r *Renderer) SetImageFilter(img *Image, f Filter) error {
	const op = "SetImageFilter"
	if err := r.checkImage(op, img); err != nil {
		return err
	}
	var minFilter, magFilter driver.Enum
	switch f {
	case FilterNearest:
		minFilter, magFilter = driver.Nearest, driver.Nearest
	case FilterLinear:
		minFilter, magFilter = driver.Linear, driver.Linear
		if img.mipmaps {
			minFilter = driver.LinearMipmapNearest
		}
	case FilterLinearMipmap:
		minFilter, magFilter = driver.Linear, driver.Linear
		if img.mipmaps {
			minFilter = driver.LinearMipmapLinear
		}
	default:
		return r.failf(op, ErrInvalidArgument, "filter %d", f)
	}
	c, err := r.context(op)
	if err != nil {
		return err
	}
	c.flush()
	c.state.BindTexture(img.tex)
	r.d.TexParameteri(driver.Texture2D, driver.TextureMinFilter, int32(minFilter))
	r.d.TexParameteri(driver.Texture2D, driver.TextureMagFilter, int32(magFilter))
	img.filter = f
	return nil
}

// SetBlending enables or disables blending when img is drawn.
func (r *Renderer) SetBlending(img *Image, on bool) error {
	if err := r.checkImage("SetBlending", img); err != nil {
		return err
	}
	img.blending = on
	return nil
}

// SetBlendMode sets the blend mode used when img is drawn.
func (r *Renderer) SetBlendMode(img *Image, mode BlendMode) error {
	const op = "SetBlendMode"
	if err := r.checkImage(op, img); err != nil {
		return err
	}
	if !mode.Valid() {
		return r.failf(op, ErrInvalidArgument, "blend mode %v", mode)
	}
	img.blendMode = mode
	return nil
}

// SetColor sets the tint img is drawn with.
func (r *Renderer) SetColor(img *Image, col Color) error {
	if err := r.checkImage("SetColor", img); err != nil {
		return err
	}
	img.color = col
	return nil
}

// String implements fmt.Stringer.
func (img *Image) String() string {
	return fmt.Sprintf("Image(%d, %dx%d, %d channels)", img.tex, img.w, img.h, img.channels)
}
