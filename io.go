package blit

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/blit/internal/imageio"
)

// LoadImage decodes the image file at path (PNG, JPEG, BMP or TIFF) into a
// new image. Files larger than the driver's texture limit are scaled down
// to fit.
func (r *Renderer) LoadImage(path string) (*Image, error) {
	const op = "LoadImage"
	src, err := imageio.Load(path)
	if err != nil {
		return nil, r.failf(op, ErrInvalidArgument, "%v", err)
	}
	if fit := imageio.Fit(src, r.info.MaxTextureSize); fit != src {
		b := src.Bounds()
		Logger().Info("blit: image scaled to texture limit",
			slog.String("path", path),
			slog.Int("width", b.Dx()),
			slog.Int("height", b.Dy()),
			slog.Int("max", r.info.MaxTextureSize))
		src = fit
	}
	return r.CreateImageFromRGBA(src)
}

// SaveImage writes the contents of img to path in the format implied by its
// extension. Reading an image back needs render target support.
func (r *Renderer) SaveImage(img *Image, path string) error {
	const op = "SaveImage"
	if err := r.checkImage(op, img); err != nil {
		return err
	}
	t, err := r.LoadTarget(img)
	if err != nil {
		return err
	}
	return r.SaveTarget(t, path)
}

// SaveTarget writes the contents of t to path.
func (r *Renderer) SaveTarget(t *Target, path string) error {
	const op = "SaveTarget"
	pix, err := r.ReadPixels(t)
	if err != nil {
		return err
	}
	if err := imageio.Save(path, pix); err != nil {
		return r.fail(op, fmt.Errorf("%w: %w", ErrInvalidArgument, err))
	}
	return nil
}
