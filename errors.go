package blit

import (
	"errors"
	"fmt"
	"log/slog"
)

// Errors returned by the renderer. Operations wrap them with the name of
// the failing call; test with errors.Is.
var (
	// ErrInvalidArgument is returned for nil images or targets, negative
	// sizes, unsupported channel counts and malformed values.
	ErrInvalidArgument = errors.New("blit: invalid argument")

	// ErrContextMismatch is returned when an image or target belongs to a
	// different renderer.
	ErrContextMismatch = errors.New("blit: object belongs to another renderer")

	// ErrNoContext is returned when no window context is current.
	ErrNoContext = errors.New("blit: no current context")

	// ErrRenderTargetsUnsupported is returned when rendering into an image
	// is requested on a driver without framebuffer objects.
	ErrRenderTargetsUnsupported = errors.New("blit: render targets not supported")

	// ErrFramebufferIncomplete is returned when a framebuffer object fails
	// its completeness check.
	ErrFramebufferIncomplete = errors.New("blit: framebuffer incomplete")

	// ErrTextureAllocation is returned when the driver cannot create a
	// texture.
	ErrTextureAllocation = errors.New("blit: texture allocation failed")

	// ErrShaderCompile is returned when a shader fails to compile. The
	// driver log is available from Renderer.ShaderMessage.
	ErrShaderCompile = errors.New("blit: shader compilation failed")

	// ErrShaderLink is returned when a program fails to link.
	ErrShaderLink = errors.New("blit: shader link failed")

	// ErrInvalidMatrix is returned for matrices of unsupported dimensions
	// or with non-finite entries.
	ErrInvalidMatrix = errors.New("blit: invalid matrix")

	// ErrBatchTooLarge is returned when a single draw needs more vertices
	// than a batch can address.
	ErrBatchTooLarge = errors.New("blit: batch too large")

	// ErrMissingFeatures is returned when the driver lacks features the
	// caller required.
	ErrMissingFeatures = errors.New("blit: required features missing")

	// ErrImageReleased is returned when an image is used after its last
	// reference was released.
	ErrImageReleased = errors.New("blit: image released")

	// ErrNoBackend is returned when no submission tier can run on the
	// driver.
	ErrNoBackend = errors.New("blit: no usable backend")
)

// fail records err as the renderer's last error, logs it and returns it.
func (r *Renderer) fail(op string, err error) error {
	err = fmt.Errorf("blit: %s: %w", op, err)
	r.lastErr = err
	Logger().Warn("blit: operation failed", slog.String("op", op), slog.Any("err", err))
	return err
}

// failf wraps a sentinel with a formatted detail.
func (r *Renderer) failf(op string, sentinel error, format string, args ...any) error {
	return r.fail(op, fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...))
}

// LastError returns the most recent error recorded by the renderer, or nil.
func (r *Renderer) LastError() error { return r.lastErr }

// PopError returns the most recent error and clears it.
func (r *Renderer) PopError() error {
	err := r.lastErr
	r.lastErr = nil
	return err
}
