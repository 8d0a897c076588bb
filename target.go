package blit

import (
	"log/slog"

	"github.com/gogpu/blit/driver"
)

// Rect is an axis-aligned rectangle in pixels, origin top-left.
type Rect struct {
	X, Y, W, H float32
}

// Target is a render destination: either a window, which owns a Context, or
// an image, which renders through the context of whichever window is
// current. An image target is owned by its image and freed with it.
type Target struct {
	r     *Renderer
	ctx   *Context // window targets only
	win   Window   // window targets only
	image *Image   // image targets only; the image owns the target

	fbo          uint32
	w, h         int // logical size, differs from base under virtual resolution
	baseW, baseH int // window or image size in pixels
	virtual      bool

	viewport Rect
	clip     Rect
	useClip  bool
	camera   Camera
	color    Color
	useColor bool

	freed bool
}

// Size returns the logical size of the target.
func (t *Target) Size() (w, h int) { return t.w, t.h }

// Image returns the image an image target renders into, or nil for window
// targets.
func (t *Target) Image() *Image { return t.image }

// Context returns the context of a window target, or nil for image targets.
func (t *Target) Context() *Context { return t.ctx }

// Viewport returns the viewport in pixels.
func (t *Target) Viewport() Rect { return t.viewport }

// Clip returns the clip rectangle and whether clipping is enabled.
func (t *Target) Clip() (Rect, bool) { return t.clip, t.useClip }

// glViewport converts the viewport to GL's bottom-up window coordinates.
func (t *Target) glViewport() (x, y, w, h int32) {
	v := t.viewport
	return int32(v.X), int32(float32(t.baseH) - v.H - v.Y), int32(v.W), int32(v.H)
}

// glScissor converts the clip rectangle to scissor coordinates. Window
// clips are flipped and scaled from the virtual to the real resolution.
func (t *Target) glScissor() (x, y, w, h int32) {
	c := t.clip
	if t.image != nil {
		return int32(c.X), int32(c.Y), int32(c.W), int32(c.H)
	}
	xf := float32(t.baseW) / float32(t.w)
	yf := float32(t.baseH) / float32(t.h)
	y0 := float32(t.h) - (c.Y + c.H)
	return int32(c.X * xf), int32(y0 * yf), int32(c.W * xf), int32(c.H * yf)
}

// checkTarget rejects nil, foreign and freed targets.
func (r *Renderer) checkTarget(op string, t *Target) error {
	switch {
	case t == nil:
		return r.failf(op, ErrInvalidArgument, "nil target")
	case t.r != r:
		return r.fail(op, ErrContextMismatch)
	case t.freed:
		return r.failf(op, ErrInvalidArgument, "target was freed")
	}
	return nil
}

// bind makes t the destination of the current context. Window targets
// switch contexts first. Changing the destination flushes the batch and
// loads t's camera.
func (r *Renderer) bind(op string, t *Target) (*Context, error) {
	if err := r.checkTarget(op, t); err != nil {
		return nil, err
	}
	if t.ctx != nil {
		r.makeCurrent(t)
	}
	c, err := r.context(op)
	if err != nil {
		return nil, err
	}
	if c.target == t {
		return c, nil
	}
	c.flush()
	if !c.state.BindFramebuffer(t.fbo) {
		return nil, r.fail(op, ErrRenderTargetsUnsupported)
	}
	c.target = t
	c.applyCamera(t)
	return c, nil
}

// boundContext returns the context currently drawing into t, or nil. The
// current context wins when several still name t.
func (r *Renderer) boundContext(t *Target) *Context {
	if r.current != nil && r.current.ctx.target == t {
		return r.current.ctx
	}
	for _, w := range r.windows {
		if w.ctx.target == t {
			return w.ctx
		}
	}
	return nil
}

// flushTarget flushes geometry pending for t.
func (r *Renderer) flushTarget(t *Target) {
	if c := r.boundContext(t); c != nil {
		c.flush()
	}
}

// CreateTargetFromWindow returns the target of win, creating a context for
// it on first use. The window's context becomes current.
func (r *Renderer) CreateTargetFromWindow(win Window) (*Target, error) {
	const op = "CreateTargetFromWindow"
	if win == nil {
		return nil, r.failf(op, ErrInvalidArgument, "nil window")
	}
	for _, t := range r.windows {
		if t.win.ID() == win.ID() {
			r.makeCurrent(t)
			return t, nil
		}
	}

	prev := r.current
	if prev != nil {
		prev.ctx.flush()
	}
	win.MakeCurrent()
	ctx, err := r.newContext(win)
	if err != nil {
		if prev != nil {
			prev.win.MakeCurrent()
		}
		return nil, r.fail(op, err)
	}

	w, h := win.Size()
	t := &Target{
		r:        r,
		ctx:      ctx,
		win:      win,
		w:        w,
		h:        h,
		baseW:    w,
		baseH:    h,
		viewport: Rect{W: float32(w), H: float32(h)},
		camera:   DefaultCamera(),
	}
	r.windows = append(r.windows, t)
	r.current = t
	ctx.state.BindFramebuffer(0)
	ctx.target = t
	ctx.applyCamera(t)

	Logger().Debug("blit: window target created",
		slog.Uint64("window", uint64(win.ID())),
		slog.Int("width", w),
		slog.Int("height", h))
	return t, nil
}

// MakeCurrent makes the context of window target t current. If win differs
// from the window the context last presented to, the context is rebound to
// win and the camera is reapplied. A nil win keeps the target's window.
func (r *Renderer) MakeCurrent(t *Target, win Window) error {
	const op = "MakeCurrent"
	if err := r.checkTarget(op, t); err != nil {
		return err
	}
	if t.ctx == nil {
		return r.failf(op, ErrInvalidArgument, "not a window target")
	}
	r.makeCurrent(t)
	if win == nil || win.ID() == t.ctx.windowID {
		return nil
	}

	c := t.ctx
	c.flush()
	win.MakeCurrent()
	t.win, c.win, c.windowID = win, win, win.ID()
	t.baseW, t.baseH = win.Size()
	if !t.virtual {
		t.w, t.h = t.baseW, t.baseH
	}
	t.viewport = Rect{W: float32(t.baseW), H: float32(t.baseH)}
	if c.target != nil {
		c.applyCamera(c.target)
	}
	return nil
}

// LoadTarget returns the render target of img, creating its framebuffer
// object on first use.
func (r *Renderer) LoadTarget(img *Image) (*Target, error) {
	const op = "LoadTarget"
	if err := r.checkImage(op, img); err != nil {
		return nil, err
	}
	if img.target != nil {
		return img.target, nil
	}
	if !r.info.Features.Has(driver.FeatureRenderTargets) {
		return nil, r.fail(op, ErrRenderTargetsUnsupported)
	}
	c, err := r.context(op)
	if err != nil {
		return nil, err
	}

	fbo := r.d.GenFramebuffer()
	if fbo == 0 {
		return nil, r.failf(op, ErrFramebufferIncomplete, "no framebuffer name")
	}
	var restore uint32
	if c.target != nil {
		restore = c.target.fbo
	}
	c.state.BindFramebuffer(fbo)
	r.d.FramebufferTexture2D(driver.Framebuffer, driver.ColorAttachment0, driver.Texture2D, img.tex, 0)
	status := r.d.CheckFramebufferStatus(driver.Framebuffer)
	c.state.BindFramebuffer(restore)
	if status != driver.FramebufferComplete {
		r.d.DeleteFramebuffer(fbo)
		c.state.ForgetFramebuffer(fbo)
		return nil, r.failf(op, ErrFramebufferIncomplete, "status %#x", uint32(status))
	}

	t := &Target{
		r:        r,
		image:    img,
		fbo:      fbo,
		w:        img.w,
		h:        img.h,
		baseW:    img.w,
		baseH:    img.h,
		viewport: Rect{W: float32(img.w), H: float32(img.h)},
		camera:   DefaultCamera(),
	}
	img.target = t
	return t, nil
}

// FreeTarget releases t. Freeing a window target releases its context;
// freeing an image target deletes its framebuffer object and detaches it
// from the image.
func (r *Renderer) FreeTarget(t *Target) error {
	const op = "FreeTarget"
	if err := r.checkTarget(op, t); err != nil {
		return err
	}
	if t.ctx != nil {
		r.makeCurrent(t)
		t.ctx.flush()
		t.ctx.release()
		for i, w := range r.windows {
			if w == t {
				r.windows = append(r.windows[:i], r.windows[i+1:]...)
				break
			}
		}
		r.current = nil
		if len(r.windows) > 0 {
			r.makeCurrent(r.windows[0])
		}
		t.freed = true
		return nil
	}

	for _, w := range r.windows {
		c := w.ctx
		if c.target == t {
			c.flush()
			c.target = nil
		}
		c.state.ForgetFramebuffer(t.fbo)
	}
	r.d.DeleteFramebuffer(t.fbo)
	if t.image != nil {
		t.image.target = nil
	}
	t.freed = true
	return nil
}

// SetViewport sets the area of t drawn into, in pixels.
func (r *Renderer) SetViewport(t *Target, v Rect) error {
	const op = "SetViewport"
	if err := r.checkTarget(op, t); err != nil {
		return err
	}
	if v.W < 0 || v.H < 0 {
		return r.failf(op, ErrInvalidArgument, "viewport %vx%v", v.W, v.H)
	}
	r.flushTarget(t)
	t.viewport = v
	return nil
}

// SetClipRect enables clipping of t to rect.
func (r *Renderer) SetClipRect(t *Target, rect Rect) error {
	const op = "SetClipRect"
	if err := r.checkTarget(op, t); err != nil {
		return err
	}
	if rect.W < 0 || rect.H < 0 {
		return r.failf(op, ErrInvalidArgument, "clip %vx%v", rect.W, rect.H)
	}
	r.flushTarget(t)
	t.clip, t.useClip = rect, true
	return nil
}

// SetClip enables clipping of t to the given rectangle.
func (r *Renderer) SetClip(t *Target, x, y, w, h float32) error {
	return r.SetClipRect(t, Rect{X: x, Y: y, W: w, H: h})
}

// ClearClip disables clipping and resets the clip rectangle to the whole
// target.
func (r *Renderer) ClearClip(t *Target) error {
	if err := r.checkTarget("ClearClip", t); err != nil {
		return err
	}
	r.flushTarget(t)
	t.clip = Rect{W: float32(t.w), H: float32(t.h)}
	t.useClip = false
	return nil
}

// SetVirtualResolution makes t behave as a w by h target regardless of its
// real size. Drawing is scaled to fill the viewport.
func (r *Renderer) SetVirtualResolution(t *Target, w, h int) error {
	const op = "SetVirtualResolution"
	if err := r.checkTarget(op, t); err != nil {
		return err
	}
	if w <= 0 || h <= 0 {
		return r.failf(op, ErrInvalidArgument, "resolution %dx%d", w, h)
	}
	r.resize(t, w, h)
	t.virtual = true
	return nil
}

// UnsetVirtualResolution restores t's real size.
func (r *Renderer) UnsetVirtualResolution(t *Target) error {
	if err := r.checkTarget("UnsetVirtualResolution", t); err != nil {
		return err
	}
	r.resize(t, t.baseW, t.baseH)
	t.virtual = false
	return nil
}

// resize changes the logical size of t and reloads its camera if bound.
func (r *Renderer) resize(t *Target, w, h int) {
	c := r.boundContext(t)
	if c != nil {
		c.flush()
	}
	t.w, t.h = w, h
	if c != nil {
		c.applyCamera(t)
	}
}

// SetWindowResolution resizes the window of the current context. The window
// must implement Resizer. The viewport is reset to the whole window.
func (r *Renderer) SetWindowResolution(w, h int) error {
	const op = "SetWindowResolution"
	if w <= 0 || h <= 0 {
		return r.failf(op, ErrInvalidArgument, "resolution %dx%d", w, h)
	}
	if _, err := r.context(op); err != nil {
		return err
	}
	t := r.current
	rs, ok := t.win.(Resizer)
	if !ok {
		return r.failf(op, ErrInvalidArgument, "window %d cannot be resized", t.win.ID())
	}
	t.ctx.flush()
	if err := rs.SetSize(w, h); err != nil {
		return r.fail(op, err)
	}
	t.baseW, t.baseH = w, h
	t.viewport = Rect{W: float32(w), H: float32(h)}
	if t.virtual {
		w, h = t.w, t.h
	}
	r.resize(t, w, h)
	return nil
}

// SetTargetColor tints everything drawn into t with col, multiplied with
// each image's own color.
func (r *Renderer) SetTargetColor(t *Target, col Color) error {
	if err := r.checkTarget("SetTargetColor", t); err != nil {
		return err
	}
	r.flushTarget(t)
	t.color, t.useColor = col, true
	return nil
}

// UnsetTargetColor removes the target tint.
func (r *Renderer) UnsetTargetColor(t *Target) error {
	if err := r.checkTarget("UnsetTargetColor", t); err != nil {
		return err
	}
	r.flushTarget(t)
	t.useColor = false
	return nil
}

// tint applies the target color to col.
func (t *Target) tint(col Color) Color {
	if t.useColor {
		return t.color.Mix(col)
	}
	return col
}

// Flip flushes pending geometry and presents a window target. Image
// targets are only flushed.
func (r *Renderer) Flip(t *Target) error {
	const op = "Flip"
	if err := r.checkTarget(op, t); err != nil {
		return err
	}
	if t.ctx == nil {
		r.flushTarget(t)
		return nil
	}
	r.makeCurrent(t)
	t.ctx.flush()
	t.win.SwapBuffers()
	t.ctx.intelArmed = t.ctx.intel
	return nil
}

// Clear fills t with transparent black.
func (r *Renderer) Clear(t *Target) error {
	return r.clear("Clear", t, Transparent)
}

// ClearRGBA fills t with the given color.
func (r *Renderer) ClearRGBA(t *Target, red, green, blue, alpha uint8) error {
	return r.clear("ClearRGBA", t, Color{R: red, G: green, B: blue, A: alpha})
}

// ClearColor fills t with col. Only the clip rectangle is cleared when
// clipping is enabled.
func (r *Renderer) ClearColor(t *Target, col Color) error {
	return r.clear("ClearColor", t, col)
}

func (r *Renderer) clear(op string, t *Target, col Color) error {
	c, err := r.bind(op, t)
	if err != nil {
		return err
	}
	c.flush()
	d := r.d
	if t.useClip {
		d.Enable(driver.ScissorTest)
		d.Scissor(t.glScissor())
	}
	f := col.floats()
	d.ClearColor(f[0], f[1], f[2], f[3])
	d.Clear(driver.ColorBufferBit)
	if t.useClip {
		d.Disable(driver.ScissorTest)
	}
	return nil
}
