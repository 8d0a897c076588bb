// Package state caches the GL state last applied on a context and gates
// every state-changing call behind an equality check.
//
// Each gated change that affects how pending geometry renders flushes the
// batch before the new state is applied, so queued vertices always draw
// under the state they were queued with. Only the last applied value is
// remembered.
package state

import (
	"github.com/gogpu/blit/driver"
	"github.com/gogpu/blit/internal/blend"
)

type cached[T comparable] struct {
	v     T
	known bool
}

// differs reports whether v must be applied.
func (c *cached[T]) differs(v T) bool { return !c.known || c.v != v }

func (c *cached[T]) set(v T) { c.v, c.known = v, true }

// Tracker is the state cache of one context.
type Tracker struct {
	d             driver.Driver
	features      driver.Features
	fixedFunction bool
	flush         func()

	texture     cached[uint32]
	texturing   cached[bool]
	framebuffer cached[uint32]
	blending    cached[bool]
	blendMode   cached[blend.Mode]
	program     cached[uint32]
	color       cached[[4]float32]
	viewport    cached[[4]int32]
	lineWidth   cached[float32]

	changes int
}

// New returns a tracker that calls flush before any change that affects
// pending geometry. fixedFunction enables management of the
// GL_TEXTURE_2D capability and the current color.
func New(d driver.Driver, features driver.Features, fixedFunction bool, flush func()) *Tracker {
	return &Tracker{d: d, features: features, fixedFunction: fixedFunction, flush: flush}
}

// Changes returns the number of state changes issued to the driver.
func (t *Tracker) Changes() int { return t.changes }

// Invalidate forgets all cached state, e.g. after another context ran.
func (t *Tracker) Invalidate() {
	*t = Tracker{d: t.d, features: t.features, fixedFunction: t.fixedFunction, flush: t.flush, changes: t.changes}
}

// BindTexture binds tex to TEXTURE_2D, flushing first if it changes.
// tex 0 unbinds texturing.
func (t *Tracker) BindTexture(tex uint32) {
	if t.fixedFunction {
		t.setTexturing(tex != 0)
	}
	if !t.texture.differs(tex) {
		return
	}
	t.flush()
	t.d.BindTexture(driver.Texture2D, tex)
	t.texture.set(tex)
	t.changes++
}

// ForceBindTexture binds tex after a flush regardless of the cache, for
// texture uploads that need the binding without changing tracked state.
func (t *Tracker) ForceBindTexture(tex uint32) {
	t.flush()
	t.d.BindTexture(driver.Texture2D, tex)
	t.texture.set(tex)
	t.changes++
}

// Texture returns the tracked texture binding and whether it is known.
func (t *Tracker) Texture() (uint32, bool) { return t.texture.v, t.texture.known }

// ForgetTexture drops the binding if tex is bound, e.g. when tex is deleted.
func (t *Tracker) ForgetTexture(tex uint32) {
	if t.texture.known && t.texture.v == tex {
		t.texture = cached[uint32]{}
	}
}

func (t *Tracker) setTexturing(on bool) {
	if !t.texturing.differs(on) {
		return
	}
	t.flush()
	if on {
		t.d.Enable(driver.Texture2D)
	} else {
		t.d.Disable(driver.Texture2D)
	}
	t.texturing.set(on)
	t.changes++
}

// BindFramebuffer binds fbo, flushing first if it changes. Without render
// target support only the default framebuffer (0) can be bound and false is
// returned for anything else.
func (t *Tracker) BindFramebuffer(fbo uint32) bool {
	if !t.features.Has(driver.FeatureRenderTargets) {
		return fbo == 0
	}
	if !t.framebuffer.differs(fbo) {
		return true
	}
	t.flush()
	t.d.BindFramebuffer(driver.Framebuffer, fbo)
	t.framebuffer.set(fbo)
	t.changes++
	return true
}

// Framebuffer returns the tracked framebuffer binding.
func (t *Tracker) Framebuffer() (uint32, bool) { return t.framebuffer.v, t.framebuffer.known }

// ForgetFramebuffer drops the binding if fbo is bound.
func (t *Tracker) ForgetFramebuffer(fbo uint32) {
	if t.framebuffer.known && t.framebuffer.v == fbo {
		t.framebuffer = cached[uint32]{}
	}
}

// SetBlending toggles GL_BLEND, flushing first if it changes.
func (t *Tracker) SetBlending(on bool) {
	if !t.blending.differs(on) {
		return
	}
	t.flush()
	if on {
		t.d.Enable(driver.Blend)
	} else {
		t.d.Disable(driver.Blend)
	}
	t.blending.set(on)
	t.changes++
}

// Blending returns the tracked blend enable.
func (t *Tracker) Blending() bool { return t.blending.v }

// SetBlendMode applies a blend mode, flushing first if it changes. Parts the
// hardware cannot express are skipped.
func (t *Tracker) SetBlendMode(m blend.Mode) {
	if !t.blendMode.differs(m) {
		return
	}
	t.flush()
	blend.Apply(t.d, m, t.features)
	t.blendMode.set(m)
	t.changes++
}

// BlendMode returns the tracked blend mode.
func (t *Tracker) BlendMode() (blend.Mode, bool) { return t.blendMode.v, t.blendMode.known }

// UseProgram makes p current, flushing first if it changes.
func (t *Tracker) UseProgram(p uint32) {
	if !t.program.differs(p) {
		return
	}
	t.flush()
	t.d.UseProgram(p)
	t.program.set(p)
	t.changes++
}

// Program returns the tracked program.
func (t *Tracker) Program() uint32 { return t.program.v }

// SetColor sets the fixed-function current color, flushing first if it
// changes. Shader tiers carry color per vertex and ignore it.
func (t *Tracker) SetColor(c [4]float32) {
	if !t.fixedFunction || !t.color.differs(c) {
		return
	}
	t.flush()
	t.d.Color4f(c[0], c[1], c[2], c[3])
	t.color.set(c)
	t.changes++
}

// ForgetColor drops the cached color after per-vertex colors replaced the
// current color.
func (t *Tracker) ForgetColor() { t.color = cached[[4]float32]{} }

// SetViewport applies a viewport. It does not flush: the flush engine sets
// the viewport of the destination right before drawing.
func (t *Tracker) SetViewport(x, y, w, h int32) {
	v := [4]int32{x, y, w, h}
	if !t.viewport.differs(v) {
		return
	}
	t.d.Viewport(x, y, w, h)
	t.viewport.set(v)
	t.changes++
}

// SetLineWidth applies a line width, flushing first if it changes.
func (t *Tracker) SetLineWidth(w float32) {
	if !t.lineWidth.differs(w) {
		return
	}
	t.flush()
	t.d.LineWidth(w)
	t.lineWidth.set(w)
	t.changes++
}
