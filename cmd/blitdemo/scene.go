package main

import (
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/chewxy/math32"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/driver"
)

const panelSize = 256

type particle struct {
	x, y, vx, vy float32
	tint         blit.Color
}

type scene struct {
	r          *blit.Renderer
	sprite     *blit.Image
	panel      *blit.Image
	panelT     *blit.Target
	background blit.Color
	particles  []particle
	values     []float32
	angle      float32
	// hover is set while the cursor is over the panel, which stops it
	// turning.
	hover bool
}

func newScene(r *blit.Renderer, conf sceneConfig) (*scene, error) {
	bg, err := blit.ParseHex(conf.Background)
	if err != nil {
		return nil, err
	}
	sc := &scene{r: r, background: bg}

	if conf.Image != "" {
		sc.sprite, err = r.LoadImage(conf.Image)
	} else {
		sc.sprite, err = r.CreateImageFromRGBA(disc(max(conf.SpriteSize, 2)))
	}
	if err != nil {
		return nil, err
	}

	// The panel is optional: drivers without framebuffer objects skip it.
	if r.IsFeatureEnabled(driver.FeatureRenderTargets) {
		if sc.panel, err = r.CreateImage(panelSize, panelSize, 4); err != nil {
			return nil, err
		}
		if sc.panelT, err = r.LoadTarget(sc.panel); err != nil {
			return nil, err
		}
	}

	w, h := r.Current().Size()
	sc.particles = make([]particle, conf.Sprites)
	for i := range sc.particles {
		p := &sc.particles[i]
		p.x = rand.Float32() * float32(w)
		p.y = rand.Float32() * float32(h)
		a := rand.Float32() * 2 * math32.Pi
		speed := 1 + 3*rand.Float32()
		p.vy, p.vx = math32.Sincos(a)
		p.vx *= speed
		p.vy *= speed
		p.tint = blit.HSL(rand.Float32()*360, 0.8, 0.6)
	}
	sc.values = make([]float32, len(sc.particles)*blit.FloatsPerBatchSprite)
	return sc, nil
}

// disc draws a soft white circle used as the default sprite.
func disc(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float32(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math32.Hypot(float32(x)+0.5-c, float32(y)+0.5-c) / c
			if d >= 1 {
				continue
			}
			a := uint8(255 * (1 - d*d))
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: a})
		}
	}
	return img
}

// panelCenter returns where the panel is drawn on screen.
func panelCenter(screen *blit.Target) (x, y float32) {
	w, h := screen.Size()
	return float32(w) - panelSize*0.75, float32(h) - panelSize*0.75
}

// overPanel reports whether the screen pixel (x, y) falls on the rotated
// panel.
func (sc *scene) overPanel(screen *blit.Target, x, y float32) bool {
	wx, wy := screen.WorldCoords(x, y)
	px, py := panelCenter(screen)
	toPanel := blit.Translate(px, py).Multiply(blit.Rotate(sc.angle)).Invert()
	lx, ly := toPanel.TransformPoint(wx, wy)
	return math32.Abs(lx) <= panelSize/2 && math32.Abs(ly) <= panelSize/2
}

func (sc *scene) update(cursorX, cursorY float32) {
	screen := sc.r.Current()
	sc.hover = sc.panelT != nil && sc.overPanel(screen, cursorX, cursorY)
	w, h := screen.Size()
	fw, fh := float32(w), float32(h)
	for i := range sc.particles {
		p := &sc.particles[i]
		p.x += p.vx
		p.y += p.vy
		if p.x < 0 || p.x > fw {
			p.vx = -p.vx
			p.x = math32.Max(0, math32.Min(p.x, fw))
		}
		if p.y < 0 || p.y > fh {
			p.vy = -p.vy
			p.y = math32.Max(0, math32.Min(p.y, fh))
		}
	}
	if !sc.hover {
		sc.angle = math32.Mod(sc.angle+0.5, 360)
	}
}

func (sc *scene) draw(screen *blit.Target) error {
	r := sc.r
	if err := r.ClearColor(screen, sc.background); err != nil {
		return err
	}
	if err := sc.drawSprites(screen); err != nil {
		return err
	}
	if err := sc.drawShapes(screen); err != nil {
		return err
	}
	if sc.panelT == nil {
		return nil
	}
	if err := sc.drawPanel(); err != nil {
		return err
	}
	px, py := panelCenter(screen)
	return r.BlitRotate(sc.panel, nil, screen, px, py, sc.angle)
}

// drawSprites submits the whole particle field in one BlitBatch call.
func (sc *scene) drawSprites(screen *blit.Target) error {
	sw, sh := sc.sprite.Size()
	hw, hh := float32(sw)/2, float32(sh)/2
	tw, th := sc.sprite.TextureSize()
	s2, t2 := float32(sw)/float32(tw), float32(sh)/float32(th)
	corners := [4][4]float32{
		{-hw, -hh, 0, 0},
		{hw, -hh, s2, 0},
		{hw, hh, s2, t2},
		{-hw, hh, 0, t2},
	}
	v := sc.values
	for i, p := range sc.particles {
		rgba := [4]float32{
			float32(p.tint.R) / 255,
			float32(p.tint.G) / 255,
			float32(p.tint.B) / 255,
			1,
		}
		base := i * blit.FloatsPerBatchSprite
		for k, c := range corners {
			o := base + k*8
			v[o+0] = p.x + c[0]
			v[o+1] = p.y + c[1]
			v[o+2] = c[2]
			v[o+3] = c[3]
			copy(v[o+4:o+8], rgba[:])
		}
	}
	return sc.r.BlitBatch(sc.sprite, screen, len(sc.particles), v)
}

func (sc *scene) drawShapes(screen *blit.Target) error {
	r := sc.r
	white := blit.RGB(255, 255, 255)
	r.SetLineThickness(2)
	errs := []error{
		r.RectangleRound(screen, 16, 16, 236, 96, 12, white),
		r.CircleFilled(screen, 56, 56, 24, blit.Hex("#e06c75")),
		r.SectorFilled(screen, 136, 56, 12, 28, sc.angle, sc.angle+270, blit.Hex("#98c379")),
		r.TriFilled(screen, 180, 76, 220, 76, 200, 36, blit.Hex("#61afef")),
		r.Line(screen, 16, 112, 236, 112, white),
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// drawPanel renders a small dial into the offscreen panel image.
func (sc *scene) drawPanel() error {
	r, t := sc.r, sc.panelT
	const c, radius = panelSize / 2, panelSize/2 - 8
	if err := r.ClearRGBA(t, 0, 0, 0, 160); err != nil {
		return err
	}
	if err := r.Circle(t, c, c, radius, blit.RGB(255, 255, 255)); err != nil {
		return err
	}
	for i := 0; i < 12; i++ {
		s, co := math32.Sincos(float32(i) * math32.Pi / 6)
		if err := r.Line(t, c+co*(radius-16), c+s*(radius-16), c+co*radius, c+s*radius, blit.RGB(200, 200, 200)); err != nil {
			return err
		}
	}
	s, co := math32.Sincos(sc.angle * math32.Pi / 180)
	if err := r.Line(t, c, c, c+co*(radius-24), c+s*(radius-24), blit.Hex("#e5c07b")); err != nil {
		return err
	}
	return r.Blit(sc.sprite, nil, t, c, c)
}

func (sc *scene) release() {
	for _, img := range []*blit.Image{sc.panel, sc.sprite} {
		if img != nil {
			_ = sc.r.Release(img)
		}
	}
}
