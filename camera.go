package blit

// Camera is the view transform of a target. Zoom and rotation pivot about
// the center of the target.
type Camera struct {
	X, Y float32
	// Angle is the rotation in degrees, clockwise on screen.
	Angle float32
	Zoom  float32
}

// DefaultCamera returns the identity camera.
func DefaultCamera() Camera {
	return Camera{Zoom: 1}
}

// SetCamera sets the camera of t and returns the previous one. Pending
// geometry for t is flushed first so it keeps the old view.
func (r *Renderer) SetCamera(t *Target, cam Camera) (Camera, error) {
	if err := r.checkTarget("SetCamera", t); err != nil {
		return Camera{}, err
	}
	old := t.camera
	if cam == old {
		return old, nil
	}
	c := r.boundContext(t)
	if c != nil {
		c.flush()
	}
	t.camera = cam
	if c != nil {
		c.applyCamera(t)
	}
	return old, nil
}

// Camera returns the camera of t.
func (t *Target) Camera() Camera { return t.camera }

// cameraAffine is cameraMatrix as a 2D affine transform.
func cameraAffine(cam Camera, w, h float32) Matrix {
	return Translate(w/2, h/2).
		Multiply(Rotate(cam.Angle)).
		Multiply(Translate(-w/2, -h/2)).
		Multiply(Translate(cam.X+w/2, cam.Y+h/2)).
		Multiply(Scale(cam.Zoom, cam.Zoom)).
		Multiply(Translate(-cam.X-w/2, -cam.Y-h/2))
}

// WorldCoords maps a position in target pixels, measured from the top-left
// corner, to the coordinates sprites are drawn at. It undoes the viewport,
// the virtual resolution and the camera of t.
func (t *Target) WorldCoords(x, y float32) (float32, float32) {
	w, h := float32(t.w), float32(t.h)
	if v := t.viewport; v.W > 0 && v.H > 0 {
		x = (x - v.X) * w / v.W
		y = (y - v.Y) * h / v.H
	}
	cam := t.camera
	x, y = x+cam.X, y+cam.Y
	m := cameraAffine(cam, w, h)
	if m.IsIdentity() {
		return x, y
	}
	return m.Invert().TransformPoint(x, y)
}
