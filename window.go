package blit

// Window is the windowing shim a window target renders into. The renderer
// only calls it at context switches and presents.
type Window interface {
	// ID identifies the window.
	ID() uint32
	// Size returns the drawable size in pixels.
	Size() (width, height int)
	// MakeCurrent makes the window's GL context current on the calling
	// thread.
	MakeCurrent()
	// SwapBuffers presents the back buffer.
	SwapBuffers()
}

// Resizer is implemented by windows whose size can be changed.
type Resizer interface {
	SetSize(width, height int) error
}
