// Package glfwwindow provides blit.Window over GLFW windows with an OpenGL
// 2.1 compatibility context.
//
// GLFW must be driven from the main thread: call runtime.LockOSThread in the
// program's init and make every call in this package from main.
package glfwwindow

import (
	"fmt"
	"sync/atomic"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Options configures a new window.
type Options struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	// VSync waits for vertical retrace in SwapBuffers.
	VSync bool
	// Hidden creates the window without showing it.
	Hidden bool
}

const (
	defaultWidth  = 800
	defaultHeight = 600
	defaultTitle  = "blit"
)

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = defaultWidth
	}
	if o.Height <= 0 {
		o.Height = defaultHeight
	}
	if o.Title == "" {
		o.Title = defaultTitle
	}
	return o
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// Init initializes GLFW. Call it once before [New].
func Init() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfwwindow: init: %w", err)
	}
	return nil
}

// Terminate destroys all remaining windows and releases GLFW.
func Terminate() { glfw.Terminate() }

// PollEvents processes pending window events.
func PollEvents() { glfw.PollEvents() }

var nextID atomic.Uint32

// Window is a GLFW window that implements blit.Window and blit.Resizer.
type Window struct {
	win *glfw.Window
	id  uint32
}

// New creates a window and makes its context current.
func New(opts Options) (*Window, error) {
	opts = opts.withDefaults()

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.Resizable, boolHint(opts.Resizable))
	glfw.WindowHint(glfw.Visible, boolHint(!opts.Hidden))

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("glfwwindow: create %dx%d: %w", opts.Width, opts.Height, err)
	}
	win.MakeContextCurrent()
	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return &Window{win: win, id: nextID.Add(1)}, nil
}

// ID returns a process-unique window number starting at 1.
func (w *Window) ID() uint32 { return w.id }

// Size returns the framebuffer size in pixels.
func (w *Window) Size() (width, height int) { return w.win.GetFramebufferSize() }

func (w *Window) MakeCurrent() { w.win.MakeContextCurrent() }

func (w *Window) SwapBuffers() { w.win.SwapBuffers() }

// SetSize resizes the window so its framebuffer is width x height pixels.
func (w *Window) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("glfwwindow: invalid size %dx%d", width, height)
	}
	ww, wh := w.win.GetSize()
	fw, fh := w.win.GetFramebufferSize()
	w.win.SetSize(toScreen(width, ww, fw), toScreen(height, wh, fh))
	return nil
}

// toScreen converts a framebuffer length to screen coordinates given the
// current window and framebuffer lengths along the same axis.
func toScreen(px, window, framebuffer int) int {
	if window <= 0 || framebuffer <= 0 || window == framebuffer {
		return px
	}
	return max(1, px*window/framebuffer)
}

// CursorPos returns the cursor position in framebuffer pixels from the
// top-left corner.
func (w *Window) CursorPos() (x, y float32) {
	cx, cy := w.win.GetCursorPos()
	ww, wh := w.win.GetSize()
	fw, fh := w.win.GetFramebufferSize()
	return float32(cx) * pixelScale(ww, fw), float32(cy) * pixelScale(wh, fh)
}

// pixelScale is the number of framebuffer pixels per screen coordinate.
func pixelScale(window, framebuffer int) float32 {
	if window <= 0 || framebuffer <= 0 {
		return 1
	}
	return float32(framebuffer) / float32(window)
}

// ShouldClose reports whether the user asked to close the window.
func (w *Window) ShouldClose() bool { return w.win.ShouldClose() }

// KeyPressed reports whether key is currently held down.
func (w *Window) KeyPressed(key glfw.Key) bool { return w.win.GetKey(key) == glfw.Press }

// Destroy closes the window.
func (w *Window) Destroy() { w.win.Destroy() }
