// Command blitdemo opens a window and draws a bouncing sprite field, a few
// batched shapes and a render-to-texture panel with the blit renderer.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/driver/gl21"
	"github.com/gogpu/blit/window/glfwwindow"
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", "", "TOML configuration file")
		dumpConfig = flag.String("write-config", "", "write the default configuration to this file and exit")
		frames     = flag.Int("frames", 0, "stop after this many frames (0 runs until closed)")
		screenshot = flag.String("screenshot", "", "save the last frame to this file (requires -frames)")
		debug      = flag.Bool("debug", false, "log flushes and state changes")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	blit.SetLogger(logger)

	if *dumpConfig != "" {
		if err := writeConfig(*dumpConfig, defaultConfig()); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		return
	}

	conf, err := readConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := run(conf, *frames, *screenshot, logger); err != nil {
		log.Fatal(err)
	}
}

func run(conf config, frames int, screenshot string, logger *slog.Logger) error {
	if err := glfwwindow.Init(); err != nil {
		return err
	}
	defer glfwwindow.Terminate()

	win, err := glfwwindow.New(glfwwindow.Options{
		Title:     conf.Window.Title,
		Width:     conf.Window.Width,
		Height:    conf.Window.Height,
		Resizable: conf.Window.Resizable,
		VSync:     conf.Window.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Destroy()

	drv, err := gl21.New()
	if err != nil {
		return err
	}
	opts, err := conf.Renderer.Options()
	if err != nil {
		return err
	}
	r, err := blit.NewRenderer(drv, win, opts...)
	if err != nil {
		return err
	}
	defer r.Close()

	info := r.Info()
	logger.Info("renderer ready",
		slog.String("gl", info.Renderer),
		slog.String("backend", r.BackendName()),
		slog.String("features", info.Features.String()))

	sc, err := newScene(r, conf.Scene)
	if err != nil {
		return err
	}
	defer sc.release()

	screen := r.Current()
	for n := 0; !win.ShouldClose() && (frames == 0 || n < frames); n++ {
		glfwwindow.PollEvents()
		if win.KeyPressed(glfw.KeyEscape) {
			break
		}
		if err := syncSize(r, win); err != nil {
			return err
		}
		sc.update(win.CursorPos())
		if err := sc.draw(screen); err != nil {
			return err
		}
		if n%300 == 299 {
			st := r.Stats()
			logger.Info("frame stats",
				slog.Int("frame", n+1),
				slog.Int("flushes", st.Flushes),
				slog.Int("passes", st.Passes),
				slog.Int("vertices", st.Vertices),
				slog.Int("state_changes", st.StateChanges))
			r.ResetStats()
		}
		if screenshot != "" && n == frames-1 {
			if err := saveScreenshot(r, screen, screenshot); err != nil {
				return err
			}
			logger.Info("screenshot saved", slog.String("path", screenshot))
		}
		if err := r.Flip(screen); err != nil {
			return err
		}
	}
	return nil
}

// syncSize follows framebuffer resizes made by the user.
func syncSize(r *blit.Renderer, win *glfwwindow.Window) error {
	w, h := win.Size()
	if w == 0 || h == 0 {
		return nil
	}
	if v := r.Current().Viewport(); int(v.W) == w && int(v.H) == h {
		return nil
	}
	return r.SetWindowResolution(w, h)
}

func saveScreenshot(r *blit.Renderer, screen *blit.Target, path string) error {
	img, err := r.CopyImageFromTarget(screen)
	if err != nil {
		return err
	}
	defer func() { _ = r.Release(img) }()
	return r.SaveImage(img, path)
}
