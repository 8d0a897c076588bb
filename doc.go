// Package blit provides batched 2D sprite and shape rendering over
// OpenGL, from fixed-function GL 1.1 through shader-based GL 3 and GLES.
//
// # Overview
//
// blit accumulates draw calls into a per-context vertex batch and submits
// them to the GPU in as few draw calls as the current state allows. Every
// state change that affects how queued geometry renders (bound texture,
// render target, blend mode, shader program, camera, clip rectangle) flushes
// the batch first, so batching never changes what ends up on screen.
//
// # Quick Start
//
//	drv := gl21.New()
//	r, err := blit.NewRenderer(drv, win)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	img, _ := r.LoadImage("sprite.png")
//	screen := r.Current()
//	for i := 0; i < 1000; i++ {
//	    r.Blit(img, nil, screen, float32(i), 100)
//	}
//	r.Flip(screen)
//
// # Tiers
//
// The submission strategy is chosen once, when the renderer is created,
// from the features the driver reports:
//   - gl3: vertex buffer objects and shaders, per-vertex color, custom
//     attribute sources
//   - gl2: client-side vertex arrays and fixed-function state
//   - gl1: immediate mode
//
// See the backend package for the registry and [WithBackend] to force one.
//
// # Architecture
//
// The package is organized into:
//   - Public API: Renderer, Target, Image, Camera, shaders and uniforms
//   - driver: the GL call surface, feature probing and a recording driver
//     for tests
//   - backend: the three submission tiers
//   - internal: batch buffer, state tracker, attribute sources, blend
//     table, matrices, shape tessellation and image codecs
//
// # Threading
//
// A Renderer is not safe for concurrent use. All calls must come from the
// thread that owns the current GL context.
package blit
