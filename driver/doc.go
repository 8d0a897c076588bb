// Package driver defines the GL-shaped device surface the blit engine talks to.
//
// A [Driver] mirrors the subset of OpenGL / OpenGL ES entry points used by
// the three submission tiers: fixed-function immediate mode, client-side
// vertex arrays and buffer objects with shaders. Concrete drivers live in
// sub-packages:
//
//   - driver/gl21: real OpenGL 2.1 compatibility-profile driver (cgo, go-gl)
//   - driver/record: in-memory driver that simulates GL state and records calls
//
// The package also probes a driver's version and extension strings into a
// [Features] set, which decides the tier a renderer runs on and which blend
// equations, framebuffer objects and shader stages are available.
package driver
