// Package backend provides the submission tiers that turn a flushed vertex
// batch into GL draw calls.
//
// Three tiers implement the same [Backend] interface:
//
//   - gl1: fixed-function immediate mode (Begin/Vertex/End)
//   - gl2: fixed-function client-side vertex arrays, one indexed draw per pass
//   - gl3: buffer objects and shaders, double-buffered vertex storage and a
//     model-view-projection uniform
//
// A renderer picks one tier when it is created, either by name or with
// [Default], which walks the priority list gl3 > gl2 > gl1 and returns the
// first tier the driver's features support. Each context then gets its own
// [Submitter], which owns the tier's per-context GPU objects. The renderer
// calls Submit once per flush pass; everything inside a pass runs on the
// concrete tier type.
//
// # Registration
//
// Tiers register themselves from init functions in this package. Additional
// tiers can be registered by other packages:
//
//	func init() {
//	    backend.Register("gles3", func() backend.Backend { return &myTier{} })
//	}
package backend
