// Package render holds the core dailies pipeline: render settings and their
// preset/override layering, slate generation, per-job temp workspaces, and
// the dispatcher that drives a job from creation through engine execution to
// a normalized result.
//
// The package defines the Adapter interface that engine implementations
// satisfy; it never imports them. Wiring happens in the command layer.
package render
