// Package services defines shared utilities consumed by the render dispatcher
// and the engine adapters.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, engine names, and dispatcher states
//     for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into the typed taxonomy a JobResult carries.
//
// Use these helpers when wiring new engine logic so error handling and
// observability stay uniform across the pipeline.
package services
