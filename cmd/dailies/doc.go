// Package main hosts the dailies CLI entrypoint and command graph.
//
// The Cobra-based command tree wires the resolver, settings resolution, the
// engine adapters, and the dispatcher together for the render command, and
// surfaces supporting operations: path inspection, preset listing, published
// version history, dependency checks, and configuration scaffolding.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
