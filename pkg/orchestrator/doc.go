// Package orchestrator wires the load → select → transform → render
// pipeline behind a single Generate call, with dependency injection friendly
// options for callers that need to swap any stage.
package orchestrator
