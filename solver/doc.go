// Package solver drives a model built with package model to a good feasible
// assignment.
//
// The outer loop (Solve) sequences three drivers over one shared evaluation
// kernel:
//
//  1. Lagrange dual — optional subgradient warm start, valid for linear
//     models without selection variables.
//  2. Local search — optional best-improvement descent to a local optimum of
//     the locally-augmented objective.
//  3. Tabu search — repeated inner loops with a tabu tenure over
//     recently-updated variables, three incumbents (local-augmented,
//     global-augmented, feasible) and adaptive per-constraint penalty
//     coefficients that tighten under infeasibility, relax on satisfied
//     constraints and reset to the global vector on stagnation.
//
// Between tabu loops the outer loop adapts the initial tabu tenure from the
// memory's bias signal, chooses a random initial-modification width, toggles
// the special neighborhood families on stagnation, and ratchets the global
// penalty vector when the global augmented incumbent improves.
//
// Everything is single-threaded and deterministic: a fixed Options.Seed
// reproduces a run exactly. Cancellation is cooperative — the wall-clock cap
// is polled between iterations and a user callback may request a stop by
// returning ErrStopRequested.
package solver
