// Package mipmh is a metaheuristic solver for mixed-integer programming
// problems with linear or user-supplied nonlinear objective and constraints.
//
// 🚀 What is mipmh?
//
//	A pure-Go tabu-search MIP solver built around an incremental evaluation
//	engine:
//		• Model building: integer/binary decision variables, sparse linear
//		  expressions, ≤ / = / ≥ constraints, minimize or maximize
//		• Constraint classification & presolve: set partitioning/packing/
//		  covering, knapsacks, precedence, variable bounds, aggregations;
//		  bound tightening and implicit fixing
//		• Neighborhoods: binary flips, integer shifts, one-hot selection
//		  swaps, structural two-variable moves, user-defined and chain moves
//		• Drivers: tabu search with adaptive penalty coefficients, local
//		  search, Lagrangian-dual warm start, adaptive outer loop
//
// ✨ Why choose mipmh?
//
//   - Deterministic – a fixed seed and fixed options reproduce a run exactly
//   - Incremental – move evaluation costs O(move), not O(model)
//   - Pure Go core – no cgo, no external solver binaries
//   - Narrow surface – build a model, call solver.Solve, read the Result
//
// Everything is organized under focused subpackages:
//
//	multiarray/ — shape/stride metadata and flat-indexed value proxies
//	model/      — variables, expressions, constraints, moves, presolve,
//	              classification, neighborhoods and the evaluation kernel
//	solver/     — tabu search, local search, Lagrange dual, outer loop
//	mps/        — MPS file reader producing a model
//	service/    — HTTP solve service with websocket progress streaming
//
// Start with model.New and solver.Solve; the package tests of solver/ show
// complete models solved end to end.
package mipmh
