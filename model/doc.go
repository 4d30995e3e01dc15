// Package model implements the modeling layer and the incremental evaluation
// engine of the solver.
//
// A Model owns dense proxies of decision variables, sparse linear
// expressions and sensed constraints. Users build a model through the narrow
// construction API (NewVariable(s)/NewExpression(s)/NewConstraint(s),
// Minimize/Maximize with a Linear body or an evaluation callback), then the
// solver drives it through three operations:
//
//   - Setup    — links variables to constraints, assigns unique names,
//     presolves, classifies constraint shapes, extracts one-hot selection
//     groups and seeds the neighborhood generator.
//   - Evaluate — scores a candidate Move without mutating any state, in time
//     proportional to the size of the move (delta form) rather than the
//     model. The result is a SolutionScore carrying the objective, the
//     violation total and both augmented objectives.
//   - Apply    — the single write path: commits a move's alterations and
//     refreshes every cached expression/constraint/violation value through
//     the same delta formulas.
//
// Sign convention: internally every objective is minimized. For maximization
// the internal objective is the negated user objective and Model.Sign()
// reports -1; exported objective values are internal × Sign().
//
// Determinism: expressions and constraints keep insertion-ordered term
// slices next to their lookup maps, so floating-point accumulation order is
// reproducible run to run.
package model
