// Package service exposes the solver over HTTP.
//
// Endpoints (gin router):
//
//	POST /api/v1/solve   — accept a JSON model (variables, linear
//	                       constraints, objective, option overrides), run
//	                       the solver, return the Result.
//	GET  /api/v1/stream  — websocket stream of per-loop progress events for
//	                       running solves.
//	GET  /api/v1/health  — liveness probe.
//
// Each request builds its own model.Model, so concurrent requests never
// share solver state; the solver itself stays single-threaded per solve.
// When a Postgres store is configured (DATABASE_URL), finished runs are
// persisted with their run id, objective and full solution document.
package service
