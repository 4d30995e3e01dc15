// Package mps reads fixed- and free-format MPS files into a model.
//
// Supported sections: NAME, ROWS (N/L/G/E), COLUMNS with INTORG/INTEND
// integer markers, RHS, RANGES and BOUNDS (LO, UP, FX, BV, MI, PL, LI, UI),
// terminated by ENDATA. The first N row becomes the (minimized) objective;
// an RHS entry against the objective row is folded in as a negated constant.
//
// The produced model uses one variable proxy "x" over all columns and one
// constraint proxy "g" over all rows (plus "r" for RANGES rows), so large
// files stay inside the model's proxy limits; the Summary maps MPS column
// and row names to flat indices.
//
// The solver handles integer variables only: continuous columns are
// accepted, treated as integer, and listed in Summary.ContinuousColumns for
// the caller to warn about.
package mps
