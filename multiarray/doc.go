// Package multiarray provides flat-indexed dense storage metadata shared by
// every proxy container in the solver: decision variables, expressions,
// constraints and their per-entity value snapshots.
//
// A Shape records the dimensions of an N-dimensional array together with the
// row-major strides needed to map a multi-dimensional index to a position in
// a flat backing slice and back. A Proxy[T] couples a Shape with a flat value
// slice and a stable numeric id, which is how the model exports variable
// values, constraint violations and penalty coefficients without aliasing
// live solver state.
//
// Index labels follow the element-naming convention of the model layer:
// "x[03]" for 1-D, "x[03, 12]" for 2-D, with zero-padded fixed-width indices
// (width = number of digits of the largest dimension). Scalar proxies carry
// no label suffix.
//
// All operations are O(d) in the number of dimensions; nothing in this
// package allocates on the indexing hot path.
package multiarray
