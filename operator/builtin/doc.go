// Package builtin provides a small set of locally-executed reference
// operators — Constant, Passthrough, Mosaic, and BandStack — so a graph document can be
// exercised end to end without a real image-processing backend. Each one is
// a plain parameter struct, a pure compute function, and a thin wrapper
// satisfying product.Operator.
package builtin
