// Package structcode implements the fixed-format binary codec that backs the
// schema layer: a byte order plus a format-code string describe a packed
// layout, and Pack/Unpack convert between a flat sequence of primitive
// elements and the packed bytes.
//
// # Format codes
//
//	Code    Width   Element
//	─────────────────────────────
//	b/B     1       int8/uint8
//	h/H     2       int16/uint16
//	i/I     4       int32/uint32
//	q/Q     8       int64/uint64
//	f/d     4/8     float32/float64
//	?       1       bool
//	c       1       byte
//	Ns      N       []byte (one element of N bytes)
//	Nx      N       none (padding)
//
// A decimal prefix repeats a code ("3H" is three uint16 elements); for "s"
// and "x" the prefix is the byte length instead. Fixed-length "s" fields are
// zero-padded when the input is shorter than declared and rejected when
// longer. Unpack requires the buffer to match the format size exactly.
package structcode
