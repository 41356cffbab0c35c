package kind

import "math"

type Kind uint8

const (
	Invalid Kind = iota
	Uint8
	Uint16
	Uint32
	Uint64
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
	Char
	Bool
	String
	Bytes
	Padding
	Enum
	Array
)

var names = [...]string{
	Invalid: "invalid",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Float32: "float32",
	Float64: "float64",
	Char:    "char",
	Bool:    "bool",
	String:  "string",
	Bytes:   "bytes",
	Padding: "padding",
	Enum:    "enum",
	Array:   "array",
}

func (k Kind) String() string {
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// Code returns the format code for fixed-width kinds. Length-dependent and
// composite kinds (String, Bytes, Padding, Enum, Array) have no single code.
func (k Kind) Code() byte {
	switch k {
	case Uint8:
		return 'B'
	case Uint16:
		return 'H'
	case Uint32:
		return 'I'
	case Uint64:
		return 'Q'
	case Int8:
		return 'b'
	case Int16:
		return 'h'
	case Int32:
		return 'i'
	case Int64:
		return 'q'
	case Float32:
		return 'f'
	case Float64:
		return 'd'
	case Char:
		return 'c'
	case Bool:
		return '?'
	default:
		return 0
	}
}

// Width returns the byte width of fixed-width kinds, 0 otherwise.
func (k Kind) Width() int {
	switch k {
	case Uint8, Int8, Char, Bool:
		return 1
	case Uint16, Int16:
		return 2
	case Uint32, Int32, Float32:
		return 4
	case Uint64, Int64, Float64:
		return 8
	default:
		return 0
	}
}

func (k Kind) IsInteger() bool {
	return k >= Uint8 && k <= Int64
}

func (k Kind) IsSigned() bool {
	return k >= Int8 && k <= Int64
}

// IsScalar reports whether the kind maps to exactly one fixed-width element.
func (k Kind) IsScalar() bool {
	return k >= Uint8 && k <= Bool
}

// Bounds returns the representable value range of an integer kind.
// For unsigned kinds min is 0; max is returned as uint64 to cover Uint64.
func (k Kind) Bounds() (min int64, max uint64) {
	bits := k.Width() * 8
	if k.IsSigned() {
		if bits == 64 {
			return math.MinInt64, math.MaxInt64
		}
		return -(int64(1) << (bits - 1)), uint64(1)<<(bits-1) - 1
	}
	if bits == 64 {
		return 0, math.MaxUint64
	}
	return 0, uint64(1)<<bits - 1
}

// Fits reports whether a signed member value is representable by an
// integer kind.
func (k Kind) Fits(v int64) bool {
	min, max := k.Bounds()
	if v < min {
		return false
	}
	if v < 0 {
		return true
	}
	return uint64(v) <= max
}
