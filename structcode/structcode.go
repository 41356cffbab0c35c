package structcode

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/binstruct/errors"
)

// ByteOrder selects the endianness applied to a whole format string.
type ByteOrder uint8

const (
	NativeEndian ByteOrder = iota
	LittleEndian
	BigEndian
)

var orderNames = [...]string{
	NativeEndian: "native",
	LittleEndian: "little-endian",
	BigEndian:    "big-endian",
}

func (o ByteOrder) String() string {
	if int(o) < len(orderNames) {
		return orderNames[o]
	}
	return "unknown"
}

// Marker returns the format-string prefix character for the order,
// matching the conventional "=", "<" and ">" markers.
func (o ByteOrder) Marker() byte {
	switch o {
	case LittleEndian:
		return '<'
	case BigEndian:
		return '>'
	default:
		return '='
	}
}

// appendByteOrder is what the packers need from encoding/binary. All three
// stdlib orders satisfy it.
type appendByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

func (o ByteOrder) byteOrder() appendByteOrder {
	switch o {
	case LittleEndian:
		return binary.LittleEndian
	case BigEndian:
		return binary.BigEndian
	default:
		return binary.NativeEndian
	}
}

type op struct {
	code  byte
	count int // repeat count, or byte length for s/x
}

// width in bytes of a single element of the given code.
func codeWidth(code byte) int {
	switch code {
	case 'b', 'B', '?', 'c', 'x':
		return 1
	case 'h', 'H':
		return 2
	case 'i', 'I', 'f':
		return 4
	case 'q', 'Q', 'd':
		return 8
	default:
		return 0
	}
}

func parseFormat(format string) ([]op, error) {
	var ops []op
	i := 0
	for i < len(format) {
		count := -1
		for i < len(format) && format[i] >= '0' && format[i] <= '9' {
			if count < 0 {
				count = 0
			}
			count = count*10 + int(format[i]-'0')
			i++
		}
		if i >= len(format) {
			return nil, errors.InvalidData(errors.PhaseDecode, nil, "format string ends after repeat count")
		}
		code := format[i]
		i++
		switch code {
		case 'b', 'B', '?', 'c', 'h', 'H', 'i', 'I', 'q', 'Q', 'f', 'd', 's', 'x':
		default:
			return nil, errors.New(errors.PhaseDecode, errors.KindUnsupported).
				Detail("unknown format code %q", string(code)).
				Build()
		}
		if count < 0 {
			count = 1
		}
		ops = append(ops, op{code: code, count: count})
	}
	return ops, nil
}

// CalcSize returns the packed byte size of a format string.
func CalcSize(format string) (int, error) {
	ops, err := parseFormat(format)
	if err != nil {
		return 0, err
	}
	size := 0
	for _, o := range ops {
		switch o.code {
		case 's', 'x':
			size += o.count
		default:
			size += o.count * codeWidth(o.code)
		}
	}
	return size, nil
}

// ElementCount returns the number of elements a format string consumes on
// Pack and produces on Unpack. Padding contributes none; an "s" run is one.
func ElementCount(format string) (int, error) {
	ops, err := parseFormat(format)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, o := range ops {
		switch o.code {
		case 'x':
		case 's':
			n++
		default:
			n += o.count
		}
	}
	return n, nil
}

// Pack converts a flat element sequence into packed bytes per the format.
func Pack(order ByteOrder, format string, elems []any) ([]byte, error) {
	ops, err := parseFormat(format)
	if err != nil {
		return nil, err
	}
	size, _ := CalcSize(format)
	bo := order.byteOrder()
	buf := make([]byte, 0, size)

	next := func() (any, bool) {
		if len(elems) == 0 {
			return nil, false
		}
		v := elems[0]
		elems = elems[1:]
		return v, true
	}

	for _, o := range ops {
		if o.code == 'x' {
			buf = append(buf, make([]byte, o.count)...)
			continue
		}
		if o.code == 's' {
			v, ok := next()
			if !ok {
				return nil, errors.InvalidData(errors.PhaseEncode, nil, "too few elements for format")
			}
			buf, err = appendBytesField(buf, v, o.count)
			if err != nil {
				return nil, err
			}
			continue
		}
		for n := 0; n < o.count; n++ {
			v, ok := next()
			if !ok {
				return nil, errors.InvalidData(errors.PhaseEncode, nil, "too few elements for format")
			}
			buf, err = appendScalar(buf, bo, o.code, v)
			if err != nil {
				return nil, err
			}
		}
	}
	if len(elems) != 0 {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Detail("%d elements left over after format consumed", len(elems)).
			Build()
	}
	return buf, nil
}

func appendBytesField(buf []byte, v any, length int) ([]byte, error) {
	var data []byte
	switch val := v.(type) {
	case []byte:
		data = val
	case string:
		data = []byte(val)
	default:
		return nil, errors.TypeMismatch(errors.PhaseEncode, nil, typeName(v), "bytes")
	}
	if len(data) > length {
		return nil, errors.New(errors.PhaseEncode, errors.KindWrongLength).
			Detail("value of %d bytes exceeds fixed field length %d", len(data), length).
			Value(len(data)).
			Build()
	}
	buf = append(buf, data...)
	// zero fill up to the declared field length
	buf = append(buf, make([]byte, length-len(data))...)
	return buf, nil
}

func appendScalar(buf []byte, bo appendByteOrder, code byte, v any) ([]byte, error) {
	switch code {
	case '?':
		b, ok := v.(bool)
		if !ok {
			return nil, errors.TypeMismatch(errors.PhaseEncode, nil, typeName(v), "bool")
		}
		if b {
			return append(buf, 1), nil
		}
		return append(buf, 0), nil

	case 'c':
		switch val := v.(type) {
		case byte:
			return append(buf, val), nil
		case []byte:
			if len(val) != 1 {
				return nil, errors.New(errors.PhaseEncode, errors.KindWrongLength).
					Detail("char field needs exactly 1 byte, got %d", len(val)).
					Build()
			}
			return append(buf, val[0]), nil
		case string:
			if len(val) != 1 {
				return nil, errors.New(errors.PhaseEncode, errors.KindWrongLength).
					Detail("char field needs exactly 1 byte, got %d", len(val)).
					Build()
			}
			return append(buf, val[0]), nil
		default:
			return nil, errors.TypeMismatch(errors.PhaseEncode, nil, typeName(v), "char")
		}

	case 'f':
		f, ok := toFloat64(v)
		if !ok {
			return nil, errors.TypeMismatch(errors.PhaseEncode, nil, typeName(v), "float32")
		}
		return bo.AppendUint32(buf, math.Float32bits(float32(f))), nil

	case 'd':
		f, ok := toFloat64(v)
		if !ok {
			return nil, errors.TypeMismatch(errors.PhaseEncode, nil, typeName(v), "float64")
		}
		return bo.AppendUint64(buf, math.Float64bits(f)), nil

	case 'b', 'h', 'i', 'q':
		n, ok := toInt64(v)
		if !ok {
			return nil, errors.TypeMismatch(errors.PhaseEncode, nil, typeName(v), signedName(code))
		}
		lo, hi := signedBounds(code)
		if n < lo || n > hi {
			return nil, errors.New(errors.PhaseEncode, errors.KindOutOfRange).
				FieldType(signedName(code)).
				Detail("value %d out of range [%d, %d]", n, lo, hi).
				Value(n).
				Build()
		}
		return appendUintBits(buf, bo, code, uint64(n)), nil

	case 'B', 'H', 'I', 'Q':
		n, ok := toUint64(v)
		if !ok {
			return nil, errors.TypeMismatch(errors.PhaseEncode, nil, typeName(v), unsignedName(code))
		}
		if hi := unsignedMax(code); n > hi {
			return nil, errors.New(errors.PhaseEncode, errors.KindOutOfRange).
				FieldType(unsignedName(code)).
				Detail("value %d out of range [0, %d]", n, hi).
				Value(n).
				Build()
		}
		return appendUintBits(buf, bo, code, n), nil

	default:
		return nil, errors.Unsupported(errors.PhaseEncode, "format code "+string(code))
	}
}

func appendUintBits(buf []byte, bo appendByteOrder, code byte, n uint64) []byte {
	switch codeWidth(code) {
	case 1:
		return append(buf, byte(n))
	case 2:
		return bo.AppendUint16(buf, uint16(n))
	case 4:
		return bo.AppendUint32(buf, uint32(n))
	default:
		return bo.AppendUint64(buf, n)
	}
}

// Unpack converts packed bytes into a flat element sequence per the format.
// The buffer must match the format size exactly.
func Unpack(order ByteOrder, format string, data []byte) ([]any, error) {
	ops, err := parseFormat(format)
	if err != nil {
		return nil, err
	}
	size, _ := CalcSize(format)
	if len(data) < size {
		return nil, errors.ShortBuffer(size, len(data))
	}
	if len(data) > size {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Detail("buffer holds %d bytes, layout needs %d", len(data), size).
			Build()
	}

	bo := order.byteOrder()
	count, _ := ElementCount(format)
	elems := make([]any, 0, count)
	pos := 0

	for _, o := range ops {
		switch o.code {
		case 'x':
			pos += o.count
		case 's':
			field := make([]byte, o.count)
			copy(field, data[pos:pos+o.count])
			elems = append(elems, field)
			pos += o.count
		default:
			w := codeWidth(o.code)
			for n := 0; n < o.count; n++ {
				elems = append(elems, readScalar(bo, o.code, data[pos:pos+w]))
				pos += w
			}
		}
	}
	return elems, nil
}

func readScalar(bo binary.ByteOrder, code byte, b []byte) any {
	switch code {
	case '?':
		return b[0] != 0
	case 'c':
		return b[0]
	case 'b':
		return int8(b[0])
	case 'B':
		return b[0]
	case 'h':
		return int16(bo.Uint16(b))
	case 'H':
		return bo.Uint16(b)
	case 'i':
		return int32(bo.Uint32(b))
	case 'I':
		return bo.Uint32(b)
	case 'q':
		return int64(bo.Uint64(b))
	case 'Q':
		return bo.Uint64(b)
	case 'f':
		return math.Float32frombits(bo.Uint32(b))
	default: // 'd'
		return math.Float64frombits(bo.Uint64(b))
	}
}

func signedName(code byte) string {
	switch code {
	case 'b':
		return "int8"
	case 'h':
		return "int16"
	case 'i':
		return "int32"
	default:
		return "int64"
	}
}

func unsignedName(code byte) string {
	switch code {
	case 'B':
		return "uint8"
	case 'H':
		return "uint16"
	case 'I':
		return "uint32"
	default:
		return "uint64"
	}
}

func signedBounds(code byte) (int64, int64) {
	bits := codeWidth(code) * 8
	if bits == 64 {
		return math.MinInt64, math.MaxInt64
	}
	return -(int64(1) << (bits - 1)), int64(1)<<(bits-1) - 1
}

func unsignedMax(code byte) uint64 {
	bits := codeWidth(code) * 8
	if bits == 64 {
		return math.MaxUint64
	}
	return uint64(1)<<bits - 1
}
