package schema

import (
	"reflect"
	"strconv"

	"github.com/wippyai/binstruct/errors"
	"github.com/wippyai/binstruct/schema/internal/kind"
)

// parseLiteral converts a tag filler literal into a value of the element
// type. The literal syntax follows the element kind, so integer elements
// accept decimal or 0x prefixed numbers, chars a single character, and so
// on. Composite elements cannot be written as tag literals.
func parseLiteral(field, lit string, elem *FieldDescriptor) (reflect.Value, error) {
	bad := func(detail string) (reflect.Value, error) {
		return reflect.Value{}, errors.InvalidConfig(field, "Filler", detail)
	}

	switch elem.kind {
	case kind.Uint8, kind.Uint16, kind.Uint32, kind.Uint64:
		u, err := strconv.ParseUint(lit, 0, elem.kind.Width()*8)
		if err != nil {
			return bad("filler " + strconv.Quote(lit) + " is not a valid " + elem.kind.String())
		}
		return reflect.ValueOf(u).Convert(elem.goType), nil

	case kind.Int8, kind.Int16, kind.Int32, kind.Int64:
		i, err := strconv.ParseInt(lit, 0, elem.kind.Width()*8)
		if err != nil {
			return bad("filler " + strconv.Quote(lit) + " is not a valid " + elem.kind.String())
		}
		return reflect.ValueOf(i).Convert(elem.goType), nil

	case kind.Enum:
		i, err := strconv.ParseInt(lit, 0, 64)
		if err != nil {
			return bad("filler " + strconv.Quote(lit) + " is not a valid enum value")
		}
		return reflect.ValueOf(i).Convert(elem.goType), nil

	case kind.Float32, kind.Float64:
		f, err := strconv.ParseFloat(lit, elem.kind.Width()*8)
		if err != nil {
			return bad("filler " + strconv.Quote(lit) + " is not a valid " + elem.kind.String())
		}
		return reflect.ValueOf(f).Convert(elem.goType), nil

	case kind.Bool:
		b, err := strconv.ParseBool(lit)
		if err != nil {
			return bad("filler " + strconv.Quote(lit) + " is not a valid bool")
		}
		return reflect.ValueOf(b).Convert(elem.goType), nil

	case kind.Char:
		if len(lit) != 1 {
			return bad("char filler must be a single byte")
		}
		return reflect.ValueOf(lit[0]).Convert(elem.goType), nil

	case kind.String:
		return reflect.ValueOf(lit).Convert(elem.goType), nil

	case kind.Bytes:
		if elem.goType.Kind() == reflect.Array {
			return bad("fixed byte array elements cannot take a literal filler")
		}
		return reflect.ValueOf([]byte(lit)).Convert(elem.goType), nil
	}
	return bad("element kind " + elem.kind.String() + " cannot take a literal filler")
}
