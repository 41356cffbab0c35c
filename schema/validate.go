package schema

import (
	"reflect"

	"github.com/wippyai/binstruct/errors"
	"github.com/wippyai/binstruct/schema/internal/kind"
)

// ValidateValue checks one field value against the descriptor's declared
// constraints: length bounds for strings, bytes and arrays, membership for
// enums. Fixed width scalars are range safe by construction and always
// pass.
func (d *FieldDescriptor) ValidateValue(v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || !rv.Type().ConvertibleTo(d.goType) {
		return errors.TypeMismatch(errors.PhaseValidate, []string{d.name}, typeNameOf(v), d.goType.String())
	}
	rv = rv.Convert(d.goType)

	switch d.kind {
	case kind.String:
		data, err := encodeText(rv.String(), d.encoding)
		if err != nil {
			return errors.New(errors.PhaseValidate, errors.KindInvalidData).
				Path(d.name).
				Cause(err).
				Detail("cannot encode string as %s", d.encoding).
				Build()
		}
		return d.checkLen(len(data))

	case kind.Bytes:
		if d.goType.Kind() == reflect.Array {
			return nil
		}
		return d.checkLen(rv.Len())

	case kind.Array:
		if d.goType.Kind() == reflect.Slice {
			if err := d.checkLen(rv.Len()); err != nil {
				return err
			}
		}
		for i := 0; i < rv.Len(); i++ {
			if err := d.elem.ValidateValue(rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil

	case kind.Enum:
		var val int64
		if rv.CanUint() {
			val = int64(rv.Uint())
		} else {
			val = rv.Int()
		}
		if !d.IsMember(val) {
			return errors.InvalidEnum(errors.PhaseValidate, []string{d.name}, v, d.goType.String())
		}
		return nil
	}
	return nil
}

// checkLen applies the declared length bounds to an observed length.
// Arrays below the declared length pass here; whether they can be padded
// up is the encoder's concern.
func (d *FieldDescriptor) checkLen(n int) error {
	if d.ignoreLen {
		return nil
	}
	if n > d.length {
		return errors.WrongLength([]string{d.name}, n, d.length, "exceeds declared length")
	}
	if n < d.minLen {
		return errors.WrongLength([]string{d.name}, n, d.minLen, "below declared minimum")
	}
	return nil
}
