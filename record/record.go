package record

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/wippyai/binstruct/errors"
	"github.com/wippyai/binstruct/schema"
)

// FieldError is one field's validation failure.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }

// ValidationError aggregates every invalid field of a record. Marshal and
// Validate report all failures at once rather than stopping at the first.
type ValidationError struct {
	Record string
	Fields []*FieldError
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "record %s: %d invalid field(s)", e.Record, len(e.Fields))
	for _, fe := range e.Fields {
		b.WriteString("\n  ")
		b.WriteString(fe.Error())
	}
	return b.String()
}

func (e *ValidationError) Unwrap() []error {
	out := make([]error, len(e.Fields))
	for i, fe := range e.Fields {
		out[i] = fe
	}
	return out
}

// Marshal validates v and packs it into its wire bytes. The layout is
// composed from v's type on first use and cached after that.
func Marshal(v any, opts schema.Options) ([]byte, error) {
	l, rv, err := resolve(v, opts)
	if err != nil {
		return nil, err
	}
	if err := validate(l, rv); err != nil {
		return nil, err
	}
	return l.DumpBytes(v)
}

// Unmarshal unpacks one record's worth of bytes into the struct pointed to
// by v and validates the decoded values. Outlet and padding fields are not
// inputs of the record and are left untouched. On any error the target is
// not modified.
func Unmarshal(data []byte, v any, opts schema.Options) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.TypeMismatch(errors.PhaseDecode, nil, typeName(v), "non-nil struct pointer")
	}
	target := rv.Elem()
	if target.Kind() != reflect.Struct {
		return errors.TypeMismatch(errors.PhaseDecode, nil, target.Type().String(), "struct record")
	}

	l, err := schema.Compose(target.Type(), opts)
	if err != nil {
		return err
	}
	values, err := l.LoadBytes(data)
	if err != nil {
		return err
	}

	scratch := reflect.New(target.Type()).Elem()
	scratch.Set(target)
	for _, d := range l.Fields() {
		val, ok := values[d.Name()]
		if !ok {
			continue
		}
		scratch.FieldByIndex(d.FieldIndex()).Set(reflect.ValueOf(val))
	}
	if err := validate(l, scratch); err != nil {
		return err
	}
	target.Set(scratch)
	return nil
}

// Validate checks every field of v against its declared constraints and
// returns a ValidationError naming each failure.
func Validate(v any, opts schema.Options) error {
	l, rv, err := resolve(v, opts)
	if err != nil {
		return err
	}
	return validate(l, rv)
}

func resolve(v any, opts schema.Options) (*schema.Layout, reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, reflect.Value{},
				errors.TypeMismatch(errors.PhaseValidate, nil, typeName(v), "non-nil record")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, reflect.Value{},
			errors.TypeMismatch(errors.PhaseValidate, nil, typeName(v), "struct record")
	}
	l, err := schema.Compose(rv.Type(), opts)
	if err != nil {
		return nil, reflect.Value{}, err
	}
	return l, rv, nil
}

func validate(l *schema.Layout, rv reflect.Value) error {
	var fields []*FieldError
	for _, d := range l.Fields() {
		if d.IsOutlet() || d.Kind() == schema.KindPadding {
			continue
		}
		fv := rv.FieldByIndex(d.FieldIndex())
		if err := d.ValidateValue(fv.Interface()); err != nil {
			fields = append(fields, &FieldError{Field: d.Name(), Err: err})
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Record: l.Name(), Fields: fields}
	}
	return nil
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
