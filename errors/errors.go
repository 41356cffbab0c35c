package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompose  Phase = "compose"  // record type composition
	PhaseEncode   Phase = "encode"   // instance to bytes
	PhaseDecode   Phase = "decode"   // bytes to field values
	PhaseValidate Phase = "validate" // field value validation
)

// Kind categorizes the error
type Kind string

const (
	KindMissingConfig  Kind = "missing_config"
	KindInvalidConfig  Kind = "invalid_config"
	KindTypeMismatch   Kind = "type_mismatch"
	KindRangeOverflow  Kind = "range_overflow"
	KindMissingOutlet  Kind = "missing_outlet"
	KindDuplicateField Kind = "duplicate_field"
	KindFillerMissing  Kind = "filler_missing"
	KindShortBuffer    Kind = "short_buffer"
	KindInvalidEnum    Kind = "invalid_enum"
	KindOutOfRange     Kind = "out_of_range"
	KindWrongLength    Kind = "wrong_length"
	KindInvalidData    Kind = "invalid_data"
	KindUnsupported    Kind = "unsupported"
	KindNotFound       Kind = "not_found"
)

// Error is the structured error type used throughout the codec
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	GoType    string
	FieldType string
	Detail    string
	Path      []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.FieldType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.FieldType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", field type ")
			b.WriteString(e.FieldType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("field type ")
			b.WriteString(e.FieldType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.FieldType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// FieldType sets the binary field kind name
func (b *Builder) FieldType(t string) *Builder {
	b.err.FieldType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// MissingConfig creates an error for a required config option that was not declared
func MissingConfig(field, fieldType, option string) *Error {
	return &Error{
		Phase:     PhaseCompose,
		Kind:      KindMissingConfig,
		Path:      []string{field},
		FieldType: fieldType,
		Detail:    fmt.Sprintf("missing required config option %q", option),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, fieldType string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindTypeMismatch,
		Path:      path,
		GoType:    goType,
		FieldType: fieldType,
	}
}

// EnumOverflow creates a definition-time error for an enum member whose value
// does not fit the declared integer width
func EnumOverflow(field, member string, value int64, limit string) *Error {
	return &Error{
		Phase:     PhaseCompose,
		Kind:      KindRangeOverflow,
		Path:      []string{field},
		FieldType: limit,
		Detail:    fmt.Sprintf("enum member %q value %d does not fit %s", member, value, limit),
		Value:     value,
	}
}

// MissingOutlet creates an error for an outlet field with no computed value source
func MissingOutlet(field, computed string) *Error {
	return &Error{
		Phase:  PhaseCompose,
		Kind:   KindMissingOutlet,
		Path:   []string{field},
		Detail: fmt.Sprintf("no computed value %q to supply outlet field %q", computed, field),
	}
}

// DuplicateField creates an error for a field name declared twice on one record
func DuplicateField(field string) *Error {
	return &Error{
		Phase:  PhaseCompose,
		Kind:   KindDuplicateField,
		Path:   []string{field},
		Detail: "field name declared more than once",
	}
}

// FillerMissing creates a pack-time error for an under-length array with no filler
func FillerMissing(field string, actual, required int) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindFillerMissing,
		Path:   []string{field},
		Detail: fmt.Sprintf("array has %d elements, needs %d, and no filler is configured", actual, required),
		Value:  actual,
	}
}

// ShortBuffer creates an unpack-time error for an undersized byte buffer
func ShortBuffer(expected, actual int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindShortBuffer,
		Detail: fmt.Sprintf("buffer holds %d bytes, layout needs %d", actual, expected),
		Value:  actual,
	}
}

// InvalidEnum creates an invalid enum value error
func InvalidEnum(phase Phase, path []string, value any, enumType string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindInvalidEnum,
		Path:      path,
		FieldType: enumType,
		Detail:    fmt.Sprintf("invalid enum value %v for %s", value, enumType),
		Value:     value,
	}
}

// OutOfRange creates a validation error for a value outside its numeric bounds
func OutOfRange(path []string, value any, targetType string) *Error {
	return &Error{
		Phase:     PhaseValidate,
		Kind:      KindOutOfRange,
		Path:      path,
		FieldType: targetType,
		Detail:    fmt.Sprintf("value %v out of range for %s", value, targetType),
		Value:     value,
	}
}

// WrongLength creates a validation error for a value of the wrong length
func WrongLength(path []string, actual, limit int, relation string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindWrongLength,
		Path:   path,
		Detail: fmt.Sprintf("length %d %s %d", actual, relation, limit),
		Value:  actual,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidConfig creates an error for a config option with an unusable value
func InvalidConfig(field, option, detail string) *Error {
	return &Error{
		Phase:  PhaseCompose,
		Kind:   KindInvalidConfig,
		Path:   []string{field},
		Detail: fmt.Sprintf("config option %q: %s", option, detail),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
