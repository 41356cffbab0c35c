// Package errors provides structured error types for the binstruct library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go/field type names, and cause chain.
//
// Composition errors (PhaseCompose) are raised once, when a record type is
// declared, and are unrecoverable for that type. Encode/decode errors are
// reported to the caller of the dump/load operations; validation errors are
// produced by the record layer and attribute back to a field by name.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("header", "id").
//		GoType("string").
//		FieldType("uint32").
//		Detail("cannot convert string to integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseEncode, path, "string", "uint32")
//	err := errors.ShortBuffer(12, 5)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
