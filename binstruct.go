package binstruct

import (
	"reflect"

	"github.com/wippyai/binstruct/record"
	"github.com/wippyai/binstruct/schema"
)

// Re-exported schema types so basic use needs only the root import.
type (
	Layout     = schema.Layout
	Options    = schema.Options
	FieldDecl  = schema.FieldDecl
	FieldKind  = schema.FieldKind
	ByteOrder  = schema.ByteOrder
	Pad        = schema.Pad
	Enum       = schema.Enum
	EnumMember = schema.EnumMember
)

const (
	NativeEndian = schema.NativeEndian
	LittleEndian = schema.LittleEndian
	BigEndian    = schema.BigEndian
)

// Compose builds the layout of a record struct type.
func Compose(t reflect.Type, opts Options) (*Layout, error) {
	return schema.Compose(t, opts)
}

// ComposeOf builds the layout of T.
func ComposeOf[T any](opts Options) (*Layout, error) {
	return schema.ComposeOf[T](opts)
}

// Marshal validates v and packs it into its wire bytes.
func Marshal(v any, opts Options) ([]byte, error) {
	return record.Marshal(v, opts)
}

// Unmarshal unpacks one record's worth of bytes into the struct pointed to
// by v.
func Unmarshal(data []byte, v any, opts Options) error {
	return record.Unmarshal(data, v, opts)
}

// Validate checks every field of v against its declared constraints.
func Validate(v any, opts Options) error {
	return record.Validate(v, opts)
}
