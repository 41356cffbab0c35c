package schema

import (
	"github.com/wippyai/binstruct/schema/internal/kind"
)

// FieldKind identifies one of the closed set of binary field kinds.
type FieldKind = kind.Kind

const (
	KindUint8   = kind.Uint8
	KindUint16  = kind.Uint16
	KindUint32  = kind.Uint32
	KindUint64  = kind.Uint64
	KindInt8    = kind.Int8
	KindInt16   = kind.Int16
	KindInt32   = kind.Int32
	KindInt64   = kind.Int64
	KindFloat32 = kind.Float32
	KindFloat64 = kind.Float64
	KindChar    = kind.Char
	KindBool    = kind.Bool
	KindString  = kind.String
	KindBytes   = kind.Bytes
	KindPadding = kind.Padding
	KindEnum    = kind.Enum
	KindArray   = kind.Array
)

// Pad declares a padding field: it occupies bytes in the binary layout but
// carries no value. Declare it with a Len config:
//
//	Reserved schema.Pad `bin:"pad,len=4"`
type Pad struct{}

// EnumMember is one named constant of a binary enum type.
type EnumMember struct {
	Name  string
	Value int64
}

// Enum is implemented by named integer types that appear as enum fields.
// The member list is checked against the declared integer width when the
// record type is composed, and against decoded values at validation time.
type Enum interface {
	BinaryEnumMembers() []EnumMember
}

// KindForToken maps a tag kind token ("uint16", "string", "pad", ...) to
// its field kind. Enum tokens resolve to their base integer kind with
// enum set, since a declaration supplies the member list separately.
func KindForToken(token string) (k FieldKind, enum bool, ok bool) {
	tk, ok := tokenKinds[token]
	if !ok {
		return kind.Invalid, false, false
	}
	if tk.kind == kind.Enum {
		return tk.base, true, true
	}
	return tk.kind, false, true
}

// tokenKinds maps tag kind tokens to field kinds. Enum tokens carry the
// base integer width ("enumu8" is an enum packed as uint8).
var tokenKinds = map[string]struct {
	kind kind.Kind
	base kind.Kind
}{
	"uint8":   {kind: kind.Uint8},
	"uint16":  {kind: kind.Uint16},
	"uint32":  {kind: kind.Uint32},
	"uint64":  {kind: kind.Uint64},
	"int8":    {kind: kind.Int8},
	"int16":   {kind: kind.Int16},
	"int32":   {kind: kind.Int32},
	"int64":   {kind: kind.Int64},
	"float32": {kind: kind.Float32},
	"float64": {kind: kind.Float64},
	"char":    {kind: kind.Char},
	"bool":    {kind: kind.Bool},
	"string":  {kind: kind.String},
	"bytes":   {kind: kind.Bytes},
	"pad":     {kind: kind.Padding},
	"padding": {kind: kind.Padding},
	"enumu8":  {kind: kind.Enum, base: kind.Uint8},
	"enumu16": {kind: kind.Enum, base: kind.Uint16},
	"enumu32": {kind: kind.Enum, base: kind.Uint32},
	"enumu64": {kind: kind.Enum, base: kind.Uint64},
	"enumi8":  {kind: kind.Enum, base: kind.Int8},
	"enumi16": {kind: kind.Enum, base: kind.Int16},
	"enumi32": {kind: kind.Enum, base: kind.Int32},
	"enumi64": {kind: kind.Enum, base: kind.Int64},
}
