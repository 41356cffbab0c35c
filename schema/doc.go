// Package schema composes typed binary record layouts.
//
// A record is a Go struct whose fields carry bin tags. Composing the
// struct type walks its fields in declaration order, resolves every field
// to an immutable descriptor, and assembles the descriptors into a Layout
// that knows the record's format string, byte size and element count:
//
//	┌──────────────────────────────────────────────────────────┐
//	│ Go struct ──[Compose]──▶ Layout ──[Dump/Load]──▶ bytes  │
//	└──────────────────────────────────────────────────────────┘
//
// # Field Kinds
//
// Each field resolves to one binary kind. The kind is inferred from the Go
// type, or named explicitly by the first tag token:
//
//	Kind        Go types                      Format    Config
//	───────────────────────────────────────────────────────────────
//	integer     uint8..uint64, int8..int64   b..Q      -
//	float       float32, float64             f, d      -
//	char        byte (tag "char")            c         -
//	bool        bool                         ?         -
//	string      string                       {n}s      len, encoding
//	bytes       []byte, [N]byte              {n}s      len
//	padding     schema.Pad                   {n}x      len
//	enum        integer + schema.Enum        b..Q      -
//	array       []T, [N]T                    T×n       len, filler
//
// A byte shaped slice or array infers the bytes kind, which zero pads
// short input. Name the element kind in the tag (as Tags does below) to
// compose it as an array and use a filler.
//
// # Declaration
//
//	type Header struct {
//		ID       uint16     `bin:""`
//		Reserved schema.Pad `bin:"pad,len=2"`
//		Name     string     `bin:"len=8,encoding=ascii"`
//		Tags     []uint8    `bin:"uint8,len=4,filler"`
//	}
//
//	layout, err := schema.ComposeOf[Header](schema.Options{ByteOrder: schema.BigEndian})
//
// Fields whose name ends in "Outlet" (or that carry an outlet=Name tag
// option) take their value from a no argument method of the record instead
// of the field itself. The method's name becomes the wire name and its
// result type drives the descriptor; the field exists only to give the
// computed value a position in the layout.
//
// Anonymous embedded structs without their own tag are flattened in place,
// so a record can derive the leading fields of a base record.
//
// # Layouts
//
// A Layout is immutable once composed. DumpElements and DumpBytes turn a
// record value into its flat element tuple and packed bytes; LoadElements
// and LoadBytes reverse the trip into a name to value map. Padding fields
// contribute bytes but no values, and outlet fields are absent from load
// results because they are not inputs of the record.
//
// ComposeDecls builds a layout from explicit declarations instead of a
// struct type, for schemas known only at runtime. Dynamic layouts load but
// cannot dump.
package schema
