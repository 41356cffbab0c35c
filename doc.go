// Package binstruct declares fixed size binary record layouts on Go
// structs and converts record values to and from their wire bytes.
//
// # Architecture
//
// The module is layered bottom up:
//
//	structcode  - fixed format codec (Pack/Unpack over format strings)
//	schema      - field descriptors, struct composition, layouts
//	record      - validated Marshal/Unmarshal over composed layouts
//	errors      - structured errors shared by every layer
//
// A record struct is composed once into an immutable Layout. The layout
// knows the record's format string, byte size and element count, and every
// dump or load goes through it:
//
//	type Header struct {
//		ID       uint16            `bin:""`
//		Reserved binstruct.Pad     `bin:"pad,len=2"`
//		Name     string            `bin:"len=8"`
//	}
//
//	data, err := binstruct.Marshal(Header{ID: 1, Name: "boot"},
//		binstruct.Options{ByteOrder: binstruct.BigEndian})
//
// The root package re-exports the common entry points; the schema and
// record packages carry the full API, and cmd/binspect inspects wire bytes
// against TOML described schemas.
package binstruct
