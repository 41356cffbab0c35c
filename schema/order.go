package schema

import "github.com/wippyai/binstruct/structcode"

// ByteOrder selects the wire byte order of a layout.
type ByteOrder = structcode.ByteOrder

const (
	NativeEndian = structcode.NativeEndian
	LittleEndian = structcode.LittleEndian
	BigEndian    = structcode.BigEndian
)
