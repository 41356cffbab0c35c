package record

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/wippyai/binstruct/errors"
	"github.com/wippyai/binstruct/schema"
)

type opCode uint8

const (
	opRead  opCode = 1
	opWrite opCode = 2
)

func (opCode) BinaryEnumMembers() []schema.EnumMember {
	return []schema.EnumMember{
		{Name: "read", Value: 1},
		{Name: "write", Value: 2},
	}
}

type request struct {
	Seq      uint16     `bin:""`
	Op       opCode     `bin:""`
	Reserved schema.Pad `bin:"pad,len=1"`
	Name     string     `bin:"len=6,min=1"`
	Tags     []uint8    `bin:"uint8,len=4,filler"`
}

var beOpts = schema.Options{ByteOrder: schema.BigEndian}

func TestMarshalUnmarshal(t *testing.T) {
	in := request{Seq: 300, Op: opWrite, Name: "disk", Tags: []uint8{9}}

	data, err := Marshal(in, beOpts)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := []byte{
		0x01, 0x2C, // Seq
		0x02,                           // Op
		0x00,                           // padding
		'd', 'i', 's', 'k', 0x00, 0x00, // Name
		9, 0, 0, 0, // Tags
	}
	if !bytes.Equal(data, want) {
		t.Fatalf("bytes = % x, want % x", data, want)
	}

	var out request
	if err := Unmarshal(data, &out, beOpts); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if out.Seq != 300 || out.Op != opWrite || out.Name != "disk" {
		t.Errorf("round trip = %+v", out)
	}
	if len(out.Tags) != 4 || out.Tags[0] != 9 {
		t.Errorf("Tags = %v, want padded to 4", out.Tags)
	}
}

func TestMarshal_Invalid(t *testing.T) {
	in := request{
		Seq:  1,
		Op:   opCode(9),              // not a member
		Name: "",                     // below min
		Tags: []uint8{1, 2, 3, 4, 5}, // overlong
	}
	_, err := Marshal(in, beOpts)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var ve *ValidationError
	if !stderrors.As(err, &ve) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if len(ve.Fields) != 3 {
		t.Fatalf("invalid fields = %d, want 3: %v", len(ve.Fields), ve)
	}

	byField := map[string]errors.Kind{}
	for _, fe := range ve.Fields {
		var e *errors.Error
		if !stderrors.As(fe.Err, &e) {
			t.Fatalf("field %s: error type = %T", fe.Field, fe.Err)
		}
		byField[fe.Field] = e.Kind
	}
	if byField["Op"] != errors.KindInvalidEnum {
		t.Errorf("Op kind = %v, want invalid_enum", byField["Op"])
	}
	if byField["Name"] != errors.KindWrongLength {
		t.Errorf("Name kind = %v, want wrong_length", byField["Name"])
	}
	if byField["Tags"] != errors.KindWrongLength {
		t.Errorf("Tags kind = %v, want wrong_length", byField["Tags"])
	}
}

type loose struct {
	Blob []byte `bin:"len=4,ignorelen"`
}

func TestValidate_IgnoreLen(t *testing.T) {
	if err := Validate(loose{Blob: make([]byte, 64)}, schema.Options{}); err != nil {
		t.Fatalf("ignorelen must disable bounds: %v", err)
	}
}

func TestUnmarshal_ValidatesDecoded(t *testing.T) {
	data := []byte{
		0x00, 0x01,
		0x09, // not a member of opCode
		0x00,
		'o', 'k', 0x00, 0x00, 0x00, 0x00,
		0, 0, 0, 0,
	}
	out := request{Seq: 42}
	err := Unmarshal(data, &out, beOpts)
	if err == nil {
		t.Fatal("expected validation error for decoded non-member enum")
	}
	var ve *ValidationError
	if !stderrors.As(err, &ve) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if out.Seq != 42 {
		t.Error("target must be untouched on validation failure")
	}
}

func TestUnmarshal_Errors(t *testing.T) {
	var out request
	if err := Unmarshal(nil, nil, beOpts); err == nil {
		t.Error("expected error for nil target")
	}
	if err := Unmarshal(nil, out, beOpts); err == nil {
		t.Error("expected error for non-pointer target")
	}
	if err := Unmarshal([]byte{1, 2}, &out, beOpts); err == nil {
		t.Error("expected error for truncated input")
	}
}

type crcFrame struct {
	Payload   [2]byte `bin:""`
	CrcOutlet uint8   `bin:""`
}

func (f crcFrame) Crc() uint8 { return f.Payload[0] ^ f.Payload[1] }

func TestMarshal_OutletUntouchedOnUnmarshal(t *testing.T) {
	data, err := Marshal(crcFrame{Payload: [2]byte{0xF0, 0x0F}}, beOpts)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !bytes.Equal(data, []byte{0xF0, 0x0F, 0xFF}) {
		t.Fatalf("bytes = % x", data)
	}

	out := crcFrame{CrcOutlet: 0x55}
	if err := Unmarshal(data, &out, beOpts); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if out.Payload != [2]byte{0xF0, 0x0F} {
		t.Errorf("Payload = %v", out.Payload)
	}
	if out.CrcOutlet != 0x55 {
		t.Errorf("outlet field must be left untouched, got %#x", out.CrcOutlet)
	}
}
