package structcode

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	binerrors "github.com/wippyai/binstruct/errors"
)

func TestCalcSize(t *testing.T) {
	tests := []struct {
		format string
		want   int
	}{
		{"B", 1},
		{"BB", 2},
		{"3H", 6},
		{"HH5s", 9},
		{"B4xB", 6},
		{"?cbq", 11},
		{"fd", 12},
		{"10s", 10},
		{"", 0},
	}

	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			got, err := CalcSize(tc.format)
			if err != nil {
				t.Fatalf("CalcSize(%q) error: %v", tc.format, err)
			}
			if got != tc.want {
				t.Errorf("CalcSize(%q) = %d, want %d", tc.format, got, tc.want)
			}
		})
	}
}

func TestCalcSizeBadFormat(t *testing.T) {
	if _, err := CalcSize("Bz"); err == nil {
		t.Error("expected error for unknown code")
	}
	if _, err := CalcSize("3"); err == nil {
		t.Error("expected error for trailing count")
	}
}

func TestElementCount(t *testing.T) {
	tests := []struct {
		format string
		want   int
	}{
		{"B", 1},
		{"3H", 3},
		{"5s", 1},
		{"4x", 0},
		{"B4x2H5s", 4},
	}

	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			got, err := ElementCount(tc.format)
			if err != nil {
				t.Fatalf("ElementCount(%q) error: %v", tc.format, err)
			}
			if got != tc.want {
				t.Errorf("ElementCount(%q) = %d, want %d", tc.format, got, tc.want)
			}
		})
	}
}

func TestPackExactBytes(t *testing.T) {
	tests := []struct {
		name   string
		order  ByteOrder
		format string
		elems  []any
		want   []byte
	}{
		{
			name:   "big endian uint16",
			order:  BigEndian,
			format: "H",
			elems:  []any{uint16(0x0102)},
			want:   []byte{0x01, 0x02},
		},
		{
			name:   "little endian uint16",
			order:  LittleEndian,
			format: "H",
			elems:  []any{uint16(0x0102)},
			want:   []byte{0x02, 0x01},
		},
		{
			name:   "padding between scalars",
			order:  BigEndian,
			format: "B4xB",
			elems:  []any{uint8(1), uint8(2)},
			want:   []byte{1, 0, 0, 0, 0, 2},
		},
		{
			name:   "short string zero filled",
			order:  BigEndian,
			format: "5s",
			elems:  []any{[]byte("ab")},
			want:   []byte{'a', 'b', 0, 0, 0},
		},
		{
			name:   "signed negative",
			order:  BigEndian,
			format: "h",
			elems:  []any{int16(-2)},
			want:   []byte{0xFF, 0xFE},
		},
		{
			name:   "bool and char",
			order:  BigEndian,
			format: "?c",
			elems:  []any{true, byte('A')},
			want:   []byte{1, 'A'},
		},
		{
			name:   "repeat count",
			order:  BigEndian,
			format: "3B",
			elems:  []any{uint8(1), uint8(2), uint8(3)},
			want:   []byte{1, 2, 3},
		},
		{
			name:   "uint64 big endian",
			order:  BigEndian,
			format: "Q",
			elems:  []any{uint64(0x0102030405060708)},
			want:   []byte{1, 2, 3, 4, 5, 6, 7, 8},
		},
		{
			name:   "uint32 little endian",
			order:  LittleEndian,
			format: "I",
			elems:  []any{uint32(0x01020304)},
			want:   []byte{4, 3, 2, 1},
		},
		{
			name:   "float32 bits",
			order:  BigEndian,
			format: "f",
			elems:  []any{float32(1.5)},
			want:   []byte{0x3F, 0xC0, 0x00, 0x00},
		},
		{
			name:   "float64 bits",
			order:  BigEndian,
			format: "d",
			elems:  []any{float64(-2.25)},
			want:   []byte{0xC0, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Pack(tc.order, tc.format, tc.elems)
			if err != nil {
				t.Fatalf("Pack error: %v", err)
			}
			if !bytes.Equal(got, tc.want) {
				t.Errorf("Pack = % x, want % x", got, tc.want)
			}
		})
	}
}

func TestPackErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		elems  []any
		kind   binerrors.Kind
	}{
		{"too few elements", "BB", []any{uint8(1)}, binerrors.KindInvalidData},
		{"too many elements", "B", []any{uint8(1), uint8(2)}, binerrors.KindInvalidData},
		{"overlong bytes field", "2s", []any{[]byte("abc")}, binerrors.KindWrongLength},
		{"unsigned out of range", "B", []any{int(300)}, binerrors.KindOutOfRange},
		{"signed out of range", "b", []any{int(200)}, binerrors.KindOutOfRange},
		{"negative into unsigned", "H", []any{int(-1)}, binerrors.KindTypeMismatch},
		{"wrong type", "H", []any{"nope"}, binerrors.KindTypeMismatch},
		{"char wrong size", "c", []any{[]byte("ab")}, binerrors.KindWrongLength},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Pack(BigEndian, tc.format, tc.elems)
			if err == nil {
				t.Fatal("expected error")
			}
			var serr *binerrors.Error
			if !errors.As(err, &serr) {
				t.Fatalf("error %T is not a structured error", err)
			}
			if serr.Kind != tc.kind {
				t.Errorf("Kind = %v, want %v", serr.Kind, tc.kind)
			}
		})
	}
}

func TestUnpack(t *testing.T) {
	data := []byte{0x00, 0x01, 0, 0, 0x01}
	elems, err := Unpack(BigEndian, "H2xB", data)
	if err != nil {
		t.Fatalf("Unpack error: %v", err)
	}
	want := []any{uint16(1), uint8(1)}
	if !reflect.DeepEqual(elems, want) {
		t.Errorf("Unpack = %v, want %v", elems, want)
	}
}

func TestUnpackTypes(t *testing.T) {
	packed, err := Pack(LittleEndian, "bB?chHiIqQfd5s", []any{
		int8(-1), uint8(2), true, byte('x'),
		int16(-3), uint16(4), int32(-5), uint32(6),
		int64(-7), uint64(8), float32(1.5), float64(-2.25),
		[]byte("hey"),
	})
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}

	elems, err := Unpack(LittleEndian, "bB?chHiIqQfd5s", packed)
	if err != nil {
		t.Fatalf("Unpack error: %v", err)
	}

	want := []any{
		int8(-1), uint8(2), true, byte('x'),
		int16(-3), uint16(4), int32(-5), uint32(6),
		int64(-7), uint64(8), float32(1.5), float64(-2.25),
		[]byte{'h', 'e', 'y', 0, 0},
	}
	if !reflect.DeepEqual(elems, want) {
		t.Errorf("round trip = %#v, want %#v", elems, want)
	}
}

func TestUnpackShortBuffer(t *testing.T) {
	_, err := Unpack(BigEndian, "HH", []byte{1, 2, 3})
	if err == nil {
		t.Fatal("expected short buffer error")
	}
	var serr *binerrors.Error
	if !errors.As(err, &serr) {
		t.Fatalf("error %T is not a structured error", err)
	}
	if serr.Kind != binerrors.KindShortBuffer {
		t.Errorf("Kind = %v, want %v", serr.Kind, binerrors.KindShortBuffer)
	}
}

func TestUnpackOversizedBuffer(t *testing.T) {
	_, err := Unpack(BigEndian, "H", []byte{1, 2, 3})
	if err == nil {
		t.Fatal("expected error for oversized buffer")
	}
}

func TestByteOrderMarker(t *testing.T) {
	tests := []struct {
		order ByteOrder
		want  byte
	}{
		{NativeEndian, '='},
		{LittleEndian, '<'},
		{BigEndian, '>'},
	}
	for _, tc := range tests {
		if got := tc.order.Marker(); got != tc.want {
			t.Errorf("%s Marker() = %c, want %c", tc.order, got, tc.want)
		}
	}
}

func TestByteOrderString(t *testing.T) {
	if NativeEndian.String() != "native" {
		t.Errorf("NativeEndian = %q", NativeEndian.String())
	}
	if ByteOrder(9).String() != "unknown" {
		t.Errorf("unknown order = %q", ByteOrder(9).String())
	}
}
