package kind

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		want string
		kind Kind
	}{
		{"uint8", Uint8},
		{"uint16", Uint16},
		{"uint32", Uint32},
		{"uint64", Uint64},
		{"int8", Int8},
		{"int16", Int16},
		{"int32", Int32},
		{"int64", Int64},
		{"float32", Float32},
		{"float64", Float64},
		{"char", Char},
		{"bool", Bool},
		{"string", String},
		{"bytes", Bytes},
		{"padding", Padding},
		{"enum", Enum},
		{"array", Array},
		{"unknown", Kind(255)},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.kind.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestKindCodeAndWidth(t *testing.T) {
	tests := []struct {
		kind  Kind
		code  byte
		width int
	}{
		{Uint8, 'B', 1},
		{Uint16, 'H', 2},
		{Uint32, 'I', 4},
		{Uint64, 'Q', 8},
		{Int8, 'b', 1},
		{Int16, 'h', 2},
		{Int32, 'i', 4},
		{Int64, 'q', 8},
		{Float32, 'f', 4},
		{Float64, 'd', 8},
		{Char, 'c', 1},
		{Bool, '?', 1},
		{String, 0, 0},
		{Bytes, 0, 0},
		{Padding, 0, 0},
		{Enum, 0, 0},
		{Array, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			if got := tc.kind.Code(); got != tc.code {
				t.Errorf("Code() = %c, want %c", got, tc.code)
			}
			if got := tc.kind.Width(); got != tc.width {
				t.Errorf("Width() = %d, want %d", got, tc.width)
			}
		})
	}
}

func TestKindFits(t *testing.T) {
	tests := []struct {
		kind Kind
		v    int64
		want bool
	}{
		{Uint8, 0, true},
		{Uint8, 255, true},
		{Uint8, 256, false},
		{Uint8, -1, false},
		{Int8, -128, true},
		{Int8, -129, false},
		{Int8, 127, true},
		{Int8, 128, false},
		{Uint16, 65535, true},
		{Uint16, 65536, false},
		{Int64, -1 << 62, true},
		{Uint64, 1<<62 + 1, true},
	}

	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			if got := tc.kind.Fits(tc.v); got != tc.want {
				t.Errorf("%s.Fits(%d) = %v, want %v", tc.kind, tc.v, got, tc.want)
			}
		})
	}
}

func TestKindPredicates(t *testing.T) {
	for _, k := range []Kind{Uint8, Uint16, Uint32, Uint64, Int8, Int16, Int32, Int64} {
		if !k.IsInteger() {
			t.Errorf("%s should be integer", k)
		}
	}
	for _, k := range []Kind{Float32, Float64, Char, Bool, String, Bytes, Padding, Enum, Array} {
		if k.IsInteger() {
			t.Errorf("%s should not be integer", k)
		}
	}
	for _, k := range []Kind{Int8, Int16, Int32, Int64} {
		if !k.IsSigned() {
			t.Errorf("%s should be signed", k)
		}
	}
	if Uint8.IsSigned() || Float32.IsSigned() {
		t.Error("unsigned/float kinds reported signed")
	}
	if !Bool.IsScalar() || String.IsScalar() || Array.IsScalar() {
		t.Error("IsScalar misclassified kinds")
	}
}
