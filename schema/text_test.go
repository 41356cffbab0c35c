package schema

import "testing"

func TestEncodeText(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		encoding string
		want     []byte
		wantErr  bool
	}{
		{name: "utf-8", s: "héllo", encoding: "utf-8", want: []byte("héllo")},
		{name: "ascii", s: "abc", encoding: "ascii", want: []byte("abc")},
		{name: "ascii out of range", s: "héllo", encoding: "ascii", wantErr: true},
		{name: "latin-1", s: "né", encoding: "latin-1", want: []byte{'n', 0xE9}},
		{name: "latin-1 out of range", s: "日本", encoding: "latin-1", wantErr: true},
		{name: "unknown", s: "x", encoding: "ebcdic", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeText(tt.s, tt.encoding)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("encodeText failed: %v", err)
			}
			if string(got) != string(tt.want) {
				t.Errorf("got % x, want % x", got, tt.want)
			}
		})
	}
}

func TestDecodeText(t *testing.T) {
	if _, err := decodeText([]byte{0xFF, 0xFE}, "utf-8"); err == nil {
		t.Error("expected error for invalid utf-8")
	}
	if _, err := decodeText([]byte{0x80}, "ascii"); err == nil {
		t.Error("expected error for non ascii byte")
	}
	s, err := decodeText([]byte{'n', 0xE9}, "latin-1")
	if err != nil || s != "né" {
		t.Errorf("latin-1 decode = %q, %v", s, err)
	}
}
