package schema

import "testing"

func TestParseTag(t *testing.T) {
	tests := []struct {
		name      string
		tag       string
		typeToken string
		outlet    string
		wantLen   Len
		hasLen    bool
	}{
		{name: "empty", tag: ""},
		{name: "kind only", tag: "uint16", typeToken: "uint16"},
		{name: "len", tag: "len=8", wantLen: Len{N: 8}, hasLen: true},
		{name: "kind and len", tag: "string,len=8", typeToken: "string", wantLen: Len{N: 8}, hasLen: true},
		{name: "min", tag: "len=8,min=2", wantLen: Len{N: 8, Min: 2}, hasLen: true},
		{name: "ignore", tag: "len=8,ignorelen", wantLen: Len{N: 8, Ignore: true}, hasLen: true},
		{name: "outlet", tag: "outlet=Crc", outlet: "Crc"},
		{name: "pad", tag: "pad,len=2", typeToken: "pad", wantLen: Len{N: 2}, hasLen: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := parseTag("F", tt.tag)
			if err != nil {
				t.Fatalf("parseTag(%q) failed: %v", tt.tag, err)
			}
			if info.typeToken != tt.typeToken {
				t.Errorf("typeToken = %q, want %q", info.typeToken, tt.typeToken)
			}
			if info.outlet != tt.outlet {
				t.Errorf("outlet = %q, want %q", info.outlet, tt.outlet)
			}
			ln, ok := info.cfg.LengthOK()
			if ok != tt.hasLen {
				t.Fatalf("length present = %v, want %v", ok, tt.hasLen)
			}
			if ok && ln != tt.wantLen {
				t.Errorf("len = %+v, want %+v", ln, tt.wantLen)
			}
		})
	}
}

func TestParseTag_ElementConfig(t *testing.T) {
	info, err := parseTag("F", "len=2,elemlen=3,elemfiller=0")
	if err != nil {
		t.Fatalf("parseTag failed: %v", err)
	}
	if ln, ok := info.cfg.LengthOK(); !ok || ln.N != 2 {
		t.Errorf("outer len = %v %v, want 2", ln, ok)
	}
	if ln, ok := info.elemCfg.LengthOK(); !ok || ln.N != 3 {
		t.Errorf("elem len = %v %v, want 3", ln, ok)
	}
	f, ok := info.elemCfg.FillerOK()
	if !ok || f.Value != "0" {
		t.Errorf("elem filler = %+v %v", f, ok)
	}
}

func TestParseTag_Filler(t *testing.T) {
	info, err := parseTag("F", "filler")
	if err != nil {
		t.Fatalf("parseTag failed: %v", err)
	}
	if f, ok := info.cfg.FillerOK(); !ok || !f.UseDefault {
		t.Errorf("filler = %+v %v, want default", f, ok)
	}

	info, err = parseTag("F", "filler=7")
	if err != nil {
		t.Fatalf("parseTag failed: %v", err)
	}
	if f, ok := info.cfg.FillerOK(); !ok || f.Value != "7" {
		t.Errorf("filler = %+v %v, want literal 7", f, ok)
	}
}

func TestParseTag_Errors(t *testing.T) {
	for _, tag := range []string{
		"len=abc",
		"len=-1",
		"min=x",
		"encoding=",
		"outlet=",
		"wobble=3",
	} {
		if _, err := parseTag("F", tag); err == nil {
			t.Errorf("parseTag(%q): expected error", tag)
		}
	}
}
