package schema

import (
	"fmt"
	"unicode/utf8"
)

const defaultEncoding = "utf-8"

func knownEncoding(name string) bool {
	switch name {
	case "utf-8", "utf8", "ascii", "latin-1", "latin1":
		return true
	}
	return false
}

// encodeText converts a string to its byte representation in the named
// encoding. Go strings are UTF-8 already, so utf-8 is a straight copy while
// ascii and latin-1 transcode rune by rune and reject out of range input.
func encodeText(s, encoding string) ([]byte, error) {
	switch encoding {
	case "utf-8", "utf8":
		return []byte(s), nil
	case "ascii":
		out := make([]byte, 0, len(s))
		for _, r := range s {
			if r > 0x7F {
				return nil, fmt.Errorf("rune %q is not representable in ascii", r)
			}
			out = append(out, byte(r))
		}
		return out, nil
	case "latin-1", "latin1":
		out := make([]byte, 0, len(s))
		for _, r := range s {
			if r > 0xFF {
				return nil, fmt.Errorf("rune %q is not representable in latin-1", r)
			}
			out = append(out, byte(r))
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown encoding %q", encoding)
}

// decodeText converts bytes in the named encoding back to a string.
func decodeText(data []byte, encoding string) (string, error) {
	switch encoding {
	case "utf-8", "utf8":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("invalid utf-8 sequence")
		}
		return string(data), nil
	case "ascii":
		for _, b := range data {
			if b > 0x7F {
				return "", fmt.Errorf("byte 0x%02x is not valid ascii", b)
			}
		}
		return string(data), nil
	case "latin-1", "latin1":
		runes := make([]rune, len(data))
		for i, b := range data {
			runes[i] = rune(b)
		}
		return string(runes), nil
	}
	return "", fmt.Errorf("unknown encoding %q", encoding)
}
