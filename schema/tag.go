package schema

import (
	"strconv"
	"strings"

	"github.com/wippyai/binstruct/errors"
)

// TagName is the struct tag key that marks a field as part of the binary
// layout. Fields without it are plain Go state and do not appear on the wire.
const TagName = "bin"

// tagInfo is the parsed form of one `bin` tag.
type tagInfo struct {
	typeToken string // leaf field kind ("uint16", "string", ...); empty means infer
	outlet    string // explicit computed value name, if any
	cfg       *ConfigSet
	elemCfg   *ConfigSet
}

// parseTag splits a `bin` tag into the field kind token and typed config
// items. Grammar: an optional leading kind token followed by comma separated
// options (len=N, min=N, ignorelen, encoding=NAME, filler[=LITERAL],
// elemlen=N, elemfiller[=LITERAL], outlet=NAME).
func parseTag(field, tag string) (*tagInfo, error) {
	info := &tagInfo{
		cfg:     NewConfigSet(),
		elemCfg: NewConfigSet(),
	}

	var (
		length     Len
		hasLen     bool
		elemLength Len
		hasElemLen bool
	)

	parts := strings.Split(tag, ",")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, hasValue := strings.Cut(part, "=")

		if i == 0 && !hasValue && !isOptionKey(key) {
			info.typeToken = key
			continue
		}

		switch key {
		case "len":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return nil, errors.InvalidConfig(field, "Len", "invalid length "+strconv.Quote(value))
			}
			length.N = n
			hasLen = true
		case "min":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return nil, errors.InvalidConfig(field, "Len", "invalid minimum "+strconv.Quote(value))
			}
			length.Min = n
			hasLen = true
		case "ignorelen":
			length.Ignore = true
			hasLen = true
		case "encoding":
			if value == "" {
				return nil, errors.InvalidConfig(field, "Encoding", "empty encoding name")
			}
			info.cfg.set(Encoding{Name: value})
		case "filler":
			if hasValue {
				info.cfg.set(Filler{Value: value})
			} else {
				info.cfg.set(Filler{UseDefault: true})
			}
		case "elemlen":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return nil, errors.InvalidConfig(field, "Len", "invalid element length "+strconv.Quote(value))
			}
			elemLength.N = n
			hasElemLen = true
		case "elemfiller":
			if hasValue {
				info.elemCfg.set(Filler{Value: value})
			} else {
				info.elemCfg.set(Filler{UseDefault: true})
			}
		case "outlet":
			if value == "" {
				return nil, errors.InvalidConfig(field, "outlet", "empty computed value name")
			}
			info.outlet = value
		default:
			return nil, errors.InvalidConfig(field, key, "unknown option")
		}
	}

	if hasLen {
		info.cfg.set(length)
	}
	if hasElemLen {
		info.elemCfg.set(elemLength)
	}
	return info, nil
}

func isOptionKey(s string) bool {
	switch s {
	case "len", "min", "ignorelen", "encoding", "filler", "elemlen", "elemfiller", "outlet":
		return true
	}
	return false
}
