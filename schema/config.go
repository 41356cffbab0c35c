package schema

import (
	"github.com/wippyai/binstruct/errors"
)

type configKey uint8

const (
	keyLen configKey = iota
	keyEncoding
	keyFiller
)

// ConfigItem is one typed configuration value attached to a field
// declaration. The set of items is closed: Len, Encoding and Filler.
type ConfigItem interface {
	key() configKey
	optionName() string
}

// Len declares the length of an Array, String, Bytes or Padding field.
// Min is the minimum accepted value length at validation time; the default
// of 0 means no minimum. Ignore disables both bounds for validation while
// keeping the binary layout length.
type Len struct {
	N      int
	Min    int
	Ignore bool
}

func (Len) key() configKey     { return keyLen }
func (Len) optionName() string { return "Len" }

// Encoding declares the text encoding of a String field.
type Encoding struct {
	Name string
}

func (Encoding) key() configKey     { return keyEncoding }
func (Encoding) optionName() string { return "Encoding" }

// Filler declares the value used to pad an under-length array at encode
// time. UseDefault pads with the element type's zero value instead of an
// explicit Value.
type Filler struct {
	Value      any
	UseDefault bool
}

func (Filler) key() configKey     { return keyFiller }
func (Filler) optionName() string { return "Filler" }

// ConfigSet maps each config item kind to its single instance for one
// field declaration. Immutable once the owning descriptor is composed.
type ConfigSet struct {
	items map[configKey]ConfigItem
}

func NewConfigSet(items ...ConfigItem) *ConfigSet {
	s := &ConfigSet{items: make(map[configKey]ConfigItem, len(items))}
	for _, item := range items {
		s.items[item.key()] = item
	}
	return s
}

func (s *ConfigSet) set(item ConfigItem) {
	s.items[item.key()] = item
}

// Length returns the Len item or an error naming the field and the
// missing option.
func (s *ConfigSet) Length(field, fieldType string) (Len, error) {
	if item, ok := s.items[keyLen]; ok {
		return item.(Len), nil
	}
	return Len{}, errors.MissingConfig(field, fieldType, "Len")
}

// LengthOK returns the Len item if declared.
func (s *ConfigSet) LengthOK() (Len, bool) {
	item, ok := s.items[keyLen]
	if !ok {
		return Len{}, false
	}
	return item.(Len), true
}

// EncodingOr returns the declared encoding name or a default.
func (s *ConfigSet) EncodingOr(def string) string {
	if item, ok := s.items[keyEncoding]; ok {
		return item.(Encoding).Name
	}
	return def
}

// FillerOK returns the Filler item if declared.
func (s *ConfigSet) FillerOK() (Filler, bool) {
	item, ok := s.items[keyFiller]
	if !ok {
		return Filler{}, false
	}
	return item.(Filler), true
}
