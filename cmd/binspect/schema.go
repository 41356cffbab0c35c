package main

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/wippyai/binstruct/schema"
)

// schemaFile is the TOML description of one or more wire records.
type schemaFile struct {
	ByteOrder string       `toml:"byte_order"`
	Records   []recordSpec `toml:"record"`
}

type recordSpec struct {
	Name   string      `toml:"name"`
	Fields []fieldSpec `toml:"field"`
}

type fieldSpec struct {
	Name      string       `toml:"name"`
	Type      string       `toml:"type"`
	Len       int          `toml:"len"`
	Min       int          `toml:"min"`
	IgnoreLen bool         `toml:"ignore_len"`
	Encoding  string       `toml:"encoding"`
	ArrayLen  int          `toml:"array_len"`
	ElemLen   int          `toml:"elem_len"`
	Members   []memberSpec `toml:"member"`
}

type memberSpec struct {
	Name  string `toml:"name"`
	Value int64  `toml:"value"`
}

// loadSchemas parses a TOML schema file and composes one dynamic layout
// per record, returned keyed and sorted by record name.
func loadSchemas(path string) (map[string]*schema.Layout, []string, error) {
	var file schemaFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, nil, fmt.Errorf("parse schema: %w", err)
	}

	order, err := parseByteOrder(file.ByteOrder)
	if err != nil {
		return nil, nil, err
	}
	if len(file.Records) == 0 {
		return nil, nil, fmt.Errorf("schema %s declares no records", path)
	}

	layouts := make(map[string]*schema.Layout, len(file.Records))
	names := make([]string, 0, len(file.Records))
	for _, rec := range file.Records {
		decls, err := fieldDecls(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("record %s: %w", rec.Name, err)
		}
		l, err := schema.ComposeDecls(rec.Name, order, decls)
		if err != nil {
			return nil, nil, err
		}
		layouts[rec.Name] = l
		names = append(names, rec.Name)
	}
	sort.Strings(names)
	return layouts, names, nil
}

func fieldDecls(rec recordSpec) ([]schema.FieldDecl, error) {
	decls := make([]schema.FieldDecl, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		k, enum, ok := schema.KindForToken(f.Type)
		if !ok {
			return nil, fmt.Errorf("field %s: unknown type %q", f.Name, f.Type)
		}
		if enum && len(f.Members) == 0 {
			return nil, fmt.Errorf("field %s: enum type needs members", f.Name)
		}

		decl := schema.FieldDecl{
			Name:      f.Name,
			Type:      k,
			Len:       f.Len,
			Min:       f.Min,
			IgnoreLen: f.IgnoreLen,
			Encoding:  f.Encoding,
			ArrayLen:  f.ArrayLen,
			ElemLen:   f.ElemLen,
		}
		for _, m := range f.Members {
			decl.Members = append(decl.Members, schema.EnumMember{Name: m.Name, Value: m.Value})
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func parseByteOrder(s string) (schema.ByteOrder, error) {
	switch s {
	case "", "native":
		return schema.NativeEndian, nil
	case "little", "le":
		return schema.LittleEndian, nil
	case "big", "be":
		return schema.BigEndian, nil
	}
	return schema.NativeEndian, fmt.Errorf("unknown byte order %q", s)
}
