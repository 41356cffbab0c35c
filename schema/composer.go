package schema

import (
	"reflect"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/binstruct/errors"
	"github.com/wippyai/binstruct/schema/internal/kind"
)

const outletSuffix = "Outlet"

// Options configure composition of a record type.
type Options struct {
	// ByteOrder selects the wire byte order. Native when unset.
	ByteOrder ByteOrder
	// Name overrides the layout name. Defaults to the Go type name.
	Name string
}

type cacheKey struct {
	t     reflect.Type
	order ByteOrder
	name  string
}

var layoutCache sync.Map // cacheKey -> *Layout

// Compose builds the immutable layout of a record struct type by walking
// its tagged fields in declaration order. Results are cached per
// (type, byte order) pair, so repeated calls return the same layout.
func Compose(t reflect.Type, opts Options) (*Layout, error) {
	if t == nil {
		return nil, errors.TypeMismatch(errors.PhaseCompose, nil, "nil", "struct record")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.TypeMismatch(errors.PhaseCompose, nil, t.String(), "struct record")
	}

	key := cacheKey{t: t, order: opts.ByteOrder, name: opts.Name}
	if cached, ok := layoutCache.Load(key); ok {
		return cached.(*Layout), nil
	}

	l, err := compose(t, opts)
	if err != nil {
		return nil, err
	}
	actual, _ := layoutCache.LoadOrStore(key, l)
	return actual.(*Layout), nil
}

// ComposeOf is generic sugar over Compose.
func ComposeOf[T any](opts Options) (*Layout, error) {
	return Compose(reflect.TypeOf((*T)(nil)).Elem(), opts)
}

func compose(t reflect.Type, opts Options) (*Layout, error) {
	name := opts.Name
	if name == "" {
		name = t.Name()
		if name == "" {
			name = t.String()
		}
	}

	c := &composer{record: t, seen: make(map[string]struct{})}
	if err := c.walkStruct(t, nil); err != nil {
		return nil, err
	}

	l := newLayout(name, t, opts.ByteOrder, c.fields)
	logger.Debug("composed layout",
		zap.String("record", name),
		zap.Int("fields", len(c.fields)),
		zap.Int("byte_size", l.ByteSize()),
		zap.String("format", l.StructString()))
	return l, nil
}

type composer struct {
	record reflect.Type
	fields []*FieldDescriptor
	seen   map[string]struct{}
}

// walkStruct visits tagged fields in declaration order. Anonymous embedded
// structs without their own tag are flattened in place, which is how a
// record derives the fields of a base record.
func (c *composer) walkStruct(st reflect.Type, prefix []int) error {
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		tag, tagged := f.Tag.Lookup(TagName)
		if tag == "-" {
			continue
		}
		if f.Anonymous && !tagged && f.Type.Kind() == reflect.Struct && f.Type != padType {
			if err := c.walkStruct(f.Type, append(prefix, i)); err != nil {
				return err
			}
			continue
		}
		if !tagged {
			continue
		}
		if f.PkgPath != "" {
			return errors.InvalidConfig(f.Name, TagName, "binary fields must be exported")
		}

		info, err := parseTag(f.Name, tag)
		if err != nil {
			return err
		}

		computed := info.outlet
		if computed == "" && strings.HasSuffix(f.Name, outletSuffix) && f.Name != outletSuffix {
			computed = strings.TrimSuffix(f.Name, outletSuffix)
		}

		if computed != "" {
			if err := c.addOutlet(f.Name, computed, info); err != nil {
				return err
			}
			continue
		}

		if err := c.claim(f.Name); err != nil {
			return err
		}
		d, err := newDescriptor(f.Name, f.Type, info.typeToken, info.cfg, info.elemCfg, true)
		if err != nil {
			return err
		}
		d.index = append(append([]int(nil), prefix...), i)
		c.fields = append(c.fields, d)
	}
	return nil
}

// addOutlet binds a declaration to the computed value method supplying its
// bytes. The descriptor takes its name and element type from the method,
// not from the declaring field.
func (c *composer) addOutlet(field, computed string, info *tagInfo) error {
	m, onPointer, ok := lookupMethod(c.record, computed)
	if !ok {
		return errors.MissingOutlet(field, computed)
	}
	if m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
		return errors.New(errors.PhaseCompose, errors.KindMissingOutlet).
			Path(field).
			Detail("computed value %s must take no arguments and return one value", computed).
			Build()
	}

	if err := c.claim(computed); err != nil {
		return err
	}
	d, err := newDescriptor(computed, m.Type.Out(0), info.typeToken, info.cfg, info.elemCfg, true)
	if err != nil {
		return err
	}
	d.outlet = &outletRef{method: computed, index: m.Index, onPointer: onPointer}
	c.fields = append(c.fields, d)
	return nil
}

func (c *composer) claim(name string) error {
	if _, dup := c.seen[name]; dup {
		return errors.DuplicateField(name)
	}
	c.seen[name] = struct{}{}
	return nil
}

func lookupMethod(t reflect.Type, name string) (reflect.Method, bool, bool) {
	if m, ok := t.MethodByName(name); ok {
		return m, false, true
	}
	if m, ok := reflect.PointerTo(t).MethodByName(name); ok {
		return m, true, true
	}
	return reflect.Method{}, false, false
}

var registry sync.Map // name -> *Layout

// Register composes T and publishes its layout under the layout name for
// later lookup. Registering the same record twice is a no-op; reusing a
// name for a different record or byte order is an error.
func Register[T any](opts Options) (*Layout, error) {
	l, err := ComposeOf[T](opts)
	if err != nil {
		return nil, err
	}
	prev, loaded := registry.LoadOrStore(l.Name(), l)
	if loaded && prev.(*Layout) != l {
		return nil, errors.New(errors.PhaseCompose, errors.KindInvalidConfig).
			Path(l.Name()).
			Detail("record name already registered with a different type or byte order").
			Build()
	}
	return l, nil
}

// MustRegister is Register for init time registration.
func MustRegister[T any](opts Options) *Layout {
	l, err := Register[T](opts)
	if err != nil {
		panic(err)
	}
	return l
}

// Lookup returns a registered layout by name.
func Lookup(name string) (*Layout, bool) {
	if l, ok := registry.Load(name); ok {
		return l.(*Layout), true
	}
	return nil, false
}

// FieldDecl declares one field of a dynamic layout. Members turns an
// integer Type into an enum base; ArrayLen wraps the declared kind in an
// array of that many elements.
type FieldDecl struct {
	Name      string
	Type      FieldKind
	Len       int
	Min       int
	IgnoreLen bool
	Encoding  string
	Members   []EnumMember

	ArrayLen  int
	ElemLen   int
	Filler    any
	HasFiller bool
}

// ComposeDecls builds a layout from explicit field declarations instead of
// a struct type. Dynamic layouts decode bytes into per field values but
// cannot dump, since there is no record type to read fields from.
func ComposeDecls(name string, order ByteOrder, decls []FieldDecl) (*Layout, error) {
	if name == "" {
		return nil, errors.InvalidConfig("layout", "Name", "dynamic layouts need a name")
	}

	seen := make(map[string]struct{}, len(decls))
	fields := make([]*FieldDescriptor, 0, len(decls))
	for _, decl := range decls {
		if decl.Name == "" {
			return nil, errors.InvalidConfig("layout", "Name", "field declarations need a name")
		}
		if _, dup := seen[decl.Name]; dup {
			return nil, errors.DuplicateField(decl.Name)
		}
		seen[decl.Name] = struct{}{}

		d, err := declDescriptor(decl)
		if err != nil {
			return nil, err
		}
		fields = append(fields, d)
	}

	l := newLayout(name, nil, order, fields)
	logger.Debug("composed dynamic layout",
		zap.String("record", name),
		zap.Int("fields", len(fields)),
		zap.Int("byte_size", l.ByteSize()))
	return l, nil
}

func declDescriptor(decl FieldDecl) (*FieldDescriptor, error) {
	if decl.ArrayLen <= 0 {
		d, err := declElem(decl.Name, decl, false)
		if err != nil {
			return nil, err
		}
		d.topLevel = true
		return d, nil
	}

	elem, err := declElem(decl.Name+"[]", decl, true)
	if err != nil {
		return nil, err
	}
	if elem.kind == kind.Padding {
		return nil, errors.New(errors.PhaseCompose, errors.KindInvalidConfig).
			Path(decl.Name).
			Detail("padding may not be used as an array element; use a standalone padding field").
			Build()
	}

	d := &FieldDescriptor{
		name:      decl.Name,
		goType:    reflect.SliceOf(elem.goType),
		kind:      kind.Array,
		topLevel:  true,
		elem:      elem,
		length:    decl.ArrayLen,
		minLen:    decl.Min,
		ignoreLen: decl.IgnoreLen,
		format:    strings.Repeat(elem.format, decl.ArrayLen),
		elements:  decl.ArrayLen * elem.elements,
		byteSize:  decl.ArrayLen * elem.byteSize,
	}
	if decl.HasFiller {
		f := Filler{Value: decl.Filler}
		if decl.Filler == nil {
			f = Filler{UseDefault: true}
		}
		fill, err := resolveFiller(decl.Name, f, elem)
		if err != nil {
			return nil, err
		}
		d.fill = fill
		d.hasFill = true
	}
	return d, nil
}

// declElem builds the scalar, string, bytes, padding or enum descriptor of
// a declaration. For array declarations it describes one element, taking
// its byte length from ElemLen rather than Len.
func declElem(name string, decl FieldDecl, inner bool) (*FieldDescriptor, error) {
	if len(decl.Members) > 0 {
		if !decl.Type.IsInteger() {
			return nil, errors.InvalidConfig(decl.Name, "Members", "enum declarations need an integer base kind")
		}
		return declEnum(name, decl.Type, decl.Members)
	}

	goType, err := declGoType(decl.Name, decl.Type)
	if err != nil {
		return nil, err
	}

	n, min, ignore := decl.Len, decl.Min, decl.IgnoreLen
	if inner {
		n, min, ignore = decl.ElemLen, 0, false
	}
	cfg := NewConfigSet()
	if n > 0 || min > 0 || ignore {
		cfg.set(Len{N: n, Min: min, Ignore: ignore})
	}
	if decl.Encoding != "" {
		cfg.set(Encoding{Name: decl.Encoding})
	}
	return newDescriptor(name, goType, "", cfg, nil, false)
}

func declEnum(name string, base FieldKind, members []EnumMember) (*FieldDescriptor, error) {
	d := &FieldDescriptor{
		name:      name,
		goType:    canonicalType(base),
		kind:      kind.Enum,
		enumBase:  base,
		members:   append([]EnumMember(nil), members...),
		memberSet: make(map[int64]struct{}, len(members)),
		format:    string(base.Code()),
		elements:  1,
		byteSize:  base.Width(),
	}
	for _, m := range members {
		if !base.Fits(m.Value) {
			return nil, errors.EnumOverflow(name, m.Name, m.Value, base.String())
		}
		d.memberSet[m.Value] = struct{}{}
	}
	return d, nil
}

// declGoType is the canonical Go type a dynamic declaration decodes into.
func declGoType(field string, k FieldKind) (reflect.Type, error) {
	switch k {
	case kind.String:
		return reflect.TypeOf(""), nil
	case kind.Bytes:
		return reflect.TypeOf([]byte(nil)), nil
	case kind.Padding:
		return padType, nil
	case kind.Uint8, kind.Uint16, kind.Uint32, kind.Uint64,
		kind.Int8, kind.Int16, kind.Int32, kind.Int64,
		kind.Float32, kind.Float64, kind.Char, kind.Bool:
		return canonicalType(k), nil
	}
	return nil, errors.InvalidConfig(field, "Type", "kind "+k.String()+" is not declarable")
}
