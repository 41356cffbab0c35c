package schema

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/wippyai/binstruct/errors"
	"github.com/wippyai/binstruct/schema/internal/kind"
)

var (
	enumIface = reflect.TypeOf((*Enum)(nil)).Elem()
	padType   = reflect.TypeOf(Pad{})
)

// outletRef binds an outlet field to the computed value method that
// supplies its binary value.
type outletRef struct {
	method    string
	index     int
	onPointer bool
}

// FieldDescriptor identifies one field's binary contract: its format code,
// byte size and element count are computed once during composition and never
// change afterwards.
type FieldDescriptor struct {
	name     string
	goType   reflect.Type
	config   *ConfigSet
	kind     kind.Kind
	topLevel bool
	outlet   *outletRef

	format   string
	elements int
	byteSize int

	index []int // struct field index path, top-level fields only

	// kind specific configuration
	length    int // byte length (string/bytes/padding) or element count (array)
	minLen    int
	ignoreLen bool
	encoding  string
	elem      *FieldDescriptor
	fill      reflect.Value
	hasFill   bool
	enumBase  kind.Kind
	members   []EnumMember
	memberSet map[int64]struct{}
}

// Name returns the field's wire name. For outlets this is the computed
// value's name, not the declaration's.
func (d *FieldDescriptor) Name() string { return d.name }

// Kind returns the field's binary kind.
func (d *FieldDescriptor) Kind() FieldKind { return d.kind }

// FormatCode returns the fragment this field contributes to the layout's
// format string.
func (d *FieldDescriptor) FormatCode() string { return d.format }

// ElementCount returns how many primitive elements this field exchanges
// with the fixed-format codec.
func (d *FieldDescriptor) ElementCount() int { return d.elements }

// ByteSize returns this field's contribution to the packed byte length.
func (d *FieldDescriptor) ByteSize() int { return d.byteSize }

// IsOutlet reports whether this field's bytes come from a computed value.
func (d *FieldDescriptor) IsOutlet() bool { return d.outlet != nil }

// OutletName returns the computed value method name for outlet fields.
func (d *FieldDescriptor) OutletName() string {
	if d.outlet == nil {
		return ""
	}
	return d.outlet.method
}

// IsTopLevel reports whether the field sits directly on a record rather
// than inside an array.
func (d *FieldDescriptor) IsTopLevel() bool { return d.topLevel }

// GoType returns the value type the field accepts and produces.
func (d *FieldDescriptor) GoType() reflect.Type { return d.goType }

// Elem returns the element descriptor of an array field, nil otherwise.
func (d *FieldDescriptor) Elem() *FieldDescriptor { return d.elem }

// Len returns the declared length bounds for string, bytes and array
// fields. The second result is false for kinds without a length.
func (d *FieldDescriptor) Len() (Len, bool) {
	switch d.kind {
	case kind.String, kind.Bytes, kind.Array, kind.Padding:
		return Len{N: d.length, Min: d.minLen, Ignore: d.ignoreLen}, true
	}
	return Len{}, false
}

// Members returns the member set of an enum field.
func (d *FieldDescriptor) Members() []EnumMember {
	out := make([]EnumMember, len(d.members))
	copy(out, d.members)
	return out
}

// IsMember reports whether v is a declared enum member value.
func (d *FieldDescriptor) IsMember(v int64) bool {
	_, ok := d.memberSet[v]
	return ok
}

// HasFiller reports whether an array field pads short input at encode time.
func (d *FieldDescriptor) HasFiller() bool { return d.hasFill }

// FieldIndex returns the reflect index path of the declaring struct field.
func (d *FieldDescriptor) FieldIndex() []int {
	out := make([]int, len(d.index))
	copy(out, d.index)
	return out
}

func (d *FieldDescriptor) String() string {
	return fmt.Sprintf("%s(%s %q fmt=%s bytes=%d elems=%d)",
		d.kind, d.goType, d.name, d.format, d.byteSize, d.elements)
}

// newDescriptor configures a field kind against a concrete declaration.
// typeToken is the tag's kind token; empty means infer from the Go type.
// For array declarations the token names the leaf element kind.
func newDescriptor(name string, goType reflect.Type, typeToken string, cfg, elemCfg *ConfigSet, topLevel bool) (*FieldDescriptor, error) {
	k, base, err := resolveKind(name, goType, typeToken)
	if err != nil {
		return nil, err
	}

	d := &FieldDescriptor{
		name:     name,
		goType:   goType,
		config:   cfg,
		kind:     k,
		topLevel: topLevel,
		enumBase: base,
	}

	switch k {
	case kind.Array:
		return d, d.configureArray(typeToken, cfg, elemCfg)
	case kind.String:
		return d, d.configureString(cfg)
	case kind.Bytes:
		return d, d.configureBytes(cfg)
	case kind.Padding:
		return d, d.configurePadding(cfg)
	case kind.Enum:
		return d, d.configureEnum()
	default:
		return d, d.configureScalar()
	}
}

// resolveKind maps a (Go type, tag token) pair to a field kind, validating
// that the Go type is compatible. For slice and array Go types the token
// names the element kind, so the outer kind is Array unless the declaration
// is byte-shaped and tagged (or inferred) as Bytes.
func resolveKind(name string, goType reflect.Type, typeToken string) (kind.Kind, kind.Kind, error) {
	sequence := goType.Kind() == reflect.Slice || goType.Kind() == reflect.Array
	byteShaped := sequence && goType.Elem().Kind() == reflect.Uint8 &&
		!goType.Elem().Implements(enumIface)

	if typeToken != "" {
		tk, ok := tokenKinds[typeToken]
		if !ok {
			return 0, 0, errors.InvalidConfig(name, typeToken, "unknown field kind")
		}
		switch {
		case tk.kind == kind.Bytes && byteShaped:
			return kind.Bytes, 0, nil
		case tk.kind == kind.Padding:
			return kind.Padding, 0, nil
		case sequence:
			return kind.Array, 0, nil
		default:
			return tk.kind, tk.base, nil
		}
	}

	switch goType.Kind() {
	case reflect.Bool:
		return kind.Bool, 0, nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if goType.Implements(enumIface) {
			return kind.Enum, integerKindOf(goType.Kind()), nil
		}
		return integerKindOf(goType.Kind()), 0, nil
	case reflect.Float32:
		return kind.Float32, 0, nil
	case reflect.Float64:
		return kind.Float64, 0, nil
	case reflect.String:
		return kind.String, 0, nil
	case reflect.Slice, reflect.Array:
		if byteShaped {
			return kind.Bytes, 0, nil
		}
		return kind.Array, 0, nil
	case reflect.Struct:
		if goType == padType || goType.NumField() == 0 {
			return kind.Padding, 0, nil
		}
	}
	return 0, 0, errors.TypeMismatch(errors.PhaseCompose, []string{name},
		goType.String(), "uint8..uint64, int8..int64, float32/64, char, bool, string, bytes, padding, enum or array")
}

func integerKindOf(rk reflect.Kind) kind.Kind {
	switch rk {
	case reflect.Uint8:
		return kind.Uint8
	case reflect.Uint16:
		return kind.Uint16
	case reflect.Uint32:
		return kind.Uint32
	case reflect.Uint64:
		return kind.Uint64
	case reflect.Int8:
		return kind.Int8
	case reflect.Int16:
		return kind.Int16
	case reflect.Int32:
		return kind.Int32
	default:
		return kind.Int64
	}
}

func (d *FieldDescriptor) configureScalar() error {
	if err := d.checkScalarType(); err != nil {
		return err
	}
	d.format = string(d.kind.Code())
	d.elements = 1
	d.byteSize = d.kind.Width()
	return nil
}

func (d *FieldDescriptor) checkScalarType() error {
	var ok bool
	switch d.kind {
	case kind.Bool:
		ok = d.goType.Kind() == reflect.Bool
	case kind.Char:
		ok = d.goType.Kind() == reflect.Uint8
	case kind.Float32:
		ok = d.goType.Kind() == reflect.Float32
	case kind.Float64:
		ok = d.goType.Kind() == reflect.Float64
	default:
		ok = integerCompatible(d.kind, d.goType.Kind())
	}
	if !ok {
		return errors.TypeMismatch(errors.PhaseCompose, []string{d.name}, d.goType.String(), d.kind.String())
	}
	return nil
}

func integerCompatible(k kind.Kind, rk reflect.Kind) bool {
	switch rk {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return integerKindOf(rk) == k
	}
	return false
}

func (d *FieldDescriptor) configureString(cfg *ConfigSet) error {
	if d.goType.Kind() != reflect.String {
		return errors.TypeMismatch(errors.PhaseCompose, []string{d.name}, d.goType.String(), "string")
	}
	ln, err := cfg.Length(d.name, "string")
	if err != nil {
		return err
	}
	enc := cfg.EncodingOr(defaultEncoding)
	if !knownEncoding(enc) {
		return errors.InvalidConfig(d.name, "Encoding", "unknown encoding "+enc)
	}
	d.length = ln.N
	d.minLen = ln.Min
	d.ignoreLen = ln.Ignore
	d.encoding = enc
	d.format = fmt.Sprintf("%ds", ln.N)
	d.elements = 1
	d.byteSize = ln.N
	return nil
}

func (d *FieldDescriptor) configureBytes(cfg *ConfigSet) error {
	fixed := d.goType.Kind() == reflect.Array
	if !fixed && d.goType.Kind() != reflect.Slice {
		return errors.TypeMismatch(errors.PhaseCompose, []string{d.name}, d.goType.String(), "bytes")
	}
	if _, ok := cfg.FillerOK(); ok {
		return errors.InvalidConfig(d.name, "Filler",
			"bytes fields are zero padded; declare an element kind (e.g. uint8) to use a filler")
	}

	var n int
	if fixed {
		n = d.goType.Len()
		if ln, ok := cfg.LengthOK(); ok && ln.N != 0 && ln.N != n {
			return errors.InvalidConfig(d.name, "Len",
				fmt.Sprintf("declared length %d conflicts with fixed array length %d", ln.N, n))
		}
		if ln, ok := cfg.LengthOK(); ok {
			d.minLen = ln.Min
			d.ignoreLen = ln.Ignore
		}
	} else {
		ln, err := cfg.Length(d.name, "bytes")
		if err != nil {
			return err
		}
		n = ln.N
		d.minLen = ln.Min
		d.ignoreLen = ln.Ignore
	}

	d.length = n
	d.format = fmt.Sprintf("%ds", n)
	d.elements = 1
	d.byteSize = n
	return nil
}

func (d *FieldDescriptor) configurePadding(cfg *ConfigSet) error {
	if d.goType.Kind() != reflect.Struct || d.goType.NumField() != 0 {
		return errors.TypeMismatch(errors.PhaseCompose, []string{d.name}, d.goType.String(), "padding")
	}
	ln, err := cfg.Length(d.name, "padding")
	if err != nil {
		return err
	}
	d.length = ln.N
	d.format = fmt.Sprintf("%dx", ln.N)
	d.elements = 0
	d.byteSize = ln.N
	return nil
}

func (d *FieldDescriptor) configureEnum() error {
	switch d.goType.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return errors.TypeMismatch(errors.PhaseCompose, []string{d.name}, d.goType.String(), "enum")
	}

	members, err := enumMembersOf(d.name, d.goType)
	if err != nil {
		return err
	}
	if d.enumBase == kind.Invalid {
		d.enumBase = integerKindOf(d.goType.Kind())
	}

	d.members = members
	d.memberSet = make(map[int64]struct{}, len(members))
	for _, m := range members {
		if !d.enumBase.Fits(m.Value) {
			return errors.EnumOverflow(d.name, m.Name, m.Value, d.enumBase.String())
		}
		d.memberSet[m.Value] = struct{}{}
	}

	d.format = string(d.enumBase.Code())
	d.elements = 1
	d.byteSize = d.enumBase.Width()
	return nil
}

func enumMembersOf(name string, goType reflect.Type) ([]EnumMember, error) {
	if goType.Implements(enumIface) {
		return reflect.Zero(goType).Interface().(Enum).BinaryEnumMembers(), nil
	}
	if reflect.PointerTo(goType).Implements(enumIface) {
		return reflect.New(goType).Interface().(Enum).BinaryEnumMembers(), nil
	}
	return nil, errors.New(errors.PhaseCompose, errors.KindTypeMismatch).
		Path(name).
		GoType(goType.String()).
		Detail("enum field type must implement schema.Enum").
		Build()
}

func (d *FieldDescriptor) configureArray(typeToken string, cfg, elemCfg *ConfigSet) error {
	fixed := d.goType.Kind() == reflect.Array

	var n int
	if fixed {
		n = d.goType.Len()
		if ln, ok := cfg.LengthOK(); ok && ln.N != 0 && ln.N != n {
			return errors.InvalidConfig(d.name, "Len",
				fmt.Sprintf("declared length %d conflicts with fixed array length %d", ln.N, n))
		}
	} else {
		ln, err := cfg.Length(d.name, "array")
		if err != nil {
			return err
		}
		n = ln.N
		d.minLen = ln.Min
		d.ignoreLen = ln.Ignore
	}

	if elemCfg == nil {
		elemCfg = NewConfigSet()
	}
	// string elements inherit the array's encoding unless they declare one
	if enc := cfg.EncodingOr(""); enc != "" {
		if elemCfg.EncodingOr("") == "" {
			elemCfg.set(Encoding{Name: enc})
		}
	}

	elem, err := newDescriptor(d.name+"[]", d.goType.Elem(), typeToken, elemCfg, NewConfigSet(), false)
	if err != nil {
		return err
	}
	if elem.kind == kind.Padding {
		return errors.New(errors.PhaseCompose, errors.KindInvalidConfig).
			Path(d.name).
			Detail("padding may not be used as an array element; use a standalone padding field").
			Build()
	}

	if f, ok := cfg.FillerOK(); ok {
		fill, err := resolveFiller(d.name, f, elem)
		if err != nil {
			return err
		}
		d.fill = fill
		d.hasFill = true
	}

	d.elem = elem
	d.length = n
	d.format = strings.Repeat(elem.format, n)
	d.elements = n * elem.elements
	d.byteSize = n * elem.byteSize
	return nil
}

// resolveFiller materializes a Filler config item as a value of the array's
// element type. Tag literals are parsed per the element kind; typed values
// must be convertible.
func resolveFiller(field string, f Filler, elem *FieldDescriptor) (reflect.Value, error) {
	if f.UseDefault {
		return reflect.Zero(elem.goType), nil
	}
	if lit, ok := f.Value.(string); ok {
		v, err := parseLiteral(field, lit, elem)
		if err != nil {
			return reflect.Value{}, err
		}
		return v, nil
	}
	rv := reflect.ValueOf(f.Value)
	if !rv.IsValid() || !rv.Type().ConvertibleTo(elem.goType) {
		return reflect.Value{}, errors.InvalidConfig(field, "Filler",
			fmt.Sprintf("value of type %T is not usable as %s", f.Value, elem.goType))
	}
	return rv.Convert(elem.goType), nil
}

// encode converts one field value into its flat element tuple.
func (d *FieldDescriptor) encode(v reflect.Value) ([]any, error) {
	switch d.kind {
	case kind.Padding:
		return nil, nil

	case kind.Bool:
		return []any{v.Bool()}, nil

	case kind.Char:
		return []any{byte(v.Uint())}, nil

	case kind.Float32:
		return []any{float32(v.Float())}, nil

	case kind.Float64:
		return []any{v.Float()}, nil

	case kind.Uint8, kind.Uint16, kind.Uint32, kind.Uint64,
		kind.Int8, kind.Int16, kind.Int32, kind.Int64:
		return []any{canonicalInt(d.kind, v)}, nil

	case kind.Enum:
		return []any{canonicalInt(d.enumBase, v)}, nil

	case kind.String:
		data, err := encodeText(v.String(), d.encoding)
		if err != nil {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path(d.name).
				Cause(err).
				Detail("cannot encode string as %s", d.encoding).
				Build()
		}
		return []any{data}, nil

	case kind.Bytes:
		data := make([]byte, v.Len())
		reflect.Copy(reflect.ValueOf(data), v)
		return []any{data}, nil

	case kind.Array:
		return d.encodeArray(v)

	default:
		return nil, errors.Unsupported(errors.PhaseEncode, "field kind "+d.kind.String())
	}
}

func (d *FieldDescriptor) encodeArray(v reflect.Value) ([]any, error) {
	n := v.Len()
	if n > d.length {
		return nil, errors.WrongLength([]string{d.name}, n, d.length, "exceeds declared array length")
	}
	if n < d.length && !d.hasFill {
		return nil, errors.FillerMissing(d.name, n, d.length)
	}

	out := make([]any, 0, d.elements)
	for i := 0; i < n; i++ {
		elems, err := d.elem.encode(v.Index(i))
		if err != nil {
			return nil, err
		}
		out = append(out, elems...)
	}
	for i := n; i < d.length; i++ {
		elems, err := d.elem.encode(d.fill)
		if err != nil {
			return nil, err
		}
		out = append(out, elems...)
	}
	return out, nil
}

// canonicalInt narrows an integer reflect value to the exact element type
// of the given integer kind.
func canonicalInt(k kind.Kind, v reflect.Value) any {
	var u uint64
	var i int64
	if v.CanUint() {
		u = v.Uint()
		i = int64(u)
	} else {
		i = v.Int()
		u = uint64(i)
	}
	switch k {
	case kind.Uint8:
		return uint8(u)
	case kind.Uint16:
		return uint16(u)
	case kind.Uint32:
		return uint32(u)
	case kind.Uint64:
		return u
	case kind.Int8:
		return int8(i)
	case kind.Int16:
		return int16(i)
	case kind.Int32:
		return int32(i)
	default:
		return i
	}
}

// canonicalType is the element type a kind exchanges with the codec.
func canonicalType(k kind.Kind) reflect.Type {
	switch k {
	case kind.Uint8, kind.Char:
		return reflect.TypeOf(uint8(0))
	case kind.Uint16:
		return reflect.TypeOf(uint16(0))
	case kind.Uint32:
		return reflect.TypeOf(uint32(0))
	case kind.Uint64:
		return reflect.TypeOf(uint64(0))
	case kind.Int8:
		return reflect.TypeOf(int8(0))
	case kind.Int16:
		return reflect.TypeOf(int16(0))
	case kind.Int32:
		return reflect.TypeOf(int32(0))
	case kind.Int64:
		return reflect.TypeOf(int64(0))
	case kind.Float32:
		return reflect.TypeOf(float32(0))
	case kind.Float64:
		return reflect.TypeOf(float64(0))
	case kind.Bool:
		return reflect.TypeOf(false)
	default:
		return reflect.TypeOf([]byte(nil))
	}
}

// decode converts this field's slice of flat elements back into a value of
// the declared Go type.
func (d *FieldDescriptor) decode(elems []any) (any, error) {
	if len(elems) != d.elements {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path(d.name).
			Detail("got %d elements, descriptor consumes %d", len(elems), d.elements).
			Build()
	}

	switch d.kind {
	case kind.Padding:
		return nil, nil

	case kind.String:
		data, err := d.elemBytes(elems[0])
		if err != nil {
			return nil, err
		}
		s, err := decodeText(bytes.TrimRight(data, "\x00"), d.encoding)
		if err != nil {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Path(d.name).
				Cause(err).
				Detail("cannot decode %s text", d.encoding).
				Build()
		}
		return reflect.ValueOf(s).Convert(d.goType).Interface(), nil

	case kind.Bytes:
		data, err := d.elemBytes(elems[0])
		if err != nil {
			return nil, err
		}
		if d.goType.Kind() == reflect.Array {
			out := reflect.New(d.goType).Elem()
			reflect.Copy(out, reflect.ValueOf(data))
			return out.Interface(), nil
		}
		out := make([]byte, len(data))
		copy(out, data)
		return reflect.ValueOf(out).Convert(d.goType).Interface(), nil

	case kind.Array:
		return d.decodeArray(elems)

	case kind.Enum:
		return d.decodeScalar(elems[0], d.enumBase)

	default:
		return d.decodeScalar(elems[0], d.kind)
	}
}

func (d *FieldDescriptor) decodeScalar(elem any, k kind.Kind) (any, error) {
	want := canonicalType(k)
	rv := reflect.ValueOf(elem)
	if !rv.IsValid() || rv.Type() != want {
		return nil, errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
			Path(d.name).
			GoType(typeNameOf(elem)).
			FieldType(d.kind.String()).
			Detail("element is not %s", want).
			Build()
	}
	return rv.Convert(d.goType).Interface(), nil
}

func (d *FieldDescriptor) elemBytes(elem any) ([]byte, error) {
	data, ok := elem.([]byte)
	if !ok {
		return nil, errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
			Path(d.name).
			GoType(typeNameOf(elem)).
			FieldType(d.kind.String()).
			Detail("element is not []byte").
			Build()
	}
	return data, nil
}

func (d *FieldDescriptor) decodeArray(elems []any) (any, error) {
	var out reflect.Value
	if d.goType.Kind() == reflect.Array {
		out = reflect.New(d.goType).Elem()
	} else {
		out = reflect.MakeSlice(d.goType, d.length, d.length)
	}

	per := d.elem.elements
	for i := 0; i < d.length; i++ {
		dec, err := d.elem.decode(elems[i*per : (i+1)*per])
		if err != nil {
			return nil, err
		}
		out.Index(i).Set(reflect.ValueOf(dec))
	}
	return out.Interface(), nil
}

func typeNameOf(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
