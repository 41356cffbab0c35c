package schema

import (
	"reflect"

	"github.com/wippyai/binstruct/errors"
	"github.com/wippyai/binstruct/schema/internal/kind"
	"github.com/wippyai/binstruct/structcode"
)

// Layout is the immutable binary layout of a record type. It owns the
// ordered field descriptors, the combined format string and the aggregate
// sizes, all fixed at composition time.
type Layout struct {
	name         string
	goType       reflect.Type
	order        ByteOrder
	fields       []*FieldDescriptor
	byName       map[string]*FieldDescriptor
	format       string
	byteSize     int
	elementCount int
}

func newLayout(name string, goType reflect.Type, order ByteOrder, fields []*FieldDescriptor) *Layout {
	l := &Layout{
		name:   name,
		goType: goType,
		order:  order,
		fields: fields,
		byName: make(map[string]*FieldDescriptor, len(fields)),
	}
	for _, d := range fields {
		l.byName[d.name] = d
		l.format += d.format
		l.byteSize += d.byteSize
		l.elementCount += d.elements
	}
	return l
}

// Name returns the layout's record name.
func (l *Layout) Name() string { return l.name }

// GoType returns the record struct type, or nil for dynamic layouts.
func (l *Layout) GoType() reflect.Type { return l.goType }

// ByteOrder returns the wire byte order.
func (l *Layout) ByteOrder() ByteOrder { return l.order }

// FormatCode returns the concatenated field format codes without the byte
// order marker.
func (l *Layout) FormatCode() string { return l.format }

// StructString returns the full format string including the byte order
// marker.
func (l *Layout) StructString() string { return string(l.order.Marker()) + l.format }

// ByteSize returns the packed byte length of one record.
func (l *Layout) ByteSize() int { return l.byteSize }

// ElementCount returns the number of flat elements one record exchanges
// with the codec.
func (l *Layout) ElementCount() int { return l.elementCount }

// Fields returns the layout's descriptors in wire order.
func (l *Layout) Fields() []*FieldDescriptor {
	out := make([]*FieldDescriptor, len(l.fields))
	copy(out, l.fields)
	return out
}

// Field returns a descriptor by wire name.
func (l *Layout) Field(name string) (*FieldDescriptor, bool) {
	d, ok := l.byName[name]
	return d, ok
}

// DumpElements flattens a record value into the element tuple the codec
// packs. Outlet values are pulled from their computed value methods and
// padding contributes no elements.
func (l *Layout) DumpElements(record any) ([]any, error) {
	rv, pv, err := l.recordValue(record)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, l.elementCount)
	for _, d := range l.fields {
		var fv reflect.Value
		if d.outlet != nil {
			fv = callOutlet(rv, pv, d.outlet)
		} else if d.kind != kind.Padding {
			fv = rv.FieldByIndex(d.index)
		}
		elems, err := d.encode(fv)
		if err != nil {
			return nil, err
		}
		out = append(out, elems...)
	}
	return out, nil
}

// DumpBytes packs a record value into its wire bytes.
func (l *Layout) DumpBytes(record any) ([]byte, error) {
	elems, err := l.DumpElements(record)
	if err != nil {
		return nil, err
	}
	return structcode.Pack(l.order, l.format, elems)
}

// LoadElements rebuilds per field values from a flat element tuple.
// Padding and outlet fields consume their elements but are absent from the
// result, since neither is an input of the record.
func (l *Layout) LoadElements(elems []any) (map[string]any, error) {
	if len(elems) != l.elementCount {
		return nil, errors.InvalidData(errors.PhaseDecode, nil,
			"element count does not match layout")
	}

	out := make(map[string]any, len(l.fields))
	offset := 0
	for _, d := range l.fields {
		chunk := elems[offset : offset+d.elements]
		offset += d.elements

		v, err := d.decode(chunk)
		if err != nil {
			return nil, err
		}
		if d.kind == kind.Padding || d.outlet != nil {
			continue
		}
		out[d.name] = v
	}
	return out, nil
}

// LoadBytes unpacks wire bytes into per field values. The input must be
// exactly one record long.
func (l *Layout) LoadBytes(data []byte) (map[string]any, error) {
	elems, err := structcode.Unpack(l.order, l.format, data)
	if err != nil {
		return nil, err
	}
	return l.LoadElements(elems)
}

// recordValue resolves the concrete struct value behind record along with
// an addressable pointer for outlet methods with pointer receivers.
func (l *Layout) recordValue(record any) (reflect.Value, reflect.Value, error) {
	if l.goType == nil {
		return reflect.Value{}, reflect.Value{},
			errors.Unsupported(errors.PhaseEncode, "dumping through a dynamic layout")
	}

	rv := reflect.ValueOf(record)
	var pv reflect.Value
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, reflect.Value{},
				errors.TypeMismatch(errors.PhaseEncode, []string{l.name}, "nil", l.goType.String())
		}
		pv = rv
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != l.goType {
		got := "nil"
		if rv.IsValid() {
			got = rv.Type().String()
		}
		return reflect.Value{}, reflect.Value{},
			errors.TypeMismatch(errors.PhaseEncode, []string{l.name}, got, l.goType.String())
	}
	if !pv.IsValid() {
		pv = reflect.New(l.goType)
		pv.Elem().Set(rv)
	}
	return rv, pv, nil
}

func callOutlet(rv, pv reflect.Value, ref *outletRef) reflect.Value {
	recv := rv
	if ref.onPointer {
		recv = pv
	}
	return recv.Method(ref.index).Call(nil)[0]
}
