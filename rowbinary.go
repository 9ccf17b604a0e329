// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"
)

// rowBinaryFormatter implements the RowBinary format family. Scalars are
// little-endian, lengths and counts are LEB128 varints, Bool and Nullable use
// one-byte discriminants.
type rowBinaryFormatter struct {
	header headerMode
}

func errTruncated(format string, t interface{}) error {
	return &ClickHouseError{
		Number:      ErrCodeTruncatedInput,
		Message:     errMsgTruncatedInput,
		MessageArgs: []interface{}{format, t},
	}
}

func errUnsupportedType(t Type, format Format) error {
	return &ClickHouseError{
		Number:      ErrCodeUnsupportedType,
		Message:     errMsgUnsupportedType,
		MessageArgs: []interface{}{t, format},
	}
}

func errEnumOutOfRange(idx int64, t Type) error {
	return &ClickHouseError{
		Number:      ErrCodeInvalidDiscriminant,
		Message:     errMsgEnumVariantOutOfRange,
		MessageArgs: []interface{}{idx, t},
	}
}

func errInvalidUTF8() error {
	return &ClickHouseError{
		Number:  ErrCodeEncodingError,
		Message: errMsgInvalidUTF8,
	}
}

func (f *rowBinaryFormatter) SerializeValue(v Value, t Type) ([]byte, error) {
	return appendRowBinValue(nil, v, t)
}

func (f *rowBinaryFormatter) DeserializeValue(data []byte, t Type) (Value, error) {
	r := &rowBinReader{data: data}
	v, err := readRowBinValue(r, t)
	if err != nil {
		return Value{}, err
	}
	if r.pos != len(data) {
		return Value{}, &ClickHouseError{
			Number:      ErrCodeTrailingBytes,
			Message:     errMsgTrailingBytes,
			MessageArgs: []interface{}{len(data) - r.pos},
		}
	}
	return v, nil
}

func (f *rowBinaryFormatter) SerializeQueryData(qd *QueryData) ([]byte, error) {
	types, err := qd.headerTypes()
	if err != nil {
		return nil, err
	}
	var buf []byte
	if f.header >= headerNames {
		names, err := qd.headerNames()
		if err != nil {
			return nil, err
		}
		buf = binary.AppendUvarint(buf, uint64(len(names)))
		for _, name := range names {
			buf = appendRowBinString(buf, name)
		}
		if f.header == headerNamesAndTypes {
			for _, t := range types {
				buf = appendRowBinString(buf, t.String())
			}
		}
	}
	for _, row := range qd.Rows() {
		for i, v := range row {
			buf, err = appendRowBinValue(buf, v, types[i])
			if err != nil {
				return nil, err
			}
		}
	}
	return buf, nil
}

func (f *rowBinaryFormatter) DeserializeQueryData(data []byte, columns []Column) (*QueryData, error) {
	r := &rowBinReader{data: data}
	var names []string
	var types []Type

	if f.header >= headerNames {
		n, err := r.count()
		if err != nil {
			return nil, err
		}
		names = make([]string, n)
		for i := range names {
			if names[i], err = r.str(); err != nil {
				return nil, err
			}
		}
		if f.header == headerNamesAndTypes {
			types = make([]Type, n)
			for i := range types {
				ts, err := r.str()
				if err != nil {
					return nil, err
				}
				if types[i], err = ParseType(ts); err != nil {
					return nil, err
				}
			}
		}
	}
	if types == nil {
		if columns == nil {
			return nil, ErrMissingTypeMapping
		}
		types = make([]Type, len(columns))
		for i, c := range columns {
			types[i] = c.Type
		}
	}
	if names == nil && columns != nil {
		names = columnNamesOf(columns)
	}

	qd := &QueryData{}
	if _, err := qd.WithColumnTypes(types...); err != nil {
		return nil, err
	}
	if names != nil {
		if _, err := qd.WithColumnNames(names...); err != nil {
			return nil, err
		}
	}
	for r.pos < len(r.data) {
		row := make([]Value, len(types))
		for i, t := range types {
			v, err := readRowBinValue(r, t)
			if err != nil {
				return nil, err
			}
			row[i] = v
		}
		if err := qd.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return qd, nil
}

// columnNamesOf extracts names from a caller mapping, nil when the mapping
// carries none.
func columnNamesOf(columns []Column) []string {
	named := false
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
		if c.Name != "" {
			named = true
		}
	}
	if !named {
		return nil
	}
	return names
}

func appendRowBinString(dst []byte, s string) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(s)))
	return append(dst, s...)
}

func appendRowBinValue(dst []byte, v Value, t Type) ([]byte, error) {
	if !v.matchesType(t) {
		return nil, errValueMismatch(v, t)
	}
	if t.nullable {
		if v.null {
			return append(dst, 0x01), nil
		}
		dst = append(dst, 0x00)
	}
	switch t.kind {
	case KindUInt8:
		return append(dst, byte(v.u)), nil
	case KindUInt16, KindDate:
		return binary.LittleEndian.AppendUint16(dst, uint16(v.u)), nil
	case KindUInt32, KindDateTime:
		return binary.LittleEndian.AppendUint32(dst, uint32(v.u)), nil
	case KindUInt64:
		return binary.LittleEndian.AppendUint64(dst, v.u), nil
	case KindInt8, KindEnum8:
		if t.kind == KindEnum8 && !t.hasVariantIndex(int16(v.i)) {
			return nil, errEnumOutOfRange(v.i, t)
		}
		return append(dst, byte(int8(v.i))), nil
	case KindInt16, KindEnum16:
		if t.kind == KindEnum16 && !t.hasVariantIndex(int16(v.i)) {
			return nil, errEnumOutOfRange(v.i, t)
		}
		return binary.LittleEndian.AppendUint16(dst, uint16(int16(v.i))), nil
	case KindInt32, KindDate32:
		return binary.LittleEndian.AppendUint32(dst, uint32(int32(v.i))), nil
	case KindInt64, KindDateTime64:
		return binary.LittleEndian.AppendUint64(dst, uint64(v.i)), nil
	case KindUInt128:
		return appendRowBinBig(dst, v, t, 16, false)
	case KindUInt256:
		return appendRowBinBig(dst, v, t, 32, false)
	case KindInt128:
		return appendRowBinBig(dst, v, t, 16, true)
	case KindInt256:
		return appendRowBinBig(dst, v, t, 32, true)
	case KindFloat32:
		return binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(v.f))), nil
	case KindFloat64:
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(v.f)), nil
	case KindBool:
		if v.b {
			return append(dst, 0x01), nil
		}
		return append(dst, 0x00), nil
	case KindString:
		return appendRowBinString(dst, v.s), nil
	case KindFixedString:
		// length is declared by the type, not encoded
		if len(v.s) != t.length {
			return nil, errValueMismatch(v, t)
		}
		return append(dst, v.s...), nil
	case KindUUID:
		b := v.uid
		dst = binary.LittleEndian.AppendUint64(dst, binary.BigEndian.Uint64(b[0:8]))
		return binary.LittleEndian.AppendUint64(dst, binary.BigEndian.Uint64(b[8:16])), nil
	case KindArray:
		dst = binary.AppendUvarint(dst, uint64(len(v.list)))
		var err error
		for _, item := range v.list {
			if dst, err = appendRowBinValue(dst, item, *t.elem); err != nil {
				return nil, err
			}
		}
		return dst, nil
	case KindTuple:
		// positional, no leading count
		if len(v.list) != len(t.items) {
			return nil, errValueMismatch(v, t)
		}
		var err error
		for i, item := range v.list {
			if dst, err = appendRowBinValue(dst, item, t.items[i]); err != nil {
				return nil, err
			}
		}
		return dst, nil
	case KindMap:
		dst = binary.AppendUvarint(dst, uint64(len(v.m)))
		var err error
		for _, k := range v.sortedKeys() {
			dst = appendRowBinString(dst, k)
			if dst, err = appendRowBinValue(dst, v.m[k], *t.elem); err != nil {
				return nil, err
			}
		}
		return dst, nil
	case KindNested:
		// name/value pairs in declared column order, no leading count
		var err error
		for _, field := range t.fields {
			item, ok := v.m[field.Name]
			if !ok {
				return nil, errValueMismatch(v, t)
			}
			dst = appendRowBinString(dst, field.Name)
			if dst, err = appendRowBinValue(dst, item, field.Type); err != nil {
				return nil, err
			}
		}
		return dst, nil
	}
	return nil, errUnsupportedType(t, FormatRowBinary)
}

func appendRowBinBig(dst []byte, v Value, t Type, byteLen int, signed bool) ([]byte, error) {
	out, ok := appendBigLE(dst, v.big, byteLen, signed)
	if !ok {
		return nil, errValueMismatch(v, t)
	}
	return out, nil
}

// rowBinReader is a cursor over a RowBinary payload.
type rowBinReader struct {
	data []byte
	pos  int
}

func (r *rowBinReader) take(n int) ([]byte, error) {
	if len(r.data)-r.pos < n {
		return nil, errTruncated("RowBinary", n)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *rowBinReader) byte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *rowBinReader) uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, errTruncated("RowBinary", "varint")
	}
	r.pos += n
	return v, nil
}

// count reads a LEB128 length or element count and bounds it against the
// remaining input. Every element occupies at least one byte, so a larger
// count can only come from malformed input and must not drive a slice
// allocation.
func (r *rowBinReader) count() (int, error) {
	v, err := r.uvarint()
	if err != nil {
		return 0, err
	}
	if v > uint64(len(r.data)-r.pos) {
		return 0, errTruncated("RowBinary", "count")
	}
	return int(v), nil
}

func (r *rowBinReader) str() (string, error) {
	n, err := r.count()
	if err != nil {
		return "", err
	}
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errInvalidUTF8()
	}
	return string(b), nil
}

func readRowBinValue(r *rowBinReader, t Type) (Value, error) {
	if t.nullable {
		disc, err := r.byte()
		if err != nil {
			return Value{}, err
		}
		switch disc {
		case 0x01:
			v, _ := NullValue(t)
			return v, nil
		case 0x00:
			v, err := readRowBinValue(r, t.NonNullable())
			if err != nil {
				return Value{}, err
			}
			nv, ok := v.AsNullable()
			if !ok {
				return Value{}, &ClickHouseError{
					Number:  ErrCodeInvalidDiscriminant,
					Message: errMsgNullableValueShape,
				}
			}
			return nv, nil
		default:
			return Value{}, &ClickHouseError{
				Number:      ErrCodeInvalidDiscriminant,
				Message:     errMsgInvalidNullableByte,
				MessageArgs: []interface{}{disc},
			}
		}
	}
	switch t.kind {
	case KindUInt8:
		b, err := r.byte()
		if err != nil {
			return Value{}, err
		}
		return UInt8Value(b), nil
	case KindUInt16:
		b, err := r.take(2)
		if err != nil {
			return Value{}, err
		}
		return UInt16Value(binary.LittleEndian.Uint16(b)), nil
	case KindUInt32:
		b, err := r.take(4)
		if err != nil {
			return Value{}, err
		}
		return UInt32Value(binary.LittleEndian.Uint32(b)), nil
	case KindUInt64:
		b, err := r.take(8)
		if err != nil {
			return Value{}, err
		}
		return UInt64Value(binary.LittleEndian.Uint64(b)), nil
	case KindInt8:
		b, err := r.byte()
		if err != nil {
			return Value{}, err
		}
		return Int8Value(int8(b)), nil
	case KindInt16:
		b, err := r.take(2)
		if err != nil {
			return Value{}, err
		}
		return Int16Value(int16(binary.LittleEndian.Uint16(b))), nil
	case KindInt32:
		b, err := r.take(4)
		if err != nil {
			return Value{}, err
		}
		return Int32Value(int32(binary.LittleEndian.Uint32(b))), nil
	case KindInt64:
		b, err := r.take(8)
		if err != nil {
			return Value{}, err
		}
		return Int64Value(int64(binary.LittleEndian.Uint64(b))), nil
	case KindUInt128:
		return readRowBinBig(r, t, 16, false)
	case KindUInt256:
		return readRowBinBig(r, t, 32, false)
	case KindInt128:
		return readRowBinBig(r, t, 16, true)
	case KindInt256:
		return readRowBinBig(r, t, 32, true)
	case KindFloat32:
		b, err := r.take(4)
		if err != nil {
			return Value{}, err
		}
		return Float32Value(math.Float32frombits(binary.LittleEndian.Uint32(b))), nil
	case KindFloat64:
		b, err := r.take(8)
		if err != nil {
			return Value{}, err
		}
		return Float64Value(math.Float64frombits(binary.LittleEndian.Uint64(b))), nil
	case KindBool:
		b, err := r.byte()
		if err != nil {
			return Value{}, err
		}
		switch b {
		case 0x00:
			return BoolValue(false), nil
		case 0x01:
			return BoolValue(true), nil
		}
		return Value{}, &ClickHouseError{
			Number:      ErrCodeInvalidDiscriminant,
			Message:     errMsgInvalidBoolByte,
			MessageArgs: []interface{}{b},
		}
	case KindString:
		s, err := r.str()
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case KindFixedString:
		b, err := r.take(t.length)
		if err != nil {
			return Value{}, err
		}
		if !utf8.Valid(b) {
			return Value{}, errInvalidUTF8()
		}
		return FixedStringValue(string(b)), nil
	case KindUUID:
		b, err := r.take(16)
		if err != nil {
			return Value{}, err
		}
		var uid uuid.UUID
		binary.BigEndian.PutUint64(uid[0:8], binary.LittleEndian.Uint64(b[0:8]))
		binary.BigEndian.PutUint64(uid[8:16], binary.LittleEndian.Uint64(b[8:16]))
		return UUIDValue(uid), nil
	case KindDate:
		b, err := r.take(2)
		if err != nil {
			return Value{}, err
		}
		return DateValue(binary.LittleEndian.Uint16(b)), nil
	case KindDate32:
		b, err := r.take(4)
		if err != nil {
			return Value{}, err
		}
		return Date32Value(int32(binary.LittleEndian.Uint32(b))), nil
	case KindDateTime:
		b, err := r.take(4)
		if err != nil {
			return Value{}, err
		}
		return DateTimeValue(binary.LittleEndian.Uint32(b)), nil
	case KindDateTime64:
		b, err := r.take(8)
		if err != nil {
			return Value{}, err
		}
		return DateTime64Value(int64(binary.LittleEndian.Uint64(b)), t.precision), nil
	case KindEnum8:
		b, err := r.byte()
		if err != nil {
			return Value{}, err
		}
		idx := int8(b)
		if !t.hasVariantIndex(int16(idx)) {
			return Value{}, errEnumOutOfRange(int64(idx), t)
		}
		return Enum8Value(idx), nil
	case KindEnum16:
		b, err := r.take(2)
		if err != nil {
			return Value{}, err
		}
		idx := int16(binary.LittleEndian.Uint16(b))
		if !t.hasVariantIndex(idx) {
			return Value{}, errEnumOutOfRange(int64(idx), t)
		}
		return Enum16Value(idx), nil
	case KindArray:
		n, err := r.count()
		if err != nil {
			return Value{}, err
		}
		items := make([]Value, n)
		for i := range items {
			if items[i], err = readRowBinValue(r, *t.elem); err != nil {
				return Value{}, err
			}
		}
		return ArrayValue(items...), nil
	case KindTuple:
		items := make([]Value, len(t.items))
		var err error
		for i := range items {
			if items[i], err = readRowBinValue(r, t.items[i]); err != nil {
				return Value{}, err
			}
		}
		return TupleValue(items...), nil
	case KindMap:
		n, err := r.count()
		if err != nil {
			return Value{}, err
		}
		m := make(map[string]Value, n)
		for i := 0; i < n; i++ {
			k, err := r.str()
			if err != nil {
				return Value{}, err
			}
			if m[k], err = readRowBinValue(r, *t.elem); err != nil {
				return Value{}, err
			}
		}
		return MapValue(m), nil
	case KindNested:
		m := make(map[string]Value, len(t.fields))
		for _, field := range t.fields {
			name, err := r.str()
			if err != nil {
				return Value{}, err
			}
			if m[name], err = readRowBinValue(r, field.Type); err != nil {
				return Value{}, err
			}
		}
		return NestedValue(m), nil
	}
	return Value{}, errUnsupportedType(t, FormatRowBinary)
}

func readRowBinBig(r *rowBinReader, t Type, byteLen int, signed bool) (Value, error) {
	b, err := r.take(byteLen)
	if err != nil {
		return Value{}, err
	}
	v := bigFromLE(b, signed)
	switch t.kind {
	case KindUInt128:
		return UInt128Value(v), nil
	case KindUInt256:
		return UInt256Value(v), nil
	case KindInt128:
		return Int128Value(v), nil
	}
	return Int256Value(v), nil
}
