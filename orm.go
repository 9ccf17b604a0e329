// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Struct mapping. A struct field maps to a column through its `ch` tag:
//
//	type Row struct {
//		ID   uint64    `ch:"id"`
//		Name string    `ch:"name"`
//		Seen time.Time `ch:"seen,DateTime"`
//	}
//
// The column type is inferred from the Go type and can be overridden by a
// type string after the comma. Fields without a tag are skipped. A pointer
// field maps to the Nullable counterpart, nil meaning NULL.

type fieldMapping struct {
	index  int
	column string
	chType Type
}

func structMappings(t reflect.Type) ([]fieldMapping, error) {
	var mappings []fieldMapping
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("ch")
		if !ok || tag == "-" {
			continue
		}
		name := tag
		var chType Type
		if j := indexComma(tag); j >= 0 {
			name = tag[:j]
			parsed, err := ParseType(tag[j+1:])
			if err != nil {
				return nil, err
			}
			chType = parsed
		} else {
			inferred, err := typeForGo(field.Type)
			if err != nil {
				return nil, fmt.Errorf("field %v: %w", field.Name, err)
			}
			chType = inferred
		}
		mappings = append(mappings, fieldMapping{index: i, column: name, chType: chType})
	}
	return mappings, nil
}

func indexComma(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			return i
		}
	}
	return -1
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
	valueGoType = reflect.TypeOf(Value{})
)

// typeForGo infers a column type from a Go type.
func typeForGo(t reflect.Type) (Type, error) {
	switch t {
	case timeType:
		return DateTimeType, nil
	case uuidType:
		return UUIDType, nil
	}
	switch t.Kind() {
	case reflect.Uint8:
		return UInt8Type, nil
	case reflect.Uint16:
		return UInt16Type, nil
	case reflect.Uint32:
		return UInt32Type, nil
	case reflect.Uint64, reflect.Uint:
		return UInt64Type, nil
	case reflect.Int8:
		return Int8Type, nil
	case reflect.Int16:
		return Int16Type, nil
	case reflect.Int32:
		return Int32Type, nil
	case reflect.Int64, reflect.Int:
		return Int64Type, nil
	case reflect.Float32:
		return Float32Type, nil
	case reflect.Float64:
		return Float64Type, nil
	case reflect.Bool:
		return BoolType, nil
	case reflect.String:
		return StringType, nil
	case reflect.Pointer:
		elem, err := typeForGo(t.Elem())
		if err != nil {
			return Type{}, err
		}
		nt, ok := elem.Nullable()
		if !ok {
			return Type{}, fmt.Errorf("type %v has no nullable form", elem)
		}
		return nt, nil
	case reflect.Slice:
		elem, err := typeForGo(t.Elem())
		if err != nil {
			return Type{}, err
		}
		return ArrayType(elem), nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return Type{}, fmt.Errorf("map keys must be strings, got %v", t.Key())
		}
		elem, err := typeForGo(t.Elem())
		if err != nil {
			return Type{}, err
		}
		return MapType(StringType, elem), nil
	}
	return Type{}, fmt.Errorf("no column type for Go type %v", t)
}

// MarshalRows converts a slice of tagged structs into a table with column
// names and types attached.
func MarshalRows(slice interface{}) (*QueryData, error) {
	rv := reflect.ValueOf(slice)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("expected a slice of structs, got %v", rv.Kind())
	}
	elemType := rv.Type().Elem()
	if elemType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected a slice of structs, got a slice of %v", elemType.Kind())
	}
	mappings, err := structMappings(elemType)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(mappings))
	types := make([]Type, len(mappings))
	for i, m := range mappings {
		names[i] = m.column
		types[i] = m.chType
	}
	qd := &QueryData{}
	if _, err = qd.WithColumnNames(names...); err != nil {
		return nil, err
	}
	if _, err = qd.WithColumnTypes(types...); err != nil {
		return nil, err
	}
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		row := make([]Value, len(mappings))
		for j, m := range mappings {
			v, err := valueFromReflect(elem.Field(m.index), m.chType)
			if err != nil {
				return nil, err
			}
			row[j] = v
		}
		if err = qd.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return qd, nil
}

// UnmarshalRows fills a slice of tagged structs from a table. Columns are
// matched by name when the table carries names, by position otherwise.
func UnmarshalRows(qd *QueryData, dest interface{}) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("expected a pointer to a slice of structs, got %v", rv.Kind())
	}
	sliceValue := rv.Elem()
	elemType := sliceValue.Type().Elem()
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("expected a slice of structs, got a slice of %v", elemType.Kind())
	}
	mappings, err := structMappings(elemType)
	if err != nil {
		return err
	}

	columnIndex := map[string]int{}
	if names, ok := qd.ColumnNames(); ok {
		for i, name := range names {
			columnIndex[name] = i
		}
	} else {
		for i, m := range mappings {
			columnIndex[m.column] = i
		}
	}

	for _, row := range qd.Rows() {
		elem := reflect.New(elemType).Elem()
		for _, m := range mappings {
			col, ok := columnIndex[m.column]
			if !ok || col >= len(row) {
				continue
			}
			if err = valueToReflect(row[col], elem.Field(m.index)); err != nil {
				return err
			}
		}
		sliceValue.Set(reflect.Append(sliceValue, elem))
	}
	return nil
}

// valueFromReflect converts one struct field into a Value of the column type.
func valueFromReflect(rv reflect.Value, t Type) (Value, error) {
	if rv.Type() == valueGoType {
		return rv.Interface().(Value), nil
	}
	if t.IsNullable() {
		if rv.Kind() != reflect.Pointer {
			return Value{}, fmt.Errorf("nullable column %v requires a pointer field, got %v", t, rv.Kind())
		}
		if rv.IsNil() {
			v, _ := NullValue(t)
			return v, nil
		}
		v, err := valueFromReflect(rv.Elem(), t.NonNullable())
		if err != nil {
			return Value{}, err
		}
		nv, _ := v.AsNullable()
		return nv, nil
	}
	switch t.Kind() {
	case KindUInt8:
		return UInt8Value(uint8(rv.Uint())), nil
	case KindUInt16:
		return UInt16Value(uint16(rv.Uint())), nil
	case KindUInt32:
		return UInt32Value(uint32(rv.Uint())), nil
	case KindUInt64:
		return UInt64Value(rv.Uint()), nil
	case KindInt8:
		return Int8Value(int8(rv.Int())), nil
	case KindInt16:
		return Int16Value(int16(rv.Int())), nil
	case KindInt32:
		return Int32Value(int32(rv.Int())), nil
	case KindInt64:
		return Int64Value(rv.Int()), nil
	case KindFloat32:
		return Float32Value(float32(rv.Float())), nil
	case KindFloat64:
		return Float64Value(rv.Float()), nil
	case KindBool:
		return BoolValue(rv.Bool()), nil
	case KindString:
		return StringValue(rv.String()), nil
	case KindFixedString:
		return FixedStringValue(rv.String()), nil
	case KindUUID:
		return UUIDValue(rv.Interface().(uuid.UUID)), nil
	case KindDate:
		return DateValueFromTime(rv.Interface().(time.Time)), nil
	case KindDate32:
		return Date32ValueFromTime(rv.Interface().(time.Time)), nil
	case KindDateTime:
		return DateTimeValueFromTime(rv.Interface().(time.Time)), nil
	case KindDateTime64:
		return DateTime64ValueFromTime(rv.Interface().(time.Time), t.Precision()), nil
	case KindEnum8:
		return Enum8Value(int8(rv.Int())), nil
	case KindEnum16:
		return Enum16Value(int16(rv.Int())), nil
	case KindArray:
		elemT, _ := t.Elem()
		items := make([]Value, rv.Len())
		for i := range items {
			v, err := valueFromReflect(rv.Index(i), elemT)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return ArrayValue(items...), nil
	case KindMap:
		elemT, _ := t.Elem()
		m := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			v, err := valueFromReflect(iter.Value(), elemT)
			if err != nil {
				return Value{}, err
			}
			m[iter.Key().String()] = v
		}
		return MapValue(m), nil
	}
	return Value{}, fmt.Errorf("cannot map Go type %v to column type %v", rv.Type(), t)
}

// valueToReflect stores one cell into a struct field.
func valueToReflect(v Value, rv reflect.Value) error {
	if rv.Type() == valueGoType {
		rv.Set(reflect.ValueOf(v))
		return nil
	}
	if rv.Kind() == reflect.Pointer {
		if v.IsNull() {
			rv.SetZero()
			return nil
		}
		target := reflect.New(rv.Type().Elem())
		plain, _ := v.AsNonNullable()
		if err := valueToReflect(plain, target.Elem()); err != nil {
			return err
		}
		rv.Set(target)
		return nil
	}
	switch rv.Type() {
	case timeType:
		t, ok := v.Time()
		if !ok {
			return fmt.Errorf("cannot scan %v into time.Time", v.Kind())
		}
		rv.Set(reflect.ValueOf(t))
		return nil
	case uuidType:
		uid, ok := v.UUID()
		if !ok {
			return fmt.Errorf("cannot scan %v into uuid.UUID", v.Kind())
		}
		rv.Set(reflect.ValueOf(uid))
		return nil
	}
	switch rv.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		u, ok := v.Uint()
		if !ok {
			return scanError(v, rv)
		}
		rv.SetUint(u)
		return nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		i, ok := v.Int()
		if !ok {
			return scanError(v, rv)
		}
		rv.SetInt(i)
		return nil
	case reflect.Float32, reflect.Float64:
		f, ok := v.Float()
		if !ok {
			return scanError(v, rv)
		}
		rv.SetFloat(f)
		return nil
	case reflect.Bool:
		b, ok := v.Bool()
		if !ok {
			return scanError(v, rv)
		}
		rv.SetBool(b)
		return nil
	case reflect.String:
		s, ok := v.Str()
		if !ok {
			return scanError(v, rv)
		}
		rv.SetString(s)
		return nil
	case reflect.Slice:
		items, ok := v.List()
		if !ok {
			return scanError(v, rv)
		}
		out := reflect.MakeSlice(rv.Type(), len(items), len(items))
		for i, item := range items {
			if err := valueToReflect(item, out.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil
	case reflect.Map:
		entries, ok := v.Entries()
		if !ok {
			return scanError(v, rv)
		}
		out := reflect.MakeMapWithSize(rv.Type(), len(entries))
		for k, item := range entries {
			target := reflect.New(rv.Type().Elem()).Elem()
			if err := valueToReflect(item, target); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(k), target)
		}
		rv.Set(out)
		return nil
	}
	return scanError(v, rv)
}

func scanError(v Value, rv reflect.Value) error {
	return fmt.Errorf("cannot scan a %v value into a %v field", v.Kind(), rv.Type())
}

// InsertRows marshals a slice of tagged structs and inserts it.
func (c *Client) InsertRows(ctx context.Context, table string, slice interface{}) error {
	data, err := MarshalRows(slice)
	if err != nil {
		return err
	}
	return c.Insert(ctx, table, data)
}

// QueryRows runs a query and unmarshals the rows into a slice of tagged
// structs.
func (c *Client) QueryRows(ctx context.Context, dest interface{}, query string, args ...Value) error {
	data, err := c.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	return UnmarshalRows(data, dest)
}
