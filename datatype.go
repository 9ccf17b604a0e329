// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// TypeKind discriminates the variants of a column Type.
type TypeKind int

const (
	KindUInt8 TypeKind = iota
	KindUInt16
	KindUInt32
	KindUInt64
	KindUInt128
	KindUInt256
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindInt128
	KindInt256
	KindFloat32
	KindFloat64
	KindDecimal
	KindDecimal32
	KindDecimal64
	KindDecimal128
	KindDecimal256
	KindBool
	KindString
	KindFixedString
	KindUUID
	KindDate
	KindDate32
	KindDateTime
	KindDateTime64
	KindEnum8
	KindEnum16
	KindArray
	KindTuple
	KindMap
	KindNested
)

var kindNames = map[TypeKind]string{
	KindUInt8:       "UInt8",
	KindUInt16:      "UInt16",
	KindUInt32:      "UInt32",
	KindUInt64:      "UInt64",
	KindUInt128:     "UInt128",
	KindUInt256:     "UInt256",
	KindInt8:        "Int8",
	KindInt16:       "Int16",
	KindInt32:       "Int32",
	KindInt64:       "Int64",
	KindInt128:      "Int128",
	KindInt256:      "Int256",
	KindFloat32:     "Float32",
	KindFloat64:     "Float64",
	KindDecimal:     "Decimal",
	KindDecimal32:   "Decimal32",
	KindDecimal64:   "Decimal64",
	KindDecimal128:  "Decimal128",
	KindDecimal256:  "Decimal256",
	KindBool:        "Bool",
	KindString:      "String",
	KindFixedString: "FixedString",
	KindUUID:        "UUID",
	KindDate:        "Date",
	KindDate32:      "Date32",
	KindDateTime:    "DateTime",
	KindDateTime64:  "DateTime64",
	KindEnum8:       "Enum8",
	KindEnum16:      "Enum16",
	KindArray:       "Array",
	KindTuple:       "Tuple",
	KindMap:         "Map",
	KindNested:      "Nested",
}

func (k TypeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// EnumVariant is one 'name' = index entry of an Enum8 or Enum16 type.
type EnumVariant struct {
	Name  string
	Index int16
}

// NestedField is one named column of a Nested type.
type NestedField struct {
	Name string
	Type Type
}

// Type describes a ClickHouse column type. The zero value is UInt8; every
// other variant is built through the exported constructors or ParseType.
//
// Types are plain values: cheap to copy, safe to share, compared with Equal.
type Type struct {
	kind     TypeKind
	nullable bool

	precision uint8         // Decimal precision, DateTime64 precision
	scale     uint8         // Decimal scale, incl. the width aliases
	length    int           // FixedString byte length
	variants  []EnumVariant // Enum8/Enum16, sorted by name
	key       *Type         // Map key
	elem      *Type         // Array element, Map value
	items     []Type        // Tuple members
	fields    []NestedField // Nested columns
}

// Non-parameterized types.
var (
	UInt8Type    = Type{kind: KindUInt8}
	UInt16Type   = Type{kind: KindUInt16}
	UInt32Type   = Type{kind: KindUInt32}
	UInt64Type   = Type{kind: KindUInt64}
	UInt128Type  = Type{kind: KindUInt128}
	UInt256Type  = Type{kind: KindUInt256}
	Int8Type     = Type{kind: KindInt8}
	Int16Type    = Type{kind: KindInt16}
	Int32Type    = Type{kind: KindInt32}
	Int64Type    = Type{kind: KindInt64}
	Int128Type   = Type{kind: KindInt128}
	Int256Type   = Type{kind: KindInt256}
	Float32Type  = Type{kind: KindFloat32}
	Float64Type  = Type{kind: KindFloat64}
	BoolType     = Type{kind: KindBool}
	StringType   = Type{kind: KindString}
	UUIDType     = Type{kind: KindUUID}
	DateType     = Type{kind: KindDate}
	Date32Type   = Type{kind: KindDate32}
	DateTimeType = Type{kind: KindDateTime}
)

// DecimalType returns a Decimal(precision, scale) type.
func DecimalType(precision, scale uint8) Type {
	return Type{kind: KindDecimal, precision: precision, scale: scale}
}

// Decimal32Type returns a Decimal32(scale) type.
func Decimal32Type(scale uint8) Type {
	return Type{kind: KindDecimal32, scale: scale}
}

// Decimal64Type returns a Decimal64(scale) type.
func Decimal64Type(scale uint8) Type {
	return Type{kind: KindDecimal64, scale: scale}
}

// Decimal128Type returns a Decimal128(scale) type.
func Decimal128Type(scale uint8) Type {
	return Type{kind: KindDecimal128, scale: scale}
}

// Decimal256Type returns a Decimal256(scale) type.
func Decimal256Type(scale uint8) Type {
	return Type{kind: KindDecimal256, scale: scale}
}

// FixedStringType returns a FixedString(length) type.
func FixedStringType(length int) Type {
	return Type{kind: KindFixedString, length: length}
}

// DateTime64Type returns a DateTime64(precision) type. Precision is the number
// of decimal subsecond places, 0 through 9, always UTC.
func DateTime64Type(precision uint8) Type {
	return Type{kind: KindDateTime64, precision: precision}
}

// Enum8Type returns an Enum8 type. Variants are stored in canonical order,
// sorted by name.
func Enum8Type(variants ...EnumVariant) Type {
	return Type{kind: KindEnum8, variants: sortVariants(variants)}
}

// Enum16Type returns an Enum16 type. Variants are stored in canonical order,
// sorted by name.
func Enum16Type(variants ...EnumVariant) Type {
	return Type{kind: KindEnum16, variants: sortVariants(variants)}
}

// ArrayType returns an Array(elem) type.
func ArrayType(elem Type) Type {
	return Type{kind: KindArray, elem: &elem}
}

// TupleType returns a Tuple(items...) type.
func TupleType(items ...Type) Type {
	return Type{kind: KindTuple, items: items}
}

// MapType returns a Map(key, value) type.
func MapType(key, value Type) Type {
	return Type{kind: KindMap, key: &key, elem: &value}
}

// NestedType returns a Nested(name Type, ...) type.
func NestedType(fields ...NestedField) Type {
	return Type{kind: KindNested, fields: fields}
}

func sortVariants(variants []EnumVariant) []EnumVariant {
	sorted := make([]EnumVariant, len(variants))
	copy(sorted, variants)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return sorted
}

// Kind returns the type's variant tag.
func (t Type) Kind() TypeKind {
	return t.kind
}

// IsNullable reports whether the type is in the Nullable family.
func (t Type) IsNullable() bool {
	return t.nullable
}

// IsContainer reports whether the type is Array, Tuple, Map or Nested.
// Container types have no Nullable counterpart.
func (t Type) IsContainer() bool {
	switch t.kind {
	case KindArray, KindTuple, KindMap, KindNested:
		return true
	}
	return false
}

// Nullable returns the Nullable counterpart of the type. The second return is
// false for container types, which have none.
func (t Type) Nullable() (Type, bool) {
	if t.IsContainer() {
		return Type{}, false
	}
	t.nullable = true
	return t, true
}

// NonNullable returns the non-nullable counterpart of the type.
func (t Type) NonNullable() Type {
	t.nullable = false
	return t
}

// Elem returns the element type of an Array, or the value type of a Map.
func (t Type) Elem() (Type, bool) {
	if t.elem == nil {
		return Type{}, false
	}
	return *t.elem, true
}

// KeyType returns the key type of a Map.
func (t Type) KeyType() (Type, bool) {
	if t.key == nil {
		return Type{}, false
	}
	return *t.key, true
}

// Items returns the member types of a Tuple.
func (t Type) Items() []Type {
	return t.items
}

// Fields returns the named columns of a Nested type.
func (t Type) Fields() []NestedField {
	return t.fields
}

// Variants returns the entries of an Enum8 or Enum16 type in canonical order.
func (t Type) Variants() []EnumVariant {
	return t.variants
}

// Precision returns the Decimal precision or the DateTime64 precision.
func (t Type) Precision() uint8 {
	return t.precision
}

// Scale returns the Decimal scale.
func (t Type) Scale() uint8 {
	return t.scale
}

// Length returns the FixedString byte length.
func (t Type) Length() int {
	return t.length
}

// Equal reports whether two types are structurally identical.
func (t Type) Equal(other Type) bool {
	return reflect.DeepEqual(t, other)
}

// hasVariantIndex reports whether idx names a variant of an enum type.
func (t Type) hasVariantIndex(idx int16) bool {
	for _, v := range t.variants {
		if v.Index == idx {
			return true
		}
	}
	return false
}

// String returns the canonical ClickHouse type string. ParseType(t.String())
// reconstructs t for every constructible type.
func (t Type) String() string {
	s := t.baseString()
	if t.nullable {
		return "Nullable(" + s + ")"
	}
	return s
}

func (t Type) baseString() string {
	switch t.kind {
	case KindDecimal:
		return fmt.Sprintf("Decimal(%d,%d)", t.precision, t.scale)
	case KindDecimal32, KindDecimal64, KindDecimal128, KindDecimal256:
		return fmt.Sprintf("%v(%d)", t.kind, t.scale)
	case KindFixedString:
		return fmt.Sprintf("FixedString(%d)", t.length)
	case KindDateTime64:
		return fmt.Sprintf("DateTime64(%d)", t.precision)
	case KindEnum8, KindEnum16:
		entries := make([]string, len(t.variants))
		for i, v := range t.variants {
			entries[i] = fmt.Sprintf("'%s' = %d", v.Name, v.Index)
		}
		return fmt.Sprintf("%v(%s)", t.kind, strings.Join(entries, ", "))
	case KindArray:
		return "Array(" + t.elem.String() + ")"
	case KindTuple:
		inner := make([]string, len(t.items))
		for i, it := range t.items {
			inner[i] = it.String()
		}
		return "Tuple(" + strings.Join(inner, ", ") + ")"
	case KindMap:
		return "Map(" + t.key.String() + ", " + t.elem.String() + ")"
	case KindNested:
		inner := make([]string, len(t.fields))
		for i, f := range t.fields {
			inner[i] = f.Name + " " + f.Type.String()
		}
		return "Nested(" + strings.Join(inner, ", ") + ")"
	default:
		return t.kind.String()
	}
}

var simpleTypes = map[string]Type{
	"UInt8":    UInt8Type,
	"UInt16":   UInt16Type,
	"UInt32":   UInt32Type,
	"UInt64":   UInt64Type,
	"UInt128":  UInt128Type,
	"UInt256":  UInt256Type,
	"Int8":     Int8Type,
	"Int16":    Int16Type,
	"Int32":    Int32Type,
	"Int64":    Int64Type,
	"Int128":   Int128Type,
	"Int256":   Int256Type,
	"Float32":  Float32Type,
	"Float64":  Float64Type,
	"Bool":     BoolType,
	"String":   StringType,
	"UUID":     UUIDType,
	"Date":     DateType,
	"Date32":   Date32Type,
	"DateTime": DateTimeType,
}

func errUnrecognizedType(s string) error {
	return &ClickHouseError{
		Number:      ErrCodeUnrecognizedType,
		Message:     errMsgUnrecognizedType,
		MessageArgs: []interface{}{s},
	}
}

func errMalformedType(name, s string) error {
	return &ClickHouseError{
		Number:      ErrCodeMalformedTypeArguments,
		Message:     errMsgMalformedTypeArguments,
		MessageArgs: []interface{}{name, s},
	}
}

// ParseType parses the canonical ClickHouse type string grammar.
func ParseType(s string) (Type, error) {
	// non-parameterized types
	if t, ok := simpleTypes[s]; ok {
		return t, nil
	}

	// Nullable(T)
	if inner, ok := typeArgs(s, "Nullable"); ok {
		t, err := ParseType(inner)
		if err != nil {
			return Type{}, err
		}
		nt, ok := t.Nullable()
		if !ok || t.nullable {
			return Type{}, errMalformedType("Nullable", s)
		}
		return nt, nil
	}

	// Decimal(P, S)
	if inner, ok := typeArgs(s, "Decimal"); ok {
		parts := splitTypeArgs(inner)
		if len(parts) != 2 {
			return Type{}, errMalformedType("Decimal", s)
		}
		p, err1 := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 8)
		sc, err2 := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 8)
		if err1 != nil || err2 != nil {
			return Type{}, errMalformedType("Decimal", s)
		}
		return DecimalType(uint8(p), uint8(sc)), nil
	}

	// Decimal32(S) .. Decimal256(S)
	for name, mk := range decimalAliases {
		if inner, ok := typeArgs(s, name); ok {
			sc, err := strconv.ParseUint(strings.TrimSpace(inner), 10, 8)
			if err != nil {
				return Type{}, errMalformedType(name, s)
			}
			return mk(uint8(sc)), nil
		}
	}

	// FixedString(N)
	if inner, ok := typeArgs(s, "FixedString"); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(inner), 10, 32)
		if err != nil {
			return Type{}, errMalformedType("FixedString", s)
		}
		return FixedStringType(int(n)), nil
	}

	// DateTime64(P)
	if inner, ok := typeArgs(s, "DateTime64"); ok {
		p, err := strconv.ParseUint(strings.TrimSpace(inner), 10, 8)
		if err != nil || p > 9 {
			return Type{}, errMalformedType("DateTime64", s)
		}
		return DateTime64Type(uint8(p)), nil
	}

	// Enum8(...) / Enum16(...); bare Enum is an Enum16 alias
	for _, name := range [...]string{"Enum8", "Enum16", "Enum"} {
		if inner, ok := typeArgs(s, name); ok {
			return parseEnumType(name, inner, s)
		}
	}

	// Array(T)
	if inner, ok := typeArgs(s, "Array"); ok {
		elem, err := ParseType(strings.TrimSpace(inner))
		if err != nil {
			return Type{}, err
		}
		return ArrayType(elem), nil
	}

	// Tuple(T1, T2, ...)
	if inner, ok := typeArgs(s, "Tuple"); ok {
		parts := splitTypeArgs(inner)
		items := make([]Type, 0, len(parts))
		for _, part := range parts {
			it, err := ParseType(strings.TrimSpace(part))
			if err != nil {
				return Type{}, err
			}
			items = append(items, it)
		}
		return TupleType(items...), nil
	}

	// Map(K, V)
	if inner, ok := typeArgs(s, "Map"); ok {
		parts := splitTypeArgs(inner)
		if len(parts) != 2 {
			return Type{}, errMalformedType("Map", s)
		}
		key, err := ParseType(strings.TrimSpace(parts[0]))
		if err != nil {
			return Type{}, err
		}
		value, err := ParseType(strings.TrimSpace(parts[1]))
		if err != nil {
			return Type{}, err
		}
		return MapType(key, value), nil
	}

	// Nested(name1 T1, name2 T2, ...)
	if inner, ok := typeArgs(s, "Nested"); ok {
		parts := splitTypeArgs(inner)
		fields := make([]NestedField, 0, len(parts))
		for _, part := range parts {
			name, tyStr, found := strings.Cut(strings.TrimSpace(part), " ")
			if !found {
				return Type{}, errMalformedType("Nested", s)
			}
			ft, err := ParseType(strings.TrimSpace(tyStr))
			if err != nil {
				return Type{}, err
			}
			fields = append(fields, NestedField{Name: name, Type: ft})
		}
		return NestedType(fields...), nil
	}

	return Type{}, errUnrecognizedType(s)
}

var decimalAliases = map[string]func(uint8) Type{
	"Decimal32":  Decimal32Type,
	"Decimal64":  Decimal64Type,
	"Decimal128": Decimal128Type,
	"Decimal256": Decimal256Type,
}

func parseEnumType(name, inner, whole string) (Type, error) {
	entries := splitTypeArgs(inner)
	if len(entries) == 0 || (len(entries) == 1 && strings.TrimSpace(entries[0]) == "") {
		return Type{}, errMalformedType(name, whole)
	}
	width := 16
	if name == "Enum8" {
		width = 8
	}
	seenNames := map[string]bool{}
	seenIndices := map[int16]bool{}
	variants := make([]EnumVariant, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		// 'name' = index
		open := strings.IndexByte(entry, '\'')
		if open != 0 {
			return Type{}, errMalformedType(name, whole)
		}
		close := strings.IndexByte(entry[1:], '\'')
		if close < 0 {
			return Type{}, errMalformedType(name, whole)
		}
		variant := entry[1 : 1+close]
		rest := strings.TrimSpace(entry[close+2:])
		idxStr, found := strings.CutPrefix(rest, "=")
		if !found {
			return Type{}, errMalformedType(name, whole)
		}
		idx, err := strconv.ParseInt(strings.TrimSpace(idxStr), 10, width)
		if err != nil {
			return Type{}, errMalformedType(name, whole)
		}
		if seenNames[variant] || seenIndices[int16(idx)] {
			return Type{}, errMalformedType(name, whole)
		}
		seenNames[variant] = true
		seenIndices[int16(idx)] = true
		variants = append(variants, EnumVariant{Name: variant, Index: int16(idx)})
	}
	if name == "Enum8" {
		return Enum8Type(variants...), nil
	}
	return Enum16Type(variants...), nil
}

// typeArgs strips a "Name(" prefix and the final ")" from s. The closing
// parenthesis must be the last character of the input.
func typeArgs(s, name string) (string, bool) {
	inner, ok := strings.CutPrefix(s, name+"(")
	if !ok {
		return "", false
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return "", false
	}
	return inner, true
}

// splitTypeArgs splits a type argument list on top-level commas, leaving
// commas inside parentheses or single quotes alone.
func splitTypeArgs(s string) []string {
	var parts []string
	depth := 0
	quoted := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			quoted = !quoted
		case '(':
			if !quoted {
				depth++
			}
		case ')':
			if !quoted {
				depth--
			}
		case ',':
			if !quoted && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
