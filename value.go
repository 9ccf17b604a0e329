// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Value is a single ClickHouse cell. It is a tagged union over the same
// variants as Type, with a nullable form for every non-container variant.
//
// Values are immutable once constructed and compared with Equal.
type Value struct {
	kind     TypeKind
	nullable bool
	null     bool

	u    uint64           // UInt8..UInt64, Date, DateTime
	i    int64            // Int8..Int64, Date32, DateTime64 ticks, Enum8/16 index
	f    float64          // Float32, Float64
	b    bool             // Bool
	s    string           // String, FixedString
	big  *big.Int         // UInt128/256, Int128/256
	uid  uuid.UUID        // UUID
	prec uint8            // DateTime64 precision
	list []Value          // Array, Tuple
	m    map[string]Value // Map, Nested
}

// UInt8Value returns a UInt8 value.
func UInt8Value(v uint8) Value { return Value{kind: KindUInt8, u: uint64(v)} }

// UInt16Value returns a UInt16 value.
func UInt16Value(v uint16) Value { return Value{kind: KindUInt16, u: uint64(v)} }

// UInt32Value returns a UInt32 value.
func UInt32Value(v uint32) Value { return Value{kind: KindUInt32, u: uint64(v)} }

// UInt64Value returns a UInt64 value.
func UInt64Value(v uint64) Value { return Value{kind: KindUInt64, u: v} }

// UInt128Value returns a UInt128 value. The big.Int is copied.
func UInt128Value(v *big.Int) Value {
	return Value{kind: KindUInt128, big: new(big.Int).Set(v)}
}

// UInt256Value returns a UInt256 value. The big.Int is copied.
func UInt256Value(v *big.Int) Value {
	return Value{kind: KindUInt256, big: new(big.Int).Set(v)}
}

// Int8Value returns an Int8 value.
func Int8Value(v int8) Value { return Value{kind: KindInt8, i: int64(v)} }

// Int16Value returns an Int16 value.
func Int16Value(v int16) Value { return Value{kind: KindInt16, i: int64(v)} }

// Int32Value returns an Int32 value.
func Int32Value(v int32) Value { return Value{kind: KindInt32, i: int64(v)} }

// Int64Value returns an Int64 value.
func Int64Value(v int64) Value { return Value{kind: KindInt64, i: v} }

// Int128Value returns an Int128 value. The big.Int is copied.
func Int128Value(v *big.Int) Value {
	return Value{kind: KindInt128, big: new(big.Int).Set(v)}
}

// Int256Value returns an Int256 value. The big.Int is copied.
func Int256Value(v *big.Int) Value {
	return Value{kind: KindInt256, big: new(big.Int).Set(v)}
}

// Float32Value returns a Float32 value.
func Float32Value(v float32) Value { return Value{kind: KindFloat32, f: float64(v)} }

// Float64Value returns a Float64 value.
func Float64Value(v float64) Value { return Value{kind: KindFloat64, f: v} }

// BoolValue returns a Bool value.
func BoolValue(v bool) Value { return Value{kind: KindBool, b: v} }

// StringValue returns a String value.
func StringValue(v string) Value { return Value{kind: KindString, s: v} }

// FixedStringValue returns a FixedString value. The byte length is fixed by
// the column type, not by the value.
func FixedStringValue(v string) Value { return Value{kind: KindFixedString, s: v} }

// UUIDValue returns a UUID value.
func UUIDValue(v uuid.UUID) Value { return Value{kind: KindUUID, uid: v} }

// DateValue returns a Date value holding days since the Unix epoch.
func DateValue(days uint16) Value { return Value{kind: KindDate, u: uint64(days)} }

// Date32Value returns a Date32 value holding days relative to the Unix epoch.
func Date32Value(days int32) Value { return Value{kind: KindDate32, i: int64(days)} }

// DateTimeValue returns a DateTime value holding seconds since the Unix epoch.
func DateTimeValue(seconds uint32) Value { return Value{kind: KindDateTime, u: uint64(seconds)} }

// DateTime64Value returns a DateTime64 value holding subsecond ticks since the
// Unix epoch at the given precision. Ticks are 10^-precision second units.
func DateTime64Value(ticks int64, precision uint8) Value {
	return Value{kind: KindDateTime64, i: ticks, prec: precision}
}

// Enum8Value returns an Enum8 value holding a variant index. Membership in the
// column's variant set is checked when the value meets its Type.
func Enum8Value(index int8) Value { return Value{kind: KindEnum8, i: int64(index)} }

// Enum16Value returns an Enum16 value holding a variant index.
func Enum16Value(index int16) Value { return Value{kind: KindEnum16, i: int64(index)} }

// ArrayValue returns an Array value.
func ArrayValue(items ...Value) Value { return Value{kind: KindArray, list: items} }

// TupleValue returns a Tuple value.
func TupleValue(items ...Value) Value { return Value{kind: KindTuple, list: items} }

// MapValue returns a Map value. Map keys are strings.
func MapValue(entries map[string]Value) Value { return Value{kind: KindMap, m: entries} }

// NestedValue returns a Nested value, one entry per nested column.
func NestedValue(entries map[string]Value) Value { return Value{kind: KindNested, m: entries} }

// NullValue returns the null value of the given type's nullable form. The
// second return is false for container types, which have no nullable form.
func NullValue(t Type) (Value, bool) {
	if t.IsContainer() {
		return Value{}, false
	}
	return Value{kind: t.kind, nullable: true, null: true, prec: t.precision}, true
}

// NullableUInt8Value returns a nullable UInt8 value, null when v is nil.
func NullableUInt8Value(v *uint8) Value {
	if v == nil {
		return Value{kind: KindUInt8, nullable: true, null: true}
	}
	return Value{kind: KindUInt8, nullable: true, u: uint64(*v)}
}

// NullableUInt16Value returns a nullable UInt16 value, null when v is nil.
func NullableUInt16Value(v *uint16) Value {
	if v == nil {
		return Value{kind: KindUInt16, nullable: true, null: true}
	}
	return Value{kind: KindUInt16, nullable: true, u: uint64(*v)}
}

// NullableUInt32Value returns a nullable UInt32 value, null when v is nil.
func NullableUInt32Value(v *uint32) Value {
	if v == nil {
		return Value{kind: KindUInt32, nullable: true, null: true}
	}
	return Value{kind: KindUInt32, nullable: true, u: uint64(*v)}
}

// NullableUInt64Value returns a nullable UInt64 value, null when v is nil.
func NullableUInt64Value(v *uint64) Value {
	if v == nil {
		return Value{kind: KindUInt64, nullable: true, null: true}
	}
	return Value{kind: KindUInt64, nullable: true, u: *v}
}

// NullableUInt128Value returns a nullable UInt128 value, null when v is nil.
func NullableUInt128Value(v *big.Int) Value {
	if v == nil {
		return Value{kind: KindUInt128, nullable: true, null: true}
	}
	return Value{kind: KindUInt128, nullable: true, big: new(big.Int).Set(v)}
}

// NullableUInt256Value returns a nullable UInt256 value, null when v is nil.
func NullableUInt256Value(v *big.Int) Value {
	if v == nil {
		return Value{kind: KindUInt256, nullable: true, null: true}
	}
	return Value{kind: KindUInt256, nullable: true, big: new(big.Int).Set(v)}
}

// NullableInt8Value returns a nullable Int8 value, null when v is nil.
func NullableInt8Value(v *int8) Value {
	if v == nil {
		return Value{kind: KindInt8, nullable: true, null: true}
	}
	return Value{kind: KindInt8, nullable: true, i: int64(*v)}
}

// NullableInt16Value returns a nullable Int16 value, null when v is nil.
func NullableInt16Value(v *int16) Value {
	if v == nil {
		return Value{kind: KindInt16, nullable: true, null: true}
	}
	return Value{kind: KindInt16, nullable: true, i: int64(*v)}
}

// NullableInt32Value returns a nullable Int32 value, null when v is nil.
func NullableInt32Value(v *int32) Value {
	if v == nil {
		return Value{kind: KindInt32, nullable: true, null: true}
	}
	return Value{kind: KindInt32, nullable: true, i: int64(*v)}
}

// NullableInt64Value returns a nullable Int64 value, null when v is nil.
func NullableInt64Value(v *int64) Value {
	if v == nil {
		return Value{kind: KindInt64, nullable: true, null: true}
	}
	return Value{kind: KindInt64, nullable: true, i: *v}
}

// NullableInt128Value returns a nullable Int128 value, null when v is nil.
func NullableInt128Value(v *big.Int) Value {
	if v == nil {
		return Value{kind: KindInt128, nullable: true, null: true}
	}
	return Value{kind: KindInt128, nullable: true, big: new(big.Int).Set(v)}
}

// NullableInt256Value returns a nullable Int256 value, null when v is nil.
func NullableInt256Value(v *big.Int) Value {
	if v == nil {
		return Value{kind: KindInt256, nullable: true, null: true}
	}
	return Value{kind: KindInt256, nullable: true, big: new(big.Int).Set(v)}
}

// NullableFloat32Value returns a nullable Float32 value, null when v is nil.
func NullableFloat32Value(v *float32) Value {
	if v == nil {
		return Value{kind: KindFloat32, nullable: true, null: true}
	}
	return Value{kind: KindFloat32, nullable: true, f: float64(*v)}
}

// NullableFloat64Value returns a nullable Float64 value, null when v is nil.
func NullableFloat64Value(v *float64) Value {
	if v == nil {
		return Value{kind: KindFloat64, nullable: true, null: true}
	}
	return Value{kind: KindFloat64, nullable: true, f: *v}
}

// NullableBoolValue returns a nullable Bool value, null when v is nil.
func NullableBoolValue(v *bool) Value {
	if v == nil {
		return Value{kind: KindBool, nullable: true, null: true}
	}
	return Value{kind: KindBool, nullable: true, b: *v}
}

// NullableStringValue returns a nullable String value, null when v is nil.
func NullableStringValue(v *string) Value {
	if v == nil {
		return Value{kind: KindString, nullable: true, null: true}
	}
	return Value{kind: KindString, nullable: true, s: *v}
}

// NullableFixedStringValue returns a nullable FixedString value, null when v
// is nil.
func NullableFixedStringValue(v *string) Value {
	if v == nil {
		return Value{kind: KindFixedString, nullable: true, null: true}
	}
	return Value{kind: KindFixedString, nullable: true, s: *v}
}

// NullableUUIDValue returns a nullable UUID value, null when v is nil.
func NullableUUIDValue(v *uuid.UUID) Value {
	if v == nil {
		return Value{kind: KindUUID, nullable: true, null: true}
	}
	return Value{kind: KindUUID, nullable: true, uid: *v}
}

// NullableDateValue returns a nullable Date value, null when v is nil.
func NullableDateValue(v *uint16) Value {
	if v == nil {
		return Value{kind: KindDate, nullable: true, null: true}
	}
	return Value{kind: KindDate, nullable: true, u: uint64(*v)}
}

// NullableDate32Value returns a nullable Date32 value, null when v is nil.
func NullableDate32Value(v *int32) Value {
	if v == nil {
		return Value{kind: KindDate32, nullable: true, null: true}
	}
	return Value{kind: KindDate32, nullable: true, i: int64(*v)}
}

// NullableDateTimeValue returns a nullable DateTime value, null when v is nil.
func NullableDateTimeValue(v *uint32) Value {
	if v == nil {
		return Value{kind: KindDateTime, nullable: true, null: true}
	}
	return Value{kind: KindDateTime, nullable: true, u: uint64(*v)}
}

// NullableDateTime64Value returns a nullable DateTime64 value, null when v is
// nil.
func NullableDateTime64Value(v *int64, precision uint8) Value {
	if v == nil {
		return Value{kind: KindDateTime64, nullable: true, null: true, prec: precision}
	}
	return Value{kind: KindDateTime64, nullable: true, i: *v, prec: precision}
}

// NullableEnum8Value returns a nullable Enum8 value, null when v is nil.
func NullableEnum8Value(v *int8) Value {
	if v == nil {
		return Value{kind: KindEnum8, nullable: true, null: true}
	}
	return Value{kind: KindEnum8, nullable: true, i: int64(*v)}
}

// NullableEnum16Value returns a nullable Enum16 value, null when v is nil.
func NullableEnum16Value(v *int16) Value {
	if v == nil {
		return Value{kind: KindEnum16, nullable: true, null: true}
	}
	return Value{kind: KindEnum16, nullable: true, i: int64(*v)}
}

// Kind returns the value's variant tag.
func (v Value) Kind() TypeKind {
	return v.kind
}

// IsNullable reports whether the value is in the nullable family.
func (v Value) IsNullable() bool {
	return v.nullable
}

// IsNull reports whether the value is an absent nullable value.
func (v Value) IsNull() bool {
	return v.null
}

// AsNullable returns the nullable counterpart of the value. The second return
// is false for container values.
func (v Value) AsNullable() (Value, bool) {
	switch v.kind {
	case KindArray, KindTuple, KindMap, KindNested:
		return Value{}, false
	}
	v.nullable = true
	return v, true
}

// AsNonNullable returns the plain counterpart of a present nullable value. The
// second return is false when the value is null.
func (v Value) AsNonNullable() (Value, bool) {
	if v.null {
		return Value{}, false
	}
	v.nullable = false
	return v, true
}

// Uint returns the unsigned payload of a UInt8..UInt64, Date or DateTime
// value.
func (v Value) Uint() (uint64, bool) {
	switch v.kind {
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64, KindDate, KindDateTime:
		return v.u, !v.null
	}
	return 0, false
}

// Int returns the signed payload of an Int8..Int64, Date32, DateTime64, Enum8
// or Enum16 value.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInt8, KindInt16, KindInt32, KindInt64, KindDate32, KindDateTime64, KindEnum8, KindEnum16:
		return v.i, !v.null
	}
	return 0, false
}

// Float returns the payload of a Float32 or Float64 value.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat32, KindFloat64:
		return v.f, !v.null
	}
	return 0, false
}

// Bool returns the payload of a Bool value.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, !v.null
}

// Str returns the payload of a String or FixedString value.
func (v Value) Str() (string, bool) {
	switch v.kind {
	case KindString, KindFixedString:
		return v.s, !v.null
	}
	return "", false
}

// BigInt returns a copy of the payload of a 128- or 256-bit integer value.
func (v Value) BigInt() (*big.Int, bool) {
	switch v.kind {
	case KindUInt128, KindUInt256, KindInt128, KindInt256:
		if v.null || v.big == nil {
			return nil, false
		}
		return new(big.Int).Set(v.big), true
	}
	return nil, false
}

// UUID returns the payload of a UUID value.
func (v Value) UUID() (uuid.UUID, bool) {
	if v.kind != KindUUID {
		return uuid.UUID{}, false
	}
	return v.uid, !v.null
}

// Precision returns the DateTime64 precision.
func (v Value) Precision() uint8 {
	return v.prec
}

// List returns the items of an Array or Tuple value.
func (v Value) List() ([]Value, bool) {
	switch v.kind {
	case KindArray, KindTuple:
		return v.list, true
	}
	return nil, false
}

// Entries returns the entries of a Map or Nested value.
func (v Value) Entries() (map[string]Value, bool) {
	switch v.kind {
	case KindMap, KindNested:
		return v.m, true
	}
	return nil, false
}

// sortedKeys returns the Map or Nested keys in lexicographic order. Both
// codecs emit entries in this order so output is deterministic.
func (v Value) sortedKeys() []string {
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether two values are identical in kind, nullability and
// payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind || v.nullable != other.nullable || v.null != other.null {
		return false
	}
	if v.null {
		return v.prec == other.prec
	}
	switch v.kind {
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64, KindDate, KindDateTime:
		return v.u == other.u
	case KindInt8, KindInt16, KindInt32, KindInt64, KindDate32, KindEnum8, KindEnum16:
		return v.i == other.i
	case KindDateTime64:
		return v.i == other.i && v.prec == other.prec
	case KindFloat32, KindFloat64:
		return v.f == other.f
	case KindBool:
		return v.b == other.b
	case KindString, KindFixedString:
		return v.s == other.s
	case KindUInt128, KindUInt256, KindInt128, KindInt256:
		return v.big.Cmp(other.big) == 0
	case KindUUID:
		return v.uid == other.uid
	case KindArray, KindTuple:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap, KindNested:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, item := range v.m {
			o, ok := other.m[k]
			if !ok || !item.Equal(o) {
				return false
			}
		}
		return true
	}
	return false
}

// matchesType reports whether the value can be encoded against the type. The
// check is shallow for containers; element shapes are verified as the codecs
// recurse with the element types.
func (v Value) matchesType(t Type) bool {
	if v.kind != t.kind || v.nullable != t.nullable {
		return false
	}
	if v.kind == KindDateTime64 && !v.null && v.prec != t.precision {
		return false
	}
	return true
}

// MatchesType reports whether the value is interpretable against the type.
// Unlike the shallow codec check, containers are verified recursively: array
// and map members against the element type, tuples positionally, nested
// entries against the declared field set, and enum indices against the
// declared variants.
func (v Value) MatchesType(t Type) bool {
	if !v.matchesType(t) {
		return false
	}
	if v.null {
		return true
	}
	switch v.kind {
	case KindFixedString:
		return len(v.s) == t.length
	case KindEnum8, KindEnum16:
		return t.hasVariantIndex(int16(v.i))
	case KindArray:
		elem, ok := t.Elem()
		if !ok {
			return false
		}
		for _, item := range v.list {
			if !item.MatchesType(elem) {
				return false
			}
		}
		return true
	case KindTuple:
		if len(v.list) != len(t.items) {
			return false
		}
		for i, item := range v.list {
			if !item.MatchesType(t.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		elem, ok := t.Elem()
		if !ok {
			return false
		}
		for _, item := range v.m {
			if !item.MatchesType(elem) {
				return false
			}
		}
		return true
	case KindNested:
		fieldTypes := make(map[string]Type, len(t.fields))
		for _, field := range t.fields {
			fieldTypes[field.Name] = field.Type
		}
		for name, item := range v.m {
			ft, ok := fieldTypes[name]
			if !ok || !item.MatchesType(ft) {
				return false
			}
		}
		return true
	}
	return true
}

func errValueMismatch(v Value, t Type) error {
	return &ClickHouseError{
		Number:      ErrCodeValueMismatch,
		Message:     errMsgValueMismatch,
		MessageArgs: []interface{}{v.kind, t},
	}
}

// String renders the value for display. Strings are unquoted at the top
// level; container entries follow the ClickHouse literal shapes.
func (v Value) String() string {
	if v.null {
		return "NULL"
	}
	switch v.kind {
	case KindString, KindFixedString:
		return v.s
	default:
		return v.literalString()
	}
}

func (v Value) literalString() string {
	if v.null {
		return "NULL"
	}
	switch v.kind {
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64:
		return strconv.FormatUint(v.u, 10)
	case KindInt8, KindInt16, KindInt32, KindInt64, KindEnum8, KindEnum16:
		return strconv.FormatInt(v.i, 10)
	case KindUInt128, KindUInt256, KindInt128, KindInt256:
		return v.big.String()
	case KindFloat32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString, KindFixedString:
		return "'" + sqlEscapeString(v.s) + "'"
	case KindUUID:
		return "'" + v.uid.String() + "'"
	case KindDate:
		return "'" + formatDateDays(int64(v.u)) + "'"
	case KindDate32:
		return "'" + formatDateDays(v.i) + "'"
	case KindDateTime:
		return "'" + formatDateTimeSeconds(int64(v.u)) + "'"
	case KindDateTime64:
		return "'" + formatDateTime64Ticks(v.i, v.prec) + "'"
	case KindArray:
		return "[" + v.joinList() + "]"
	case KindTuple:
		return "(" + v.joinList() + ")"
	case KindMap, KindNested:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, k := range v.sortedKeys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("'" + sqlEscapeString(k) + "': ")
			sb.WriteString(v.m[k].literalString())
		}
		sb.WriteByte('}')
		return sb.String()
	}
	return "?"
}

func (v Value) joinList() string {
	parts := make([]string, len(v.list))
	for i, item := range v.list {
		parts[i] = item.literalString()
	}
	return strings.Join(parts, ", ")
}

// SQLString renders the value as a ClickHouse SQL literal, suitable for
// splicing into statement text.
func (v Value) SQLString() string {
	return v.literalString()
}

// sqlEscapeString escapes backslashes and single quotes for SQL literals.
func sqlEscapeString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
