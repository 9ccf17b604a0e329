// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"database/sql/driver"
	"math"
	"strings"
	"time"
)

// bindDriverValues splices driver-level arguments into statement text, one
// SQL literal per [??] placeholder. An untyped nil renders as NULL.
func bindDriverValues(query string, args []driver.Value) (string, error) {
	n := strings.Count(query, Placeholder)
	if n != len(args) {
		return "", &ClickHouseError{
			Number:      ErrCodeBindMismatch,
			Message:     errMsgBindMismatch,
			MessageArgs: []interface{}{n, len(args)},
			Query:       query,
		}
	}
	var sb strings.Builder
	rest := query
	for _, arg := range args {
		before, after, _ := strings.Cut(rest, Placeholder)
		sb.WriteString(before)
		lit, err := driverValueLiteral(arg)
		if err != nil {
			return "", err
		}
		sb.WriteString(lit)
		rest = after
	}
	sb.WriteString(rest)
	return sb.String(), nil
}

func driverValueLiteral(arg driver.Value) (string, error) {
	if arg == nil {
		return "NULL", nil
	}
	v, err := valueFromDriver(arg)
	if err != nil {
		return "", err
	}
	return v.SQLString(), nil
}

// valueFromDriver converts a database/sql argument into a Value.
func valueFromDriver(arg driver.Value) (Value, error) {
	switch v := arg.(type) {
	case Value:
		return v, nil
	case int64:
		return Int64Value(v), nil
	case float64:
		return Float64Value(v), nil
	case bool:
		return BoolValue(v), nil
	case string:
		return StringValue(v), nil
	case []byte:
		return StringValue(string(v)), nil
	case time.Time:
		return DateTime64ValueFromTime(v, 9), nil
	}
	return Value{}, &ClickHouseError{
		Number:      ErrCodeValueMismatch,
		Message:     errMsgValueMismatch,
		MessageArgs: []interface{}{arg, "driver value"},
	}
}

// valueToDriver converts a result cell into one of the types database/sql
// hands to Scan. Values that do not fit a native type come back rendered as
// strings.
func valueToDriver(v Value) driver.Value {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case KindUInt8, KindUInt16, KindUInt32:
		u, _ := v.Uint()
		return int64(u)
	case KindUInt64:
		u, _ := v.Uint()
		if u > math.MaxInt64 {
			return v.String()
		}
		return int64(u)
	case KindInt8, KindInt16, KindInt32, KindInt64, KindEnum8, KindEnum16:
		i, _ := v.Int()
		return i
	case KindUInt128, KindUInt256, KindInt128, KindInt256:
		b, _ := v.BigInt()
		return b.String()
	case KindFloat32, KindFloat64:
		f, _ := v.Float()
		return f
	case KindBool:
		b, _ := v.Bool()
		return b
	case KindString, KindFixedString:
		s, _ := v.Str()
		return s
	case KindUUID:
		uid, _ := v.UUID()
		return uid.String()
	case KindDate, KindDate32, KindDateTime, KindDateTime64:
		t, _ := v.Time()
		return t
	}
	// containers come back rendered
	return v.String()
}
