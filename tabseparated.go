// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// tabSeparatedFormatter implements the TabSeparated format family. Cells are
// separated by tabs, rows by newlines, NULL is \N. The raw variants skip
// string escaping.
type tabSeparatedFormatter struct {
	header headerMode
	raw    bool
}

const tsvNull = `\N`

func errMalformedValue(s string, t Type) error {
	return &ClickHouseError{
		Number:      ErrCodeMalformedValue,
		Message:     errMsgMalformedValue,
		MessageArgs: []interface{}{s, t},
	}
}

func (f *tabSeparatedFormatter) SerializeValue(v Value, t Type) ([]byte, error) {
	if !v.matchesType(t) {
		return nil, errValueMismatch(v, t)
	}
	if (t.kind == KindEnum8 || t.kind == KindEnum16) && !v.null && !t.hasVariantIndex(int16(v.i)) {
		return nil, errEnumOutOfRange(v.i, t)
	}
	return []byte(f.formatValue(v, false)), nil
}

func (f *tabSeparatedFormatter) DeserializeValue(data []byte, t Type) (Value, error) {
	if !utf8.Valid(data) {
		return Value{}, errInvalidUTF8()
	}
	return f.parseValue(string(data), t, false)
}

func (f *tabSeparatedFormatter) SerializeQueryData(qd *QueryData) ([]byte, error) {
	var sb strings.Builder
	if f.header >= headerNames {
		names, err := qd.headerNames()
		if err != nil {
			return nil, err
		}
		writeTSVRow(&sb, names)
	}
	if f.header == headerNamesAndTypes {
		types, err := qd.headerTypes()
		if err != nil {
			return nil, err
		}
		cells := make([]string, len(types))
		for i, t := range types {
			cells[i] = t.String()
		}
		writeTSVRow(&sb, cells)
	}
	for _, row := range qd.Rows() {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = f.formatValue(v, false)
		}
		writeTSVRow(&sb, cells)
	}
	return []byte(sb.String()), nil
}

// writeTSVRow joins cells with tabs and terminates the row with a newline,
// the last row included.
func writeTSVRow(sb *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			sb.WriteByte('\t')
		}
		sb.WriteString(cell)
	}
	sb.WriteByte('\n')
}

func (f *tabSeparatedFormatter) DeserializeQueryData(data []byte, columns []Column) (*QueryData, error) {
	if !utf8.Valid(data) {
		return nil, errInvalidUTF8()
	}
	rows := strings.Split(string(data), "\n")

	var names []string
	var types []Type
	if f.header >= headerNames {
		if len(rows) == 0 || rows[0] == "" {
			return nil, errTruncated(string(FormatTabSeparated), "names header")
		}
		names = strings.Split(rows[0], "\t")
		rows = rows[1:]
	}
	if f.header == headerNamesAndTypes {
		if len(rows) == 0 || rows[0] == "" {
			return nil, errTruncated(string(FormatTabSeparated), "types header")
		}
		cells := strings.Split(rows[0], "\t")
		rows = rows[1:]
		if len(cells) < len(names) {
			return nil, &ClickHouseError{
				Number:  ErrCodeMissingColumnTypes,
				Message: errMsgHeaderShorterThanNames,
			}
		}
		types = make([]Type, len(cells))
		for i, cell := range cells {
			t, err := ParseType(cell)
			if err != nil {
				return nil, err
			}
			types[i] = t
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
		if names == nil {
			names = columnNamesOf(columns)
		}
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
	for _, rowStr := range rows {
		if rowStr == "" {
			break
		}
		cells := strings.Split(rowStr, "\t")
		row := make([]Value, len(cells))
		for i, cell := range cells {
			if i >= len(types) {
				return nil, &ClickHouseError{
					Number:      ErrCodeMissingTypeMapping,
					Message:     errMsgNoTypeForColumn,
					MessageArgs: []interface{}{i},
				}
			}
			v, err := f.parseValue(cell, types[i], false)
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

// formatValue renders one cell. Strings, dates and datetimes are enclosed in
// single quotes when they appear inside a container, never at the top level.
func (f *tabSeparatedFormatter) formatValue(v Value, withinContainer bool) string {
	if v.null {
		return tsvNull
	}
	switch v.kind {
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64:
		return strconv.FormatUint(v.u, 10)
	case KindInt8, KindInt16, KindInt32, KindInt64:
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
		s := v.s
		if !f.raw {
			s = tsvEscape(s)
		}
		return encloseIf(s, withinContainer)
	case KindUUID:
		return v.uid.String()
	case KindDate:
		return encloseIf(formatDateDays(int64(v.u)), withinContainer)
	case KindDate32:
		return encloseIf(formatDateDays(v.i), withinContainer)
	case KindDateTime:
		return encloseIf(formatDateTimeSeconds(int64(v.u)), withinContainer)
	case KindDateTime64:
		return encloseIf(formatDateTime64Ticks(v.i, v.prec), withinContainer)
	case KindEnum8, KindEnum16:
		return strconv.FormatInt(v.i, 10)
	case KindArray:
		return "[" + f.joinItems(v.list) + "]"
	case KindTuple:
		return "(" + f.joinItems(v.list) + ")"
	case KindMap:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, k := range v.sortedKeys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			key := k
			if !f.raw {
				key = tsvEscape(key)
			}
			sb.WriteString("'" + key + "': ")
			sb.WriteString(f.formatValue(v.m[k], true))
		}
		sb.WriteByte('}')
		return sb.String()
	case KindNested:
		// rendered as an array of the field values, key order
		keys := v.sortedKeys()
		items := make([]Value, len(keys))
		for i, k := range keys {
			items[i] = v.m[k]
		}
		return "[" + f.joinItems(items) + "]"
	}
	return tsvNull
}

func (f *tabSeparatedFormatter) joinItems(items []Value) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = f.formatValue(item, true)
	}
	return strings.Join(parts, ", ")
}

func encloseIf(s string, enclose bool) string {
	if enclose {
		return "'" + s + "'"
	}
	return s
}

func (f *tabSeparatedFormatter) parseValue(s string, t Type, withinContainer bool) (Value, error) {
	if t.nullable {
		if s == tsvNull {
			v, _ := NullValue(t)
			return v, nil
		}
		v, err := f.parseValue(s, t.NonNullable(), withinContainer)
		if err != nil {
			return Value{}, err
		}
		nv, _ := v.AsNullable()
		return nv, nil
	}
	switch t.kind {
	case KindUInt8:
		v, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		return UInt8Value(uint8(v)), nil
	case KindUInt16:
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		return UInt16Value(uint16(v)), nil
	case KindUInt32:
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		return UInt32Value(uint32(v)), nil
	case KindUInt64:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		return UInt64Value(v), nil
	case KindInt8:
		v, err := strconv.ParseInt(s, 10, 8)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		return Int8Value(int8(v)), nil
	case KindInt16:
		v, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		return Int16Value(int16(v)), nil
	case KindInt32:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		return Int32Value(int32(v)), nil
	case KindInt64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		return Int64Value(v), nil
	case KindUInt128, KindUInt256, KindInt128, KindInt256:
		byteLen := 16
		if t.kind == KindUInt256 || t.kind == KindInt256 {
			byteLen = 32
		}
		signed := t.kind == KindInt128 || t.kind == KindInt256
		v, ok := parseBigInt(s, byteLen, signed)
		if !ok {
			return Value{}, errMalformedValue(s, t)
		}
		switch t.kind {
		case KindUInt128:
			return UInt128Value(v), nil
		case KindUInt256:
			return UInt256Value(v), nil
		case KindInt128:
			return Int128Value(v), nil
		}
		return Int256Value(v), nil
	case KindFloat32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		return Float32Value(float32(v)), nil
	case KindFloat64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		return Float64Value(v), nil
	case KindBool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		return BoolValue(v), nil
	case KindString, KindFixedString:
		out := s
		if !f.raw {
			out = tsvUnescape(out)
		}
		if withinContainer {
			out = unenclose(out)
		}
		if t.kind == KindFixedString {
			return FixedStringValue(out), nil
		}
		return StringValue(out), nil
	case KindUUID:
		uid, err := uuid.Parse(s)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		return UUIDValue(uid), nil
	case KindDate, KindDate32:
		in := s
		if withinContainer {
			in = unenclose(in)
		}
		days, err := parseDateDays(in)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		if t.kind == KindDate {
			return DateValue(uint16(days)), nil
		}
		return Date32Value(int32(days)), nil
	case KindDateTime:
		in := s
		if withinContainer {
			in = unenclose(in)
		}
		secs, err := parseDateTimeSeconds(in)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		return DateTimeValue(uint32(secs)), nil
	case KindDateTime64:
		in := s
		if withinContainer {
			in = unenclose(in)
		}
		ticks, err := parseDateTime64Ticks(in, t.precision)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		return DateTime64Value(ticks, t.precision), nil
	case KindEnum8:
		idx, err := strconv.ParseInt(s, 10, 8)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		if !t.hasVariantIndex(int16(idx)) {
			return Value{}, errEnumOutOfRange(idx, t)
		}
		return Enum8Value(int8(idx)), nil
	case KindEnum16:
		idx, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return Value{}, errMalformedValue(s, t)
		}
		if !t.hasVariantIndex(int16(idx)) {
			return Value{}, errEnumOutOfRange(idx, t)
		}
		return Enum16Value(int16(idx)), nil
	case KindArray:
		inner, ok := stripBrackets(s, '[', ']')
		if !ok {
			return Value{}, errMalformedValue(s, t)
		}
		parts := splitTSVList(inner)
		items := make([]Value, 0, len(parts))
		for _, part := range parts {
			item, err := f.parseValue(strings.TrimSpace(part), *t.elem, true)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return ArrayValue(items...), nil
	case KindTuple:
		inner, ok := stripBrackets(s, '(', ')')
		if !ok {
			return Value{}, errMalformedValue(s, t)
		}
		parts := splitTSVList(inner)
		if len(parts) != len(t.items) {
			return Value{}, errMalformedValue(s, t)
		}
		items := make([]Value, len(parts))
		for i, part := range parts {
			item, err := f.parseValue(strings.TrimSpace(part), t.items[i], true)
			if err != nil {
				return Value{}, err
			}
			items[i] = item
		}
		return TupleValue(items...), nil
	case KindMap:
		inner, ok := stripBrackets(s, '{', '}')
		if !ok {
			return Value{}, errMalformedValue(s, t)
		}
		m := map[string]Value{}
		for _, entry := range splitTSVList(inner) {
			key, valStr, found := splitTSVEntry(strings.TrimSpace(entry))
			if !found {
				return Value{}, errMalformedValue(s, t)
			}
			item, err := f.parseValue(strings.TrimSpace(valStr), *t.elem, true)
			if err != nil {
				return Value{}, err
			}
			key = strings.TrimSpace(key)
		if !f.raw {
			key = tsvUnescape(key)
		}
		m[unenclose(key)] = item
		}
		return MapValue(m), nil
	case KindNested:
		inner, ok := stripBrackets(s, '[', ']')
		if !ok {
			return Value{}, errMalformedValue(s, t)
		}
		parts := splitTSVList(inner)
		fields := sortedFields(t.fields)
		if len(parts) != len(fields) {
			return Value{}, errMalformedValue(s, t)
		}
		m := make(map[string]Value, len(fields))
		for i, part := range parts {
			item, err := f.parseValue(strings.TrimSpace(part), fields[i].Type, true)
			if err != nil {
				return Value{}, err
			}
			m[fields[i].Name] = item
		}
		return NestedValue(m), nil
	}
	return Value{}, errUnsupportedType(t, FormatTabSeparated)
}

// sortedFields returns the nested fields ordered by name, matching the order
// the values are rendered in.
func sortedFields(fields []NestedField) []NestedField {
	sorted := make([]NestedField, len(fields))
	copy(sorted, fields)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return sorted
}

// The escape table mirrors the server's TabSeparated output for this
// transport: backslash becomes \b, space becomes \n, tab becomes \t and a
// single quote becomes \'. tsvUnescape is the exact inverse.
func tsvEscape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			sb.WriteString(`\b`)
		case ' ':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\'':
			sb.WriteString(`\'`)
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

func tsvUnescape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'b':
				sb.WriteByte('\\')
				i++
				continue
			case 'n':
				sb.WriteByte(' ')
				i++
				continue
			case 't':
				sb.WriteByte('\t')
				i++
				continue
			case '\'':
				sb.WriteByte('\'')
				i++
				continue
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func unenclose(s string) string {
	s = strings.TrimPrefix(s, "'")
	return strings.TrimSuffix(s, "'")
}

func stripBrackets(s string, open, close byte) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != open || s[len(s)-1] != close {
		return "", false
	}
	return strings.TrimSpace(s[1 : len(s)-1]), true
}

// splitTSVList splits container entries on top-level commas. Commas inside
// nested brackets or quoted strings do not split; a backslash escapes the
// next character inside quotes.
func splitTSVList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var parts []string
	depth := 0
	quoted := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quoted {
			if c == '\\' {
				i++
			} else if c == '\'' {
				quoted = false
			}
			continue
		}
		switch c {
		case '\'':
			quoted = true
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// splitTSVEntry cuts a map entry at the first top-level colon.
func splitTSVEntry(s string) (string, string, bool) {
	depth := 0
	quoted := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quoted {
			if c == '\\' {
				i++
			} else if c == '\'' {
				quoted = false
			}
			continue
		}
		switch c {
		case '\'':
			quoted = true
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ':':
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}
