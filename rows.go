// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"database/sql/driver"
	"io"
	"strconv"
)

// chRows iterates a fully parsed result table.
type chRows struct {
	data *QueryData
	pos  int
}

func (rows *chRows) Columns() []string {
	if names, ok := rows.data.ColumnNames(); ok {
		return names
	}
	names := make([]string, rows.data.NumColumns())
	for i := range names {
		names[i] = "column_" + strconv.Itoa(i)
	}
	return names
}

// ColumnTypeDatabaseTypeName reports the ClickHouse type string of a column.
func (rows *chRows) ColumnTypeDatabaseTypeName(index int) string {
	if types, ok := rows.data.ColumnTypes(); ok {
		return types[index].String()
	}
	return ""
}

// ColumnTypeNullable reports whether a column is in the Nullable family.
func (rows *chRows) ColumnTypeNullable(index int) (nullable, ok bool) {
	if types, typed := rows.data.ColumnTypes(); typed {
		return types[index].IsNullable(), true
	}
	return false, false
}

func (rows *chRows) Close() error {
	rows.pos = rows.data.NumRows()
	return nil
}

func (rows *chRows) Next(dest []driver.Value) error {
	if rows.pos >= rows.data.NumRows() {
		return io.EOF
	}
	row := rows.data.Row(rows.pos)
	rows.pos++
	for i, v := range row {
		dest[i] = valueToDriver(v)
	}
	return nil
}
