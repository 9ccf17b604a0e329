// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import "strings"

// Column pairs a result column name with its parsed type.
type Column struct {
	Name string
	Type Type
}

// QueryData is a rectangular table of values with optional column names and
// optional column types. It is what the formatters serialize and what query
// results deserialize into.
type QueryData struct {
	names []string
	types []Type
	rows  [][]Value
}

// NewQueryData builds a table from rows. Every row must have the same length.
func NewQueryData(rows ...[]Value) (*QueryData, error) {
	qd := &QueryData{}
	for _, row := range rows {
		if err := qd.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return qd, nil
}

// WithColumnNames attaches column names to the table.
func (qd *QueryData) WithColumnNames(names ...string) (*QueryData, error) {
	if err := qd.checkWidth(len(names)); err != nil {
		return nil, err
	}
	qd.names = names
	return qd, nil
}

// WithColumnTypes attaches column types to the table. Existing rows are
// checked against the types.
func (qd *QueryData) WithColumnTypes(types ...Type) (*QueryData, error) {
	if err := qd.checkWidth(len(types)); err != nil {
		return nil, err
	}
	for _, row := range qd.rows {
		if err := checkRowTypes(row, types); err != nil {
			return nil, err
		}
	}
	qd.types = types
	return qd, nil
}

// AppendRow adds a row, enforcing the table width and, when the table carries
// types, each cell's type.
func (qd *QueryData) AppendRow(row []Value) error {
	if err := qd.checkWidth(len(row)); err != nil {
		return err
	}
	if qd.types != nil {
		if err := checkRowTypes(row, qd.types); err != nil {
			return err
		}
	}
	qd.rows = append(qd.rows, row)
	return nil
}

func checkRowTypes(row []Value, types []Type) error {
	for j, cell := range row {
		if !cell.MatchesType(types[j]) {
			return errValueMismatch(cell, types[j])
		}
	}
	return nil
}

// checkWidth accepts n when the table has no established width yet.
func (qd *QueryData) checkWidth(n int) error {
	w, known := qd.width()
	if known && n != w {
		return &ClickHouseError{
			Number:      ErrCodeRowWidthMismatch,
			Message:     errMsgRowWidthMismatch,
			MessageArgs: []interface{}{n, w},
		}
	}
	return nil
}

func (qd *QueryData) width() (int, bool) {
	switch {
	case qd.names != nil:
		return len(qd.names), true
	case qd.types != nil:
		return len(qd.types), true
	case len(qd.rows) > 0:
		return len(qd.rows[0]), true
	}
	return 0, false
}

// NumRows returns the number of rows.
func (qd *QueryData) NumRows() int {
	return len(qd.rows)
}

// NumColumns returns the table width, 0 for a table with no rows, names or
// types.
func (qd *QueryData) NumColumns() int {
	w, _ := qd.width()
	return w
}

// Rows returns the table rows.
func (qd *QueryData) Rows() [][]Value {
	return qd.rows
}

// Row returns one row by index.
func (qd *QueryData) Row(i int) []Value {
	return qd.rows[i]
}

// Value returns the cell at row i, column j.
func (qd *QueryData) Value(i, j int) Value {
	return qd.rows[i][j]
}

// ColumnNames returns the attached column names, if any.
func (qd *QueryData) ColumnNames() ([]string, bool) {
	return qd.names, qd.names != nil
}

// ColumnTypes returns the attached column types, if any.
func (qd *QueryData) ColumnTypes() ([]Type, bool) {
	return qd.types, qd.types != nil
}

// Columns pairs names with types. Missing names come back empty; missing
// types come back as the zero Type.
func (qd *QueryData) Columns() []Column {
	w, _ := qd.width()
	cols := make([]Column, w)
	for i := range cols {
		if qd.names != nil {
			cols[i].Name = qd.names[i]
		}
		if qd.types != nil {
			cols[i].Type = qd.types[i]
		}
	}
	return cols
}

// String renders the table for debugging: a header line when names are
// attached, then one line per row, columns padded to a shared width.
func (qd *QueryData) String() string {
	w, _ := qd.width()
	widths := make([]int, w)
	header := qd.names
	for j, name := range header {
		widths[j] = len(name)
	}
	cells := make([][]string, len(qd.rows))
	for i, row := range qd.rows {
		cells[i] = make([]string, len(row))
		for j, cell := range row {
			s := cell.String()
			cells[i][j] = s
			if len(s) > widths[j] {
				widths[j] = len(s)
			}
		}
	}

	var sb strings.Builder
	writeLine := func(line []string) {
		for j, s := range line {
			if j > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(s)
			if j < len(line)-1 {
				sb.WriteString(strings.Repeat(" ", widths[j]-len(s)))
			}
		}
		sb.WriteByte('\n')
	}
	if header != nil {
		writeLine(header)
	}
	for _, row := range cells {
		writeLine(row)
	}
	return sb.String()
}

// headerNames returns the names for a with-names serialization.
func (qd *QueryData) headerNames() ([]string, error) {
	if qd.names == nil {
		return nil, ErrMissingColumnNames
	}
	return qd.names, nil
}

// headerTypes returns the types for a with-names-and-types serialization and
// for typed row encoding.
func (qd *QueryData) headerTypes() ([]Type, error) {
	if qd.types == nil {
		return nil, ErrMissingColumnTypes
	}
	return qd.types, nil
}
