// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"context"
	"strings"
)

// TableSchema describes a table for DDL statements.
type TableSchema struct {
	Name    string
	Columns []ColumnSchema
}

// ColumnSchema is one column of a TableSchema.
type ColumnSchema struct {
	Name    string
	Type    Type
	Primary bool
}

// NewTableSchema starts a schema for the named table.
func NewTableSchema(name string) *TableSchema {
	return &TableSchema{Name: name}
}

// Column appends a column.
func (s *TableSchema) Column(name string, t Type) *TableSchema {
	s.Columns = append(s.Columns, ColumnSchema{Name: name, Type: t})
	return s
}

// PrimaryColumn appends a column that joins the primary key.
func (s *TableSchema) PrimaryColumn(name string, t Type) *TableSchema {
	s.Columns = append(s.Columns, ColumnSchema{Name: name, Type: t, Primary: true})
	return s
}

// createTableSQL renders the CREATE TABLE statement for the schema.
func (s *TableSchema) createTableSQL(engine string) string {
	cols := make([]string, len(s.Columns))
	var primary []string
	for i, col := range s.Columns {
		cols[i] = col.Name + " " + col.Type.String()
		if col.Primary {
			primary = append(primary, col.Name)
		}
	}
	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS ")
	sb.WriteString(s.Name)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(") ENGINE = ")
	sb.WriteString(engine)
	if len(primary) > 0 {
		sb.WriteString(" PRIMARY KEY (")
		sb.WriteString(strings.Join(primary, ", "))
		sb.WriteString(")")
	}
	return sb.String()
}

// CreateDatabase creates a database if it does not exist.
func (c *Client) CreateDatabase(ctx context.Context, name string) error {
	return c.Exec(ctx, "CREATE DATABASE IF NOT EXISTS "+name)
}

// CreateTable creates a table from a schema with the given engine, e.g.
// "MergeTree()".
func (c *Client) CreateTable(ctx context.Context, schema *TableSchema, engine string) error {
	return c.Exec(ctx, schema.createTableSQL(engine))
}

// DropTable drops a table if it exists.
func (c *Client) DropTable(ctx context.Context, table string) error {
	return c.Exec(ctx, "DROP TABLE IF EXISTS "+table)
}
