// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"context"
	"database/sql/driver"
	"strings"
)

// chStmt is a prepared statement. Preparing binds nothing server-side; the
// statement text is kept and parameters are spliced at execution.
type chStmt struct {
	conn  *chConn
	query string
}

func (stmt *chStmt) Close() error {
	return nil
}

func (stmt *chStmt) NumInput() int {
	return strings.Count(stmt.query, Placeholder)
}

func (stmt *chStmt) Exec(args []driver.Value) (driver.Result, error) {
	return stmt.execContext(context.Background(), args)
}

func (stmt *chStmt) Query(args []driver.Value) (driver.Rows, error) {
	return stmt.queryContext(context.Background(), args)
}

func (stmt *chStmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	return stmt.execContext(ctx, namedToValues(args))
}

func (stmt *chStmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	return stmt.queryContext(ctx, namedToValues(args))
}

func (stmt *chStmt) execContext(ctx context.Context, args []driver.Value) (driver.Result, error) {
	bound, err := bindDriverValues(stmt.query, args)
	if err != nil {
		return nil, err
	}
	if err = stmt.conn.client.Exec(ctx, bound); err != nil {
		return nil, err
	}
	return chResult{}, nil
}

func (stmt *chStmt) queryContext(ctx context.Context, args []driver.Value) (driver.Rows, error) {
	bound, err := bindDriverValues(stmt.query, args)
	if err != nil {
		return nil, err
	}
	data, err := stmt.conn.client.Query(ctx, bound)
	if err != nil {
		return nil, err
	}
	return &chRows{data: data}, nil
}

func namedToValues(args []driver.NamedValue) []driver.Value {
	values := make([]driver.Value, len(args))
	for i, nv := range args {
		values[i] = nv.Value
	}
	return values
}
