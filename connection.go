// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"context"
	"database/sql/driver"
)

// chConn is one database/sql connection over the HTTP interface. The server
// keeps no per-connection state, so a connection is cheap and stateless.
type chConn struct {
	cfg    *Config
	client *Client
	closed bool
}

func (conn *chConn) Prepare(query string) (driver.Stmt, error) {
	if conn.closed {
		return nil, driver.ErrBadConn
	}
	return &chStmt{conn: conn, query: query}, nil
}

func (conn *chConn) Close() error {
	logger.WithContext(context.Background()).Info("Close")
	conn.closed = true
	return nil
}

// Begin returns a no-op transaction. The server autocommits every statement;
// Commit and Rollback do nothing.
func (conn *chConn) Begin() (driver.Tx, error) {
	if conn.closed {
		return nil, driver.ErrBadConn
	}
	logger.Warn("transactions are not supported, statements autocommit")
	return noopTx{}, nil
}

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

func (conn *chConn) Ping(ctx context.Context) error {
	if conn.closed {
		return driver.ErrBadConn
	}
	return conn.client.Ping(ctx)
}

// CheckNamedValue accepts Value arguments next to the types database/sql
// converts on its own.
func (conn *chConn) CheckNamedValue(nv *driver.NamedValue) error {
	if _, ok := nv.Value.(Value); ok {
		return nil
	}
	return driver.ErrSkip
}

func (conn *chConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if conn.closed {
		return nil, driver.ErrBadConn
	}
	bound, err := bindNamedValues(query, args)
	if err != nil {
		return nil, err
	}
	if err = conn.client.Exec(ctx, bound); err != nil {
		return nil, err
	}
	return chResult{}, nil
}

func (conn *chConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if conn.closed {
		return nil, driver.ErrBadConn
	}
	bound, err := bindNamedValues(query, args)
	if err != nil {
		return nil, err
	}
	data, err := conn.client.Query(ctx, bound)
	if err != nil {
		return nil, err
	}
	return &chRows{data: data}, nil
}

// bindNamedValues splices driver arguments into the statement text.
func bindNamedValues(query string, args []driver.NamedValue) (string, error) {
	values := make([]driver.Value, len(args))
	for i, nv := range args {
		values[i] = nv.Value
	}
	return bindDriverValues(query, values)
}
