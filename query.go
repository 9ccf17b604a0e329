// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"context"
	"strings"
)

// Placeholder marks a bound parameter inside statement text.
const Placeholder = "[??]"

// Client is the high-level API over one server. It issues statements over
// HTTP and converts result payloads into QueryData tables.
type Client struct {
	cfg  *Config
	rest *restful
}

// NewClient opens a client for the given Config.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidConn
	}
	if err := fillMissingConfigParameters(cfg); err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, rest: newRestful(cfg)}, nil
}

// OpenClient opens a client for a DSN string.
func OpenClient(dsn string) (*Client, error) {
	cfg, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	return NewClient(cfg)
}

// Ping probes the server health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.rest.ping(ctx)
}

// Exec runs a statement that returns no rows. Each [??] placeholder is
// replaced by the corresponding bound value, rendered as a SQL literal.
func (c *Client) Exec(ctx context.Context, query string, args ...Value) error {
	bound, err := bindParameters(query, args)
	if err != nil {
		return err
	}
	_, err = c.rest.execute(ctx, bound, nil, "")
	return err
}

// Query runs a statement and parses the rows the server sends back. The
// response format is the Config's Format; it must be one with a wired
// formatter and a types header so rows can be decoded without a mapping.
func (c *Client) Query(ctx context.Context, query string, args ...Value) (*QueryData, error) {
	return c.QueryWithMapping(ctx, query, nil, args...)
}

// QueryWithMapping runs a statement and parses rows with a caller-supplied
// column mapping, for response formats without a types header.
func (c *Client) QueryWithMapping(ctx context.Context, query string, columns []Column, args ...Value) (*QueryData, error) {
	bound, err := bindParameters(query, args)
	if err != nil {
		return nil, err
	}
	formatter, err := FormatterFor(c.cfg.Format)
	if err != nil {
		return nil, err
	}
	payload, err := c.rest.execute(ctx, bound, nil, c.cfg.Format)
	if err != nil {
		return nil, err
	}
	return formatter.DeserializeQueryData(payload, columns)
}

// Insert writes a table of rows into the named table. Rows travel as
// RowBinary in the request body; the data must carry column names and types.
func (c *Client) Insert(ctx context.Context, table string, data *QueryData) error {
	names, err := data.headerNames()
	if err != nil {
		return err
	}
	formatter, err := FormatterFor(FormatRowBinary)
	if err != nil {
		return err
	}
	body, err := formatter.SerializeQueryData(data)
	if err != nil {
		return err
	}
	query := "INSERT INTO " + table + " (" + strings.Join(names, ", ") + ") FORMAT RowBinary"
	_, err = c.rest.execute(ctx, query, body, "")
	return err
}

// bindParameters splices bound values into the statement text, one per
// placeholder, left to right.
func bindParameters(query string, args []Value) (string, error) {
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
		sb.WriteString(arg.SQLString())
		rest = after
	}
	sb.WriteString(rest)
	return sb.String(), nil
}
