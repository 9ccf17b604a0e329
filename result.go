// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import "errors"

// chResult is the result of a statement that returns no rows. The HTTP
// interface reports neither an insert id nor an affected row count.
type chResult struct{}

var errNoLastInsertID = errors.New("no LastInsertId available")
var errNoRowsAffected = errors.New("no RowsAffected available")

func (chResult) LastInsertId() (int64, error) {
	return -1, errNoLastInsertID
}

func (chResult) RowsAffected() (int64, error) {
	return -1, errNoRowsAffected
}
