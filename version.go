// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

// GoClickHouseVersion is the version of Go ClickHouse Driver
const GoClickHouseVersion = "0.4.0"
