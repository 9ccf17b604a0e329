// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"context"
	"database/sql"
	"database/sql/driver"
)

// ClickHouseDriver is a context of Go Driver.
type ClickHouseDriver struct{}

// Open creates a new connection.
func (d ClickHouseDriver) Open(dsn string) (driver.Conn, error) {
	logger.Info("Open")
	ctx := context.Background()
	cfg, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	return d.OpenWithConfig(ctx, *cfg)
}

// OpenWithConfig creates a new connection with the given Config.
func (d ClickHouseDriver) OpenWithConfig(ctx context.Context, config Config) (driver.Conn, error) {
	if err := fillMissingConfigParameters(&config); err != nil {
		return nil, err
	}
	client, err := NewClient(&config)
	if err != nil {
		return nil, err
	}
	return &chConn{cfg: &config, client: client}, nil
}

func init() {
	sql.Register("clickhouse", &ClickHouseDriver{})
}
