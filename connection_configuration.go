// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variables steering connections.toml lookup.
const (
	clickhouseHome           = "CLICKHOUSE_HOME"
	clickhouseDefaultConnEnv = "CLICKHOUSE_DEFAULT_CONNECTION_NAME"
	defaultConnectionName    = "default"
	connectionsFile          = "connections.toml"
)

// LoadConnectionConfig reads a named connection from connections.toml. The
// file lives under $CLICKHOUSE_HOME, falling back to ~/.clickhouse. An empty
// connectionName selects $CLICKHOUSE_DEFAULT_CONNECTION_NAME, then "default".
func LoadConnectionConfig(connectionName string) (*Config, error) {
	if connectionName == "" {
		connectionName = os.Getenv(clickhouseDefaultConnEnv)
	}
	if connectionName == "" {
		connectionName = defaultConnectionName
	}
	path, err := connectionsFilePath()
	if err != nil {
		return nil, err
	}

	var sections map[string]map[string]interface{}
	if _, err = toml.DecodeFile(path, &sections); err != nil {
		return nil, &ClickHouseError{
			Number:      ErrCodeTomlFileParsingFailed,
			Message:     errMsgFailedToParseTomlFile,
			MessageArgs: []interface{}{path, err},
		}
	}
	section, ok := sections[connectionName]
	if !ok {
		return nil, &ClickHouseError{
			Number:  ErrCodeFailedToFindDSNInToml,
			Message: errMsgFailedToFindDSNInToml,
		}
	}

	cfg := &Config{Params: make(map[string]*string)}
	for key, value := range section {
		if err = applyConnectionParameter(cfg, key, value); err != nil {
			return nil, err
		}
	}
	if err = fillMissingConfigParameters(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func connectionsFilePath() (string, error) {
	if home := os.Getenv(clickhouseHome); home != "" {
		return filepath.Join(home, connectionsFile), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".clickhouse", connectionsFile), nil
}

func applyConnectionParameter(cfg *Config, key string, value interface{}) error {
	switch key {
	case "user", "username":
		return setString(&cfg.User, key, value)
	case "password":
		return setString(&cfg.Password, key, value)
	case "host":
		return setString(&cfg.Host, key, value)
	case "port":
		return setInt(&cfg.Port, key, value)
	case "database":
		return setString(&cfg.Database, key, value)
	case "protocol":
		return setString(&cfg.Protocol, key, value)
	case "compression":
		var name string
		if err := setString(&name, key, value); err != nil {
			return err
		}
		c, err := CompressionFromString(name)
		if err != nil {
			return err
		}
		cfg.Compression = c
		return nil
	case "format":
		var name string
		if err := setString(&name, key, value); err != nil {
			return err
		}
		cfg.Format = Format(name)
		return nil
	case "request_timeout":
		var secs int
		if err := setInt(&secs, key, value); err != nil {
			return err
		}
		cfg.RequestTimeout = time.Duration(secs) * time.Second
		return nil
	case "ping_timeout":
		var secs int
		if err := setInt(&secs, key, value); err != nil {
			return err
		}
		cfg.PingTimeout = time.Duration(secs) * time.Second
		return nil
	case "insecure_skip_verify":
		b, ok := value.(bool)
		if !ok {
			return errTomlValue(key, value)
		}
		cfg.InsecureSkipVerify = b
		return nil
	case "tracing":
		return setString(&cfg.Tracing, key, value)
	default:
		var v string
		if err := setString(&v, key, value); err != nil {
			return err
		}
		cfg.Params[key] = &v
		return nil
	}
}

func setString(dst *string, key string, value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return errTomlValue(key, value)
	}
	*dst = s
	return nil
}

func setInt(dst *int, key string, value interface{}) error {
	switch v := value.(type) {
	case int64:
		*dst = int(v)
		return nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return errTomlValue(key, value)
		}
		*dst = n
		return nil
	}
	return errTomlValue(key, value)
}

func errTomlValue(key string, value interface{}) error {
	return &ClickHouseError{
		Number:      ErrCodeTomlFileParsingFailed,
		Message:     errMsgFailedToParseTomlFile,
		MessageArgs: []interface{}{key, value},
	}
}
