// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPPort       = 8123
	defaultHTTPSPort      = 8443
	defaultDatabase       = "default"
	defaultRequestTimeout = 60 * time.Second
	defaultPingTimeout    = 5 * time.Second
)

// Config is a set of configuration parameters for one connection.
type Config struct {
	User     string // Username
	Password string // Password (requires User)
	Host     string // Host name or address
	Port     int    // Port number, 8123 for http and 8443 for https by default
	Database string // Database name, "default" by default
	Protocol string // http or https, http by default

	Compression Compression // Content coding for request and response bodies
	Format      Format      // Response format for data queries

	RequestTimeout time.Duration // Timeout for one statement
	PingTimeout    time.Duration // Timeout for the ping probe

	Params map[string]*string // Other settings, passed through on the query string

	InsecureSkipVerify bool // Skips certificate verification over https

	Transporter http.RoundTripper // RoundTripper to intercept HTTP requests

	Tracing string // Logging level
}

// ParseDSN parses a DSN string of the shape
//
//	user[:password]@host[:port][/database][?param1=value1&...&paramN=valueN]
//
// into a Config.
func ParseDSN(dsn string) (*Config, error) {
	cfg := &Config{
		Params: make(map[string]*string),
	}

	// the password may hold '@', split on the last one
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return nil, ErrEmptyUsername
	}
	credentials, rest := dsn[:at], dsn[at+1:]

	if i := strings.Index(credentials, ":"); i >= 0 {
		cfg.User = credentials[:i]
		cfg.Password = credentials[i+1:]
	} else {
		cfg.User = credentials
	}
	if cfg.User == "" {
		return nil, ErrEmptyUsername
	}

	var params string
	if i := strings.Index(rest, "?"); i >= 0 {
		rest, params = rest[:i], rest[i+1:]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		cfg.Database = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.Index(rest, ":"); i >= 0 {
		port, err := strconv.Atoi(rest[i+1:])
		if err != nil {
			return nil, &ClickHouseError{
				Number:      ErrCodeFailedToParsePort,
				Message:     errMsgFailedToParsePort,
				MessageArgs: []interface{}{rest[i+1:]},
			}
		}
		cfg.Port = port
		rest = rest[:i]
	}
	cfg.Host = rest
	if cfg.Host == "" {
		return nil, ErrEmptyHost
	}

	if params != "" {
		if err := parseDSNParams(cfg, params); err != nil {
			return nil, err
		}
	}
	if err := fillMissingConfigParameters(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDSNParams parses the DSN "query string".
func parseDSNParams(cfg *Config, params string) error {
	for _, v := range strings.Split(params, "&") {
		param := strings.SplitN(v, "=", 2)
		if len(param) != 2 {
			continue
		}
		value, err := url.QueryUnescape(param[1])
		if err != nil {
			return err
		}
		switch param[0] {
		case "protocol":
			cfg.Protocol = value
		case "compression":
			c, err := CompressionFromString(value)
			if err != nil {
				return err
			}
			cfg.Compression = c
		case "format":
			cfg.Format = Format(value)
		case "requestTimeout":
			cfg.RequestTimeout, err = parseTimeout(value)
			if err != nil {
				return err
			}
		case "pingTimeout":
			cfg.PingTimeout, err = parseTimeout(value)
			if err != nil {
				return err
			}
		case "insecureSkipVerify":
			cfg.InsecureSkipVerify, err = strconv.ParseBool(value)
			if err != nil {
				return err
			}
		case "tracing":
			cfg.Tracing = value
		default:
			cfg.Params[param[0]] = &value
		}
	}
	return nil
}

func parseTimeout(value string) (time.Duration, error) {
	secs, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}

// fillMissingConfigParameters applies defaults and validates a Config. It is
// run for parsed DSNs and for Configs handed in directly.
func fillMissingConfigParameters(cfg *Config) error {
	if cfg.User == "" {
		return ErrEmptyUsername
	}
	if cfg.Host == "" {
		return ErrEmptyHost
	}
	if cfg.Protocol == "" {
		cfg.Protocol = "http"
	}
	if cfg.Protocol != "http" && cfg.Protocol != "https" {
		return &ClickHouseError{
			Number:      ErrCodeInvalidProtocol,
			Message:     "invalid protocol: %v",
			MessageArgs: []interface{}{cfg.Protocol},
		}
	}
	if cfg.Port == 0 {
		if cfg.Protocol == "https" {
			cfg.Port = defaultHTTPSPort
		} else {
			cfg.Port = defaultHTTPPort
		}
	}
	if cfg.Database == "" {
		cfg.Database = defaultDatabase
	}
	if cfg.Format == "" {
		cfg.Format = FormatTabSeparatedWithNamesAndTypes
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.PingTimeout == 0 {
		cfg.PingTimeout = defaultPingTimeout
	}
	if cfg.Params == nil {
		cfg.Params = make(map[string]*string)
	}
	if cfg.Tracing != "" {
		if err := logger.SetLogLevel(cfg.Tracing); err != nil {
			return err
		}
	}
	return nil
}

// DSN constructs a DSN string from a Config.
func DSN(cfg *Config) (string, error) {
	if err := fillMissingConfigParameters(cfg); err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(cfg.User)
	if cfg.Password != "" {
		sb.WriteByte(':')
		sb.WriteString(cfg.Password)
	}
	fmt.Fprintf(&sb, "@%v:%v/%v", cfg.Host, cfg.Port, cfg.Database)

	params := url.Values{}
	if cfg.Protocol != "http" {
		params.Add("protocol", cfg.Protocol)
	}
	if cfg.Compression != CompressionNone {
		params.Add("compression", cfg.Compression.String())
	}
	if cfg.Format != FormatTabSeparatedWithNamesAndTypes {
		params.Add("format", string(cfg.Format))
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		params.Add("requestTimeout", strconv.Itoa(int(cfg.RequestTimeout/time.Second)))
	}
	if cfg.PingTimeout != defaultPingTimeout {
		params.Add("pingTimeout", strconv.Itoa(int(cfg.PingTimeout/time.Second)))
	}
	if cfg.InsecureSkipVerify {
		params.Add("insecureSkipVerify", "true")
	}
	if cfg.Tracing != "" {
		params.Add("tracing", cfg.Tracing)
	}
	for k, v := range cfg.Params {
		params.Add(k, *v)
	}
	if len(params) > 0 {
		sb.WriteByte('?')
		sb.WriteString(params.Encode())
	}
	return sb.String(), nil
}

// tlsConfig returns the TLS settings for https connections.
func (cfg *Config) tlsConfig() *tls.Config {
	if cfg.Protocol != "https" {
		return nil
	}
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
}
