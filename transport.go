// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"net"
	"net/http"
	"time"
)

// newTransport returns the RoundTripper for a connection, honoring a
// caller-supplied Transporter.
func newTransport(cfg *Config) http.RoundTripper {
	if cfg != nil && cfg.Transporter != nil {
		return cfg.Transporter
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     30 * time.Minute,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if cfg != nil {
		transport.TLSClientConfig = cfg.tlsConfig()
	}
	// the decompression path is handled by the driver, per the negotiated
	// content coding
	transport.DisableCompression = true
	return transport
}
