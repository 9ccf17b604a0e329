// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// HTTP headers understood by the server.
const (
	httpHeaderUser            = "X-ClickHouse-User"
	httpHeaderKey             = "X-ClickHouse-Key"
	httpHeaderDatabase        = "X-ClickHouse-Database"
	httpHeaderFormat          = "X-ClickHouse-Format"
	httpHeaderQueryID         = "X-ClickHouse-Query-Id"
	httpHeaderServerException = "X-ClickHouse-Exception-Code"
	httpHeaderContentType     = "Content-Type"
	httpHeaderAccept          = "Accept"
	httpHeaderContentEncoding = "Content-Encoding"
	httpHeaderAcceptEncoding  = "Accept-Encoding"
)

const contentTypeTextPlain = "text/plain"

// restful issues requests against the server's HTTP interface.
type restful struct {
	cfg    *Config
	client *http.Client
}

func newRestful(cfg *Config) *restful {
	return &restful{
		cfg: cfg,
		client: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: newTransport(cfg),
		},
	}
}

// baseURL builds the server endpoint from the Config.
func (r *restful) baseURL(path string) url.URL {
	return url.URL{
		Scheme: r.cfg.Protocol,
		Host:   r.cfg.Host + ":" + strconv.Itoa(r.cfg.Port),
		Path:   path,
	}
}

// execute posts one statement. The statement rides on the query string, the
// body carries serialized rows for inserts.
func (r *restful) execute(ctx context.Context, query string, body []byte, format Format) ([]byte, error) {
	u := r.baseURL("/")
	params := url.Values{}
	params.Set("query", query)
	for k, v := range r.cfg.Params {
		params.Set(k, *v)
	}
	u.RawQuery = params.Encode()

	if len(body) > 0 && r.cfg.Compression != CompressionNone {
		compressed, err := r.cfg.Compression.compress(body)
		if err != nil {
			return nil, err
		}
		body = compressed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set(httpHeaderUser, r.cfg.User)
	req.Header.Set(httpHeaderKey, r.cfg.Password)
	req.Header.Set(httpHeaderDatabase, r.cfg.Database)
	req.Header.Set(httpHeaderContentType, contentTypeTextPlain)
	req.Header.Set(httpHeaderAccept, "*/*")
	if format != "" {
		req.Header.Set(httpHeaderFormat, string(format))
	}
	if enc := r.cfg.Compression.contentEncoding(); enc != "" {
		req.Header.Set(httpHeaderAcceptEncoding, enc)
		if len(body) > 0 {
			req.Header.Set(httpHeaderContentEncoding, enc)
		}
	}

	logger.WithContext(ctx).Debugf("POST %v://%v, format: %v", u.Scheme, u.Host, format)
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	reader, err := decompressReader(resp.Header.Get(httpHeaderContentEncoding), resp.Body)
	if err != nil {
		return nil, err
	}
	payload, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		logger.WithContext(ctx).Warnf("query failed. status: %v, exception: %v",
			resp.StatusCode, resp.Header.Get(httpHeaderServerException))
		return nil, &ClickHouseError{
			Number:      ErrCodeQueryFailure,
			Message:     errMsgQueryFailure,
			MessageArgs: []interface{}{resp.StatusCode, strings.TrimSpace(string(payload))},
			Query:       query,
		}
	}
	return payload, nil
}

// ping probes the dedicated health endpoint.
func (r *restful) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.PingTimeout)
	defer cancel()

	u := r.baseURL("/ping")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return ErrServiceUnavailable
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != "Ok." {
		return ErrServiceUnavailable
	}
	return nil
}
