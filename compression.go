// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Compression selects the content coding for request and response bodies,
// negotiated through the Content-Encoding and Accept-Encoding headers.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionBr
	CompressionDeflate
	CompressionXz
	CompressionZstd
	CompressionLz4
	CompressionBz2
	CompressionSnappy
)

var compressionNames = map[Compression]string{
	CompressionNone:    "none",
	CompressionGzip:    "gzip",
	CompressionBr:      "br",
	CompressionDeflate: "deflate",
	CompressionXz:      "xz",
	CompressionZstd:    "zstd",
	CompressionLz4:     "lz4",
	CompressionBz2:     "bz2",
	CompressionSnappy:  "snappy",
}

func (c Compression) String() string {
	if name, ok := compressionNames[c]; ok {
		return name
	}
	return "none"
}

// CompressionFromString parses a content coding name.
func CompressionFromString(s string) (Compression, error) {
	for c, name := range compressionNames {
		if name == s {
			return c, nil
		}
	}
	return CompressionNone, errUnsupportedCompression(s)
}

func errUnsupportedCompression(name string) error {
	return &ClickHouseError{
		Number:      ErrCodeUnsupportedCompression,
		Message:     errMsgUnsupportedCompression,
		MessageArgs: []interface{}{name},
	}
}

// contentEncoding returns the header value, empty for no compression.
func (c Compression) contentEncoding() string {
	if c == CompressionNone {
		return ""
	}
	return c.String()
}

// compress encodes a request body. Only gzip, deflate and lz4 have codecs
// wired in; the other codings are accepted from the server but cannot be
// produced here.
func (c Compression) compress(data []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressionDeflate:
		var buf bytes.Buffer
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressionLz4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, errUnsupportedCompression(c.String())
}

// decompressReader wraps a response body according to its Content-Encoding.
func decompressReader(encoding string, body io.Reader) (io.Reader, error) {
	switch encoding {
	case "", "none":
		return body, nil
	case "gzip":
		return gzip.NewReader(body)
	case "deflate":
		return flate.NewReader(body), nil
	case "lz4":
		return lz4.NewReader(body), nil
	}
	return nil, errUnsupportedCompression(encoding)
}
