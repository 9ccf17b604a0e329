// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	// CHQueryIDKey is the context key of the query id, written to logs by WithContext.
	CHQueryIDKey contextKey = "CH_QUERY_ID"
	// CHDatabaseKey is the context key of the target database, written to logs by WithContext.
	CHDatabaseKey contextKey = "CH_DATABASE"
)

// logKeys are the context keys picked up by WithContext.
var logKeys = [...]contextKey{CHQueryIDKey, CHDatabaseKey}

// CHLogger is the ClickHouse driver logger interface. It abstracts away the
// underlying logging mechanism; the default implementation wraps logrus.
type CHLogger interface {
	logrus.Ext1FieldLogger

	// SetLogLevel sets the log level. Levels: trace debug info warn error fatal panic.
	SetLogLevel(level string) error
	// GetLogLevel returns the current log level.
	GetLogLevel() string
	// WithContext returns an entry carrying the log fields found in ctx.
	WithContext(ctx context.Context) *logrus.Entry
	// SetOutput redirects the log output.
	SetOutput(output io.Writer)
}

type defaultLogger struct {
	*logrus.Logger
}

func (log *defaultLogger) SetLogLevel(level string) error {
	actualLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	log.Logger.SetLevel(actualLevel)
	return nil
}

func (log *defaultLogger) GetLogLevel() string {
	return log.Logger.GetLevel().String()
}

func (log *defaultLogger) WithContext(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}
	for _, key := range logKeys {
		if value := ctx.Value(key); value != nil {
			fields[string(key)] = value
		}
	}
	return log.Logger.WithFields(fields)
}

func (log *defaultLogger) SetOutput(output io.Writer) {
	log.Logger.SetOutput(output)
}

// CreateDefaultLogger creates the driver logger: logrus to stderr at warn level.
func CreateDefaultLogger() CHLogger {
	rl := logrus.New()
	rl.SetOutput(os.Stderr)
	rl.SetLevel(logrus.WarnLevel)
	return &defaultLogger{Logger: rl}
}

var logger = CreateDefaultLogger()

// GetLogger returns the current driver logger.
func GetLogger() CHLogger {
	return logger
}

// SetLogger replaces the driver logger.
func SetLogger(inLogger CHLogger) {
	logger = inLogger
}
