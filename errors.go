// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"fmt"
)

// ClickHouseError is an error type including various ClickHouse specific information.
type ClickHouseError struct {
	Number      int
	Message     string
	MessageArgs []interface{}
	Query       string
}

func (ce *ClickHouseError) Error() string {
	message := ce.Message
	if len(ce.MessageArgs) > 0 {
		message = fmt.Sprintf(ce.Message, ce.MessageArgs...)
	}
	if ce.Query != "" {
		return fmt.Sprintf("%06d: %s: %s", ce.Number, ce.Query, message)
	}
	return fmt.Sprintf("%06d: %s", ce.Number, message)
}

const (
	// connection

	// ErrCodeInvalidConnCode is an error code for the case where a connection is not available or in invalid state.
	ErrCodeInvalidConnCode = 260000
	// ErrCodeEmptyUsernameCode is an error code for the case where a DSN doesn't include a user parameter.
	ErrCodeEmptyUsernameCode = 260001
	// ErrCodeEmptyHostCode is an error code for the case where a DSN doesn't include a host.
	ErrCodeEmptyHostCode = 260002
	// ErrCodeFailedToParsePort is an error code for the case where a DSN includes an invalid port number.
	ErrCodeFailedToParsePort = 260003
	// ErrCodeInvalidProtocol is an error code for the case where a DSN carries a protocol other than http or https.
	ErrCodeInvalidProtocol = 260004
	// ErrCodeTomlFileParsingFailed is an error code for the case where the connections.toml file cannot be parsed.
	ErrCodeTomlFileParsingFailed = 260005
	// ErrCodeFailedToFindDSNInToml is an error code for the case where the named connection is absent from connections.toml.
	ErrCodeFailedToFindDSNInToml = 260006

	// type grammar

	// ErrCodeUnrecognizedType is an error code for a type string that matches no known type name.
	ErrCodeUnrecognizedType = 261000
	// ErrCodeMalformedTypeArguments is an error code for a known type name with malformed arguments.
	ErrCodeMalformedTypeArguments = 261001

	// codecs

	// ErrCodeTruncatedInput is an error code for a decode that ran out of bytes.
	ErrCodeTruncatedInput = 262000
	// ErrCodeTrailingBytes is an error code for a lone-value decode that left bytes unconsumed.
	ErrCodeTrailingBytes = 262001
	// ErrCodeInvalidDiscriminant is an error code for a bad Bool or Nullable tag byte.
	ErrCodeInvalidDiscriminant = 262002
	// ErrCodeEncodingError is an error code for string bytes that are not valid UTF-8.
	ErrCodeEncodingError = 262003
	// ErrCodeMissingTypeMapping is an error code for a table decode with neither a type header nor a caller mapping.
	ErrCodeMissingTypeMapping = 262004
	// ErrCodeUnsupportedType is an error code for types the codecs do not implement (Decimal, LowCardinality, IPv4/IPv6, geo).
	ErrCodeUnsupportedType = 262005
	// ErrCodeUnsupportedFormat is an error code for a Format with no formatter implementation.
	ErrCodeUnsupportedFormat = 262006
	// ErrCodeMalformedValue is an error code for a text cell that cannot be parsed as its declared type.
	ErrCodeMalformedValue = 262007

	// table shape

	// ErrCodeValueMismatch is an error code for a Value that does not satisfy the Type it is used against.
	ErrCodeValueMismatch = 263000
	// ErrCodeRowWidthMismatch is an error code for a row whose length differs from the table column count.
	ErrCodeRowWidthMismatch = 263001
	// ErrCodeMissingColumnNames is an error code for serializing a names header from a table without names.
	ErrCodeMissingColumnNames = 263002
	// ErrCodeMissingColumnTypes is an error code for serializing a types header from a table without types.
	ErrCodeMissingColumnTypes = 263003

	// query / HTTP

	// ErrCodeQueryFailure is an error code for a query the server rejected.
	ErrCodeQueryFailure = 264000
	// ErrCodeUnsupportedCompression is an error code for a content coding with no codec wired in.
	ErrCodeUnsupportedCompression = 264001
	// ErrCodeServiceUnavailable is an error code for a failed ping.
	ErrCodeServiceUnavailable = 264002
	// ErrCodeBindMismatch is an error code for a statement whose placeholder
	// count differs from the number of bound parameters.
	ErrCodeBindMismatch = 264003
)

const (
	errMsgUnrecognizedType        = "'%v' is not a valid ClickHouse type"
	errMsgMalformedTypeArguments  = "invalid %v type: %v"
	errMsgTruncatedInput          = "unexpected end of %v input while decoding %v"
	errMsgTrailingBytes           = "value decode left %v trailing byte(s)"
	errMsgInvalidBoolByte         = "invalid Bool byte: %#x"
	errMsgInvalidNullableByte     = "invalid Nullable discriminant byte: %#x"
	errMsgInvalidUTF8             = "string bytes are not valid UTF-8"
	errMsgUnsupportedType         = "type %v is not supported by the %v format"
	errMsgUnsupportedFormat       = "no formatter is implemented for format %v"
	errMsgMalformedValue          = "cannot parse %q as %v"
	errMsgValueMismatch           = "value of kind %v does not satisfy type %v"
	errMsgColumnValueMismatch     = "column '%v' requires type '%v'"
	errMsgRowWidthMismatch        = "row length (%v) does not match the number of columns (%v)"
	errMsgFailedToParsePort       = "failed to parse a port number. port: %v"
	errMsgFailedToParseTomlFile   = "failed to parse the connections.toml entry. key: %v, value: %v"
	errMsgFailedToFindDSNInToml   = "failed to find the connection in connections.toml"
	errMsgQueryFailure            = "query failed with status %v: %v"
	errMsgBindMismatch            = "statement expects %v bound parameters, got %v"
	errMsgUnsupportedCompression  = "no codec is wired for the %v content coding"
	errMsgNoTypeForColumn         = "no type for the value at column index %v"
	errMsgEnumVariantOutOfRange   = "enum index %v is not a variant of %v"
	errMsgHeaderShorterThanNames  = "type header is shorter than the name header"
	errMsgNullableValueShape      = "nullable discriminant announced a value of a kind with no nullable form"
)

var (
	// preformatted errors

	// ErrInvalidConn is returned if a connection is not available or in invalid state.
	ErrInvalidConn = &ClickHouseError{
		Number:  ErrCodeInvalidConnCode,
		Message: "invalid connection",
	}
	// ErrEmptyUsername is returned if a DSN doesn't include a user parameter.
	ErrEmptyUsername = &ClickHouseError{
		Number:  ErrCodeEmptyUsernameCode,
		Message: "user is empty",
	}
	// ErrEmptyHost is returned if a DSN doesn't include a hostname.
	ErrEmptyHost = &ClickHouseError{
		Number:  ErrCodeEmptyHostCode,
		Message: "host is empty",
	}
	// ErrMissingTypeMapping is returned when a table decode has neither an
	// embedded type header nor a caller-supplied column mapping.
	ErrMissingTypeMapping = &ClickHouseError{
		Number:  ErrCodeMissingTypeMapping,
		Message: "deserializing data requires a column type mapping",
	}
	// ErrMissingColumnNames is returned when a formatter configured with a name
	// header serializes a table that carries no column names.
	ErrMissingColumnNames = &ClickHouseError{
		Number:  ErrCodeMissingColumnNames,
		Message: "table is missing the column names",
	}
	// ErrMissingColumnTypes is returned when a formatter configured with a type
	// header serializes a table that carries no column types.
	ErrMissingColumnTypes = &ClickHouseError{
		Number:  ErrCodeMissingColumnTypes,
		Message: "table is missing the column types",
	}
	// ErrServiceUnavailable is returned when the server does not answer a ping.
	ErrServiceUnavailable = &ClickHouseError{
		Number:  ErrCodeServiceUnavailable,
		Message: "service is unavailable",
	}
)
