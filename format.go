// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

// Format names a ClickHouse input/output format, as spelled in the FORMAT
// clause and the X-ClickHouse-Format header.
type Format string

const (
	FormatTabSeparated                     Format = "TabSeparated"
	FormatTabSeparatedRaw                  Format = "TabSeparatedRaw"
	FormatTabSeparatedWithNames            Format = "TabSeparatedWithNames"
	FormatTabSeparatedWithNamesAndTypes    Format = "TabSeparatedWithNamesAndTypes"
	FormatTabSeparatedRawWithNames         Format = "TabSeparatedRawWithNames"
	FormatTabSeparatedRawWithNamesAndTypes Format = "TabSeparatedRawWithNamesAndTypes"
	FormatTemplate                         Format = "Template"
	FormatCSV                              Format = "CSV"
	FormatCSVWithNames                     Format = "CSVWithNames"
	FormatCSVWithNamesAndTypes             Format = "CSVWithNamesAndTypes"
	FormatCustomSeparated                  Format = "CustomSeparated"
	FormatValues                           Format = "Values"
	FormatVertical                         Format = "Vertical"
	FormatJSON                             Format = "JSON"
	FormatJSONStrings                      Format = "JSONStrings"
	FormatJSONColumns                      Format = "JSONColumns"
	FormatJSONCompact                      Format = "JSONCompact"
	FormatJSONCompactStrings               Format = "JSONCompactStrings"
	FormatJSONEachRow                      Format = "JSONEachRow"
	FormatJSONStringsEachRow               Format = "JSONStringsEachRow"
	FormatJSONCompactEachRow               Format = "JSONCompactEachRow"
	FormatJSONLines                        Format = "JSONLines"
	FormatBSONEachRow                      Format = "BSONEachRow"
	FormatTSKV                             Format = "TSKV"
	FormatPretty                           Format = "Pretty"
	FormatPrettyCompact                    Format = "PrettyCompact"
	FormatPrettySpace                      Format = "PrettySpace"
	FormatProtobuf                         Format = "Protobuf"
	FormatAvro                             Format = "Avro"
	FormatParquet                          Format = "Parquet"
	FormatArrow                            Format = "Arrow"
	FormatORC                              Format = "ORC"
	FormatRowBinary                        Format = "RowBinary"
	FormatRowBinaryWithNames               Format = "RowBinaryWithNames"
	FormatRowBinaryWithNamesAndTypes       Format = "RowBinaryWithNamesAndTypes"
	FormatNative                           Format = "Native"
	FormatNull                             Format = "Null"
	FormatXML                              Format = "XML"
	FormatCapnProto                        Format = "CapnProto"
	FormatLineAsString                     Format = "LineAsString"
	FormatRawBLOB                          Format = "RawBLOB"
	FormatMsgPack                          Format = "MsgPack"
	FormatMarkdown                         Format = "Markdown"
)

func (f Format) String() string {
	return string(f)
}

// headerMode tells a formatter which leading rows or blocks a table
// serialization carries.
type headerMode int

const (
	headerNone headerMode = iota
	headerNames
	headerNamesAndTypes
)

// Formatter turns values and tables into wire bytes and back for one Format.
type Formatter interface {
	// SerializeValue encodes a lone value against its column type.
	SerializeValue(v Value, t Type) ([]byte, error)
	// DeserializeValue decodes a lone value and requires the whole input to
	// be consumed.
	DeserializeValue(data []byte, t Type) (Value, error)
	// SerializeQueryData encodes a whole table, headers per the format.
	SerializeQueryData(qd *QueryData) ([]byte, error)
	// DeserializeQueryData decodes a whole table. For formats that do not
	// carry a type header the caller supplies the column types; columns may
	// be nil for self-describing formats.
	DeserializeQueryData(data []byte, columns []Column) (*QueryData, error)
}

// FormatterFor returns the Formatter implementation for a format. Only the
// RowBinary and TabSeparated families are implemented; everything else is
// negotiated with the server as text and reported unsupported here.
func FormatterFor(f Format) (Formatter, error) {
	switch f {
	case FormatRowBinary:
		return &rowBinaryFormatter{header: headerNone}, nil
	case FormatRowBinaryWithNames:
		return &rowBinaryFormatter{header: headerNames}, nil
	case FormatRowBinaryWithNamesAndTypes:
		return &rowBinaryFormatter{header: headerNamesAndTypes}, nil
	case FormatTabSeparated:
		return &tabSeparatedFormatter{header: headerNone}, nil
	case FormatTabSeparatedWithNames:
		return &tabSeparatedFormatter{header: headerNames}, nil
	case FormatTabSeparatedWithNamesAndTypes:
		return &tabSeparatedFormatter{header: headerNamesAndTypes}, nil
	case FormatTabSeparatedRaw:
		return &tabSeparatedFormatter{header: headerNone, raw: true}, nil
	case FormatTabSeparatedRawWithNames:
		return &tabSeparatedFormatter{header: headerNames, raw: true}, nil
	case FormatTabSeparatedRawWithNamesAndTypes:
		return &tabSeparatedFormatter{header: headerNamesAndTypes, raw: true}, nil
	}
	return nil, &ClickHouseError{
		Number:      ErrCodeUnsupportedFormat,
		Message:     errMsgUnsupportedFormat,
		MessageArgs: []interface{}{f},
	}
}
