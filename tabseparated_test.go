package goclickhouse

import (
	"testing"

	"github.com/google/uuid"
)

func tsv(t *testing.T) Formatter {
	t.Helper()
	f, err := FormatterFor(FormatTabSeparated)
	assertNilF(t, err)
	return f
}

func TestTSVEscaping(t *testing.T) {
	testcases := []struct {
		raw     string
		escaped string
	}{
		{"hello world", `hello\nworld`},
		{"a\tb", `a\tb`},
		{`back\slash`, `back\bslash`},
		{"it's", `it\'s`},
		{`\N`, `\bN`},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tc := range testcases {
		t.Run(tc.raw, func(t *testing.T) {
			assertEqualE(t, tsvEscape(tc.raw), tc.escaped)
			assertEqualE(t, tsvUnescape(tc.escaped), tc.raw)
		})
	}
}

func TestTSVScalars(t *testing.T) {
	f := tsv(t)
	testcases := []struct {
		name  string
		value Value
		ty    Type
		text  string
	}{
		{"UInt8", UInt8Value(200), UInt8Type, "200"},
		{"Int64", Int64Value(-5), Int64Type, "-5"},
		{"Float64", Float64Value(1.5), Float64Type, "1.5"},
		{"BoolTrue", BoolValue(true), BoolType, "true"},
		{"String", StringValue("hi"), StringType, "hi"},
		{"Date", DateValue(0), DateType, "1970-01-01"},
		{"DateTime", DateTimeValue(86400), DateTimeType, "1970-01-02 00:00:00"},
		{"DateTime64", DateTime64Value(1500, 3), DateTime64Type(3), "1970-01-01 00:00:01.500"},
		{"Enum8", Enum8Value(2), Enum8Type(EnumVariant{"a", 1}, EnumVariant{"b", 2}), "2"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := f.SerializeValue(tc.value, tc.ty)
			assertNilF(t, err)
			assertEqualE(t, string(encoded), tc.text)

			decoded, err := f.DeserializeValue([]byte(tc.text), tc.ty)
			assertNilF(t, err)
			assertTrueE(t, decoded.Equal(tc.value))
		})
	}
}

func TestTSVUUID(t *testing.T) {
	f := tsv(t)
	uid := uuid.MustParse("01234567-89ab-cdef-0123-456789abcdef")
	encoded, err := f.SerializeValue(UUIDValue(uid), UUIDType)
	assertNilF(t, err)
	assertEqualE(t, string(encoded), "01234567-89ab-cdef-0123-456789abcdef")
	decoded, err := f.DeserializeValue(encoded, UUIDType)
	assertNilF(t, err)
	assertTrueE(t, decoded.Equal(UUIDValue(uid)))
}

func TestTSVNull(t *testing.T) {
	f := tsv(t)
	nt := mustNullable(StringType)

	null, _ := NullValue(nt)
	encoded, err := f.SerializeValue(null, nt)
	assertNilF(t, err)
	assertEqualE(t, string(encoded), `\N`)

	decoded, err := f.DeserializeValue([]byte(`\N`), nt)
	assertNilF(t, err)
	assertTrueE(t, decoded.IsNull())

	// an escaped backslash-N is the two-character string, not NULL
	literal := `\N`
	decoded, err = f.DeserializeValue([]byte(`\bN`), nt)
	assertNilF(t, err)
	assertTrueE(t, decoded.Equal(NullableStringValue(&literal)))
}

func TestTSVContainers(t *testing.T) {
	f := tsv(t)
	testcases := []struct {
		name  string
		value Value
		ty    Type
		text  string
	}{
		{
			"ArrayOfStrings",
			ArrayValue(StringValue("a b"), StringValue("c")),
			ArrayType(StringType),
			`['a\nb', 'c']`,
		},
		{
			"ArrayOfDates",
			ArrayValue(DateValue(0)),
			ArrayType(DateType),
			"['1970-01-01']",
		},
		{
			"Tuple",
			TupleValue(UInt8Value(1), StringValue("x")),
			TupleType(UInt8Type, StringType),
			"(1, 'x')",
		},
		{
			"MapSortedKeys",
			MapValue(map[string]Value{"b": UInt8Value(2), "a": UInt8Value(1)}),
			MapType(StringType, UInt8Type),
			"{'a': 1, 'b': 2}",
		},
		{
			"MapEscapedKeys",
			MapValue(map[string]Value{"a b": UInt8Value(1), "x': y": UInt8Value(2)}),
			MapType(StringType, UInt8Type),
			`{'a\nb': 1, 'x\':\ny': 2}`,
		},
		{
			"EmptyArray",
			ArrayValue(),
			ArrayType(UInt8Type),
			"[]",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := f.SerializeValue(tc.value, tc.ty)
			assertNilF(t, err)
			assertEqualE(t, string(encoded), tc.text)

			decoded, err := f.DeserializeValue([]byte(tc.text), tc.ty)
			assertNilF(t, err)
			assertTrueE(t, decoded.Equal(tc.value))
		})
	}
}

func TestTSVNestedRoundTrip(t *testing.T) {
	f := tsv(t)
	ty := NestedType(
		NestedField{"id", UInt8Type},
		NestedField{"name", StringType},
	)
	value := NestedValue(map[string]Value{
		"id":   UInt8Value(7),
		"name": StringValue("x"),
	})
	encoded, err := f.SerializeValue(value, ty)
	assertNilF(t, err)
	assertEqualE(t, string(encoded), "[7, 'x']")

	decoded, err := f.DeserializeValue(encoded, ty)
	assertNilF(t, err)
	assertTrueE(t, decoded.Equal(value))
}

func TestTSVNestedContainersSplit(t *testing.T) {
	f := tsv(t)

	// commas inside quoted strings must not split items
	ty := ArrayType(StringType)
	value := ArrayValue(StringValue("a, b"), StringValue("c"))
	encoded, err := f.SerializeValue(value, ty)
	assertNilF(t, err)
	decoded, err := f.DeserializeValue(encoded, ty)
	assertNilF(t, err)
	assertTrueE(t, decoded.Equal(value))

	// commas inside nested arrays must not split outer items
	ty = ArrayType(ArrayType(UInt8Type))
	value = ArrayValue(
		ArrayValue(UInt8Value(1), UInt8Value(2)),
		ArrayValue(UInt8Value(3)),
	)
	encoded, err = f.SerializeValue(value, ty)
	assertNilF(t, err)
	assertEqualE(t, string(encoded), "[[1, 2], [3]]")
	decoded, err = f.DeserializeValue(encoded, ty)
	assertNilF(t, err)
	assertTrueE(t, decoded.Equal(value))
}

func TestTSVRawSkipsEscaping(t *testing.T) {
	f, err := FormatterFor(FormatTabSeparatedRaw)
	assertNilF(t, err)

	encoded, err := f.SerializeValue(StringValue("a b\tc"), StringType)
	assertNilF(t, err)
	assertEqualE(t, string(encoded), "a b\tc")

	decoded, err := f.DeserializeValue([]byte("a b"), StringType)
	assertNilF(t, err)
	assertTrueE(t, decoded.Equal(StringValue("a b")))
}

func TestTSVErrors(t *testing.T) {
	f := tsv(t)

	_, err := f.DeserializeValue([]byte("abc"), UInt8Type)
	assertCodeE(t, err, ErrCodeMalformedValue)

	_, err = f.DeserializeValue([]byte("9"), Enum8Type(EnumVariant{"a", 1}))
	assertCodeE(t, err, ErrCodeInvalidDiscriminant)

	_, err = f.SerializeValue(Enum8Value(9), Enum8Type(EnumVariant{"a", 1}))
	assertCodeE(t, err, ErrCodeInvalidDiscriminant)

	_, err = f.DeserializeValue([]byte("1.5"), DecimalType(9, 4))
	assertCodeE(t, err, ErrCodeUnsupportedType)

	_, err = f.DeserializeValue([]byte{0xff, 0xfe}, StringType)
	assertCodeE(t, err, ErrCodeEncodingError)

	_, err = f.SerializeValue(UInt16Value(1), UInt8Type)
	assertCodeE(t, err, ErrCodeValueMismatch)
}

func TestTSVQueryDataWithNamesAndTypes(t *testing.T) {
	qd, err := NewQueryData(
		[]Value{UInt8Value(1), StringValue("one two")},
	)
	assertNilF(t, err)
	_, err = qd.WithColumnNames("id", "words")
	assertNilF(t, err)
	_, err = qd.WithColumnTypes(UInt8Type, StringType)
	assertNilF(t, err)

	f, err := FormatterFor(FormatTabSeparatedWithNamesAndTypes)
	assertNilF(t, err)
	encoded, err := f.SerializeQueryData(qd)
	assertNilF(t, err)
	assertEqualE(t, string(encoded), "id\twords\nUInt8\tString\n1\tone\\ntwo\n")

	decoded, err := f.DeserializeQueryData(encoded, nil)
	assertNilF(t, err)
	names, ok := decoded.ColumnNames()
	assertTrueF(t, ok)
	assertDeepEqualE(t, names, []string{"id", "words"})
	assertEqualE(t, decoded.NumRows(), 1)
	assertTrueE(t, decoded.Value(0, 1).Equal(StringValue("one two")))
}

func TestTSVQueryDataNeedsMapping(t *testing.T) {
	f := tsv(t)
	_, err := f.DeserializeQueryData([]byte("1\ta\n"), nil)
	assertErrIsE(t, err, ErrMissingTypeMapping)

	decoded, err := f.DeserializeQueryData([]byte("1\ta\n"), []Column{
		{Name: "id", Type: UInt8Type},
		{Name: "name", Type: StringType},
	})
	assertNilF(t, err)
	assertEqualE(t, decoded.NumRows(), 1)
	assertTrueE(t, decoded.Value(0, 0).Equal(UInt8Value(1)))
}
