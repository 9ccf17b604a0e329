package goclickhouse

import (
	"database/sql/driver"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestValueFromDriver(t *testing.T) {
	v, err := valueFromDriver(int64(-5))
	assertNilF(t, err)
	assertTrueE(t, v.Equal(Int64Value(-5)))

	v, err = valueFromDriver("abc")
	assertNilF(t, err)
	assertTrueE(t, v.Equal(StringValue("abc")))

	v, err = valueFromDriver([]byte("abc"))
	assertNilF(t, err)
	assertTrueE(t, v.Equal(StringValue("abc")))

	v, err = valueFromDriver(UInt8Value(1))
	assertNilF(t, err)
	assertTrueE(t, v.Equal(UInt8Value(1)))

	ts := time.Date(2024, 5, 17, 10, 4, 5, 123456789, time.UTC)
	v, err = valueFromDriver(ts)
	assertNilF(t, err)
	back, ok := v.Time()
	assertTrueF(t, ok)
	assertTrueE(t, back.Equal(ts))

	_, err = valueFromDriver(struct{}{})
	assertCodeE(t, err, ErrCodeValueMismatch)
}

func TestValueToDriver(t *testing.T) {
	uid := uuid.MustParse("01234567-89ab-cdef-0123-456789abcdef")
	big128 := new(big.Int).Lsh(big.NewInt(1), 100)

	null, _ := NullValue(mustNullable(StringType))
	if valueToDriver(null) != nil {
		t.Error("expected nil for a NULL value")
	}

	assertEqualE(t, valueToDriver(UInt8Value(7)), int64(7))
	assertEqualE(t, valueToDriver(Int64Value(-5)), int64(-5))
	assertEqualE(t, valueToDriver(Float64Value(1.5)), 1.5)
	assertEqualE(t, valueToDriver(BoolValue(true)), true)
	assertEqualE(t, valueToDriver(StringValue("x")), "x")
	assertEqualE(t, valueToDriver(UUIDValue(uid)), uid.String())
	assertEqualE(t, valueToDriver(UInt128Value(big128)), big128.String())

	// UInt64 values past the int64 range come back rendered
	assertEqualE(t, valueToDriver(UInt64Value(1<<63)), "9223372036854775808")
	assertEqualE(t, valueToDriver(UInt64Value(1)), int64(1))

	ts, ok := valueToDriver(DateTimeValue(86400)).(time.Time)
	assertTrueF(t, ok)
	assertEqualE(t, ts.Unix(), int64(86400))

	assertEqualE(t, valueToDriver(ArrayValue(UInt8Value(1), UInt8Value(2))), "[1, 2]")
}

func TestBindDriverValuesNil(t *testing.T) {
	bound, err := bindDriverValues("UPDATE t SET note = [??]", []driver.Value{nil})
	assertNilF(t, err)
	assertEqualE(t, bound, "UPDATE t SET note = NULL")
}
