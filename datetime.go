// Package goclickhouse is a Go ClickHouse Driver for Go's database/sql
//
// Copyright (c) 2026 ClickHouseDB Contributors. All rights reserved.
//
package goclickhouse

import (
	"strings"
	"time"
)

// All temporal kinds are UTC. Date counts days since 1970-01-01, DateTime
// seconds, DateTime64 ticks of 10^-precision seconds.

const secondsPerDay = 86400

var pow10 = [...]int64{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000, 1000000000}

// formatDateDays renders days since the Unix epoch as YYYY-MM-DD.
func formatDateDays(days int64) string {
	return time.Unix(days*secondsPerDay, 0).UTC().Format(time.DateOnly)
}

// parseDateDays parses YYYY-MM-DD into days since the Unix epoch.
func parseDateDays(s string) (int64, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return 0, err
	}
	return t.Unix() / secondsPerDay, nil
}

// formatDateTimeSeconds renders seconds since the Unix epoch as
// "YYYY-MM-DD hh:mm:ss".
func formatDateTimeSeconds(seconds int64) string {
	return time.Unix(seconds, 0).UTC().Format(time.DateTime)
}

// parseDateTimeSeconds parses "YYYY-MM-DD hh:mm:ss" into seconds since the
// Unix epoch.
func parseDateTimeSeconds(s string) (int64, error) {
	t, err := time.ParseInLocation(time.DateTime, s, time.UTC)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// formatDateTime64Ticks renders ticks at the given precision as
// "YYYY-MM-DD hh:mm:ss" followed by precision fractional digits.
func formatDateTime64Ticks(ticks int64, precision uint8) string {
	if precision == 0 {
		return formatDateTimeSeconds(ticks)
	}
	unit := pow10[precision]
	secs, frac := ticks/unit, ticks%unit
	if frac < 0 {
		secs--
		frac += unit
	}
	var sb strings.Builder
	sb.WriteString(formatDateTimeSeconds(secs))
	sb.WriteByte('.')
	digits := strconv64(frac)
	for pad := int(precision) - len(digits); pad > 0; pad-- {
		sb.WriteByte('0')
	}
	sb.WriteString(digits)
	return sb.String()
}

// parseDateTime64Ticks parses "YYYY-MM-DD hh:mm:ss[.fff]" into ticks at the
// given precision. Fractional digits beyond the precision are rejected.
func parseDateTime64Ticks(s string, precision uint8) (int64, error) {
	base, frac, _ := strings.Cut(s, ".")
	secs, err := parseDateTimeSeconds(base)
	if err != nil {
		return 0, err
	}
	ticks := secs * pow10[precision]
	if frac == "" {
		return ticks, nil
	}
	if len(frac) > int(precision) {
		return 0, errBadFraction(s)
	}
	var f int64
	for i := 0; i < len(frac); i++ {
		if frac[i] < '0' || frac[i] > '9' {
			return 0, errBadFraction(s)
		}
		f = f*10 + int64(frac[i]-'0')
	}
	f *= pow10[int(precision)-len(frac)]
	// The formatter floors the seconds, so the fraction always counts
	// forward from them even before the epoch.
	return ticks + f, nil
}

func errBadFraction(s string) error {
	return &ClickHouseError{
		Number:      ErrCodeMalformedValue,
		Message:     errMsgMalformedValue,
		MessageArgs: []interface{}{s, "DateTime64"},
	}
}

func strconv64(v int64) string {
	// small positive values only
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// DateValueFromTime returns a Date value for the UTC calendar day of t.
func DateValueFromTime(t time.Time) Value {
	return DateValue(uint16(t.UTC().Unix() / secondsPerDay))
}

// Date32ValueFromTime returns a Date32 value for the UTC calendar day of t.
func Date32ValueFromTime(t time.Time) Value {
	return Date32Value(int32(daysFromTime(t)))
}

func daysFromTime(t time.Time) int64 {
	secs := t.UTC().Unix()
	days := secs / secondsPerDay
	if secs < 0 && secs%secondsPerDay != 0 {
		days--
	}
	return days
}

// DateTimeValueFromTime returns a DateTime value for t truncated to seconds.
func DateTimeValueFromTime(t time.Time) Value {
	return DateTimeValue(uint32(t.Unix()))
}

// DateTime64ValueFromTime returns a DateTime64 value for t at the given
// precision.
func DateTime64ValueFromTime(t time.Time, precision uint8) Value {
	ticks := t.Unix()*pow10[precision] + int64(t.Nanosecond())/pow10[9-precision]
	return DateTime64Value(ticks, precision)
}

// Time converts a temporal value to time.Time in UTC. The second return is
// false for non-temporal or null values.
func (v Value) Time() (time.Time, bool) {
	if v.null {
		return time.Time{}, false
	}
	switch v.kind {
	case KindDate:
		return time.Unix(int64(v.u)*secondsPerDay, 0).UTC(), true
	case KindDate32:
		return time.Unix(v.i*secondsPerDay, 0).UTC(), true
	case KindDateTime:
		return time.Unix(int64(v.u), 0).UTC(), true
	case KindDateTime64:
		unit := pow10[v.prec]
		secs, frac := v.i/unit, v.i%unit
		if frac < 0 {
			secs--
			frac += unit
		}
		return time.Unix(secs, frac*pow10[9-v.prec]).UTC(), true
	}
	return time.Time{}, false
}
