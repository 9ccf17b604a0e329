package goclickhouse

import (
	"testing"
)

func TestFormatDateDays(t *testing.T) {
	testcases := []struct {
		days int64
		text string
	}{
		{0, "1970-01-01"},
		{1, "1970-01-02"},
		{-1, "1969-12-31"},
		{19862, "2024-05-19"},
	}
	for _, tc := range testcases {
		t.Run(tc.text, func(t *testing.T) {
			assertEqualE(t, formatDateDays(tc.days), tc.text)
			days, err := parseDateDays(tc.text)
			assertNilF(t, err)
			assertEqualE(t, days, tc.days)
		})
	}
}

func TestParseDateErrors(t *testing.T) {
	for _, text := range []string{"", "2024-13-01", "not a date", "2024-05-19 10:00:00"} {
		if _, err := parseDateDays(text); err == nil {
			t.Errorf("expected parse failure for %q", text)
		}
	}
}

func TestFormatDateTimeSeconds(t *testing.T) {
	testcases := []struct {
		seconds int64
		text    string
	}{
		{0, "1970-01-01 00:00:00"},
		{86400, "1970-01-02 00:00:00"},
		{1716285600, "2024-05-21 10:00:00"},
	}
	for _, tc := range testcases {
		t.Run(tc.text, func(t *testing.T) {
			assertEqualE(t, formatDateTimeSeconds(tc.seconds), tc.text)
			seconds, err := parseDateTimeSeconds(tc.text)
			assertNilF(t, err)
			assertEqualE(t, seconds, tc.seconds)
		})
	}
}

func TestDateTime64Ticks(t *testing.T) {
	testcases := []struct {
		ticks     int64
		precision uint8
		text      string
	}{
		{0, 0, "1970-01-01 00:00:00"},
		{1, 3, "1970-01-01 00:00:00.001"},
		{1500, 3, "1970-01-01 00:00:01.500"},
		{1000000, 6, "1970-01-01 00:00:01.000000"},
		{123456789, 9, "1970-01-01 00:00:00.123456789"},
		// pre-epoch: the seconds floor and the fraction counts forward
		{-1, 3, "1969-12-31 23:59:59.999"},
		{-1999, 3, "1969-12-31 23:59:58.001"},
		{-1000, 3, "1969-12-31 23:59:59.000"},
		{-1, 0, "1969-12-31 23:59:59"},
	}
	for _, tc := range testcases {
		t.Run(tc.text, func(t *testing.T) {
			assertEqualE(t, formatDateTime64Ticks(tc.ticks, tc.precision), tc.text)
			ticks, err := parseDateTime64Ticks(tc.text, tc.precision)
			assertNilF(t, err)
			assertEqualE(t, ticks, tc.ticks)
		})
	}
}

func TestParseDateTime64ShortFraction(t *testing.T) {
	// fewer fractional digits than the precision are padded on the right
	ticks, err := parseDateTime64Ticks("1970-01-01 00:00:01.5", 3)
	assertNilF(t, err)
	assertEqualE(t, ticks, int64(1500))

	// more digits than the precision can hold is an error
	_, err = parseDateTime64Ticks("1970-01-01 00:00:01.5001", 3)
	assertCodeE(t, err, ErrCodeMalformedValue)

	_, err = parseDateTime64Ticks("1970-01-01 00:00:01.ab", 3)
	assertCodeE(t, err, ErrCodeMalformedValue)
}
