package goclickhouse

import (
	"testing"
	"time"
)

func TestParseDSN(t *testing.T) {
	testcases := []struct {
		dsn string
		cfg Config
	}{
		{
			dsn: "user@host",
			cfg: Config{
				User: "user", Host: "host", Port: 8123,
				Database: "default", Protocol: "http",
			},
		},
		{
			dsn: "user:pass@host:9000/analytics",
			cfg: Config{
				User: "user", Password: "pass", Host: "host", Port: 9000,
				Database: "analytics", Protocol: "http",
			},
		},
		{
			dsn: "user:p@ss@host",
			cfg: Config{
				User: "user", Password: "p@ss", Host: "host", Port: 8123,
				Database: "default", Protocol: "http",
			},
		},
		{
			dsn: "user@host?protocol=https",
			cfg: Config{
				User: "user", Host: "host", Port: 8443,
				Database: "default", Protocol: "https",
			},
		},
		{
			dsn: "user@host?compression=lz4&format=RowBinary&requestTimeout=30",
			cfg: Config{
				User: "user", Host: "host", Port: 8123,
				Database: "default", Protocol: "http",
				Compression:    CompressionLz4,
				Format:         FormatRowBinary,
				RequestTimeout: 30 * time.Second,
			},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.dsn, func(t *testing.T) {
			cfg, err := ParseDSN(tc.dsn)
			assertNilF(t, err)
			assertEqualE(t, cfg.User, tc.cfg.User)
			assertEqualE(t, cfg.Password, tc.cfg.Password)
			assertEqualE(t, cfg.Host, tc.cfg.Host)
			assertEqualE(t, cfg.Port, tc.cfg.Port)
			assertEqualE(t, cfg.Database, tc.cfg.Database)
			assertEqualE(t, cfg.Protocol, tc.cfg.Protocol)
			assertEqualE(t, cfg.Compression, tc.cfg.Compression)
			if tc.cfg.Format != "" {
				assertEqualE(t, cfg.Format, tc.cfg.Format)
			} else {
				assertEqualE(t, cfg.Format, FormatTabSeparatedWithNamesAndTypes)
			}
			if tc.cfg.RequestTimeout != 0 {
				assertEqualE(t, cfg.RequestTimeout, tc.cfg.RequestTimeout)
			} else {
				assertEqualE(t, cfg.RequestTimeout, defaultRequestTimeout)
			}
		})
	}
}

func TestParseDSNExtraParams(t *testing.T) {
	cfg, err := ParseDSN("user@host?max_execution_time=30&mutations_sync=1")
	assertNilF(t, err)
	assertEqualE(t, len(cfg.Params), 2)
	assertEqualE(t, *cfg.Params["max_execution_time"], "30")
	assertEqualE(t, *cfg.Params["mutations_sync"], "1")
}

func TestParseDSNErrors(t *testing.T) {
	testcases := []struct {
		name string
		dsn  string
		err  error
	}{
		{"NoAt", "userhost", ErrEmptyUsername},
		{"EmptyUser", "@host", ErrEmptyUsername},
		{"EmptyHost", "user@", ErrEmptyHost},
		{"EmptyHostWithPort", "user@:8123", ErrEmptyHost},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDSN(tc.dsn)
			assertErrIsE(t, err, tc.err)
		})
	}

	_, err := ParseDSN("user@host:abc")
	assertCodeE(t, err, ErrCodeFailedToParsePort)

	_, err = ParseDSN("user@host?protocol=tcp")
	assertCodeE(t, err, ErrCodeInvalidProtocol)
}

func TestDSNRoundTrip(t *testing.T) {
	original := "user:pass@host:9000/analytics?compression=gzip&protocol=https"
	cfg, err := ParseDSN(original)
	assertNilF(t, err)
	dsn, err := DSN(cfg)
	assertNilF(t, err)
	cfg2, err := ParseDSN(dsn)
	assertNilF(t, err)
	assertEqualE(t, cfg2.User, cfg.User)
	assertEqualE(t, cfg2.Password, cfg.Password)
	assertEqualE(t, cfg2.Host, cfg.Host)
	assertEqualE(t, cfg2.Port, cfg.Port)
	assertEqualE(t, cfg2.Database, cfg.Database)
	assertEqualE(t, cfg2.Protocol, cfg.Protocol)
	assertEqualE(t, cfg2.Compression, cfg.Compression)
}

func TestDSNOmitsDefaults(t *testing.T) {
	dsn, err := DSN(&Config{User: "user", Host: "host"})
	assertNilF(t, err)
	assertEqualE(t, dsn, "user@host:8123/default")
}
