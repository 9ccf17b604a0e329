package goclickhouse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConnectionsFile(t *testing.T, contents string) {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "connections.toml"), []byte(contents), 0600)
	assertNilF(t, err)
	t.Setenv(clickhouseHome, dir)
}

func TestLoadConnectionConfig(t *testing.T) {
	writeConnectionsFile(t, `
[default]
user = "alice"
password = "secret"
host = "ch.example.com"
port = 9000
database = "analytics"
protocol = "https"
compression = "lz4"
format = "RowBinaryWithNamesAndTypes"
request_timeout = 30
ping_timeout = 2
insecure_skip_verify = true
max_execution_time = "60"

[staging]
username = "bob"
host = "staging.example.com"
`)

	cfg, err := LoadConnectionConfig("")
	assertNilF(t, err)
	assertEqualE(t, cfg.User, "alice")
	assertEqualE(t, cfg.Password, "secret")
	assertEqualE(t, cfg.Host, "ch.example.com")
	assertEqualE(t, cfg.Port, 9000)
	assertEqualE(t, cfg.Database, "analytics")
	assertEqualE(t, cfg.Protocol, "https")
	assertEqualE(t, cfg.Compression, CompressionLz4)
	assertEqualE(t, cfg.Format, FormatRowBinaryWithNamesAndTypes)
	assertEqualE(t, cfg.RequestTimeout, 30*time.Second)
	assertEqualE(t, cfg.PingTimeout, 2*time.Second)
	assertTrueE(t, cfg.InsecureSkipVerify)
	assertEqualE(t, *cfg.Params["max_execution_time"], "60")

	cfg, err = LoadConnectionConfig("staging")
	assertNilF(t, err)
	assertEqualE(t, cfg.User, "bob")
	assertEqualE(t, cfg.Host, "staging.example.com")
	assertEqualE(t, cfg.Port, defaultHTTPPort)
}

func TestLoadConnectionConfigDefaultName(t *testing.T) {
	writeConnectionsFile(t, `
[primary]
user = "alice"
host = "host"
`)
	t.Setenv(clickhouseDefaultConnEnv, "primary")
	cfg, err := LoadConnectionConfig("")
	assertNilF(t, err)
	assertEqualE(t, cfg.User, "alice")
}

func TestLoadConnectionConfigErrors(t *testing.T) {
	writeConnectionsFile(t, `
[default]
user = "alice"
host = "host"
`)
	_, err := LoadConnectionConfig("missing")
	assertCodeE(t, err, ErrCodeFailedToFindDSNInToml)

	writeConnectionsFile(t, "not toml [")
	_, err = LoadConnectionConfig("")
	assertCodeE(t, err, ErrCodeTomlFileParsingFailed)

	writeConnectionsFile(t, `
[default]
user = 42
host = "host"
`)
	_, err = LoadConnectionConfig("")
	assertCodeE(t, err, ErrCodeTomlFileParsingFailed)

	writeConnectionsFile(t, `
[default]
user = "alice"
host = "host"
port = "abc"
`)
	_, err = LoadConnectionConfig("")
	assertCodeE(t, err, ErrCodeTomlFileParsingFailed)
}
