package goclickhouse

import (
	"context"
	"io"
	"net/http"
	"testing"
)

func TestCreateTableSQL(t *testing.T) {
	schema := NewTableSchema("events").
		PrimaryColumn("id", UInt64Type).
		Column("name", StringType).
		Column("tags", ArrayType(StringType)).
		Column("note", mustNullable(StringType))
	sql := schema.createTableSQL("MergeTree()")
	assertEqualE(t, sql,
		"CREATE TABLE IF NOT EXISTS events (id UInt64, name String, tags Array(String), note Nullable(String)) ENGINE = MergeTree() PRIMARY KEY (id)")
}

func TestCreateTableSQLCompositeKey(t *testing.T) {
	schema := NewTableSchema("kv").
		PrimaryColumn("k1", StringType).
		PrimaryColumn("k2", UInt8Type).
		Column("v", StringType)
	sql := schema.createTableSQL("TinyLog")
	assertEqualE(t, sql,
		"CREATE TABLE IF NOT EXISTS kv (k1 String, k2 UInt8, v String) ENGINE = TinyLog PRIMARY KEY (k1, k2)")
}

func TestCreateTableSQLNoPrimaryKey(t *testing.T) {
	schema := NewTableSchema("plain").Column("v", StringType)
	sql := schema.createTableSQL("Memory")
	assertEqualE(t, sql, "CREATE TABLE IF NOT EXISTS plain (v String) ENGINE = Memory")
}

func TestDDLStatements(t *testing.T) {
	var queries []string
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("query"))
		io.WriteString(w, "")
	}))

	ctx := context.Background()
	assertNilF(t, client.CreateDatabase(ctx, "analytics"))
	assertNilF(t, client.CreateTable(ctx, NewTableSchema("t").Column("v", UInt8Type), "Memory"))
	assertNilF(t, client.DropTable(ctx, "t"))

	assertDeepEqualE(t, queries, []string{
		"CREATE DATABASE IF NOT EXISTS analytics",
		"CREATE TABLE IF NOT EXISTS t (v UInt8) ENGINE = Memory",
		"DROP TABLE IF EXISTS t",
	})
}
