// Example: Create a table, insert tagged structs and read them back through
// the native client API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	ch "github.com/clickhousedb/goclickhouse"
)

type event struct {
	ID   uint64    `ch:"id"`
	Name string    `ch:"name"`
	Seen time.Time `ch:"seen"`
	Tags []string  `ch:"tags"`
}

func main() {
	env := func(k, fallback string) string {
		if value := os.Getenv(k); value != "" {
			return value
		}
		return fallback
	}

	user := env("CLICKHOUSE_TEST_USER", "default")
	password := env("CLICKHOUSE_TEST_PASSWORD", "")
	host := env("CLICKHOUSE_TEST_HOST", "localhost")

	client, err := ch.OpenClient(fmt.Sprintf("%v:%v@%v", user, password, host))
	if err != nil {
		log.Fatalf("failed to connect. err: %v", err)
	}

	ctx := context.Background()
	if err = client.Ping(ctx); err != nil {
		log.Fatalf("server is not reachable. err: %v", err)
	}

	schema := ch.NewTableSchema("events").
		PrimaryColumn("id", ch.UInt64Type).
		Column("name", ch.StringType).
		Column("seen", ch.DateTimeType).
		Column("tags", ch.ArrayType(ch.StringType))
	if err = client.CreateTable(ctx, schema, "MergeTree()"); err != nil {
		log.Fatalf("failed to create the table. err: %v", err)
	}

	events := []event{
		{ID: 1, Name: "signup", Seen: time.Now().UTC(), Tags: []string{"web"}},
		{ID: 2, Name: "login", Seen: time.Now().UTC(), Tags: []string{"web", "mobile"}},
	}
	if err = client.InsertRows(ctx, "events", events); err != nil {
		log.Fatalf("failed to insert rows. err: %v", err)
	}

	var got []event
	if err = client.QueryRows(ctx, &got, "SELECT id, name, seen, tags FROM events ORDER BY id"); err != nil {
		log.Fatalf("failed to query rows. err: %v", err)
	}
	for _, e := range got {
		fmt.Printf("%v\t%v\t%v\t%v\n", e.ID, e.Name, e.Seen.Format(time.DateTime), e.Tags)
	}

	if err = client.DropTable(ctx, "events"); err != nil {
		log.Fatalf("failed to drop the table. err: %v", err)
	}
}
