package goclickhouse

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// testDB opens a database/sql handle against a local test server.
func testDB(t *testing.T, handler http.Handler) *sql.DB {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	assertNilF(t, err)
	db, err := sql.Open("clickhouse", fmt.Sprintf("tester:secret@%v:%v", u.Hostname(), u.Port()))
	assertNilF(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLOpenAndPing(t *testing.T) {
	db := testDB(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "Ok.\n")
	}))
	assertNilE(t, db.Ping())
}

func TestSQLQuery(t *testing.T) {
	var gotQuery string
	db := testDB(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		io.WriteString(w, "id\tnote\nUInt8\tNullable(String)\n1\tone\n2\t\\N\n")
	}))

	rows, err := db.Query("SELECT id, note FROM t WHERE id < [??]", 3)
	assertNilF(t, err)
	defer rows.Close()
	assertEqualE(t, gotQuery, "SELECT id, note FROM t WHERE id < 3")

	columns, err := rows.Columns()
	assertNilF(t, err)
	assertDeepEqualE(t, columns, []string{"id", "note"})

	var got []string
	for rows.Next() {
		var id uint8
		var note sql.NullString
		assertNilF(t, rows.Scan(&id, &note))
		if note.Valid {
			got = append(got, fmt.Sprintf("%v=%v", id, note.String))
		} else {
			got = append(got, fmt.Sprintf("%v=null", id))
		}
	}
	assertNilF(t, rows.Err())
	assertDeepEqualE(t, got, []string{"1=one", "2=null"})
}

func TestSQLQueryNativeValues(t *testing.T) {
	var gotQuery string
	db := testDB(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		io.WriteString(w, "n\nUInt8\n1\n")
	}))

	rows, err := db.Query("SELECT n FROM t WHERE name = [??]", StringValue("it's"))
	assertNilF(t, err)
	defer rows.Close()
	assertEqualE(t, gotQuery, `SELECT n FROM t WHERE name = 'it\'s'`)
}

func TestSQLExec(t *testing.T) {
	var gotQuery string
	db := testDB(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
	}))

	result, err := db.Exec("INSERT INTO t VALUES ([??], [??])", 1, "a")
	assertNilF(t, err)
	assertEqualE(t, gotQuery, "INSERT INTO t VALUES (1, 'a')")

	_, err = result.LastInsertId()
	assertErrIsE(t, err, errNoLastInsertID)
	_, err = result.RowsAffected()
	assertErrIsE(t, err, errNoRowsAffected)
}

func TestSQLPreparedStatement(t *testing.T) {
	var queries []string
	db := testDB(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("query"))
	}))

	stmt, err := db.Prepare("INSERT INTO t VALUES ([??])")
	assertNilF(t, err)
	defer stmt.Close()

	_, err = stmt.Exec(1)
	assertNilF(t, err)
	_, err = stmt.Exec(2)
	assertNilF(t, err)
	assertDeepEqualE(t, queries, []string{
		"INSERT INTO t VALUES (1)",
		"INSERT INTO t VALUES (2)",
	})

	_, err = stmt.Exec(1, 2)
	assertNotNilE(t, err)
}

func TestSQLTransactionsAutocommit(t *testing.T) {
	var queries []string
	db := testDB(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("query"))
	}))

	tx, err := db.Begin()
	assertNilF(t, err)
	_, err = tx.Exec("INSERT INTO t VALUES (1)")
	assertNilF(t, err)
	assertNilF(t, tx.Commit())
	assertDeepEqualE(t, queries, []string{"INSERT INTO t VALUES (1)"})
}

func TestSQLQueryFailure(t *testing.T) {
	db := testDB(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, "Code: 62. DB::Exception: Syntax error")
	}))
	_, err := db.Query("SELEC 1")
	assertCodeE(t, err, ErrCodeQueryFailure)
}
