package storage

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	schema "github.com/guttosm/stockperf/db"

	_ "modernc.org/sqlite"
)

type dummyErr struct{}

func (dummyErr) Error() string { return "dummy" }

// newSQLiteDB opens an in-memory database with the schema applied.
func newSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// every connection to :memory: is a new database
	db.SetMaxOpenConns(1)
	if err := schema.Migrate(db, string(SQLite)); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestRebind(t *testing.T) {
	cases := []struct {
		dialect Dialect
		in      string
		want    string
	}{
		{Postgres, "a = ? AND b IN (?, ?)", "a = $1 AND b IN ($2, $3)"},
		{SQLite, "a = ? AND b IN (?, ?)", "a = ? AND b IN (?, ?)"},
		{Postgres, "SELECT 1", "SELECT 1"},
	}
	for _, tc := range cases {
		if got := rebind(tc.dialect, tc.in); got != tc.want {
			t.Errorf("rebind(%s, %q) = %q, want %q", tc.dialect, tc.in, got, tc.want)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(3); got != "?, ?, ?" {
		t.Fatalf("got %q", got)
	}
	if got := placeholders(0); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestParseDialect(t *testing.T) {
	cases := map[string]Dialect{"postgres": Postgres, "SQLite": SQLite, " sqlite3 ": SQLite}
	for in, want := range cases {
		got, err := ParseDialect(in)
		if err != nil || got != want {
			t.Errorf("ParseDialect(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDialect("mysql"); err == nil {
		t.Fatalf("expected error for mysql")
	}
	if SQLite.DriverName() != "sqlite" || Postgres.DriverName() != "postgres" {
		t.Fatalf("unexpected driver names")
	}
}

func TestDateValue_Scan(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	srcs := []any{
		"2024-03-15",
		[]byte("2024-03-15"),
		"2024-03-15 00:00:00+00:00",
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.FixedZone("BRT", -3*3600)),
	}
	for _, src := range srcs {
		var d dateValue
		if err := d.Scan(src); err != nil {
			t.Fatalf("scan %v: %v", src, err)
		}
		if !d.Time.Equal(want) {
			t.Fatalf("scan %v: got %v", src, d.Time)
		}
	}

	var d dateValue
	if err := d.Scan(42); err == nil {
		t.Fatalf("expected error for int")
	}
	if err := d.Scan("15/03"); err == nil {
		t.Fatalf("expected error for short text")
	}
}
