package engine

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/SimonWaldherr/slotdbd/internal/arena"
	"github.com/SimonWaldherr/slotdbd/internal/db"
	"github.com/SimonWaldherr/slotdbd/internal/sqlparser"
)

func openDB(t *testing.T) *db.Database {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func run(t *testing.T, d *db.Database, sql string) (Result, string) {
	t.Helper()
	stmt := sqlparser.Parse(sql)
	if stmt.ErrorMessage != "" {
		t.Fatalf("parse error for %q: %s", sql, stmt.ErrorMessage)
	}
	var buf bytes.Buffer
	res := Execute(d, stmt, &buf, arena.New(1<<16))
	return res, buf.String()
}

func TestCreateTableThenInsertThenSelect(t *testing.T) {
	d := openDB(t)
	if res, _ := run(t, d, "CREATE TABLE users (id INT PRIMARY KEY, name TEXT);"); res != Success {
		t.Fatalf("CREATE TABLE: %v", res)
	}
	if res, _ := run(t, d, "INSERT INTO users VALUES (1, 'alice');"); res != Success {
		t.Fatalf("INSERT: %v", res)
	}
	if res, out := run(t, d, "SELECT * FROM users;"); res != Success || out != "(1, \"alice\")\n" {
		t.Fatalf("SELECT: res=%v out=%q", res, out)
	}
}

func TestCreateTableDuplicate(t *testing.T) {
	d := openDB(t)
	run(t, d, "CREATE TABLE t (id INT PRIMARY KEY);")
	if res, _ := run(t, d, "CREATE TABLE t (id INT PRIMARY KEY);"); res != TableExists {
		t.Fatalf("expected TableExists, got %v", res)
	}
}

func TestInsertIntoMissingTable(t *testing.T) {
	d := openDB(t)
	if res, _ := run(t, d, "INSERT INTO nope VALUES (1);"); res != TableNotExists {
		t.Fatalf("expected TableNotExists, got %v", res)
	}
}

func TestInsertColumnCountMismatch(t *testing.T) {
	d := openDB(t)
	run(t, d, "CREATE TABLE t (id INT PRIMARY KEY, name TEXT);")
	if res, _ := run(t, d, "INSERT INTO t VALUES (1);"); res != ColCountMismatch {
		t.Fatalf("expected ColCountMismatch, got %v", res)
	}
}

func TestInsertDuplicateKey(t *testing.T) {
	d := openDB(t)
	run(t, d, "CREATE TABLE t (id INT PRIMARY KEY, name TEXT);")
	run(t, d, "INSERT INTO t VALUES (1, 'a');")
	if res, _ := run(t, d, "INSERT INTO t VALUES (1, 'b');"); res != DuplicateKey {
		t.Fatalf("expected DuplicateKey, got %v", res)
	}
}

func TestCreateIndexOnMissingTableIsTableNotExists(t *testing.T) {
	d := openDB(t)
	// Redesigned behavior (§9 decision 1): a missing table reports
	// TableNotExists, not the original's reused TableExists.
	if res, _ := run(t, d, "CREATE INDEX idx_x ON nope (col);"); res != TableNotExists {
		t.Fatalf("expected TableNotExists, got %v", res)
	}
}

func TestCreateIndexMissingColumn(t *testing.T) {
	d := openDB(t)
	run(t, d, "CREATE TABLE t (id INT PRIMARY KEY);")
	if res, _ := run(t, d, "CREATE INDEX idx_x ON t (nope);"); res != ColNotFound {
		t.Fatalf("expected ColNotFound, got %v", res)
	}
}

func TestSelectUsesIndexForEqualityLookup(t *testing.T) {
	d := openDB(t)
	run(t, d, "CREATE TABLE t (id INT PRIMARY KEY, name TEXT);")
	run(t, d, "INSERT INTO t VALUES (1, 'a');")
	run(t, d, "INSERT INTO t VALUES (2, 'b');")
	run(t, d, "CREATE INDEX idx_name ON t (name);")
	res, out := run(t, d, "SELECT * FROM t WHERE name = 'b';")
	if res != Success || out != "(2, \"b\")\n" {
		t.Fatalf("res=%v out=%q", res, out)
	}
}

func TestSelectJoin(t *testing.T) {
	d := openDB(t)
	run(t, d, "CREATE TABLE a (id INT PRIMARY KEY, label TEXT);")
	run(t, d, "CREATE TABLE b (id INT PRIMARY KEY, a_id INT);")
	run(t, d, "INSERT INTO a VALUES (1, 'x');")
	run(t, d, "INSERT INTO b VALUES (10, 1);")
	res, out := run(t, d, "SELECT a.label, b.id FROM a JOIN b ON a.id = b.a_id;")
	if res != Success || out != "(\"x\", 10)\n" {
		t.Fatalf("res=%v out=%q", res, out)
	}
}

func TestUpdateShrinkGrowInPlaceAndReinsert(t *testing.T) {
	d := openDB(t)
	run(t, d, "CREATE TABLE t (id INT PRIMARY KEY, name TEXT);")
	run(t, d, "INSERT INTO t VALUES (1, 'abcdefgh');")
	if res, _ := run(t, d, "UPDATE t SET name = 'xy' WHERE id = 1;"); res != Success {
		t.Fatalf("shrink update: %v", res)
	}
	if _, out := run(t, d, "SELECT * FROM t;"); out != "(1, \"xy\")\n" {
		t.Fatalf("after shrink: %q", out)
	}
	if res, _ := run(t, d, "UPDATE t SET name = 'much-longer-than-before' WHERE id = 1;"); res != Success {
		t.Fatalf("grow update: %v", res)
	}
	if _, out := run(t, d, "SELECT * FROM t;"); out != "(1, \"much-longer-than-before\")\n" {
		t.Fatalf("after grow: %q", out)
	}
}

func TestUpdateMaintainsIndex(t *testing.T) {
	d := openDB(t)
	run(t, d, "CREATE TABLE t (id INT PRIMARY KEY, name TEXT);")
	run(t, d, "INSERT INTO t VALUES (1, 'a');")
	run(t, d, "CREATE INDEX idx_name ON t (name);")
	run(t, d, "UPDATE t SET name = 'z' WHERE id = 1;")
	res, out := run(t, d, "SELECT * FROM t WHERE name = 'z';")
	if res != Success || out != "(1, \"z\")\n" {
		t.Fatalf("res=%v out=%q", res, out)
	}
	if _, out := run(t, d, "SELECT * FROM t WHERE name = 'a';"); out != "" {
		t.Fatalf("expected no rows for old indexed value, got %q", out)
	}
}

func TestDeleteRemovesRowAndIndexEntry(t *testing.T) {
	d := openDB(t)
	run(t, d, "CREATE TABLE t (id INT PRIMARY KEY, name TEXT);")
	run(t, d, "INSERT INTO t VALUES (1, 'a');")
	run(t, d, "INSERT INTO t VALUES (2, 'b');")
	run(t, d, "CREATE INDEX idx_name ON t (name);")
	if res, _ := run(t, d, "DELETE FROM t WHERE id = 1;"); res != Success {
		t.Fatalf("DELETE: %v", res)
	}
	if _, out := run(t, d, "SELECT * FROM t;"); out != "(2, \"b\")\n" {
		t.Fatalf("after delete: %q", out)
	}
	if _, out := run(t, d, "SELECT * FROM t WHERE name = 'a';"); out != "" {
		t.Fatalf("expected index entry removed, got %q", out)
	}
}

func TestDeleteWithoutWhereDeletesAll(t *testing.T) {
	d := openDB(t)
	run(t, d, "CREATE TABLE t (id INT PRIMARY KEY);")
	run(t, d, "INSERT INTO t VALUES (1);")
	run(t, d, "INSERT INTO t VALUES (2);")
	run(t, d, "DELETE FROM t;")
	if _, out := run(t, d, "SELECT * FROM t;"); out != "" {
		t.Fatalf("expected all rows deleted, got %q", out)
	}
}

func TestSelectColumnNotFound(t *testing.T) {
	d := openDB(t)
	run(t, d, "CREATE TABLE t (id INT PRIMARY KEY);")
	if res, _ := run(t, d, "SELECT nope FROM t;"); res != ColNotFound {
		t.Fatalf("expected ColNotFound, got %v", res)
	}
}

func TestRestartRebuildsCatalogAndData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restart.db")
	d1, err := db.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	stmt := sqlparser.Parse("CREATE TABLE t (id INT PRIMARY KEY, name TEXT);")
	Execute(d1, stmt, &bytes.Buffer{}, arena.New(1<<16))
	stmt = sqlparser.Parse("INSERT INTO t VALUES (1, 'a');")
	Execute(d1, stmt, &bytes.Buffer{}, arena.New(1<<16))
	d1.Close()

	d2, err := db.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer d2.Close()
	stmt = sqlparser.Parse("SELECT * FROM t;")
	var buf bytes.Buffer
	res := Execute(d2, stmt, &buf, arena.New(1<<16))
	if res != Success || buf.String() != "(1, \"a\")\n" {
		t.Fatalf("after restart: res=%v out=%q", res, buf.String())
	}
}
