package server

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/SimonWaldherr/slotdbd/internal/arena"
	"github.com/SimonWaldherr/slotdbd/internal/db"
	"github.com/SimonWaldherr/slotdbd/internal/engine"
	"github.com/SimonWaldherr/slotdbd/internal/sqlparser"
)

func TestAdminStatusCountsLiveRows(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "admin.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	defer database.Close()

	exec := func(sql string) {
		stmt := sqlparser.Parse(sql)
		engine.Execute(database, stmt, &bytes.Buffer{}, arena.New(1<<16))
	}
	exec("CREATE TABLE t (id INT PRIMARY KEY, name TEXT);")
	exec("INSERT INTO t VALUES (1, 'a');")
	exec("INSERT INTO t VALUES (2, 'b');")
	exec("DELETE FROM t WHERE id = 1;")
	exec("CREATE INDEX idx_name ON t (name);")

	admin := NewAdminServer(database)
	resp, err := admin.Status(context.Background(), &StatusRequest{})
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if resp.TableCount != 1 || resp.IndexCount != 1 {
		t.Fatalf("counts: tables=%d indexes=%d", resp.TableCount, resp.IndexCount)
	}
	if len(resp.Tables) != 1 || resp.Tables[0].LiveRows != 1 {
		t.Fatalf("expected 1 live row, got %+v", resp.Tables)
	}
}
