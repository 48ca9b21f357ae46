// Package engine dispatches parsed statements against a database,
// mutating pages and streaming result rows (§4.6).
//
// What: Execute is the single public entry point; it holds the database's
// global mutex for its entire call, including any streamed socket writes
// (§5 — sequential consistency across clients, by design).
// How: grounded on the teacher's internal/engine/exec.go for the overall
// "one function per statement variant, dispatched from a single Execute"
// shape, rewritten against this system's page/catalog/row primitives
// rather than the teacher's B+Tree/MVCC storage backend.
// Why: a single lock held for the whole statement (not just the mutation)
// is simpler to reason about than fine-grained locking, and is the
// explicit concurrency model this system calls for.
package engine

import (
	"io"

	"github.com/SimonWaldherr/slotdbd/internal/arena"
	"github.com/SimonWaldherr/slotdbd/internal/db"
	"github.com/SimonWaldherr/slotdbd/internal/sqlparser"
)

// Execute runs one parsed statement against database, streaming any
// result rows to w, and returns the closed-set result code (§4.7).
// scratch is the caller's per-worker scratch arena (§4.1, §5); it is
// reset (via a Scope) once per statement, not shared across statements.
func Execute(database *db.Database, stmt *sqlparser.Statement, w io.Writer, scratch *arena.Arena) Result {
	database.Lock()
	defer database.Unlock()

	scope := scratch.Begin()
	defer scope.End()

	switch {
	case stmt.CreateTable != nil:
		return execCreateTable(database, stmt.CreateTable)
	case stmt.CreateIndex != nil:
		return execCreateIndex(database, stmt.CreateIndex, scratch)
	case stmt.Insert != nil:
		return execInsert(database, stmt.Insert)
	case stmt.Select != nil:
		return execSelect(database, stmt.Select, w, scratch)
	case stmt.Update != nil:
		return execUpdate(database, stmt.Update, scratch)
	case stmt.Delete != nil:
		return execDelete(database, stmt.Delete, scratch)
	default:
		return Fail
	}
}
