package engine

import (
	"errors"

	"github.com/SimonWaldherr/slotdbd/internal/arena"
	"github.com/SimonWaldherr/slotdbd/internal/catalog"
	"github.com/SimonWaldherr/slotdbd/internal/db"
	"github.com/SimonWaldherr/slotdbd/internal/rowcodec"
	"github.com/SimonWaldherr/slotdbd/internal/sqlparser"
	"github.com/SimonWaldherr/slotdbd/internal/storage/pager"
)

func columnType(t string) catalog.DataType {
	if t == "TEXT" {
		return catalog.TypeText
	}
	return catalog.TypeInt
}

// execCreateTable implements §4.6 CREATE TABLE.
func execCreateTable(database *db.Database, stmt *sqlparser.CreateTableStmt) Result {
	cols := make([]catalog.ColumnDef, len(stmt.Columns))
	for i, c := range stmt.Columns {
		cols[i] = catalog.ColumnDef{
			Name:         c.Name,
			Type:         columnType(c.Type),
			IsPrimaryKey: c.IsPrimaryKey,
			IsUnique:     c.IsUnique,
		}
	}
	_, err := database.Catalog.CreateTable(stmt.Table, cols)
	switch {
	case err == nil:
		return Success
	case errors.Is(err, catalog.ErrTableExists):
		return TableExists
	case errors.Is(err, catalog.ErrTooManyTables):
		return TableFull
	case errors.Is(err, catalog.ErrPageFull):
		return DBFull
	default:
		return Fail
	}
}

// pkIndex returns the primary-key column index, defaulting to column 0
// when none is flagged (§4.6 CREATE INDEX step 5).
func pkIndex(t *catalog.Table) int {
	if i := t.PrimaryKeyIndex(); i >= 0 {
		return i
	}
	return 0
}

// execCreateIndex implements §4.6 CREATE INDEX, with the TABLE_NOT_EXISTS
// fix applied (§9 decision 1 in DESIGN.md): a missing table is reported
// as TableNotExists, not TableExists.
func execCreateIndex(database *db.Database, stmt *sqlparser.CreateIndexStmt, scratch *arena.Arena) Result {
	table := database.Catalog.FindTable(stmt.Table)
	if table == nil {
		return TableNotExists
	}
	colIdx := table.ColumnIndex(stmt.Column)
	if colIdx < 0 {
		return ColNotFound
	}

	idx, err := database.Catalog.CreateIndex(stmt.IndexName, stmt.Table, stmt.Column)
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrTooManyIndexes):
		return DBFull
	case errors.Is(err, catalog.ErrTableNotExists):
		return TableNotExists
	default:
		return Fail
	}

	pk := pkIndex(table)
	indexPage := pager.Wrap(database.Pager.GetPage(int(idx.RootPageNum)))
	tablePage := pager.Wrap(database.Pager.GetPage(int(table.RootPageNum)))
	for i := 0; i < tablePage.NumCells(); i++ {
		if tablePage.IsTombstone(i) {
			continue
		}
		_, value := tablePage.ReadSlot(i)
		values, err := rowcodec.DeserializeRowStrings(table.Columns, value, scratch)
		if err != nil {
			return Fail
		}
		keyBytes, err := rowcodec.EncodeLiteral(table.Columns[colIdx].Type, values[colIdx])
		if err != nil {
			return Fail
		}
		pkBytes, err := rowcodec.EncodeLiteral(table.Columns[pk].Type, values[pk])
		if err != nil {
			return Fail
		}
		indexPage.Insert(keyBytes, pkBytes)
	}
	if err := database.Pager.Flush(int(idx.RootPageNum)); err != nil {
		return Fail
	}
	return Success
}
