package engine

import (
	"github.com/SimonWaldherr/slotdbd/internal/catalog"
	"github.com/SimonWaldherr/slotdbd/internal/db"
	"github.com/SimonWaldherr/slotdbd/internal/rowcodec"
	"github.com/SimonWaldherr/slotdbd/internal/sqlparser"
	"github.com/SimonWaldherr/slotdbd/internal/storage/pager"
)

// execInsert implements §4.6 INSERT.
func execInsert(database *db.Database, stmt *sqlparser.InsertStmt) Result {
	table := database.Catalog.FindTable(stmt.Table)
	if table == nil {
		return TableNotExists
	}
	if len(stmt.Values) != len(table.Columns) {
		return ColCountMismatch
	}

	pk := pkIndex(table)
	pkBytes, err := rowcodec.EncodeLiteral(table.Columns[pk].Type, stmt.Values[pk])
	if err != nil {
		return Fail
	}

	tablePage := pager.Wrap(database.Pager.GetPage(int(table.RootPageNum)))
	if rowWithPKExists(tablePage, pkBytes) {
		return DuplicateKey
	}

	row, err := rowcodec.SerializeRow(table.Columns, stmt.Values)
	if err != nil {
		return Fail
	}
	if !tablePage.Insert(pkBytes, row) {
		return TableFull
	}
	if err := database.Pager.Flush(int(table.RootPageNum)); err != nil {
		return Fail
	}

	for _, idx := range database.Catalog.Indexes() {
		if !catalog.FoldEqual(idx.TableName, table.Name) {
			continue
		}
		colIdx := table.ColumnIndex(idx.ColName)
		if colIdx < 0 {
			continue
		}
		keyBytes, err := rowcodec.EncodeLiteral(table.Columns[colIdx].Type, stmt.Values[colIdx])
		if err != nil {
			continue
		}
		indexPage := pager.Wrap(database.Pager.GetPage(int(idx.RootPageNum)))
		indexPage.Insert(keyBytes, pkBytes)
		database.Pager.Flush(int(idx.RootPageNum))
	}

	return Success
}

// rowWithPKExists linearly scans every live slot for a matching PK
// (§4.6 INSERT step 3 — "TODO: replace with ordered B-tree search").
func rowWithPKExists(page *pager.Page, pkBytes []byte) bool {
	for i := 0; i < page.NumCells(); i++ {
		if page.IsTombstone(i) {
			continue
		}
		key, _ := page.ReadSlot(i)
		if string(key) == string(pkBytes) {
			return true
		}
	}
	return false
}
