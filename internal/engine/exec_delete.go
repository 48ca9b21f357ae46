package engine

import (
	"github.com/SimonWaldherr/slotdbd/internal/arena"
	"github.com/SimonWaldherr/slotdbd/internal/catalog"
	"github.com/SimonWaldherr/slotdbd/internal/db"
	"github.com/SimonWaldherr/slotdbd/internal/rowcodec"
	"github.com/SimonWaldherr/slotdbd/internal/sqlparser"
	"github.com/SimonWaldherr/slotdbd/internal/storage/pager"
)

// execDelete implements §4.6 DELETE: for each matching live slot, tombstone
// every index entry for the row before tombstoning the table slot itself.
func execDelete(database *db.Database, stmt *sqlparser.DeleteStmt, scratch *arena.Arena) Result {
	table := database.Catalog.FindTable(stmt.Table)
	if table == nil {
		return TableNotExists
	}
	whereIdx := -1
	if stmt.Where != nil {
		whereIdx = table.ColumnIndex(stmt.Where.Col.Column)
		if whereIdx < 0 {
			return ColNotFound
		}
	}

	pk := pkIndex(table)
	tableIndexes := indexesOnTable(database, table.Name)

	tablePage := pager.Wrap(database.Pager.GetPage(int(table.RootPageNum)))
	deleted := false

	for i := 0; i < tablePage.NumCells(); i++ {
		if tablePage.IsTombstone(i) {
			continue
		}
		_, value := tablePage.ReadSlot(i)
		values, err := rowcodec.DeserializeRowStrings(table.Columns, value, scratch)
		if err != nil {
			continue
		}
		if whereIdx >= 0 && !rowMatches(table.Columns, values, whereIdx, stmt.Where.Value) {
			continue
		}

		for _, idx := range tableIndexes {
			colIdx := table.ColumnIndex(idx.ColName)
			if colIdx < 0 {
				continue
			}
			keyBytes, err := rowcodec.EncodeLiteral(table.Columns[colIdx].Type, values[colIdx])
			if err != nil {
				continue
			}
			pkBytes, err := rowcodec.EncodeLiteral(table.Columns[pk].Type, values[pk])
			if err != nil {
				continue
			}
			indexPage := pager.Wrap(database.Pager.GetPage(int(idx.RootPageNum)))
			tombstoneMatching(indexPage, keyBytes, pkBytes)
			database.Pager.Flush(int(idx.RootPageNum))
		}

		tablePage.Tombstone(i)
		deleted = true
	}

	if deleted {
		if err := database.Pager.Flush(int(table.RootPageNum)); err != nil {
			return Fail
		}
	}
	return Success
}

// tombstoneMatching finds the single index slot whose (key, value) equals
// (keyBytes, pkBytes) and tombstones it (§4.6 DELETE step 2).
func tombstoneMatching(page *pager.Page, keyBytes, pkBytes []byte) {
	for i := 0; i < page.NumCells(); i++ {
		if page.IsTombstone(i) {
			continue
		}
		k, v := page.ReadSlot(i)
		if string(k) == string(keyBytes) && string(v) == string(pkBytes) {
			page.Tombstone(i)
			return
		}
	}
}

func indexesOnTable(database *db.Database, tableName string) []*catalog.Index {
	var out []*catalog.Index
	for _, idx := range database.Catalog.Indexes() {
		if catalog.FoldEqual(idx.TableName, tableName) {
			out = append(out, idx)
		}
	}
	return out
}
