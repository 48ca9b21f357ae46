package engine

import (
	"github.com/SimonWaldherr/slotdbd/internal/arena"
	"github.com/SimonWaldherr/slotdbd/internal/db"
	"github.com/SimonWaldherr/slotdbd/internal/rowcodec"
	"github.com/SimonWaldherr/slotdbd/internal/sqlparser"
	"github.com/SimonWaldherr/slotdbd/internal/storage/pager"
)

// maxPendingReinserts bounds the scratch area for rows that grew past
// their original slot and must be tombstoned-and-reinserted (§4.6 UPDATE
// step 2d).
const maxPendingReinserts = 100

type pendingReinsert struct {
	pk  []byte
	row []byte
}

// execUpdate implements §4.6 UPDATE. Index maintenance for an assigned
// column happens before that row's own slot is modified, and every index
// flush precedes the final table flush.
func execUpdate(database *db.Database, stmt *sqlparser.UpdateStmt, scratch *arena.Arena) Result {
	table := database.Catalog.FindTable(stmt.Table)
	if table == nil {
		return TableNotExists
	}

	assignIdx := make([]int, len(stmt.Assignments))
	for i, a := range stmt.Assignments {
		idx := table.ColumnIndex(a.Column)
		if idx < 0 {
			return ColNotFound
		}
		assignIdx[i] = idx
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

	var pending []pendingReinsert
	touchedTable := false

	for i := 0; i < tablePage.NumCells(); i++ {
		if tablePage.IsTombstone(i) {
			continue
		}
		pkBytes, value := tablePage.ReadSlot(i)
		oldValues, err := rowcodec.DeserializeRowStrings(table.Columns, value, scratch)
		if err != nil {
			continue
		}
		if whereIdx >= 0 && !rowMatches(table.Columns, oldValues, whereIdx, stmt.Where.Value) {
			continue
		}

		newValues := append([]string(nil), oldValues...)
		for j, a := range stmt.Assignments {
			newValues[assignIdx[j]] = a.Value
		}

		for _, idx := range tableIndexes {
			colIdx := table.ColumnIndex(idx.ColName)
			if colIdx < 0 {
				continue
			}
			assigned := false
			for _, ai := range assignIdx {
				if ai == colIdx {
					assigned = true
					break
				}
			}
			if !assigned {
				continue
			}
			oldKey, err := rowcodec.EncodeLiteral(table.Columns[colIdx].Type, oldValues[colIdx])
			if err != nil {
				continue
			}
			newKey, err := rowcodec.EncodeLiteral(table.Columns[colIdx].Type, newValues[colIdx])
			if err != nil {
				continue
			}
			indexPage := pager.Wrap(database.Pager.GetPage(int(idx.RootPageNum)))
			tombstoneMatching(indexPage, oldKey, pkBytes)
			indexPage.Insert(newKey, append([]byte(nil), pkBytes...))
			database.Pager.Flush(int(idx.RootPageNum))
		}

		newRow, err := rowcodec.SerializeRow(table.Columns, newValues)
		if err != nil {
			continue
		}
		newPK, err := rowcodec.EncodeLiteral(table.Columns[pk].Type, newValues[pk])
		if err != nil {
			continue
		}

		if string(newPK) == string(pkBytes) && tablePage.UpdateInPlace(i, pkBytes, newRow) {
			touchedTable = true
			continue
		}

		tablePage.Tombstone(i)
		touchedTable = true
		if len(pending) >= maxPendingReinserts {
			continue
		}
		pending = append(pending, pendingReinsert{pk: newPK, row: newRow})
	}

	if touchedTable {
		if err := database.Pager.Flush(int(table.RootPageNum)); err != nil {
			return Fail
		}
	}

	for _, p := range pending {
		if !tablePage.Insert(p.pk, p.row) {
			return TableFull
		}
	}
	if len(pending) > 0 {
		if err := database.Pager.Flush(int(table.RootPageNum)); err != nil {
			return Fail
		}
	}

	return Success
}
