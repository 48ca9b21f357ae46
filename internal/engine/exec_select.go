package engine

import (
	"io"

	"github.com/SimonWaldherr/slotdbd/internal/arena"
	"github.com/SimonWaldherr/slotdbd/internal/catalog"
	"github.com/SimonWaldherr/slotdbd/internal/db"
	"github.com/SimonWaldherr/slotdbd/internal/rowcodec"
	"github.com/SimonWaldherr/slotdbd/internal/sqlparser"
	"github.com/SimonWaldherr/slotdbd/internal/storage/pager"
)

// projectedColumn names one output column: which side table it comes
// from (0 = t1, 1 = t2) and its index within that table's schema.
type projectedColumn struct {
	side int
	idx  int
}

// resolveColumn implements resolve_column (§4.6 SELECT step 2): match by
// qualifying table name if present, else the first table that has a
// column of that name.
func resolveColumn(t1, t2 *catalog.Table, ref sqlparser.ColRef) (projectedColumn, bool) {
	if ref.Table != "" {
		if catalog.FoldEqual(ref.Table, t1.Name) {
			if i := t1.ColumnIndex(ref.Column); i >= 0 {
				return projectedColumn{0, i}, true
			}
			return projectedColumn{}, false
		}
		if t2 != nil && catalog.FoldEqual(ref.Table, t2.Name) {
			if i := t2.ColumnIndex(ref.Column); i >= 0 {
				return projectedColumn{1, i}, true
			}
			return projectedColumn{}, false
		}
		return projectedColumn{}, false
	}
	if i := t1.ColumnIndex(ref.Column); i >= 0 {
		return projectedColumn{0, i}, true
	}
	if t2 != nil {
		if i := t2.ColumnIndex(ref.Column); i >= 0 {
			return projectedColumn{1, i}, true
		}
	}
	return projectedColumn{}, false
}

func buildProjection(t1, t2 *catalog.Table, stmt *sqlparser.SelectStmt) ([]projectedColumn, []catalog.ColumnDef, bool) {
	if stmt.Star {
		var proj []projectedColumn
		var cols []catalog.ColumnDef
		for i, c := range t1.Columns {
			proj = append(proj, projectedColumn{0, i})
			cols = append(cols, c)
		}
		if t2 != nil {
			for i, c := range t2.Columns {
				proj = append(proj, projectedColumn{1, i})
				cols = append(cols, c)
			}
		}
		return proj, cols, true
	}
	var proj []projectedColumn
	var cols []catalog.ColumnDef
	for _, ref := range stmt.Columns {
		pc, ok := resolveColumn(t1, t2, ref)
		if !ok {
			return nil, nil, false
		}
		proj = append(proj, pc)
		if pc.side == 0 {
			cols = append(cols, t1.Columns[pc.idx])
		} else {
			cols = append(cols, t2.Columns[pc.idx])
		}
	}
	return proj, cols, true
}

func project(proj []projectedColumn, t1Vals, t2Vals []string) []string {
	out := make([]string, len(proj))
	for i, pc := range proj {
		if pc.side == 0 {
			out[i] = t1Vals[pc.idx]
		} else {
			out[i] = t2Vals[pc.idx]
		}
	}
	return out
}

// rowSender writes one formatted row to w. A short/failed write ends the
// result set but the statement still reports SUCCESS (§4.6 emission
// rules, §9 decision 5 in DESIGN.md) — the caller signals this by having
// send return false, at which point the scan loop must stop.
type rowSender struct {
	w   io.Writer
	err bool
}

func (s *rowSender) send(line string) bool {
	if s.err {
		return false
	}
	if _, err := io.WriteString(s.w, line); err != nil {
		s.err = true
		return false
	}
	return true
}

// execSelect implements §4.6 SELECT.
func execSelect(database *db.Database, stmt *sqlparser.SelectStmt, w io.Writer, scratch *arena.Arena) Result {
	t1 := database.Catalog.FindTable(stmt.From)
	if t1 == nil {
		return TableNotExists
	}
	var t2 *catalog.Table
	if stmt.Join != nil {
		t2 = database.Catalog.FindTable(stmt.Join.Table)
		if t2 == nil {
			return TableNotExists
		}
	}

	proj, outCols, ok := buildProjection(t1, t2, stmt)
	if !ok {
		return ColNotFound
	}

	var whereIdx int = -1
	if stmt.Where != nil {
		pc, ok := resolveColumn(t1, t2, stmt.Where.Col)
		if !ok {
			return ColNotFound
		}
		if pc.side != 0 {
			// WHERE on t2 is handled in the full-scan path below; index
			// lookup only ever applies to t1 (§4.6).
			whereIdx = -2
		} else {
			whereIdx = pc.idx
		}
	}

	var joinLeftIdx, joinRightIdx int = -1, -1
	if stmt.Join != nil {
		lc, ok := resolveColumn(t1, t2, stmt.Join.LeftCol)
		if !ok {
			return ColNotFound
		}
		rc, ok := resolveColumn(t1, t2, stmt.Join.RightCol)
		if !ok {
			return ColNotFound
		}
		// Normalize so joinLeftIdx always indexes t1 and joinRightIdx t2,
		// regardless of which side the statement wrote each operand on.
		if lc.side == 0 && rc.side == 1 {
			joinLeftIdx, joinRightIdx = lc.idx, rc.idx
		} else if lc.side == 1 && rc.side == 0 {
			joinLeftIdx, joinRightIdx = rc.idx, lc.idx
		} else {
			return ColNotFound
		}
	}

	sender := &rowSender{w: w}

	if stmt.Join == nil && whereIdx >= 0 {
		if idx := findUsableIndex(database, t1, whereIdx); idx != nil {
			scanIndexLookup(database, t1, idx, stmt.Where.Value, proj, outCols, sender, scratch)
			return Success
		}
	}

	scanFull(database, t1, t2, stmt, whereIdx, joinLeftIdx, joinRightIdx, proj, outCols, sender, scratch)
	return Success
}

// findUsableIndex implements the WHERE-uses-index eligibility check, with
// the fix applied (§9 decision 2 in DESIGN.md): compare the candidate
// index's TableName against t1's name, not the index's own name.
func findUsableIndex(database *db.Database, t1 *catalog.Table, whereColIdx int) *catalog.Index {
	colName := t1.Columns[whereColIdx].Name
	for _, idx := range database.Catalog.Indexes() {
		if catalog.FoldEqual(idx.TableName, t1.Name) && catalog.FoldEqual(idx.ColName, colName) {
			return idx
		}
	}
	return nil
}

// scanIndexLookup implements the index-lookup path (§4.6 SELECT): scan
// the index page's slots for key == where_value_bytes, then for each
// match scan the table page for the row whose PK bytes equal the index
// value.
func scanIndexLookup(database *db.Database, t1 *catalog.Table, idx *catalog.Index, whereLiteral string, proj []projectedColumn, outCols []catalog.ColumnDef, sender *rowSender, scratch *arena.Arena) {
	colIdx := t1.ColumnIndex(idx.ColName)
	if colIdx < 0 {
		return
	}
	keyBytes, err := rowcodec.EncodeLiteral(t1.Columns[colIdx].Type, whereLiteral)
	if err != nil {
		return
	}
	indexPage := pager.Wrap(database.Pager.GetPage(int(idx.RootPageNum)))
	tablePage := pager.Wrap(database.Pager.GetPage(int(t1.RootPageNum)))

	for i := 0; i < indexPage.NumCells(); i++ {
		if indexPage.IsTombstone(i) {
			continue
		}
		k, pkBytes := indexPage.ReadSlot(i)
		if string(k) != string(keyBytes) {
			continue
		}
		for j := 0; j < tablePage.NumCells(); j++ {
			if tablePage.IsTombstone(j) {
				continue
			}
			rowPK, value := tablePage.ReadSlot(j)
			if string(rowPK) != string(pkBytes) {
				continue
			}
			values, err := rowcodec.DeserializeRowStrings(t1.Columns, value, scratch)
			if err != nil {
				continue
			}
			out := project(proj, values, nil)
			if !sender.send(rowcodec.FormatRow(outCols, out)) {
				return
			}
			break
		}
	}
}

// scanFull implements the full-scan path (§4.6 SELECT): linear scan of
// t1, optional WHERE on t1, optional nested-loop join against t2 (t1
// outer), optional WHERE on t2, then projection and emission.
func scanFull(database *db.Database, t1, t2 *catalog.Table, stmt *sqlparser.SelectStmt, whereIdx, joinLeftIdx, joinRightIdx int, proj []projectedColumn, outCols []catalog.ColumnDef, sender *rowSender, scratch *arena.Arena) {
	t1Page := pager.Wrap(database.Pager.GetPage(int(t1.RootPageNum)))

	var whereOnT2 bool
	var whereT2Idx int
	if stmt.Where != nil && t2 != nil {
		pc, _ := resolveColumn(t1, t2, stmt.Where.Col)
		if pc.side == 1 {
			whereOnT2 = true
			whereT2Idx = pc.idx
		}
	}

	for i := 0; i < t1Page.NumCells(); i++ {
		if t1Page.IsTombstone(i) {
			continue
		}
		_, value := t1Page.ReadSlot(i)
		t1Vals, err := rowcodec.DeserializeRowStrings(t1.Columns, value, scratch)
		if err != nil {
			continue
		}
		if whereIdx >= 0 && !rowMatches(t1.Columns, t1Vals, whereIdx, stmt.Where.Value) {
			continue
		}

		if t2 == nil {
			out := project(proj, t1Vals, nil)
			if !sender.send(rowcodec.FormatRow(outCols, out)) {
				return
			}
			continue
		}

		t2Page := pager.Wrap(database.Pager.GetPage(int(t2.RootPageNum)))
		for j := 0; j < t2Page.NumCells(); j++ {
			if t2Page.IsTombstone(j) {
				continue
			}
			_, v2 := t2Page.ReadSlot(j)
			t2Vals, err := rowcodec.DeserializeRowStrings(t2.Columns, v2, scratch)
			if err != nil {
				continue
			}
			if whereOnT2 && !rowMatches(t2.Columns, t2Vals, whereT2Idx, stmt.Where.Value) {
				continue
			}
			if t1Vals[joinLeftIdx] != t2Vals[joinRightIdx] {
				continue
			}
			out := project(proj, t1Vals, t2Vals)
			if !sender.send(rowcodec.FormatRow(outCols, out)) {
				return
			}
		}
	}
}
