package engine

import (
	"github.com/SimonWaldherr/slotdbd/internal/catalog"
	"github.com/SimonWaldherr/slotdbd/internal/rowcodec"
)

// rowMatches implements row_matches_predicate (§4.6): compare at the
// target column only — INT as i32 equality, TEXT as length-and-byte
// equality. Columns after the target are not compared (the caller has
// already decoded the whole row, so they are present but unused here).
//
// Both sides are canonicalized through rowcodec.EncodeLiteral before
// comparing, the same canonicalization scanIndexLookup applies to index
// keys, so a non-canonical INT literal (e.g. "007") matches a stored
// "7" the way the original's atoi-then-compare does, and a full-scan
// WHERE and an index-lookup WHERE never disagree on the same predicate.
func rowMatches(cols []catalog.ColumnDef, values []string, colIdx int, literal string) bool {
	want, err := rowcodec.EncodeLiteral(cols[colIdx].Type, literal)
	if err != nil {
		return false
	}
	got, err := rowcodec.EncodeLiteral(cols[colIdx].Type, values[colIdx])
	if err != nil {
		return false
	}
	return string(want) == string(got)
}
