package catalog

import "golang.org/x/text/cases"

// folder implements the catalog's case-insensitive identifier comparison.
// The teacher's go.mod declares golang.org/x/text as a direct dependency
// but no package under the teacher tree actually imports it; table and
// column lookups are exactly the kind of case-folding cases.Fold exists
// for, so it gets a genuine home here instead of staying an unused
// require line (see DESIGN.md).
var folder = cases.Fold()

func foldEqual(a, b string) bool {
	return folder.String(a) == folder.String(b)
}

// FoldEqual exports the catalog's case-insensitive identifier comparison
// for other packages (the executor matches index entries against table
// names the same way the catalog matches lookups).
func FoldEqual(a, b string) bool {
	return foldEqual(a, b)
}
