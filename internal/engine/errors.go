package engine

// Result is the closed set of outcomes the executor reports (§4.7, §7).
type Result int

const (
	Success Result = iota
	DBFull
	TableExists
	TableFull
	TableNotExists
	ColCountMismatch
	ColNotFound
	DuplicateKey
	Fail
)

func (r Result) String() string {
	switch r {
	case Success:
		return "SUCCESS"
	case DBFull:
		return "DB_FULL"
	case TableExists:
		return "TABLE_EXISTS"
	case TableFull:
		return "TABLE_FULL"
	case TableNotExists:
		return "TABLE_NOT_EXISTS"
	case ColCountMismatch:
		return "TABLE_COL_COUNT_MISMATCH"
	case ColNotFound:
		return "COL_NOT_FOUND"
	case DuplicateKey:
		return "DUPLICATE_KEY"
	case Fail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// StatusLine renders the wire protocol's terminal status line (§6.3). The
// caller suppresses this for a successful SELECT (rows are the only
// output); every other outcome, including a failed SELECT, uses it as-is.
func (r Result) StatusLine() string {
	switch r {
	case Success:
		return "OK.\n"
	case DBFull:
		return "Error: Database full.\n"
	case TableExists:
		return "Error: Table exists.\n"
	case TableFull:
		return "Error: Table full.\n"
	case TableNotExists:
		return "Error: Table not found.\n"
	case ColCountMismatch:
		return "Error: Column count mismatch.\n"
	case ColNotFound:
		return "Error: Column not found.\n"
	case DuplicateKey:
		return "Error: Duplicate key.\n"
	default:
		return "Execution failed.\n"
	}
}
