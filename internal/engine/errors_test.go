package engine

import "testing"

func TestStatusLineMapping(t *testing.T) {
	cases := map[Result]string{
		Success:          "OK.\n",
		DBFull:           "Error: Database full.\n",
		TableExists:      "Error: Table exists.\n",
		TableFull:        "Error: Table full.\n",
		TableNotExists:   "Error: Table not found.\n",
		ColCountMismatch: "Error: Column count mismatch.\n",
		ColNotFound:      "Error: Column not found.\n",
		DuplicateKey:     "Error: Duplicate key.\n",
		Fail:             "Execution failed.\n",
	}
	for r, want := range cases {
		if got := r.StatusLine(); got != want {
			t.Errorf("%v.StatusLine() = %q, want %q", r, got, want)
		}
	}
}
