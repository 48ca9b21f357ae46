package rowcodec

import (
	"testing"

	"github.com/SimonWaldherr/slotdbd/internal/arena"
	"github.com/SimonWaldherr/slotdbd/internal/catalog"
)

func cols() []catalog.ColumnDef {
	return []catalog.ColumnDef{
		{Name: "id", Type: catalog.TypeInt, IsPrimaryKey: true},
		{Name: "name", Type: catalog.TypeText},
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	c := cols()
	row, err := SerializeRow(c, []string{"42", "alice"})
	if err != nil {
		t.Fatalf("SerializeRow: %v", err)
	}
	got, err := DeserializeRowStrings(c, row, arena.New(1024))
	if err != nil {
		t.Fatalf("DeserializeRowStrings: %v", err)
	}
	if got[0] != "42" || got[1] != "alice" {
		t.Fatalf("roundtrip mismatch: %v", got)
	}
}

func TestSerializeRowColumnCountMismatch(t *testing.T) {
	if _, err := SerializeRow(cols(), []string{"1"}); err == nil {
		t.Fatal("expected error for mismatched value count")
	}
}

func TestSerializeRowBadInt(t *testing.T) {
	if _, err := SerializeRow(cols(), []string{"notanumber", "x"}); err == nil {
		t.Fatal("expected error for non-numeric INT literal")
	}
}

func TestFormatRowQuotesText(t *testing.T) {
	line := FormatRow(cols(), []string{"42", "alice"})
	want := "(42, \"alice\")\n"
	if line != want {
		t.Fatalf("got %q want %q", line, want)
	}
}

func TestNegativeIntRoundTrip(t *testing.T) {
	c := []catalog.ColumnDef{{Name: "n", Type: catalog.TypeInt}}
	row, err := SerializeRow(c, []string{"-7"})
	if err != nil {
		t.Fatalf("SerializeRow: %v", err)
	}
	got, err := DeserializeRowStrings(c, row, arena.New(1024))
	if err != nil {
		t.Fatalf("DeserializeRowStrings: %v", err)
	}
	if got[0] != "-7" {
		t.Fatalf("got %q want -7", got[0])
	}
}

func TestEmptyTextRoundTrip(t *testing.T) {
	c := []catalog.ColumnDef{{Name: "s", Type: catalog.TypeText}}
	row, err := SerializeRow(c, []string{""})
	if err != nil {
		t.Fatalf("SerializeRow: %v", err)
	}
	got, err := DeserializeRowStrings(c, row, arena.New(1024))
	if err != nil {
		t.Fatalf("DeserializeRowStrings: %v", err)
	}
	if got[0] != "" {
		t.Fatalf("got %q want empty string", got[0])
	}
}
