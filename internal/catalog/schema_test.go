package catalog

import "testing"

func TestSchemaRoundTrip(t *testing.T) {
	t1 := &Table{
		RootPageNum: 7,
		Columns: []ColumnDef{
			{Name: "id", Type: TypeInt, IsPrimaryKey: true},
			{Name: "email", Type: TypeText, IsUnique: true},
			{Name: "age", Type: TypeInt},
		},
	}
	blob := serializeSchema(t1)
	t2, err := deserializeSchema(blob)
	if err != nil {
		t.Fatalf("deserializeSchema: %v", err)
	}
	if t2.RootPageNum != t1.RootPageNum {
		t.Fatalf("root page mismatch: got %d want %d", t2.RootPageNum, t1.RootPageNum)
	}
	if len(t2.Columns) != len(t1.Columns) {
		t.Fatalf("column count mismatch: got %d want %d", len(t2.Columns), len(t1.Columns))
	}
	for i := range t1.Columns {
		if t2.Columns[i] != t1.Columns[i] {
			t.Fatalf("column %d mismatch: got %+v want %+v", i, t2.Columns[i], t1.Columns[i])
		}
	}
}

func TestSchemaEmptyColumns(t *testing.T) {
	t1 := &Table{RootPageNum: 3}
	blob := serializeSchema(t1)
	t2, err := deserializeSchema(blob)
	if err != nil {
		t.Fatalf("deserializeSchema: %v", err)
	}
	if len(t2.Columns) != 0 {
		t.Fatalf("expected 0 columns, got %d", len(t2.Columns))
	}
}

func TestDeserializeTruncatedBlobErrors(t *testing.T) {
	if _, err := deserializeSchema([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for undersized blob")
	}
}

func TestColumnIndexCaseInsensitive(t *testing.T) {
	tbl := &Table{Columns: []ColumnDef{{Name: "Name"}, {Name: "Age"}}}
	if tbl.ColumnIndex("name") != 0 {
		t.Fatalf("expected case-insensitive match for 'name'")
	}
	if tbl.ColumnIndex("nope") != -1 {
		t.Fatal("expected -1 for missing column")
	}
}

func TestPrimaryKeyIndex(t *testing.T) {
	tbl := &Table{Columns: []ColumnDef{{Name: "a"}, {Name: "b", IsPrimaryKey: true}}}
	if tbl.PrimaryKeyIndex() != 1 {
		t.Fatalf("expected pk index 1, got %d", tbl.PrimaryKeyIndex())
	}
}
