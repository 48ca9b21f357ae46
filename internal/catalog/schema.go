// Package catalog implements the persistent system catalog: the set of
// table and index definitions that map names to storage roots and column
// schemas.
//
// What: page 0 of the database file is itself a slotted page (§4.4) whose
// cells are (table_name_bytes, schema_blob) pairs. Indexes are in-memory
// only — never persisted to page 0 (§3, §9: this is a decided, not open,
// question — the spec names it explicitly, not merely implied by
// omission).
// How: grounded on the teacher's internal/storage/pager/catalog.go for the
// shape of a mutex-guarded Catalog type with Load/Put/Get/List operations,
// trimmed of the teacher's B+Tree-backed, JSON-valued, multi-tenant
// design — this catalog has exactly one page (page 0), one flat table
// list, and a fixed binary schema blob rather than JSON.
// Why: keeping the catalog's own storage format identical in shape to an
// ordinary table (name as key, blob as value) means CreateTable reuses the
// same slotted-page Insert path as row insertion elsewhere in the engine.
package catalog

import (
	"encoding/binary"
	"fmt"
)

// DataType enumerates the column types this system understands.
type DataType uint32

const (
	TypeInt DataType = iota
	TypeText
)

func (t DataType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeText:
		return "TEXT"
	default:
		return fmt.Sprintf("DataType(%d)", uint32(t))
	}
}

// Caps bound the catalog's in-memory tables, per §3/original_source.
const (
	MaxTables    = 100
	MaxIndexes   = 20
	MaxTableName = 32
	MaxColumns   = 16
)

// ColumnDef describes one column of a table schema.
type ColumnDef struct {
	Name        string
	Type        DataType
	IsPrimaryKey bool
	IsUnique    bool
}

// Table is the in-memory catalog entry for one table (§3).
type Table struct {
	Name        string
	RootPageNum uint32
	Columns     []ColumnDef
}

// ColumnIndex returns the position of the named column, case-insensitively,
// or -1 if no column matches.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if foldEqual(c.Name, name) {
			return i
		}
	}
	return -1
}

// PrimaryKeyIndex returns the position of the primary-key column, or -1 if
// the table somehow has none (schemas are expected to always declare one).
func (t *Table) PrimaryKeyIndex() int {
	for i, c := range t.Columns {
		if c.IsPrimaryKey {
			return i
		}
	}
	return -1
}

// Index is an in-memory-only secondary index over one column of one table
// (§3, §9 — never persisted to page 0; rebuilding on restart is out of
// scope because the executor never needs it to be durable: index rows are
// a pure derivation of the table's own rows).
type Index struct {
	IndexName   string
	TableName   string
	ColName     string
	RootPageNum uint32
}

// serializeSchema encodes a table's schema blob:
//
//	root_page (u32 LE) | col_count (u32 LE) |
//	per column: type (u32 LE) | name_len (u32 LE) | name_bytes | is_pk (u8) | is_unique (u8)
func serializeSchema(t *Table) []byte {
	size := 8
	for _, c := range t.Columns {
		size += 4 + 4 + len(c.Name) + 1 + 1
	}
	buf := make([]byte, size)
	binary.LittleEndian.PutUint32(buf[0:4], t.RootPageNum)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(t.Columns)))
	off := 8
	for _, c := range t.Columns {
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(c.Type))
		off += 4
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(c.Name)))
		off += 4
		copy(buf[off:off+len(c.Name)], c.Name)
		off += len(c.Name)
		buf[off] = boolByte(c.IsPrimaryKey)
		off++
		buf[off] = boolByte(c.IsUnique)
		off++
	}
	return buf
}

// deserializeSchema decodes a schema blob produced by serializeSchema into
// a Table whose Name must be filled in by the caller (the name lives in the
// catalog slot's key, not the value).
func deserializeSchema(blob []byte) (*Table, error) {
	if len(blob) < 8 {
		return nil, fmt.Errorf("catalog: schema blob too short: %d bytes", len(blob))
	}
	t := &Table{
		RootPageNum: binary.LittleEndian.Uint32(blob[0:4]),
	}
	colCount := binary.LittleEndian.Uint32(blob[4:8])
	off := 8
	for i := uint32(0); i < colCount; i++ {
		if off+8 > len(blob) {
			return nil, fmt.Errorf("catalog: truncated schema blob at column %d", i)
		}
		typ := DataType(binary.LittleEndian.Uint32(blob[off : off+4]))
		off += 4
		nameLen := int(binary.LittleEndian.Uint32(blob[off : off+4]))
		off += 4
		if off+nameLen+2 > len(blob) {
			return nil, fmt.Errorf("catalog: truncated schema blob name at column %d", i)
		}
		name := string(blob[off : off+nameLen])
		off += nameLen
		isPK := blob[off] != 0
		off++
		isUnique := blob[off] != 0
		off++
		t.Columns = append(t.Columns, ColumnDef{Name: name, Type: typ, IsPrimaryKey: isPK, IsUnique: isUnique})
	}
	return t, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
