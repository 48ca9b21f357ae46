package catalog

import (
	"errors"
	"fmt"
	"log"

	"github.com/SimonWaldherr/slotdbd/internal/arena"
	"github.com/SimonWaldherr/slotdbd/internal/storage/pager"
)

// Sentinel errors the executor maps onto its own result codes (§4.4, §6.1).
// Kept here rather than importing the engine's result enum so this package
// has no dependency on statement execution at all.
var (
	ErrPageFull     = errors.New("catalog: page 0 has no room for a new entry")
	ErrTableExists  = errors.New("catalog: table already exists")
	ErrTooManyTables = errors.New("catalog: table cap reached")
	ErrTableNotExists = errors.New("catalog: table does not exist")
	ErrTooManyIndexes = errors.New("catalog: index cap reached")
)

const catalogPage = 0

// Catalog is the in-memory mirror of page 0 plus the session's indexes.
// Callers (the Database type) are responsible for serializing access —
// Catalog itself holds no lock, matching the single global database mutex
// design (§5).
type Catalog struct {
	pager    *pager.Pager
	arena    *arena.Arena
	nextPage uint32
	tables   []*Table
	indexes  []*Index
}

// Load initializes or rebuilds the catalog from the pager's page 0 (§4.4).
// A fresh database (num_pages == 0) gets an empty leaf at page 0. An
// existing database has its table list rebuilt by iterating page 0's live
// slots; tables beyond MaxTables are dropped with a logged warning. Table
// and column name strings are copied into a, the process-wide arena
// (§4.1) — they live for the process, same as the cached pages behind
// them.
func Load(p *pager.Pager, a *arena.Arena) (*Catalog, error) {
	c := &Catalog{pager: p, arena: a, nextPage: 1}

	if p.NumPages() == 0 {
		pager.InitLeaf(p.GetPage(catalogPage))
		if err := p.Flush(catalogPage); err != nil {
			return nil, fmt.Errorf("catalog: init page 0: %w", err)
		}
		return c, nil
	}

	page := pager.Wrap(p.GetPage(catalogPage))
	maxRoot := uint32(0)
	for i := 0; i < page.NumCells(); i++ {
		if page.IsTombstone(i) {
			continue
		}
		if len(c.tables) >= MaxTables {
			log.Printf("catalog: table cap (%d) reached while loading page 0, dropping remaining entries", MaxTables)
			break
		}
		key, value := page.ReadSlot(i)
		t, err := deserializeSchema(value)
		if err != nil {
			return nil, fmt.Errorf("catalog: loading table %q: %w", key, err)
		}
		t.Name = a.AllocString(string(key))
		for i := range t.Columns {
			t.Columns[i].Name = a.AllocString(t.Columns[i].Name)
		}
		c.tables = append(c.tables, t)
		if t.RootPageNum > maxRoot {
			maxRoot = t.RootPageNum
		}
	}
	c.nextPage = maxRoot + 1
	return c, nil
}

// FindTable performs a case-insensitive linear scan over the cached table
// list (§4.4). Returns nil if no table matches.
func (c *Catalog) FindTable(name string) *Table {
	for _, t := range c.tables {
		if foldEqual(t.Name, name) {
			return t
		}
	}
	return nil
}

// FindIndex performs a case-insensitive scan over the in-memory index list.
func (c *Catalog) FindIndex(name string) *Index {
	for _, idx := range c.indexes {
		if foldEqual(idx.IndexName, name) {
			return idx
		}
	}
	return nil
}

// IndexesOn returns every index defined on table/column, case-insensitively.
func (c *Catalog) IndexesOn(tableName, colName string) []*Index {
	var out []*Index
	for _, idx := range c.indexes {
		if foldEqual(idx.TableName, tableName) && foldEqual(idx.ColName, colName) {
			out = append(out, idx)
		}
	}
	return out
}

// Tables returns the live table list. Callers must not mutate the slice.
func (c *Catalog) Tables() []*Table { return c.tables }

// Indexes returns the live index list. Callers must not mutate the slice.
func (c *Catalog) Indexes() []*Index { return c.indexes }

// allocPage hands out the next page number for a new table or index root.
func (c *Catalog) allocPage() uint32 {
	n := c.nextPage
	c.nextPage++
	return n
}

// CreateTable allocates a root page for a new table, serializes its schema
// into page 0, and appends the in-memory entry (§4.4 step (i)-(iv)).
// Returns ErrTableExists if the name is already taken, ErrTooManyTables if
// the cap is reached, or ErrPageFull if page 0 has no room.
func (c *Catalog) CreateTable(name string, columns []ColumnDef) (*Table, error) {
	if c.FindTable(name) != nil {
		return nil, ErrTableExists
	}
	if len(c.tables) >= MaxTables {
		return nil, ErrTooManyTables
	}

	root := c.allocPage()
	pager.InitLeaf(c.pager.GetPage(int(root)))

	storedCols := make([]ColumnDef, len(columns))
	for i, col := range columns {
		col.Name = c.arena.AllocString(col.Name)
		storedCols[i] = col
	}
	t := &Table{Name: c.arena.AllocString(name), RootPageNum: root, Columns: storedCols}
	blob := serializeSchema(t)

	catPage := pager.Wrap(c.pager.GetPage(catalogPage))
	if !catPage.Insert([]byte(name), blob) {
		return nil, ErrPageFull
	}

	c.tables = append(c.tables, t)

	if err := c.pager.Flush(catalogPage); err != nil {
		return nil, fmt.Errorf("catalog: flush page 0: %w", err)
	}
	if err := c.pager.Flush(int(root)); err != nil {
		return nil, fmt.Errorf("catalog: flush table root %d: %w", root, err)
	}
	return t, nil
}

// CreateIndex allocates a root page for a new index and appends it to the
// in-memory index list. Indexes are never persisted to page 0 (§3, §9) —
// only the root page itself needs to be flushed to exist on disk.
func (c *Catalog) CreateIndex(indexName, tableName, colName string) (*Index, error) {
	if c.FindTable(tableName) == nil {
		return nil, ErrTableNotExists
	}
	if len(c.indexes) >= MaxIndexes {
		return nil, ErrTooManyIndexes
	}

	root := c.allocPage()
	pager.InitLeaf(c.pager.GetPage(int(root)))
	if err := c.pager.Flush(int(root)); err != nil {
		return nil, fmt.Errorf("catalog: flush index root %d: %w", root, err)
	}

	idx := &Index{
		IndexName:   c.arena.AllocString(indexName),
		TableName:   c.arena.AllocString(tableName),
		ColName:     c.arena.AllocString(colName),
		RootPageNum: root,
	}
	c.indexes = append(c.indexes, idx)
	return idx, nil
}
