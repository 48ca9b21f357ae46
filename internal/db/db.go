// Package db wires the pager and catalog into the process-wide singleton
// the executor operates on, and owns the single global mutex that
// serializes every statement (§3, §5).
package db

import (
	"fmt"
	"sync"

	"github.com/SimonWaldherr/slotdbd/internal/arena"
	"github.com/SimonWaldherr/slotdbd/internal/catalog"
	"github.com/SimonWaldherr/slotdbd/internal/storage/pager"
)

// ProcessArenaSize is the default size of the long-lived, never-reset
// process arena (§4.1 — "≈ 64 MiB").
const ProcessArenaSize = 64 << 20

// Database is the process-wide singleton: pager, catalog, a single mutex
// guarding every statement, and the process arena backing catalog
// strings. Cached pages are not allocated from this arena: the pager
// allocates each page buffer itself.
type Database struct {
	mu      sync.Mutex
	Pager   *pager.Pager
	Catalog *catalog.Catalog
	Arena   *arena.Arena
}

// Open opens (creating if necessary) the database file at path, rebuilds
// or initializes the catalog (§4.4), and returns the ready singleton.
func Open(path string) (*Database, error) {
	p, err := pager.Open(path)
	if err != nil {
		return nil, fmt.Errorf("db: open pager: %w", err)
	}
	a := arena.New(ProcessArenaSize)
	cat, err := catalog.Load(p, a)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("db: load catalog: %w", err)
	}
	return &Database{
		Pager:   p,
		Catalog: cat,
		Arena:   a,
	}, nil
}

// Lock acquires the global database mutex. A worker holds it for an
// entire statement, including any streamed result rows (§5).
func (d *Database) Lock() { d.mu.Lock() }

// Unlock releases the global database mutex.
func (d *Database) Unlock() { d.mu.Unlock() }

// TryLock attempts to acquire the global database mutex without blocking,
// for best-effort background work (the monitor's periodic tick) that must
// never queue behind a client statement.
func (d *Database) TryLock() bool { return d.mu.TryLock() }

// Close releases the pager's file descriptor. Callers must not be holding
// the mutex across shutdown since no other goroutine will run concurrently
// at that point.
func (d *Database) Close() error {
	return d.Pager.Close()
}
