package server

import (
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/SimonWaldherr/slotdbd/internal/db"
	"github.com/SimonWaldherr/slotdbd/internal/storage/pager"
)

// Monitor periodically logs page and row counts, grounded on tinySQL's
// Scheduler (internal/storage/scheduler.go), trimmed to the one fixed job
// this design needs instead of a general job-registration API.
type Monitor struct {
	database *db.Database
	cron     *cron.Cron
	mu       sync.Mutex
	running  bool
}

func NewMonitor(database *db.Database) *Monitor {
	return &Monitor{
		database: database,
		cron:     cron.New(cron.WithSeconds()),
	}
}

// Start schedules the stats tick every 30 seconds and starts the cron
// runner in its own goroutine.
func (m *Monitor) Start() error {
	if _, err := m.cron.AddFunc("*/30 * * * * *", m.tick); err != nil {
		return err
	}
	m.cron.Start()
	return nil
}

// Stop drains the in-flight tick (if any) and halts the cron runner.
func (m *Monitor) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

// tick is best-effort: it never blocks a client waiting on the global
// database mutex, since that mutex is also what serializes every SQL
// statement (§5). A busy database is logged and skipped rather than
// queued behind.
func (m *Monitor) tick() {
	if !m.mu.TryLock() {
		log.Println("monitor: previous tick still running, skipping")
		return
	}
	defer m.mu.Unlock()

	if !m.database.TryLock() {
		log.Println("monitor: database busy, skipping tick")
		return
	}
	defer m.database.Unlock()

	tables := m.database.Catalog.Tables()
	log.Printf("monitor: pages=%d tables=%d indexes=%d", m.database.Pager.NumPages(), len(tables), len(m.database.Catalog.Indexes()))
	for _, t := range tables {
		page := pager.Wrap(m.database.Pager.GetPage(int(t.RootPageNum)))
		log.Printf("monitor: table %q live_rows=%d", t.Name, page.LiveCount())
	}
}
