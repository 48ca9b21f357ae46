package server

import (
	"bufio"
	"io"
	"log"
	"net"

	"github.com/google/uuid"

	"github.com/SimonWaldherr/slotdbd/internal/arena"
	"github.com/SimonWaldherr/slotdbd/internal/db"
	"github.com/SimonWaldherr/slotdbd/internal/engine"
	"github.com/SimonWaldherr/slotdbd/internal/sqlparser"
)

// scratchArenaSize bounds the per-worker scratch arena used for one
// statement's row deserialization (§5: "each worker owns a private scratch
// arena... this arena does not escape the worker").
const scratchArenaSize = 1 << 20

// Dispatcher owns the acceptor goroutine and the fixed worker pool
// described in §5: one listener, one bounded ring of pending connections,
// N workers each servicing one client end-to-end.
type Dispatcher struct {
	listener net.Listener
	database *db.Database
	ring     *connRing
	workers  int
	done     chan struct{}
}

// NewDispatcher wires a listener already bound by the caller (so the
// caller controls SO_REUSEADDR/SO_REUSEPORT setup) to the given database.
func NewDispatcher(listener net.Listener, database *db.Database, workers, queueSize int) *Dispatcher {
	return &Dispatcher{
		listener: listener,
		database: database,
		ring:     newConnRing(queueSize),
		workers:  workers,
		done:     make(chan struct{}),
	}
}

// Run starts the acceptor and the worker pool; it blocks until Accept
// fails (typically because the listener was closed by Close).
func (d *Dispatcher) Run() error {
	for i := 0; i < d.workers; i++ {
		go d.worker()
	}
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			select {
			case <-d.done:
				return nil
			default:
				return err
			}
		}
		if !d.ring.tryPush(conn) {
			log.Printf("connection ring full, dropping %s", conn.RemoteAddr())
			conn.Close()
		}
	}
}

// Close stops accepting new connections and unblocks idle workers.
// Connections already handed to a worker are not closed: each keeps being
// served until its client disconnects.
func (d *Dispatcher) Close() error {
	close(d.done)
	d.ring.close()
	return d.listener.Close()
}

func (d *Dispatcher) worker() {
	scratch := arena.New(scratchArenaSize)
	for {
		conn, ok := d.ring.pop()
		if !ok {
			return
		}
		d.serve(conn, scratch)
	}
}

// serve handles one connection end-to-end: read a statement, parse it
// locally (no shared state, §5 step 2), execute under the global database
// mutex, write the response, repeat until disconnect.
func (d *Dispatcher) serve(conn net.Conn, scratch *arena.Arena) {
	sessionID := uuid.New()
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		line, err := readStatement(r)
		if err != nil {
			if err != io.EOF {
				log.Printf("session %s: read error: %v", sessionID, err)
			}
			return
		}
		if line == "" {
			continue
		}
		stmt := sqlparser.Parse(line)
		var status string
		if stmt.ErrorMessage != "" {
			status = "Error: " + stmt.ErrorMessage + "\n"
			if _, err := io.WriteString(conn, status); err != nil {
				return
			}
		} else {
			scratch := arena.New(scratchArenaSize)
			result := engine.Execute(d.database, stmt, conn, scratch)
			// A successful SELECT's only output is its rows (§6.3 scenario
			// 1/2): no "OK.\n" follows them.
			if !(stmt.Select != nil && result == engine.Success) {
				if _, err := io.WriteString(conn, result.StatusLine()); err != nil {
					return
				}
			}
		}
		if err := terminateResponse(conn); err != nil {
			return
		}
	}
}
