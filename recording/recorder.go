// Package recording stores the outcome of every simulated access in a SQLite
// database so runs can be analyzed after the fact.
package recording

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/cachesim/cache"
)

// DefaultBatchSize is the number of buffered accesses that triggers a flush.
const DefaultBatchSize = 100000

const schema = `
CREATE TABLE runs (
	id           TEXT PRIMARY KEY,
	set_count    INTEGER,
	line_size    INTEGER,
	organization TEXT,
	trace        TEXT,
	created_at   TEXT
);
CREATE TABLE accesses (
	run_id       TEXT,
	seq          INTEGER,
	op           TEXT,
	address      TEXT,
	group_base   INTEGER,
	word         INTEGER,
	hit          INTEGER,
	slot         INTEGER,
	evicted      INTEGER,
	evicted_base TEXT
);`

const insertAccess = `INSERT INTO accesses (
	run_id, seq, op, address, group_base, word, hit, slot, evicted, evicted_base
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// RunInfo describes the run being recorded.
type RunInfo struct {
	Geometry     cache.Geometry
	Organization cache.Organization
	Trace        string
}

type entry struct {
	seq    uint64
	result cache.AccessResult
}

// Recorder is a cache.AccessHook that writes accesses into SQLite.
type Recorder struct {
	db        *sql.DB
	path      string
	runID     string
	batchSize int
	seq       uint64
	pending   []entry
	err       error
}

// New creates the database file at path and records the run. An empty path
// picks a unique name in the working directory. An existing file is never
// overwritten.
func New(path string, info RunInfo) (*Recorder, error) {
	runID := xid.New().String()
	if path == "" {
		path = "cachesim_" + runID + ".sqlite3"
	}

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("file %s already exists", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording database: %w", err)
	}

	r := &Recorder{
		db:        db,
		path:      path,
		runID:     runID,
		batchSize: DefaultBatchSize,
	}

	if err := r.init(info); err != nil {
		_ = db.Close()
		return nil, err
	}

	atexit.Register(func() { _ = r.Flush() })

	return r, nil
}

func (r *Recorder) init(info RunInfo) error {
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create recording tables: %w", err)
	}

	_, err := r.db.Exec(
		`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?)`,
		r.runID,
		info.Geometry.SetCount,
		info.Geometry.LineSize,
		info.Organization.String(),
		info.Trace,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

// SetBatchSize changes how many accesses are buffered before a flush.
func (r *Recorder) SetBatchSize(n int) {
	if n > 0 {
		r.batchSize = n
	}
}

// Path returns the database file name.
func (r *Recorder) Path() string {
	return r.path
}

// RunID returns the identifier of the recorded run.
func (r *Recorder) RunID() string {
	return r.runID
}

// OnAccess buffers the access and flushes once the batch is full.
func (r *Recorder) OnAccess(result cache.AccessResult) {
	r.seq++
	r.pending = append(r.pending, entry{seq: r.seq, result: result})

	if len(r.pending) >= r.batchSize {
		if err := r.Flush(); err != nil && r.err == nil {
			r.err = err
		}
	}
}

// Flush writes all buffered accesses in a single transaction.
func (r *Recorder) Flush() error {
	if len(r.pending) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(insertAccess)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range r.pending {
		res := e.result

		// Addresses span the full uint64 range, past SQLite's INTEGER.
		var evictedBase any
		if res.Evicted {
			evictedBase = strconv.FormatUint(res.EvictedBase, 10)
		}

		_, err := stmt.Exec(
			r.runID,
			int64(e.seq),
			res.Op.String(),
			strconv.FormatUint(res.Address, 10),
			res.GroupBase,
			res.Word,
			res.Hit,
			res.Slot,
			res.Evicted,
			evictedBase,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert access %d: %w", e.seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit accesses: %w", err)
	}

	r.pending = r.pending[:0]

	return nil
}

// Close flushes the remaining accesses and closes the database. It reports
// the first error met while flushing from OnAccess.
func (r *Recorder) Close() error {
	flushErr := r.Flush()
	closeErr := r.db.Close()

	switch {
	case r.err != nil:
		return r.err
	case flushErr != nil:
		return flushErr
	default:
		return closeErr
	}
}
