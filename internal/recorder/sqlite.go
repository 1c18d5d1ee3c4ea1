package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder writes the refresh journal to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refreshes (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			seq         INTEGER NOT NULL,
			symbol      TEXT,
			expiration  TEXT,
			filter      TEXT,
			state       TEXT NOT NULL,
			message     TEXT,
			lines       INTEGER,
			points      INTEGER,
			elapsed_ms  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refreshes_ts ON refreshes(timestamp)`,

		`CREATE TABLE IF NOT EXISTS fetches (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			provider    TEXT,
			op          TEXT,
			symbol      TEXT,
			ok          INTEGER,
			error       TEXT,
			elapsed_ms  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetches_ts ON fetches(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRefresh(evt *RefreshEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO refreshes
		(timestamp, seq, symbol, expiration, filter, state, message, lines, points, elapsed_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), int64(evt.Seq), evt.Symbol, evt.Expiration, evt.Filter,
		evt.State, evt.Message, evt.Lines, evt.Points, evt.Elapsed.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecordFetch(evt *FetchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ok := 0
	if evt.OK {
		ok = 1
	}
	_, err := r.db.Exec(`INSERT INTO fetches
		(timestamp, provider, op, symbol, ok, error, elapsed_ms)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Provider, evt.Op, evt.Symbol, ok, evt.Error, evt.Elapsed.Milliseconds(),
	)
	return err
}

// CountRefreshes returns the number of journaled refreshes. Used for diagnostics.
func (r *SQLiteRecorder) CountRefreshes() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM refreshes`).Scan(&n)
	return n, err
}

// CountFetches returns the number of journaled provider calls with the given outcome.
// Used for diagnostics.
func (r *SQLiteRecorder) CountFetches(ok bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	flag := 0
	if ok {
		flag = 1
	}
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM fetches WHERE ok = ?`, flag).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
