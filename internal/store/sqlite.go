package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dmerrick/jobscout/internal/model"
)

// FirstSeenIndex records when each employer was first encountered, in a
// SQLite database. Discovery consults it to skip re-probing employers seen
// within the freshness window. The index is an optimization only: losing it
// cannot cause duplicates, because reconciliation merges by key regardless.
type FirstSeenIndex struct {
	db *sql.DB
}

// OpenFirstSeenIndex opens (or creates) the index database at dbPath.
func OpenFirstSeenIndex(dbPath string) (*FirstSeenIndex, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening first-seen index: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite wants one writer

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging first-seen index: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS employers (
		employer   TEXT PRIMARY KEY,
		first_seen INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating employers table: %w", err)
	}

	return &FirstSeenIndex{db: db}, nil
}

// SeenWithin reports whether the employer was first recorded within the
// given window of now.
func (i *FirstSeenIndex) SeenWithin(employer string, window time.Duration, now time.Time) (bool, error) {
	var firstSeen int64
	err := i.db.QueryRow(
		"SELECT first_seen FROM employers WHERE employer = ?",
		model.NormalizeName(employer),
	).Scan(&firstSeen)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up %s: %w", employer, err)
	}
	return now.Sub(time.Unix(firstSeen, 0)) < window, nil
}

// Record stores the employer's first-seen time. Existing entries are left
// untouched — first-seen is immutable.
func (i *FirstSeenIndex) Record(employer string, seenAt time.Time) error {
	_, err := i.db.Exec(
		"INSERT OR IGNORE INTO employers (employer, first_seen) VALUES (?, ?)",
		model.NormalizeName(employer), seenAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", employer, err)
	}
	return nil
}

// Close closes the underlying database.
func (i *FirstSeenIndex) Close() error {
	return i.db.Close()
}
