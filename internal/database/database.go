package database

import (
	"database/sql"
	"fmt"

	"github.com/pagetally/pagetally/internal/models"
	_ "modernc.org/sqlite" // CGO-free SQLite
)

type Database struct {
	db         *sql.DB
	validKinds map[string]bool
}

func NewDatabase(databasePath string) (*Database, error) {
	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", databasePath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Database{
		db: db,
		validKinds: map[string]bool{
			models.KindPageview: true,
			models.KindEvent:    true,
		},
	}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS hits(
	  id       INTEGER PRIMARY KEY,
	  ts_utc   INTEGER NOT NULL,
	  ts_iso   TEXT    NOT NULL,
	  account  TEXT    NOT NULL,
	  session  TEXT    NOT NULL,
	  kind     TEXT    NOT NULL CHECK (kind IN ('pageview','event')),
	  path     TEXT,
	  category TEXT,
	  action   TEXT,
	  label    TEXT,
	  value    INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_hits_ts      ON hits(ts_utc);
	CREATE INDEX IF NOT EXISTS idx_hits_kind    ON hits(kind);
	CREATE INDEX IF NOT EXISTS idx_hits_account ON hits(account);
	`)
	if err != nil {
		return fmt.Errorf("failed to create database tables: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) ValidateHit(hit models.Hit) error {
	if hit.Account == "" {
		return fmt.Errorf("account cannot be empty")
	}
	if hit.Kind == "" {
		return fmt.Errorf("kind cannot be empty")
	}
	if !d.validKinds[hit.Kind] {
		return fmt.Errorf("invalid hit kind: %s", hit.Kind)
	}
	if hit.TSUTC <= 0 {
		return fmt.Errorf("timestamp must be positive")
	}
	if hit.Kind == models.KindEvent {
		if hit.Category == "" {
			return fmt.Errorf("event hit requires a category")
		}
		if hit.Action == "" {
			return fmt.Errorf("event hit requires an action")
		}
	}
	return nil
}

func (d *Database) InsertHits(hits []models.Hit) error {
	transaction, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	statement, err := transaction.Prepare(`INSERT INTO hits(ts_utc, ts_iso, account, session, kind, path, category, action, label, value) VALUES(?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		_ = transaction.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer statement.Close()

	for _, hit := range hits {
		if err := d.ValidateHit(hit); err != nil {
			_ = transaction.Rollback()
			return fmt.Errorf("invalid hit: %w", err)
		}
		if _, err := statement.Exec(hit.TSUTC, hit.TSISO, hit.Account, hit.Session, hit.Kind, hit.Path, hit.Category, hit.Action, hit.Label, hit.Value); err != nil {
			_ = transaction.Rollback()
			return fmt.Errorf("failed to execute statement: %w", err)
		}
	}
	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DayCount is one point of per-day hit counts, date formatted YYYY-MM-DD.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type Stats struct {
	TotalHits int64      `json:"total_hits"`
	Pageviews int64      `json:"pageviews"`
	Events    int64      `json:"events"`
	HitsByDay []DayCount `json:"hits_by_day"`
}

func (d *Database) QueryStats() (*Stats, error) {
	stats := &Stats{}
	row := d.db.QueryRow(`
	SELECT COUNT(*),
	       COALESCE(SUM(kind = 'pageview'), 0),
	       COALESCE(SUM(kind = 'event'), 0)
	FROM hits`)
	if err := row.Scan(&stats.TotalHits, &stats.Pageviews, &stats.Events); err != nil {
		return nil, fmt.Errorf("failed to query hit counts: %w", err)
	}

	rows, err := d.db.Query(`
	SELECT date(ts_utc, 'unixepoch') AS day, COUNT(*)
	FROM hits GROUP BY day ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("failed to query hits by day: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan day count: %w", err)
		}
		stats.HitsByDay = append(stats.HitsByDay, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate day counts: %w", err)
	}
	return stats, nil
}
