package holiday

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

const driverName = "sqlite3"

// Store caches fetched holiday data in a local sqlite database so repeated
// runs do not hammer the Cabinet Office server.
type Store struct {
	db *sqlx.DB
}

// OpenStore opens (creating if needed) the holiday cache database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating holiday cache directory: %w", err)
		}
	}
	db, err := sqlx.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("opening holiday cache: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating holiday cache: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS holidays (
		day VARCHAR NOT NULL PRIMARY KEY,
		name VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS meta (
		key VARCHAR NOT NULL PRIMARY KEY,
		value VARCHAR NOT NULL
	)`,
}

type holidayRow struct {
	Day  string `db:"day"`
	Name string `db:"name"`
}

// Replace swaps the cached holiday set for the given one and records the
// fetch time, all in one transaction.
func (s *Store) Replace(ctx context.Context, holidays []Holiday, fetchedAt time.Time) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM holidays`); err != nil {
		return err
	}
	for _, h := range holidays {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO holidays (day, name) VALUES (?, ?)
			 ON CONFLICT(day) DO UPDATE SET name = ?`,
			h.Date.Format(dayFormat), h.Name, h.Name)
		if err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('fetched_at', ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		fetchedAt.UTC().Format(time.RFC3339), fetchedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	return tx.Commit()
}

// All returns every cached holiday sorted by date.
func (s *Store) All(ctx context.Context) ([]Holiday, error) {
	var rows []holidayRow
	err := s.db.SelectContext(ctx, &rows, `SELECT day, name FROM holidays ORDER BY day`)
	if err != nil {
		return nil, err
	}

	holidays := make([]Holiday, 0, len(rows))
	for _, r := range rows {
		day, err := time.ParseInLocation(dayFormat, r.Day, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("corrupt cache row %q: %w", r.Day, err)
		}
		holidays = append(holidays, Holiday{Date: day, Name: r.Name})
	}
	return holidays, nil
}

// FetchedAt reports when the cache was last populated. A zero time means
// the cache has never been filled.
func (s *Store) FetchedAt(ctx context.Context) (time.Time, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM meta WHERE key = 'fetched_at'`)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt fetched_at value %q: %w", value, err)
	}
	return t, nil
}
