package datasource

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/tailscale/sqlite"

	"github.com/finplan/calcache/epochday"
)

// Default query texts for a SQLite database holding the calendar tables
// without a schema qualifier. Dates are stored in "2006-01-02" text form.
const (
	defaultSQLiteValidationQuery = `SELECT COUNT(name)
FROM sqlite_master
WHERE type = 'table'
AND (name = 'calendar' OR name = 'calendar_date');`

	defaultSQLiteHeadersQuery = `SELECT cd.calendar_id, COUNT(*),
(SELECT LOWER(ct.xuid) FROM calendar ct WHERE ct.id = cd.calendar_id) xuid
FROM calendar_date cd
GROUP BY cd.calendar_id
ORDER BY cd.calendar_id ASC;`

	defaultSQLiteEntriesQuery = `SELECT cd.calendar_id, cd.date
FROM calendar_date cd
ORDER BY cd.calendar_id ASC, cd.date ASC;`
)

// SQLiteOptions configures a SQLite source.
type SQLiteOptions struct {
	Queries Queries
}

// SQLite is a DataSource reading from a SQLite database.
type SQLite struct {
	db      *sql.DB
	queries Queries
}

// NewSQLite opens the SQLite database at dsn and returns a source.
func NewSQLite(dsn string, optFns ...func(*SQLiteOptions)) (*SQLite, error) {
	opts := SQLiteOptions{
		Queries: Queries{
			Validation: defaultSQLiteValidationQuery,
			Headers:    defaultSQLiteHeadersQuery,
			Entries:    defaultSQLiteEntriesQuery,
		},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("datasource: open sqlite: %w", err)
	}

	return &SQLite{db: db, queries: opts.Queries}, nil
}

// ValidateSchema runs the validation query; it must count exactly the two
// expected tables.
func (s *SQLite) ValidateSchema(ctx context.Context) error {
	var n int64
	if err := s.db.QueryRowContext(ctx, s.queries.Validation).Scan(&n); err != nil {
		return fmt.Errorf("datasource: validate schema: %w", err)
	}
	if n != 2 {
		return ErrIncompatibleSchema
	}
	return nil
}

// Calendars enumerates calendar headers ordered by id.
func (s *SQLite) Calendars(ctx context.Context) ([]CalendarHeader, error) {
	rows, err := s.db.QueryContext(ctx, s.queries.Headers)
	if err != nil {
		return nil, fmt.Errorf("datasource: list calendars: %w", err)
	}
	defer rows.Close()

	var headers []CalendarHeader
	for rows.Next() {
		var h CalendarHeader
		if err := rows.Scan(&h.ID, &h.EntryCount, &h.XUID); err != nil {
			return nil, fmt.Errorf("datasource: scan calendar header: %w", err)
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("datasource: list calendars: %w", err)
	}
	return headers, nil
}

// Entries streams all calendar entries in calendar-then-date order.
func (s *SQLite) Entries(ctx context.Context, fn EntryFunc) error {
	rows, err := s.db.QueryContext(ctx, s.queries.Entries)
	if err != nil {
		return fmt.Errorf("datasource: load entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			date string
		)
		if err := rows.Scan(&id, &date); err != nil {
			return fmt.Errorf("datasource: scan entry: %w", err)
		}
		day, err := epochday.Parse(date)
		if err != nil {
			return fmt.Errorf("datasource: entry date %q: %w", date, err)
		}
		if err := fn(id, day); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("datasource: load entries: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
