package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finplan/calcache/epochday"
)

// Default query texts against the originating schema. All three are
// overridable via Options for installations that keep the calendar tables
// elsewhere.
const (
	defaultPostgresValidationQuery = `SELECT COUNT(table_name) = 2
FROM information_schema.tables
WHERE table_schema = 'plan'
AND (table_name = 'calendar' OR table_name = 'calendar_date');`

	defaultPostgresHeadersQuery = `SELECT cd.calendar_id, COUNT(*),
(SELECT LOWER(ct.xuid) FROM plan.calendar ct WHERE ct.id = cd.calendar_id) xuid
FROM plan.calendar_date cd
GROUP BY cd.calendar_id
ORDER BY cd.calendar_id ASC;`

	defaultPostgresEntriesQuery = `SELECT cd.calendar_id, cd."date"
FROM plan.calendar_date cd
ORDER BY cd.calendar_id ASC, cd."date" ASC;`
)

// Queries holds the three statements a SQL-backed source runs during a fill.
type Queries struct {
	// Validation must return a single row: a boolean for Postgres, the
	// matched table count for SQLite.
	Validation string
	// Headers must return (calendar_id int64, entry_count int64, xuid text)
	// ordered by calendar_id ascending.
	Headers string
	// Entries must return (calendar_id int64, date) ordered by calendar_id
	// ascending, then date ascending.
	Entries string
}

// PostgresOptions configures a Postgres source.
type PostgresOptions struct {
	Queries Queries
}

// Postgres is a DataSource reading from a PostgreSQL database via pgx.
type Postgres struct {
	pool    *pgxpool.Pool
	queries Queries
}

// NewPostgres connects to databaseURL and returns a Postgres source.
func NewPostgres(ctx context.Context, databaseURL string, optFns ...func(*PostgresOptions)) (*Postgres, error) {
	opts := PostgresOptions{
		Queries: Queries{
			Validation: defaultPostgresValidationQuery,
			Headers:    defaultPostgresHeadersQuery,
			Entries:    defaultPostgresEntriesQuery,
		},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("datasource: connect: %w", err)
	}

	return &Postgres{pool: pool, queries: opts.Queries}, nil
}

// ValidateSchema runs the validation query and checks its boolean result.
func (p *Postgres) ValidateSchema(ctx context.Context) error {
	var ok bool
	if err := p.pool.QueryRow(ctx, p.queries.Validation).Scan(&ok); err != nil {
		return fmt.Errorf("datasource: validate schema: %w", err)
	}
	if !ok {
		return ErrIncompatibleSchema
	}
	return nil
}

// Calendars enumerates calendar headers ordered by id.
func (p *Postgres) Calendars(ctx context.Context) ([]CalendarHeader, error) {
	rows, err := p.pool.Query(ctx, p.queries.Headers)
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
func (p *Postgres) Entries(ctx context.Context, fn EntryFunc) error {
	rows, err := p.pool.Query(ctx, p.queries.Entries)
	if err != nil {
		return fmt.Errorf("datasource: load entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			date time.Time
		)
		if err := rows.Scan(&id, &date); err != nil {
			return fmt.Errorf("datasource: scan entry: %w", err)
		}
		if err := fn(id, epochday.FromTime(date)); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("datasource: load entries: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
