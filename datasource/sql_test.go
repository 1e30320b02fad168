package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finplan/calcache/epochday"
)

func TestSQLite(t *testing.T) {
	if os.Getenv("CALCACHE_SQLITE_TEST") == "" {
		t.Skip("CALCACHE_SQLITE_TEST is not set")
	}

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "calendars.db")

	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE calendar (id INTEGER PRIMARY KEY, xuid TEXT NOT NULL);`,
		`CREATE TABLE calendar_date (calendar_id INTEGER NOT NULL, date TEXT NOT NULL);`,
		`INSERT INTO calendar (id, xuid) VALUES (1, 'Monthly');`,
	} {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	for m := 1; m <= 12; m++ {
		_, err := db.ExecContext(ctx,
			`INSERT INTO calendar_date (calendar_id, date) VALUES (1, ?);`,
			fmt.Sprintf("2024-%02d-01", m))
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	src, err := NewSQLite(dsn)
	require.NoError(t, err)
	defer src.Close()

	testDataSource(t, src)
}

func TestPostgres(t *testing.T) {
	databaseURL := os.Getenv("CALCACHE_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("CALCACHE_DATABASE_URL is not set")
	}

	ctx := context.Background()
	src, err := NewPostgres(ctx, databaseURL)
	require.NoError(t, err)
	defer src.Close()

	// Assumes the plan.calendar fixture with the 'monthly' calendar as id 1.
	testDataSource(t, src)
}

func testDataSource(t *testing.T, src DataSource) {
	ctx := context.Background()

	require.NoError(t, src.ValidateSchema(ctx))

	headers, err := src.Calendars(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, headers)
	assert.Equal(t, int64(1), headers[0].ID)
	assert.Equal(t, "monthly", headers[0].XUID, "headers query lowercases the xuid")
	assert.Equal(t, int64(12), headers[0].EntryCount)

	var (
		rows int64
		prev epochday.Day
	)
	require.NoError(t, src.Entries(ctx, func(id int64, day epochday.Day) error {
		require.Equal(t, int64(1), id)
		if rows > 0 {
			assert.Greater(t, day, prev)
		}
		prev = day
		rows++
		return nil
	}))
	assert.Equal(t, headers[0].EntryCount, rows)
}
