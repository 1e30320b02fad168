package datasource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finplan/calcache/epochday"
)

func TestStatic(t *testing.T) {
	ctx := context.Background()

	src := NewStatic(
		StaticCalendar{ID: 2, XUID: "monthly", Days: []epochday.Day{60, 0, 30, 30}},
		StaticCalendar{ID: 1, XUID: "daily", Days: []epochday.Day{3, 1, 2}},
	)

	require.NoError(t, src.ValidateSchema(ctx))

	t.Run("HeadersOrderedAndDeduped", func(t *testing.T) {
		headers, err := src.Calendars(ctx)
		require.NoError(t, err)
		require.Len(t, headers, 2)
		assert.Equal(t, CalendarHeader{ID: 1, XUID: "daily", EntryCount: 3}, headers[0])
		assert.Equal(t, CalendarHeader{ID: 2, XUID: "monthly", EntryCount: 3}, headers[1])
	})

	t.Run("EntriesOrdered", func(t *testing.T) {
		type row struct {
			id  int64
			day epochday.Day
		}
		var got []row
		require.NoError(t, src.Entries(ctx, func(id int64, day epochday.Day) error {
			got = append(got, row{id, day})
			return nil
		}))
		want := []row{
			{1, 1}, {1, 2}, {1, 3},
			{2, 0}, {2, 30}, {2, 60},
		}
		assert.Equal(t, want, got)
	})

	t.Run("EntriesAbortOnError", func(t *testing.T) {
		sentinel := errors.New("stop")
		var n int
		err := src.Entries(ctx, func(int64, epochday.Day) error {
			n++
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)
		assert.Equal(t, 1, n)
	})

	t.Run("EntriesHonorsContext", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		err := src.Entries(canceled, func(int64, epochday.Day) error { return nil })
		require.ErrorIs(t, err, context.Canceled)
	})
}
