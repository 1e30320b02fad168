package epochday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayConversions(t *testing.T) {
	t.Run("Epoch", func(t *testing.T) {
		assert.Equal(t, Day(0), Date(2000, time.January, 1))
		assert.Equal(t, "2000-01-01", Day(0).String())
	})

	t.Run("RoundTrip", func(t *testing.T) {
		for _, s := range []string{
			"1999-12-31",
			"2000-01-02",
			"2024-02-29",
			"1970-01-01",
			"2100-06-15",
		} {
			d, err := Parse(s)
			require.NoError(t, err)
			assert.Equal(t, s, d.String())
		}
	})

	t.Run("BeforeEpoch", func(t *testing.T) {
		assert.Equal(t, Day(-1), Date(1999, time.December, 31))
		assert.Equal(t, Day(-365), Date(1999, time.January, 1))
	})

	t.Run("FromTimeTruncates", func(t *testing.T) {
		noon := time.Date(2024, time.March, 1, 12, 30, 0, 0, time.UTC)
		assert.Equal(t, Date(2024, time.March, 1), FromTime(noon))

		lateEvening := time.Date(1999, time.December, 31, 23, 0, 0, 0, time.UTC)
		assert.Equal(t, Day(-1), FromTime(lateEvening))
	})

	t.Run("FarRange", func(t *testing.T) {
		// 400 Gregorian years is exactly 146097 days. Dates centuries away
		// from the epoch must convert exactly, not saturate.
		assert.Equal(t, Day(-146097), Date(1600, time.January, 1))
		assert.Equal(t, Day(146097), Date(2400, time.January, 1))

		assert.Equal(t, Day(-146097), FromTime(time.Date(1600, time.January, 1, 6, 0, 0, 0, time.UTC)))

		d, err := Parse("1600-01-01")
		require.NoError(t, err)
		assert.Equal(t, "1600-01-01", d.String())
	})

	t.Run("ParseError", func(t *testing.T) {
		_, err := Parse("not-a-date")
		require.Error(t, err)
	})
}

func TestSentinels(t *testing.T) {
	assert.True(t, DistantPast.IsSentinel())
	assert.True(t, DistantFuture.IsSentinel())
	assert.False(t, Day(0).IsSentinel())

	assert.Equal(t, "-infinity", DistantPast.String())
	assert.Equal(t, "infinity", DistantFuture.String())
}
