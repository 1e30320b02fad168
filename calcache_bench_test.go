package calcache

import (
	"context"
	"testing"
	"time"

	"github.com/finplan/calcache/datasource"
	"github.com/finplan/calcache/epochday"
)

func BenchmarkAddDaysByID(b *testing.B) {
	ctx := context.Background()

	start := epochday.Date(2000, time.January, 1)
	var days []epochday.Day
	for i := 0; i < 20*365; i++ {
		d := start + epochday.Day(i)
		switch d.Time().Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days = append(days, d)
		}
	}

	cache, err := New(datasource.NewStatic(
		datasource.StaticCalendar{ID: 1, XUID: "bench", Days: days},
	))
	if err != nil {
		b.Fatal(err)
	}
	if err := cache.Populate(ctx); err != nil {
		b.Fatal(err)
	}

	in := days[len(days)/2]

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := cache.AddDaysByID(ctx, 1, in, 10); err != nil {
				b.Fatal(err)
			}
		}
	})
}
