package calendar

import (
	"testing"
	"time"

	"github.com/finplan/calcache/epochday"
)

func benchCalendar(b *testing.B, n int) *Calendar {
	b.Helper()
	start := epochday.Date(2000, time.January, 1)
	c := New(1, "bench")
	for i := 0; i < n; i++ {
		d := start + epochday.Day(i)
		switch d.Time().Weekday() {
		case time.Saturday, time.Sunday:
		default:
			c.Days = append(c.Days, d)
		}
	}
	if err := c.BuildPageIndex(); err != nil {
		b.Fatalf("BuildPageIndex failed: %v", err)
	}
	return c
}

func BenchmarkFloorSearch(b *testing.B) {
	c := benchCalendar(b, 20*365)
	targets := make([]epochday.Day, 1024)
	for i := range targets {
		targets[i] = c.Days[0] + epochday.Day(i*7)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.FloorSearch(targets[i%len(targets)])
	}
}

func BenchmarkAddDays(b *testing.B) {
	c := benchCalendar(b, 20*365)
	in := c.Days[len(c.Days)/2]

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.AddDays(in, int32(i%100)-50)
	}
}

func BenchmarkBuildPageIndex(b *testing.B) {
	c := benchCalendar(b, 20*365)
	days := c.Days

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fresh := New(1, "bench")
		fresh.Days = days
		if err := fresh.BuildPageIndex(); err != nil {
			b.Fatal(err)
		}
	}
}
