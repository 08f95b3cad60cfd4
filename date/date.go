// Package date provides calendar days and the tax year boundaries derived
// from them. All computations are in UTC.
package date

import (
	"fmt"
	"time"
)

// layout of the days written by this package.
const layout = "2006-01-02"

// lenientLayout also reads single digit months and days, like 2025-7-1.
const lenientLayout = "2006-1-2"

// Date is a calendar day in UTC.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns the day, normalizing overflows: New(2025, 12, 32) is 2026-01-01.
func New(year int, month time.Month, day int) Date {
	y, m, d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return Date{y, m, d}
}

// Of returns the UTC day of an instant.
func Of(t time.Time) Date { return New(t.UTC().Date()) }

// Today returns the current UTC day.
func Today() Date { return Of(time.Now()) }

// Add returns the day i days later, or earlier when i is negative.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// Start returns midnight UTC of the day.
func (d Date) Start() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// End returns the last instant of the day, 23:59:59.999999999 UTC.
func (d Date) End() time.Time { return d.Add(1).Start().Add(-time.Nanosecond) }

func (d Date) String() string { return d.Start().Format(layout) }

// Parse reads a day written as year-month-day.
func Parse(str string) (Date, error) {
	t, err := time.Parse(lenientLayout, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, layout, err)
	}
	return New(t.Date()), nil
}
