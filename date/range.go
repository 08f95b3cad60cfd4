package date

import "time"

// Range is a span of days, both ends included.
type Range struct{ From, To Date }

// TaxYear returns the calendar year range: January 1st to December 31st.
func TaxYear(year int) Range {
	return Range{From: New(year, time.January, 1), To: New(year, time.December, 31)}
}

// Contains reports whether the instant falls within the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From.Start()) && !t.After(r.Cutoff())
}

// Cutoff returns the last instant of the range at nanosecond precision,
// 23:59:59.999999999 UTC on the last day. Every instant with a millisecond
// timestamp of that day, 23:59:59.999 included, falls at or before it.
func (r Range) Cutoff() time.Time { return r.To.End() }
