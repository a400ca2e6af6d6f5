package entities

import "time"

// Streak tracks consecutive calendar days with at least one completed quiz.
type Streak struct {
	Current         int        // length of the running streak
	Best            int        // longest streak ever reached, never decreases
	LastCompletedOn *time.Time // calendar day of the last counted completion (nil if none)
}

// Advance returns the streak after a completion on the calendar day today.
// Only the date part of today is used; the caller decides the time zone.
func (s Streak) Advance(today time.Time) Streak {
	day := CalendarDay(today)
	next := s

	switch {
	case s.LastCompletedOn == nil:
		next.Current = 1
	case CalendarDay(*s.LastCompletedOn).Equal(day):
		return s
	case CalendarDay(*s.LastCompletedOn).AddDate(0, 0, 1).Equal(day):
		next.Current = s.Current + 1
	default:
		next.Current = 1
	}

	next.Best = max(s.Best, next.Current)
	next.LastCompletedOn = &day
	return next
}

// CalendarDay drops the clock part of t and returns that date at midnight UTC.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
