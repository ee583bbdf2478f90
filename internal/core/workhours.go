package core

import (
	"time"

	"attendance.bot/internal/core/model"
)

const (
	msPerHour   = int64(60 * 60 * 1000)
	msPerMinute = int64(60 * 1000)
)

// CalculateWorkingHours reduces one user-day of attendance events, in
// chronological order, into total/working/break durations.
//
// A break-end counts as an implicit resume: the span from break-end to the
// next break-start or check-out is credited as working time. Spans left open
// when the list ends (a break-start with no break-end, a check-in with no
// check-out) contribute nothing. The function never fails on malformed
// sequences; unmatched transitions are simply ignored.
func CalculateWorkingHours(events []model.AttendanceEvent) model.WorkingHoursResult {
	var workMs, breakMs int64
	var currentCheckIn, currentBreakStart time.Time

	for _, ev := range events {
		switch ev.Kind {
		case model.KindCheckIn:
			// Overwrites a stale check-in; does not close an open break.
			currentCheckIn = ev.Timestamp

		case model.KindBreakStart:
			if !currentCheckIn.IsZero() {
				workMs += ev.Timestamp.Sub(currentCheckIn).Milliseconds()
				currentCheckIn = time.Time{}
			}
			currentBreakStart = ev.Timestamp

		case model.KindBreakEnd:
			if !currentBreakStart.IsZero() {
				breakMs += ev.Timestamp.Sub(currentBreakStart).Milliseconds()
				currentBreakStart = time.Time{}
			}
			currentCheckIn = ev.Timestamp

		case model.KindCheckOut:
			if !currentCheckIn.IsZero() {
				workMs += ev.Timestamp.Sub(currentCheckIn).Milliseconds()
				currentCheckIn = time.Time{}
			}
		}
	}

	totalMs := workMs + breakMs

	return model.WorkingHoursResult{
		TotalHours:     int(totalMs / msPerHour),
		TotalMinutes:   int((totalMs % msPerHour) / msPerMinute),
		WorkingHours:   int(workMs / msPerHour),
		WorkingMinutes: int((workMs % msPerHour) / msPerMinute),
		BreakHours:     int(breakMs / msPerHour),
		BreakMinutes:   int((breakMs % msPerHour) / msPerMinute),
	}
}
