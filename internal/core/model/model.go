package model

import (
	"time"
)

// EventKind identifies what an attendance event marks. The string values
// match the `type` column in the attendance_events table.
type EventKind string

const (
	KindCheckIn    EventKind = "check-in"
	KindCheckOut   EventKind = "check-out"
	KindBreakStart EventKind = "break-start"
	KindBreakEnd   EventKind = "break-end"
)

// NotifyStatus defines the state of the webhook delivery for an event.
type NotifyStatus string

const (
	StatusNotifyPending    NotifyStatus = "PENDING"
	StatusNotifyProcessing NotifyStatus = "PROCESSING"
	StatusNotifyCompleted  NotifyStatus = "COMPLETED"
	StatusNotifyFailed     NotifyStatus = "FAILED"
)

// AttendanceEvent is one row of the attendance log. ID and CreatedAt are
// assigned by the store on insert.
type AttendanceEvent struct {
	ID               int64        `json:"id"`
	UserID           string       `json:"userId"`
	UserName         string       `json:"userName"`
	Kind             EventKind    `json:"type"`
	Timestamp        time.Time    `json:"timestamp"`
	CreatedAt        time.Time    `json:"createdAt,omitempty"`
	NotifyStatus     NotifyStatus `json:"notifyStatus,omitempty"`
	NotifyRetryCount int          `json:"notifyRetryCount,omitempty"`
}

// WorkingHoursResult is the summary embedded in a check-out reply. All six
// fields are floor-divided from millisecond totals; break time counts toward
// total but not toward working time.
type WorkingHoursResult struct {
	TotalHours     int `json:"totalHours"`
	TotalMinutes   int `json:"totalMinutes"`
	WorkingHours   int `json:"workingHours"`
	WorkingMinutes int `json:"workingMinutes"`
	BreakHours     int `json:"breakHours"`
	BreakMinutes   int `json:"breakMinutes"`
}
