package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"attendance.bot/internal/core/model"
)

// InMemory is a map-backed Repository for unit tests. It mirrors the
// Postgres implementation's nil-on-missing contract.
type InMemory struct {
	mu     sync.Mutex
	nextID int64
	events []model.AttendanceEvent

	// FailSaves makes SaveEvent return an error, for exercising storage
	// failure paths.
	FailSaves bool
}

func NewInMemory() *InMemory {
	return &InMemory{nextID: 1}
}

func (m *InMemory) SaveEvent(ctx context.Context, event model.AttendanceEvent) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSaves {
		return 0, errors.New("storage unavailable")
	}

	event.ID = m.nextID
	event.CreatedAt = time.Now()
	if event.NotifyStatus == "" {
		event.NotifyStatus = model.StatusNotifyPending
	}
	m.nextID++
	m.events = append(m.events, event)
	return event.ID, nil
}

func (m *InMemory) LastEvent(ctx context.Context, userID string) (*model.AttendanceEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var last *model.AttendanceEvent
	for i := range m.events {
		ev := m.events[i]
		if ev.UserID != userID {
			continue
		}
		if last == nil || ev.Timestamp.After(last.Timestamp) {
			last = &ev
		}
	}
	return copyEvent(last), nil
}

func (m *InMemory) LastEventOfKind(ctx context.Context, userID string, kind model.EventKind) (*model.AttendanceEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var last *model.AttendanceEvent
	for i := range m.events {
		ev := m.events[i]
		if ev.UserID != userID || ev.Kind != kind {
			continue
		}
		if last == nil || ev.Timestamp.After(last.Timestamp) {
			last = &ev
		}
	}
	return copyEvent(last), nil
}

func (m *InMemory) EventsBetween(ctx context.Context, userID string, from, to time.Time) ([]model.AttendanceEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.AttendanceEvent
	for _, ev := range m.events {
		if ev.UserID != userID {
			continue
		}
		if ev.Timestamp.Before(from) || !ev.Timestamp.Before(to) {
			continue
		}
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *InMemory) GetEvent(ctx context.Context, id int64) (*model.AttendanceEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.events {
		if m.events[i].ID == id {
			return copyEvent(&m.events[i]), nil
		}
	}
	return nil, errors.New("event not found")
}

func (m *InMemory) UpdateNotifyStatus(ctx context.Context, id int64, status model.NotifyStatus, retryCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.events {
		if m.events[i].ID == id {
			m.events[i].NotifyStatus = status
			m.events[i].NotifyRetryCount = retryCount
			return nil
		}
	}
	return errors.New("event not found")
}

// Count returns how many events are stored, for write-count assertions.
func (m *InMemory) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func copyEvent(ev *model.AttendanceEvent) *model.AttendanceEvent {
	if ev == nil {
		return nil
	}
	c := *ev
	return &c
}
