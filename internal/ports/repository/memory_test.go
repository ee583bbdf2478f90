package repository

import (
	"context"
	"testing"
	"time"

	"attendance.bot/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func save(t *testing.T, m *InMemory, userID string, kind model.EventKind, ts time.Time) int64 {
	t.Helper()
	id, err := m.SaveEvent(context.Background(), model.AttendanceEvent{
		UserID: userID, UserName: "Kim", Kind: kind, Timestamp: ts,
	})
	require.NoError(t, err)
	return id
}

func TestInMemoryLastEvent(t *testing.T) {
	m := NewInMemory()
	ctx := context.Background()
	base := time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC)

	last, err := m.LastEvent(ctx, "users/1")
	require.NoError(t, err)
	assert.Nil(t, last, "no events means nil, not an error")

	save(t, m, "users/1", model.KindCheckIn, base)
	save(t, m, "users/1", model.KindBreakStart, base.Add(3*time.Hour))
	save(t, m, "users/2", model.KindCheckIn, base.Add(5*time.Hour))

	last, err = m.LastEvent(ctx, "users/1")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, model.KindBreakStart, last.Kind)
}

func TestInMemoryLastEventOfKind(t *testing.T) {
	m := NewInMemory()
	ctx := context.Background()
	base := time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC)

	save(t, m, "users/1", model.KindCheckIn, base)
	save(t, m, "users/1", model.KindCheckOut, base.Add(8*time.Hour))

	last, err := m.LastEventOfKind(ctx, "users/1", model.KindCheckIn)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, base, last.Timestamp)

	last, err = m.LastEventOfKind(ctx, "users/1", model.KindBreakStart)
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestInMemoryEventsBetween(t *testing.T) {
	m := NewInMemory()
	ctx := context.Background()
	from := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	// Inserted out of order; results must come back ascending, half-open range.
	save(t, m, "users/1", model.KindCheckOut, from.Add(17*time.Hour))
	save(t, m, "users/1", model.KindCheckIn, from.Add(9*time.Hour))
	save(t, m, "users/1", model.KindCheckIn, from.Add(-1*time.Hour)) // yesterday
	save(t, m, "users/1", model.KindCheckIn, to)                     // tomorrow boundary

	events, err := m.EventsBetween(ctx, "users/1", from, to)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.KindCheckIn, events[0].Kind)
	assert.Equal(t, model.KindCheckOut, events[1].Kind)
}

func TestInMemoryNotifyStatus(t *testing.T) {
	m := NewInMemory()
	ctx := context.Background()
	id := save(t, m, "users/1", model.KindCheckIn, time.Now())

	ev, err := m.GetEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotifyPending, ev.NotifyStatus)

	require.NoError(t, m.UpdateNotifyStatus(ctx, id, model.StatusNotifyCompleted, 2))

	ev, err = m.GetEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotifyCompleted, ev.NotifyStatus)
	assert.Equal(t, 2, ev.NotifyRetryCount)

	assert.Error(t, m.UpdateNotifyStatus(ctx, 999, model.StatusNotifyFailed, 0))
}
