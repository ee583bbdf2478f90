package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"attendance.bot/internal/chat"
	"attendance.bot/internal/core/model"
	"attendance.bot/internal/ports/messaging"
	"attendance.bot/internal/ports/repository"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []messaging.NotificationEvent
	fail bool
}

func (f *fakeSender) Send(ctx context.Context, webhookURL string, msg chat.Message) error {
	if f.fail {
		return errors.New("webhook down")
	}
	f.sent = append(f.sent, messaging.NotificationEvent{WebhookURL: webhookURL, Message: msg})
	return nil
}

func sqsMessage(t *testing.T, event messaging.NotificationEvent) types.Message {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return types.Message{
		MessageId: aws.String("m-1"),
		Body:      aws.String(string(body)),
	}
}

func seedEvent(t *testing.T, repo *repository.InMemory) int64 {
	t.Helper()
	id, err := repo.SaveEvent(context.Background(), model.AttendanceEvent{
		UserID:    "users/123",
		UserName:  "Kim",
		Kind:      model.KindCheckIn,
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	return id
}

func TestProcessDeliversAndMarksCompleted(t *testing.T) {
	repo := repository.NewInMemory()
	sender := &fakeSender{}
	p := NewProcessor(repo, sender)
	id := seedEvent(t, repo)

	msg := sqsMessage(t, messaging.NotificationEvent{
		EventID:    id,
		UserID:     "users/123",
		WebhookURL: "https://chat.example/attendance",
		Message:    chat.TextMessage("checked in"),
	})

	retry, delay, err := p.Process(context.Background(), msg)

	require.NoError(t, err)
	assert.False(t, retry)
	assert.Zero(t, delay)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "https://chat.example/attendance", sender.sent[0].WebhookURL)

	stored, err := repo.GetEvent(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotifyCompleted, stored.NotifyStatus)
}

func TestProcessSkipsAlreadyDelivered(t *testing.T) {
	repo := repository.NewInMemory()
	sender := &fakeSender{}
	p := NewProcessor(repo, sender)
	id := seedEvent(t, repo)
	require.NoError(t, repo.UpdateNotifyStatus(context.Background(), id, model.StatusNotifyCompleted, 0))

	msg := sqsMessage(t, messaging.NotificationEvent{
		EventID:    id,
		WebhookURL: "https://chat.example/attendance",
	})

	retry, _, err := p.Process(context.Background(), msg)

	require.NoError(t, err)
	assert.False(t, retry)
	assert.Empty(t, sender.sent)
}

func TestProcessRetriesWithBackoffOnWebhookFailure(t *testing.T) {
	repo := repository.NewInMemory()
	sender := &fakeSender{fail: true}
	p := NewProcessor(repo, sender)
	id := seedEvent(t, repo)

	msg := sqsMessage(t, messaging.NotificationEvent{
		EventID:    id,
		WebhookURL: "https://chat.example/attendance",
	})

	retry, delay, err := p.Process(context.Background(), msg)

	require.Error(t, err)
	assert.True(t, retry)
	assert.Equal(t, int32(20), delay) // 2^1 * 10

	stored, err := repo.GetEvent(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotifyPending, stored.NotifyStatus)
	assert.Equal(t, 1, stored.NotifyRetryCount)
}

func TestProcessBroadcastWithoutEventRow(t *testing.T) {
	repo := repository.NewInMemory()
	sender := &fakeSender{}
	p := NewProcessor(repo, sender)

	msg := sqsMessage(t, messaging.NotificationEvent{
		WebhookURL: "https://chat.example/scrum",
		Message:    chat.DailyScrumReminder(),
	})

	retry, _, err := p.Process(context.Background(), msg)

	require.NoError(t, err)
	assert.False(t, retry)
	require.Len(t, sender.sent, 1)
	assert.NotEmpty(t, sender.sent[0].Message.Cards)
}

func TestProcessMalformedMessageNotRetried(t *testing.T) {
	p := NewProcessor(repository.NewInMemory(), &fakeSender{})

	retry, _, err := p.Process(context.Background(), types.Message{
		MessageId: aws.String("m-1"),
		Body:      aws.String("{not json"),
	})

	require.Error(t, err)
	assert.False(t, retry)
}

func TestProcessMissingWebhookURLNotRetried(t *testing.T) {
	p := NewProcessor(repository.NewInMemory(), &fakeSender{})

	retry, _, err := p.Process(context.Background(), sqsMessage(t, messaging.NotificationEvent{}))

	require.Error(t, err)
	assert.False(t, retry)
}

func TestCalculateBackoffCapped(t *testing.T) {
	assert.Equal(t, int32(20), calculateBackoff(1))
	assert.Equal(t, int32(40), calculateBackoff(2))
	assert.Equal(t, int32(3600), calculateBackoff(20))
}
