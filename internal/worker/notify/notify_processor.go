package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"attendance.bot/internal/chat"
	"attendance.bot/internal/core/model"
	"attendance.bot/internal/ports/messaging"
	"attendance.bot/internal/ports/repository"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// NotifyProcessor delivers queued chat messages to their webhook. It uses a
// circuit breaker so a struggling Google Chat endpoint is not hammered with
// every retry.
type NotifyProcessor struct {
	repo   repository.Repository
	sender chat.WebhookSender
	cb     *gobreaker.CircuitBreaker
}

// NewProcessor creates a new processor for the notify queue.
func NewProcessor(r repository.Repository, sender chat.WebhookSender) *NotifyProcessor {
	settings := gobreaker.Settings{
		Name:        "Chat-Webhook",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate is bigger than 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &NotifyProcessor{
		repo:   r,
		sender: sender,
		cb:     gobreaker.NewCircuitBreaker(settings),
	}
}

// Process handles one message from the notify queue. Attendance notifications
// carry the id of their event row and get idempotency bookkeeping against it;
// broadcast messages (scrum reminders) have no row and are delivered as-is.
func (p *NotifyProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.NotificationEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal notification event")
		return false, 0, err // Do not retry on malformed message
	}

	if event.WebhookURL == "" {
		return false, 0, errors.New("notification event has no webhook url")
	}

	if event.EventID == 0 {
		err := p.deliver(ctx, event)
		if err != nil {
			return true, 10, err
		}
		return false, 0, nil
	}

	record, err := p.repo.GetEvent(ctx, event.EventID)
	if err != nil {
		return true, 10, fmt.Errorf("failed to get event from db: %w", err)
	}

	if record.NotifyStatus == model.StatusNotifyCompleted {
		log.Ctx(ctx).Info().Int64("event_id", event.EventID).Msg("Notification already delivered. Skipping.")
		return false, 0, nil
	}

	if err := p.deliver(ctx, event); err != nil {
		newCount := record.NotifyRetryCount + 1
		p.repo.UpdateNotifyStatus(ctx, event.EventID, model.StatusNotifyPending, newCount)

		delay := calculateBackoff(newCount)
		return true, delay, err
	}

	err = p.repo.UpdateNotifyStatus(ctx, event.EventID, model.StatusNotifyCompleted, 0)
	return false, 0, err
}

func (p *NotifyProcessor) deliver(ctx context.Context, event messaging.NotificationEvent) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.sender.Send(ctx, event.WebhookURL, event.Message)
	})
	if errors.Is(err, gobreaker.ErrOpenState) {
		log.Ctx(ctx).Warn().Msg("Circuit Breaker is OPEN; skipping webhook call")
	}
	return err
}

// calculateBackoff determines how long to wait before retrying a failed job.
// It increases the delay exponentially with each retry.
func calculateBackoff(retryCount int) int32 {
	backoff := int32(math.Pow(2, float64(retryCount)) * 10)
	if backoff > 3600 {
		return 3600 // max at 1 hour
	}
	return backoff
}
