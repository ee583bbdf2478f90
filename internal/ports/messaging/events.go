package messaging

import (
	"time"

	"attendance.bot/internal/chat"
)

// NotificationEvent is the JSON payload sent via SQS for the notify queue.
// It carries the already-formatted chat message so the delivery worker never
// has to re-derive reply text.
type NotificationEvent struct {
	EventID    int64        `json:"eventId"`
	UserID     string       `json:"userId"`
	WebhookURL string       `json:"webhookUrl"`
	Message    chat.Message `json:"message"`
	OccurredAt time.Time    `json:"occurredAt"`
}
