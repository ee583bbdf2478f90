package core

import (
	"context"
	"time"

	"attendance.bot/internal/chat"
	"attendance.bot/internal/core/model"
	"attendance.bot/internal/ports/messaging"
	"attendance.bot/internal/ports/repository"
	"github.com/rs/zerolog/log"
)

// AttendanceService interprets slash commands against a user's attendance
// history, persists at most one event per command, and builds the reply.
//
// The last-event read followed by the insert is not atomic: two commands for
// the same user arriving at the same instant can both pass the admissibility
// check. Accepted limitation.
type AttendanceService struct {
	repo      repository.Repository
	producer  messaging.NotificationProducer
	formatter *chat.Formatter
	loc       *time.Location

	attendanceWebhookURL string
	scrumWebhookURL      string
	notifyEnabled        bool
}

// NewAttendanceService wires up the event store, the notification producer
// and the reply formatter. loc fixes the "today" boundary; it is never the
// host-local zone implicitly.
func NewAttendanceService(
	repo repository.Repository,
	producer messaging.NotificationProducer,
	loc *time.Location,
	attendanceWebhookURL, scrumWebhookURL string,
	notifyEnabled bool,
) *AttendanceService {
	return &AttendanceService{
		repo:                 repo,
		producer:             producer,
		formatter:            chat.NewFormatter(loc),
		loc:                  loc,
		attendanceWebhookURL: attendanceWebhookURL,
		scrumWebhookURL:      scrumWebhookURL,
		notifyEnabled:        notifyEnabled,
	}
}

// HandleCommand processes one slash command. The returned ok is false when
// the command token is not one the bot recognizes; in every other case the
// message is a user-facing reply, never an error. Business rejections and
// storage failures both come back as replies so the chat platform always
// gets an acknowledgement.
func (s *AttendanceService) HandleCommand(ctx context.Context, userID, userName, command string, now time.Time) (chat.Message, bool) {
	switch command {
	case chat.CmdCheckIn:
		return s.handleCheckIn(ctx, userID, userName, now), true
	case chat.CmdBreakStart:
		return s.handleBreakStart(ctx, userID, userName, now), true
	case chat.CmdCheckOut:
		return s.handleCheckOut(ctx, userID, userName, now), true
	default:
		return chat.Message{}, false
	}
}

// handleCheckIn covers both a fresh check-in and the overloaded "resume from
// break" meaning: re-issuing /출근 while on break records a break-end.
func (s *AttendanceService) handleCheckIn(ctx context.Context, userID, userName string, now time.Time) chat.Message {
	last, err := s.repo.LastEvent(ctx, userID)
	if err != nil {
		return s.storageFailure(ctx, err)
	}

	if last != nil && last.Kind == model.KindBreakStart {
		reply := s.formatter.BreakEnd(userName, now)
		if err := s.record(ctx, userID, userName, model.KindBreakEnd, now, reply); err != nil {
			return s.storageFailure(ctx, err)
		}
		return reply
	}

	today, err := s.todayEvents(ctx, userID, now)
	if err != nil {
		return s.storageFailure(ctx, err)
	}
	if hasKind(today, model.KindCheckIn) {
		return chat.TextMessage(chat.WarnAlreadyCheckedIn)
	}

	reply := s.formatter.CheckIn(userName, now)
	if err := s.record(ctx, userID, userName, model.KindCheckIn, now, reply); err != nil {
		return s.storageFailure(ctx, err)
	}
	return reply
}

func (s *AttendanceService) handleBreakStart(ctx context.Context, userID, userName string, now time.Time) chat.Message {
	last, err := s.repo.LastEvent(ctx, userID)
	if err != nil {
		return s.storageFailure(ctx, err)
	}

	switch {
	case last == nil:
		return chat.TextMessage(chat.WarnNoCheckIn)
	case last.Kind == model.KindCheckOut:
		return chat.TextMessage(chat.WarnAlreadyCheckedOut)
	case last.Kind == model.KindBreakStart:
		return chat.TextMessage(chat.WarnAlreadyOnBreak)
	}

	reply := s.formatter.BreakStart(userName, now)
	if err := s.record(ctx, userID, userName, model.KindBreakStart, now, reply); err != nil {
		return s.storageFailure(ctx, err)
	}
	return reply
}

func (s *AttendanceService) handleCheckOut(ctx context.Context, userID, userName string, now time.Time) chat.Message {
	lastCheckIn, err := s.repo.LastEventOfKind(ctx, userID, model.KindCheckIn)
	if err != nil {
		return s.storageFailure(ctx, err)
	}
	if lastCheckIn == nil {
		return chat.TextMessage(chat.WarnNoCheckIn)
	}

	today, err := s.todayEvents(ctx, userID, now)
	if err != nil {
		return s.storageFailure(ctx, err)
	}
	if hasKind(today, model.KindCheckOut) {
		return chat.TextMessage(chat.WarnCheckedOutToday)
	}

	last, err := s.repo.LastEvent(ctx, userID)
	if err != nil {
		return s.storageFailure(ctx, err)
	}
	if last != nil && last.Kind == model.KindBreakStart {
		return chat.TextMessage(chat.WarnCheckOutWhileBreak)
	}

	// The summary runs over today's events including the one just written.
	checkOut := model.AttendanceEvent{
		UserID:    userID,
		UserName:  userName,
		Kind:      model.KindCheckOut,
		Timestamp: now,
	}
	id, err := s.repo.SaveEvent(ctx, checkOut)
	if err != nil {
		return s.storageFailure(ctx, err)
	}

	today = append(today, checkOut)
	hours := CalculateWorkingHours(today)

	reply := s.formatter.CheckOut(userName, now, hours)
	s.notify(ctx, id, userID, reply, now)
	return reply
}

// SendScrumReminder queues the daily scrum card for the scrum webhook.
// Unlike command handling, the caller gets the enqueue error back.
func (s *AttendanceService) SendScrumReminder(ctx context.Context) error {
	return s.producer.PublishNotification(ctx, messaging.NotificationEvent{
		WebhookURL: s.scrumWebhookURL,
		Message:    chat.DailyScrumReminder(),
		OccurredAt: time.Now(),
	})
}

// record persists one event and queues its notification.
func (s *AttendanceService) record(ctx context.Context, userID, userName string, kind model.EventKind, ts time.Time, reply chat.Message) error {
	id, err := s.repo.SaveEvent(ctx, model.AttendanceEvent{
		UserID:    userID,
		UserName:  userName,
		Kind:      kind,
		Timestamp: ts,
	})
	if err != nil {
		return err
	}
	s.notify(ctx, id, userID, reply, ts)
	return nil
}

// notify queues the reply for webhook delivery. A publish failure must never
// reach the command's own response path, so it is logged and swallowed.
func (s *AttendanceService) notify(ctx context.Context, eventID int64, userID string, reply chat.Message, ts time.Time) {
	if !s.notifyEnabled {
		return
	}
	err := s.producer.PublishNotification(ctx, messaging.NotificationEvent{
		EventID:    eventID,
		UserID:     userID,
		WebhookURL: s.attendanceWebhookURL,
		Message:    reply,
		OccurredAt: ts,
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("event_id", eventID).Msg("Failed to queue attendance notification")
	}
}

func (s *AttendanceService) storageFailure(ctx context.Context, err error) chat.Message {
	log.Ctx(ctx).Error().Err(err).Msg("Attendance storage operation failed")
	return chat.TextMessage(chat.ErrGeneric)
}

// todayEvents loads the user's events between midnight and the next midnight
// in the configured timezone, ascending by timestamp.
func (s *AttendanceService) todayEvents(ctx context.Context, userID string, now time.Time) ([]model.AttendanceEvent, error) {
	local := now.In(s.loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 0, 1)
	return s.repo.EventsBetween(ctx, userID, from, to)
}

func hasKind(events []model.AttendanceEvent, kind model.EventKind) bool {
	for _, ev := range events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}
