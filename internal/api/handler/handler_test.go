package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"attendance.bot/internal/chat"
	"attendance.bot/internal/core"
	"attendance.bot/internal/ports/messaging"
	"attendance.bot/internal/ports/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopProducer struct{}

func (nopProducer) PublishNotification(ctx context.Context, event messaging.NotificationEvent) error {
	return nil
}

func newHandler(t *testing.T, repo *repository.InMemory, inline bool) *BotHandler {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	service := core.NewAttendanceService(repo, nopProducer{}, loc,
		"https://chat.example/attendance", "https://chat.example/scrum", true)
	return &BotHandler{Service: service, InlineReplies: inline}
}

func postEvent(h *BotHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bot", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleBotEvent(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) chat.Message {
	t.Helper()
	var msg chat.Message
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&msg))
	return msg
}

func commandEvent(command string) string {
	return `{"type":"MESSAGE","message":{"text":"` + command + `","sender":{"name":"users/123","displayName":"Kim"}}}`
}

func TestBotEventAddedToSpace(t *testing.T) {
	h := newHandler(t, repository.NewInMemory(), true)

	rec := postEvent(h, `{"type":"ADDED_TO_SPACE"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	msg := decodeMessage(t, rec)
	assert.Contains(t, msg.Text, "출퇴근 관리 봇")
}

func TestBotEventMalformedPayloadStillAcknowledged(t *testing.T) {
	h := newHandler(t, repository.NewInMemory(), true)

	rec := postEvent(h, `{not json`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, chat.Message{}, decodeMessage(t, rec))
}

func TestBotEventCheckInCommand(t *testing.T) {
	repo := repository.NewInMemory()
	h := newHandler(t, repo, true)

	rec := postEvent(h, commandEvent("/출근"))

	assert.Equal(t, http.StatusOK, rec.Code)
	msg := decodeMessage(t, rec)
	assert.Contains(t, msg.Text, "출근하셨습니다")
	assert.Equal(t, 1, repo.Count())
}

func TestBotEventSlashCommandFieldPreferred(t *testing.T) {
	repo := repository.NewInMemory()
	h := newHandler(t, repo, true)

	body := `{"type":"MESSAGE","message":{"text":"@bot 출근할게요","slashCommand":{"commandName":"/출근"},"sender":{"name":"users/123","displayName":"Kim"}}}`
	rec := postEvent(h, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, repo.Count())
}

func TestBotEventUnrecognizedCommand(t *testing.T) {
	repo := repository.NewInMemory()
	h := newHandler(t, repo, true)

	rec := postEvent(h, commandEvent("/점심"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, chat.Message{}, decodeMessage(t, rec))
	assert.Equal(t, 0, repo.Count())
}

func TestBotEventRejectionStillOK(t *testing.T) {
	repo := repository.NewInMemory()
	h := newHandler(t, repo, true)

	rec := postEvent(h, commandEvent("/휴식"))

	assert.Equal(t, http.StatusOK, rec.Code)
	msg := decodeMessage(t, rec)
	assert.Equal(t, chat.WarnNoCheckIn, msg.Text)
}

func TestBotEventStorageFailureStillOK(t *testing.T) {
	repo := repository.NewInMemory()
	repo.FailSaves = true
	h := newHandler(t, repo, true)

	rec := postEvent(h, commandEvent("/출근"))

	assert.Equal(t, http.StatusOK, rec.Code)
	msg := decodeMessage(t, rec)
	assert.Equal(t, chat.ErrGeneric, msg.Text)
}

func TestBotEventWebhookOnlyModeReturnsEmptyBody(t *testing.T) {
	repo := repository.NewInMemory()
	h := newHandler(t, repo, false)

	rec := postEvent(h, commandEvent("/출근"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, chat.Message{}, decodeMessage(t, rec))
	// The event is still persisted; only the inline reply is suppressed.
	assert.Equal(t, 1, repo.Count())
}

func TestDailyScrumEndpoint(t *testing.T) {
	h := newHandler(t, repository.NewInMemory(), true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/daily-scrum", nil)
	rec := httptest.NewRecorder()
	h.HandleDailyScrum(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}
