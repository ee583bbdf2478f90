package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"attendance.bot/internal/chat"
	"attendance.bot/internal/core"
	"github.com/rs/zerolog/log"
)

type BotHandler struct {
	Service *core.AttendanceService
	// InlineReplies controls whether the full chat reply goes into the HTTP
	// response body. When off, the body is an empty message and delivery
	// happens through the webhook queue only.
	InlineReplies bool
}

// HandleBotEvent is the main bot endpoint. Google Chat treats anything but a
// 200 as a delivery failure and retries, so every outcome here, including
// malformed payloads and storage errors, is answered with 200 and a chat
// message body.
func (h *BotHandler) HandleBotEvent(w http.ResponseWriter, r *http.Request) {
	var event chat.Event

	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("Undecodable chat event payload")
		writeMessage(w, chat.Message{})
		return
	}

	switch {
	case event.Type == chat.TypeAddedToSpace:
		writeMessage(w, chat.Greeting())

	case event.Type == chat.TypeMessage && event.Message != nil:
		reply, ok := h.Service.HandleCommand(
			r.Context(),
			event.Message.Sender.Name,
			event.Message.Sender.DisplayName,
			event.Message.Command(),
			time.Now().UTC(),
		)
		if !ok || !h.InlineReplies {
			// Unrecognized command, or webhook-only response mode.
			writeMessage(w, chat.Message{})
			return
		}
		writeMessage(w, reply)

	default:
		writeMessage(w, chat.Message{})
	}
}

// HandleDailyScrum triggers the scrum reminder broadcast. This endpoint is
// called by a scheduler, not by Google Chat, so failures surface as 500s.
func (h *BotHandler) HandleDailyScrum(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.SendScrumReminder(r.Context()); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to queue daily scrum reminder")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Daily scrum reminder sent"})
}

func writeMessage(w http.ResponseWriter, msg chat.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(msg)
}
