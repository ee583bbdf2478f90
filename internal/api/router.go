package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"attendance.bot/internal/api/handler"
	"attendance.bot/internal/core"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(service *core.AttendanceService, inlineReplies bool) *mux.Router {

	botHandler := handler.BotHandler{
		Service:       service,
		InlineReplies: inlineReplies,
	}

	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/bot", botHandler.HandleBotEvent).Methods(http.MethodPost)
	api.HandleFunc("/daily-scrum", botHandler.HandleDailyScrum).Methods(http.MethodPost)
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	return r
}
