package main

import (
	"net/http"

	"github.com/rs/cors"

	"productivity-assistant/internal/analytics"
	"productivity-assistant/internal/app"
	"productivity-assistant/internal/assistant"
	"productivity-assistant/internal/auth"
	"productivity-assistant/internal/profile"
	"productivity-assistant/internal/tasks"
)

// newRouter mounts every route. All but /health need a bearer token.
func newRouter(a *app.App) http.Handler {
	reg := a.Sessions
	rec := a.Events
	mw := auth.New([]byte(a.Config.Server.JWTSecret))

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	// ----- ACCOUNT -----
	mux.HandleFunc("GET /auth/me", mw.Wrap(auth.MeHandler()))
	mux.HandleFunc("POST /auth/logout", mw.Wrap(auth.LogoutHandler()))
	mux.HandleFunc("DELETE /account", mw.Wrap(auth.DeleteAccountHandler(reg.Forget)))

	// ----- ASSISTANT -----
	mux.HandleFunc("POST /assistant/message", mw.Wrap(assistant.MessageHandler(reg, rec)))
	mux.HandleFunc("POST /assistant/quick-action", mw.Wrap(assistant.QuickActionHandler(reg, rec)))
	mux.HandleFunc("GET /assistant/history", mw.Wrap(assistant.HistoryHandler(reg)))
	mux.HandleFunc("GET /insights/analyze", mw.Wrap(assistant.AnalyzeHandler(reg)))
	mux.HandleFunc("GET /insights/tips", mw.Wrap(assistant.TipsHandler(reg)))
	mux.HandleFunc("GET /schedule/suggest", mw.Wrap(assistant.ScheduleHandler(reg)))
	mux.HandleFunc("GET /stats", mw.Wrap(assistant.StatsHandler(reg)))

	// ----- TASKS -----
	mux.HandleFunc("GET /tasks", mw.Wrap(tasks.GetTasksHandler(reg.TaskStore)))
	mux.HandleFunc("POST /tasks/prioritize", mw.Wrap(tasks.PrioritizeHandler(reg.TaskStore, rec)))
	mux.HandleFunc("POST /tasks/status", mw.Wrap(assistant.TaskStatusHandler(reg, rec)))
	mux.HandleFunc("POST /tasks/update", mw.Wrap(tasks.UpdateTaskHandler(reg.TaskStore)))
	mux.HandleFunc("POST /tasks/schedule", mw.Wrap(tasks.ScheduleTaskHandler(reg.TaskStore)))

	// ----- PROFILE -----
	mux.HandleFunc("GET /profile", mw.Wrap(profile.GetHandler(reg.UserProfile)))
	mux.HandleFunc("POST /profile", mw.Wrap(profile.UpdateHandler(reg.UserProfile)))

	// ----- CLIENT EVENTS -----
	mux.HandleFunc("POST /events", mw.Wrap(analytics.ClientEventHandler(rec)))

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins: a.Config.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			"X-Session-Id",
			"X-Platform",
			"X-App-Version",
			"X-Device-Locale",
			"X-Source-Event-Key",
			"Idempotency-Key",
		},
		AllowCredentials: true,
	})

	return c.Handler(mux)
}
