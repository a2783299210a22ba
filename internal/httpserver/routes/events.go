package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/dock/internal/httpserver/deps"
	"github.com/MrSnakeDoc/dock/internal/httpserver/handlers"
)

// The event stream is long-lived and registers without the request timeout.
func init() { Register(registerEvents) }

func registerEvents(r chi.Router, d deps.Deps) {
	r.With(apiGuards(d)...).Get("/api/events", handlers.Events(d))
}
