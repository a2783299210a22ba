package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/dock/internal/httpserver/deps"
	"github.com/MrSnakeDoc/dock/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/dock/internal/httpserver/mw"
)

func init() { Register(registerLaunch, withTimeout) }

func registerLaunch(r chi.Router, d deps.Deps) {
	api := r.With(apiGuards(d)...)

	api.Post("/api/resolve", handlers.Resolve(d))
	api.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.LaunchRateBurst,
		RefillPerIPPerMin: d.LaunchRatePerMin,
		MaxEntries:        1024,
		TrustProxy:        d.TrustProxy,
	})).Post("/api/launch", handlers.Launch(d))

	api.Get("/api/icons/{category}/{item}", handlers.Icon(d))
	api.Delete("/api/icons", handlers.FlushIcons(d))
	api.Get("/api/usage", handlers.Usage(d))
}
