package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/dock/internal/httpserver/deps"
	"github.com/MrSnakeDoc/dock/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/dock/internal/httpserver/mw"
)

func init() { Register(registerProbes, withTimeout) }

func registerProbes(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	private := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	private.Get("/readyz", handlers.Readyz(d))
	private.Get("/infra", handlers.Infra(d))
	private.With(
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.AllowOnlyLocalOrigin(d.Logger),
	).Post("/reload", handlers.Reload(d))
}
