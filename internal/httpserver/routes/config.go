package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/dock/internal/httpserver/deps"
	"github.com/MrSnakeDoc/dock/internal/httpserver/handlers"
)

func init() { Register(registerConfig, withTimeout) }

func registerConfig(r chi.Router, d deps.Deps) {
	api := r.With(apiGuards(d)...)

	api.Get("/api/config", handlers.GetConfig(d))
	api.Put("/api/config", handlers.PutConfig(d))
	api.Put("/api/position", handlers.PutPosition(d))
	api.Put("/api/dock-icon", handlers.PutDockIcon(d))

	api.Post("/api/categories", handlers.AddCategory(d))
	api.Patch("/api/categories/{category}", handlers.PatchCategory(d))
	api.Delete("/api/categories/{category}", handlers.DeleteCategory(d))
	api.Post("/api/categories/{category}/move", handlers.MoveCategory(d))

	api.Post("/api/categories/{category}/items", handlers.AddItem(d))
	api.Patch("/api/categories/{category}/items/{item}", handlers.PatchItem(d))
	api.Delete("/api/categories/{category}/items/{item}", handlers.DeleteItem(d))
	api.Post("/api/categories/{category}/items/{item}/move", handlers.MoveItem(d))

	// positional swaps live apart so that no category or item name can shadow them
	api.Post("/api/swap/categories", handlers.SwapCategories(d))
	api.Post("/api/swap/categories/{category}/items", handlers.SwapItems(d))
}
