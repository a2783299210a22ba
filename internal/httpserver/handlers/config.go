package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/dock/internal/domain"
	"github.com/MrSnakeDoc/dock/internal/editor"
	"github.com/MrSnakeDoc/dock/internal/httpserver/deps"
	"github.com/MrSnakeDoc/dock/internal/logger"
)

type dockIconRequest struct {
	Icon string `json:"icon"`
}

type positionRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

// applyEdit runs edit through the editor and answers with the saved configuration.
func applyEdit(d deps.Deps, w http.ResponseWriter, r *http.Request, status int, edit editor.Edit) {
	cfg, err := d.Editor.Apply(r.Context(), edit)
	if err != nil {
		d.Logger.Error("configuration edit failed",
			logger.String("path", r.URL.Path),
			logger.Error(err))
		writeError(w, http.StatusInternalServerError, err, d.Logger)
		return
	}
	writeJSON(w, status, cfg, d.Logger)
}

// GetConfig returns the live configuration.
func GetConfig(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.MemoryIndex.Config(), d.Logger)
	}
}

// PutConfig replaces the whole configuration. Items the resolver cannot
// launch are refused with 422 and nothing is written.
func PutConfig(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg domain.Configuration
		if err := decodeJSON(w, r, &cfg); err != nil {
			writeError(w, http.StatusBadRequest, err, d.Logger)
			return
		}

		saved, err := d.Editor.Replace(r.Context(), cfg)
		switch {
		case errors.Is(err, domain.ErrUnknownShortcutType):
			writeError(w, http.StatusUnprocessableEntity, err, d.Logger)
		case err != nil:
			writeError(w, http.StatusInternalServerError, err, d.Logger)
		default:
			writeJSON(w, http.StatusOK, saved, d.Logger)
		}
	}
}

// PutPosition records the last dock placement.
func PutPosition(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req positionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err, d.Logger)
			return
		}
		if req.X == nil || req.Y == nil {
			writeError(w, http.StatusBadRequest, errors.New("x and y are required"), d.Logger)
			return
		}

		applyEdit(d, w, r, http.StatusOK, func(cfg domain.Configuration) domain.Configuration {
			return domain.SetPosition(cfg, *req.X, *req.Y)
		})
	}
}

// PutDockIcon changes the dock glyph.
func PutDockIcon(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dockIconRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err, d.Logger)
			return
		}
		if req.Icon == "" {
			writeError(w, http.StatusBadRequest, errors.New("icon is required"), d.Logger)
			return
		}
		applyEdit(d, w, r, http.StatusOK, func(cfg domain.Configuration) domain.Configuration {
			return domain.SetDockIcon(cfg, req.Icon)
		})
	}
}
