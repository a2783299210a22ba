package handlers

import (
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/dock/internal/domain"
	"github.com/MrSnakeDoc/dock/internal/httpserver/deps"
	"github.com/MrSnakeDoc/dock/internal/launcher"
	"github.com/MrSnakeDoc/dock/internal/logger"
)

// Icon serves the PNG for an item of the live configuration.
func Icon(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryName := pathParam(r, "category")
		itemName := pathParam(r, "item")

		item, ok := domain.FindItem(d.MemoryIndex.Config(), categoryName, itemName)
		if !ok {
			writeError(w, http.StatusNotFound, launcher.ErrItemNotFound, d.Logger)
			return
		}

		data, err := d.Icons.Icon(r.Context(), categoryName, item)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err, d.Logger)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("Cache-Control", "no-cache")
		if _, err := w.Write(data); err != nil {
			d.Logger.Debug("failed to write icon", logger.Error(err))
		}
	}
}

// FlushIcons empties the icon cache.
func FlushIcons(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Icons.Flush(r.Context()); err != nil {
			writeError(w, http.StatusBadGateway, err, d.Logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
