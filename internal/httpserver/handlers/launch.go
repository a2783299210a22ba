package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/dock/internal/domain"
	"github.com/MrSnakeDoc/dock/internal/httpserver/deps"
	"github.com/MrSnakeDoc/dock/internal/launcher"
	"github.com/MrSnakeDoc/dock/internal/logger"
)

// Command lines only run from the saved configuration.
var errInlineExec = errors.New("inline shell items cannot be launched, add them to the configuration first")

func inlineExec(item domain.Item) bool {
	action, err := domain.Resolve(item)
	return err == nil && action.Action == domain.ActionExec
}

// itemRef designates an item either by name or inline.
type itemRef struct {
	Category string       `json:"category,omitempty"`
	Item     string       `json:"item,omitempty"`
	Inline   *domain.Item `json:"inline,omitempty"`
}

type resolveResponse struct {
	domain.Action
	Glyph string `json:"glyph"`
}

func decodeRef(w http.ResponseWriter, r *http.Request) (itemRef, error) {
	var ref itemRef
	if err := decodeJSON(w, r, &ref); err != nil {
		return ref, err
	}
	if ref.Inline == nil && (ref.Category == "" || ref.Item == "") {
		return ref, errors.New("either inline or category and item are required")
	}
	return ref, nil
}

func lookup(d deps.Deps, ref itemRef) (domain.Item, bool) {
	if ref.Inline != nil {
		return *ref.Inline, true
	}
	return domain.FindItem(d.MemoryIndex.Config(), ref.Category, ref.Item)
}

// Resolve reports what launching an item would do without doing it.
func Resolve(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := decodeRef(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err, d.Logger)
			return
		}

		item, ok := lookup(d, ref)
		if !ok {
			writeError(w, http.StatusNotFound, launcher.ErrItemNotFound, d.Logger)
			return
		}

		action, err := domain.Resolve(item)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err, d.Logger)
			return
		}
		writeJSON(w, http.StatusOK, resolveResponse{Action: action, Glyph: domain.FallbackGlyph(item.Type)}, d.Logger)
	}
}

// Launch resolves an item and hands the action to the OS.
func Launch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := decodeRef(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err, d.Logger)
			return
		}

		var action domain.Action
		if ref.Inline != nil {
			if inlineExec(*ref.Inline) {
				writeError(w, http.StatusForbidden, errInlineExec, d.Logger)
				return
			}
			action, err = d.Launcher.Launch(r.Context(), "", *ref.Inline)
		} else {
			action, err = d.Launcher.LaunchByName(r.Context(), ref.Category, ref.Item)
		}

		switch {
		case errors.Is(err, launcher.ErrItemNotFound):
			writeError(w, http.StatusNotFound, err, d.Logger)
		case errors.Is(err, domain.ErrUnknownShortcutType):
			writeError(w, http.StatusUnprocessableEntity, err, d.Logger)
		case err != nil:
			d.Logger.Warn("launch request failed", logger.Error(err))
			writeError(w, http.StatusBadGateway, err, d.Logger)
		default:
			writeJSON(w, http.StatusOK, action, d.Logger)
		}
	}
}
