package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/dock/internal/domain"
	"github.com/MrSnakeDoc/dock/internal/httpserver/deps"
)

// AddItem appends an item to the first category with the given name.
// An empty body adds the editor's default "New Item".
func AddItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryName := pathParam(r, "category")

		item := domain.NewItem()
		if err := decodeJSON(w, r, &item); err != nil && !errors.Is(err, errEmptyBody) {
			writeError(w, http.StatusBadRequest, err, d.Logger)
			return
		}
		if _, err := domain.Resolve(item); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err, d.Logger)
			return
		}

		applyEdit(d, w, r, http.StatusCreated, func(cfg domain.Configuration) domain.Configuration {
			return domain.AddItem(cfg, categoryName, item)
		})
	}
}

// PatchItem overwrites the fields present in the body.
func PatchItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryName := pathParam(r, "category")
		itemName := pathParam(r, "item")

		var patch domain.ItemPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, err, d.Logger)
			return
		}
		if patch.Empty() {
			writeError(w, http.StatusBadRequest, errors.New("nothing to change"), d.Logger)
			return
		}
		if patch.Type != nil && !patch.Type.Valid() {
			writeError(w, http.StatusUnprocessableEntity, &domain.UnknownShortcutTypeError{Type: string(*patch.Type)}, d.Logger)
			return
		}

		applyEdit(d, w, r, http.StatusOK, func(cfg domain.Configuration) domain.Configuration {
			return domain.UpdateItem(cfg, categoryName, itemName, patch)
		})
	}
}

// DeleteItem removes every matching item from every matching category.
func DeleteItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryName := pathParam(r, "category")
		itemName := pathParam(r, "item")
		applyEdit(d, w, r, http.StatusOK, func(cfg domain.Configuration) domain.Configuration {
			return domain.RemoveItem(cfg, categoryName, itemName)
		})
	}
}

// MoveItem shifts an item by delta positions inside its category.
func MoveItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryName := pathParam(r, "category")
		itemName := pathParam(r, "item")
		delta, err := decodeMove(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err, d.Logger)
			return
		}
		applyEdit(d, w, r, http.StatusOK, func(cfg domain.Configuration) domain.Configuration {
			return domain.MoveItem(cfg, categoryName, itemName, delta)
		})
	}
}

// SwapItems exchanges two items of a category by position.
func SwapItems(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryName := pathParam(r, "category")
		i, j, err := decodeSwap(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err, d.Logger)
			return
		}
		applyEdit(d, w, r, http.StatusOK, func(cfg domain.Configuration) domain.Configuration {
			return domain.SwapItems(cfg, categoryName, i, j)
		})
	}
}
