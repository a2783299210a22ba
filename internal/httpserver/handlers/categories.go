package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/dock/internal/domain"
	"github.com/MrSnakeDoc/dock/internal/httpserver/deps"
)

type categoryRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type moveRequest struct {
	Delta *int `json:"delta"`
}

func decodeMove(w http.ResponseWriter, r *http.Request) (int, error) {
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return 0, err
	}
	if req.Delta == nil {
		return 0, errors.New("delta is required")
	}
	return *req.Delta, nil
}

// AddCategory appends a category. An empty body adds the editor's default
// "New Category".
func AddCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		def := domain.NewCategory()
		req := categoryRequest{Name: def.Name, Icon: def.Icon}
		if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
			writeError(w, http.StatusBadRequest, err, d.Logger)
			return
		}

		applyEdit(d, w, r, http.StatusCreated, func(cfg domain.Configuration) domain.Configuration {
			return domain.AddCategory(cfg, req.Name, req.Icon)
		})
	}
}

// PatchCategory renames a category and/or changes its icon.
func PatchCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := pathParam(r, "category")

		var patch domain.CategoryPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, err, d.Logger)
			return
		}
		if patch.Empty() {
			writeError(w, http.StatusBadRequest, errors.New("nothing to change"), d.Logger)
			return
		}

		applyEdit(d, w, r, http.StatusOK, func(cfg domain.Configuration) domain.Configuration {
			return domain.UpdateCategory(cfg, name, patch)
		})
	}
}

// DeleteCategory removes every category with the given name.
func DeleteCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := pathParam(r, "category")
		applyEdit(d, w, r, http.StatusOK, func(cfg domain.Configuration) domain.Configuration {
			return domain.RemoveCategory(cfg, name)
		})
	}
}

// MoveCategory shifts a category by delta positions.
func MoveCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := pathParam(r, "category")
		delta, err := decodeMove(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err, d.Logger)
			return
		}
		applyEdit(d, w, r, http.StatusOK, func(cfg domain.Configuration) domain.Configuration {
			return domain.MoveCategory(cfg, name, delta)
		})
	}
}

type swapRequest struct {
	I *int `json:"i"`
	J *int `json:"j"`
}

func decodeSwap(w http.ResponseWriter, r *http.Request) (int, int, error) {
	var req swapRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return 0, 0, err
	}
	if req.I == nil || req.J == nil {
		return 0, 0, errors.New("i and j are required")
	}
	return *req.I, *req.J, nil
}

// SwapCategories exchanges two categories by position. Out-of-range
// positions leave the configuration unchanged.
func SwapCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, j, err := decodeSwap(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err, d.Logger)
			return
		}
		applyEdit(d, w, r, http.StatusOK, func(cfg domain.Configuration) domain.Configuration {
			return domain.SwapCategories(cfg, i, j)
		})
	}
}
