package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/dock/internal/domain"
	"github.com/MrSnakeDoc/dock/internal/httpserver/deps"
)

type usageResponse struct {
	Total int            `json:"total"`
	Usage []domain.Usage `json:"usage"`
}

// Usage lists launch counters, most used first.
func Usage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := d.MemoryIndex.GetAllUsage()
		if records == nil {
			records = []domain.Usage{}
		}
		writeJSON(w, http.StatusOK, usageResponse{Total: len(records), Usage: records}, d.Logger)
	}
}
