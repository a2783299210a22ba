package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/dock/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready    bool   `json:"ready"`
	Revision uint64 `json:"revision"`
}

// Readyz reports ready once a configuration snapshot is installed.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rev := d.MemoryIndex.Revision()
		status := http.StatusOK
		if rev == 0 {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{Ready: rev > 0, Revision: rev}, d.Logger)
	}
}
