package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/dock/internal/httpserver/deps"
)

type componentStatus struct {
	OK          bool   `json:"ok"`
	ItemsLoaded *int   `json:"items_loaded,omitempty"`
	Revision    uint64 `json:"revision,omitempty"`
	LastReload  string `json:"last_reload,omitempty"`
	Location    string `json:"location,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Error       string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemsCount := d.MemoryIndex.Count()
		lastReload := d.MemoryIndex.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"config": {
				OK:          d.MemoryIndex.Revision() > 0,
				ItemsLoaded: &itemsCount,
				Revision:    d.MemoryIndex.Revision(),
				LastReload:  lastReloadStr,
				Location:    d.ConfigFile,
			},
			"redis": checkRedis(r.Context(), d),
			"launcher": {
				OK:   d.Launcher != nil,
				Mode: "os-handler",
			},
			"events": {
				OK:   d.Events != nil,
				Mode: "sse",
			},
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		}, d.Logger)
	}
}

func determineMode(components map[string]componentStatus) string {
	if cfg, exists := components["config"]; exists && !cfg.OK {
		return "critical" // nothing to serve yet
	}

	if redis, exists := components["redis"]; exists && !redis.OK {
		return "degraded" // usage kept in memory only
	}

	return "optimal"
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisStore == nil {
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "usage-in-memory-only",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisStore.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "usage-persistence-disabled",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "usage-persisted",
	}
}
