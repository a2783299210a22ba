package deps

import (
	"time"

	"github.com/MrSnakeDoc/dock/internal/editor"
	"github.com/MrSnakeDoc/dock/internal/icons"
	"github.com/MrSnakeDoc/dock/internal/index"
	"github.com/MrSnakeDoc/dock/internal/launcher"
	"github.com/MrSnakeDoc/dock/internal/logger"
	"github.com/MrSnakeDoc/dock/internal/notify"
	redisstore "github.com/MrSnakeDoc/dock/internal/store/redis"
)

type Deps struct {
	Logger           logger.Logger
	StartTime        time.Time
	Version          string
	Commit           string
	BuildDate        string
	GoVersion        string
	TimeNow          func() time.Time   // for testing, defaults to time.Now
	AllowedHosts     []string           // Host headers allowed to access the server
	AllowedCIDRS     []string           // client IPs allowed to use the API
	TrustProxy       bool               // true if running behind a trusted reverse proxy
	ConfigFile       string             // configuration location, reported by /infra
	MemoryIndex      *index.MemoryIndex // live configuration snapshot and usage counters
	Editor           *editor.Editor     // applies API edits
	Launcher         *launcher.Service  // resolves and dispatches items
	Icons            *icons.Service     // item icons
	Events           *notify.Hub        // configuration-changed fan-out for /api/events
	RedisStore       *redisstore.Store  // nil when Redis is disabled
	ReloadTrigger    chan struct{}      // Channel to trigger manual configuration reload
	LaunchRateBurst  int                // POST /api/launch token bucket size
	LaunchRatePerMin int                // POST /api/launch refill rate
}

// Now returns the current time from TimeNow, falling back to time.Now.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
