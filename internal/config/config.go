package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr      string        // ex: "127.0.0.1:7341"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	ConfigFile     string        // dock configuration location (.json, .yaml or .yml)
	ReloadInterval time.Duration // periodic reload safety net (default: 1h)
	WatchDebounce  time.Duration // coalesce file events within this window (0 = no file watch)
	GCInterval     time.Duration // interval to run usage garbage collection (default: 24h)
	GCThreshold    time.Duration // how long an orphaned usage record survives (default: 30 days)
	AssignIDs      bool          // give new categories/items a stable uuid on API edits

	// Launch rate limit, applied to POST /api/launch only
	LaunchRateBurst  int
	LaunchRatePerMin int

	// Redis (optional, empty addr = usage kept in memory and no cross-process notifications)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // Host headers accepted by the API, loopback names by default
	AllowedCIDRS []string // restrict API clients, loopback only by default
	TrustProxy   bool     // resolve client IPs from proxy headers (only behind a local reverse proxy)
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

func Load() *Config {
	loadDotenv(getenv("DOCK_ENV_FILE", ".env"))

	cfg := &Config{
		// Server settings
		ListenAddr:      getenv("DOCK_LISTEN_ADDR", "127.0.0.1:7341"),
		ShutdownTimeout: mustDuration("DOCK_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("DOCK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("DOCK_PRETTY_LOG", true),

		// Configuration file
		ConfigFile:     getenv("DOCK_CONFIG_FILE", defaultConfigFile()),
		ReloadInterval: mustDuration("DOCK_RELOAD_INTERVAL", time.Hour),
		WatchDebounce:  mustDuration("DOCK_WATCH_DEBOUNCE", 150*time.Millisecond),
		GCInterval:     mustDuration("DOCK_GC_INTERVAL", 24*time.Hour),
		GCThreshold:    mustDuration("DOCK_GC_THRESHOLD", 30*24*time.Hour),
		AssignIDs:      mustBool("DOCK_ASSIGN_IDS", true),

		LaunchRateBurst:  getenvInt("DOCK_LAUNCH_RATE_BURST", 10),
		LaunchRatePerMin: getenvInt("DOCK_LAUNCH_RATE_PER_MIN", 120),

		// Redis settings
		RedisAddr:             getenv("DOCK_REDIS_ADDR", ""),
		RedisUser:             getenv("DOCK_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("DOCK_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("DOCK_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("DOCK_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("DOCK_ALLOWED_HOSTS", "127.0.0.1,localhost,::1")),
		AllowedCIDRS: splitAndTrim(getenv("DOCK_ALLOWED_CIDRS", "127.0.0.1/32,::1/128")),
		TrustProxy:   mustBool("DOCK_TRUST_PROXY", false),
	}

	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func (c *Config) validate() error {
	if c.ConfigFile == "" {
		return errors.New("DOCK_CONFIG_FILE resolved to an empty path")
	}
	if c.RedisEnabled() && c.RedisPasswordRequired && c.RedisPassword == "" {
		return errors.New("DOCK_REDIS_PASSWORD is required when DOCK_REDIS_PASSWORD_REQUIRED=true")
	}
	if c.GCInterval <= 0 {
		return fmt.Errorf("DOCK_GC_INTERVAL must be positive, got %s", c.GCInterval)
	}
	if c.LaunchRateBurst <= 0 || c.LaunchRatePerMin <= 0 {
		return fmt.Errorf("launch rate limit must be positive (burst=%d, per_min=%d)", c.LaunchRateBurst, c.LaunchRatePerMin)
	}
	return nil
}

// loadDotenv imports KEY=VALUE pairs from path without overriding variables
// already present in the environment. A missing file is not an error.
func loadDotenv(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] ignoring env file %s: %v\n", path, err)
	}
}

func defaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "dock-config.json"
	}
	return filepath.Join(dir, "dock", "dock-config.json")
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
