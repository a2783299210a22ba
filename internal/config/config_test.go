package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets key for the duration of the test and restores it afterwards.
func clearEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"DOCK_LISTEN_ADDR", "DOCK_RELOAD_INTERVAL", "DOCK_ASSIGN_IDS",
		"DOCK_ALLOWED_CIDRS", "DOCK_ALLOWED_HOSTS", "DOCK_REDIS_ADDR",
		"DOCK_LAUNCH_RATE_BURST", "DOCK_LAUNCH_RATE_PER_MIN", "DOCK_TRUST_PROXY",
	} {
		clearEnv(t, key)
	}
	t.Setenv("DOCK_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("DOCK_CONFIG_FILE", "/tmp/dock.json")

	cfg := Load()

	assert.Equal(t, "127.0.0.1:7341", cfg.ListenAddr)
	assert.Equal(t, "/tmp/dock.json", cfg.ConfigFile)
	assert.Equal(t, time.Hour, cfg.ReloadInterval)
	assert.True(t, cfg.AssignIDs)
	assert.Equal(t, []string{"127.0.0.1/32", "::1/128"}, cfg.AllowedCIDRS)
	assert.Equal(t, []string{"127.0.0.1", "localhost", "::1"}, cfg.AllowedHosts)
	assert.False(t, cfg.TrustProxy)
	assert.False(t, cfg.RedisEnabled())
	assert.Equal(t, 10, cfg.LaunchRateBurst)
	assert.Equal(t, 120, cfg.LaunchRatePerMin)
}

func TestLoadReadsDotenv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "dock.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"DOCK_LISTEN_ADDR=127.0.0.1:9999\nDOCK_REDIS_ADDR=localhost:6379\n",
	), 0o644))

	clearEnv(t, "DOCK_LISTEN_ADDR")
	clearEnv(t, "DOCK_REDIS_ADDR")
	clearEnv(t, "DOCK_REDIS_PASSWORD_REQUIRED")
	t.Setenv("DOCK_ENV_FILE", envFile)
	t.Setenv("DOCK_CONFIG_FILE", "/tmp/dock.json")

	cfg := Load()

	assert.Equal(t, "127.0.0.1:9999", cfg.ListenAddr)
	assert.True(t, cfg.RedisEnabled())
}

func TestLoadEnvironmentWinsOverDotenv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "dock.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DOCK_LISTEN_ADDR=127.0.0.1:9999\n"), 0o644))

	t.Setenv("DOCK_ENV_FILE", envFile)
	t.Setenv("DOCK_LISTEN_ADDR", "127.0.0.1:1234")
	t.Setenv("DOCK_CONFIG_FILE", "/tmp/dock.json")

	assert.Equal(t, "127.0.0.1:1234", Load().ListenAddr)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{ConfigFile: "dock.json", GCInterval: time.Hour, LaunchRateBurst: 1, LaunchRatePerMin: 1}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty config file", mutate: func(c *Config) { c.ConfigFile = "" }, wantErr: true},
		{name: "zero burst", mutate: func(c *Config) { c.LaunchRateBurst = 0 }, wantErr: true},
		{name: "zero gc interval", mutate: func(c *Config) { c.GCInterval = 0 }, wantErr: true},
		{
			name: "redis password required but missing",
			mutate: func(c *Config) {
				c.RedisAddr = "localhost:6379"
				c.RedisPasswordRequired = true
			},
			wantErr: true,
		},
		{
			name:   "password requirement ignored without redis",
			mutate: func(c *Config) { c.RedisPasswordRequired = true },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadPanicsOnInvalidRateLimit(t *testing.T) {
	t.Setenv("DOCK_ENV_FILE", "")
	t.Setenv("DOCK_CONFIG_FILE", "/tmp/dock.json")
	t.Setenv("DOCK_LAUNCH_RATE_BURST", "-1")

	assert.Panics(t, func() { Load() })
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected []string
	}{
		{name: "empty", in: "", expected: nil},
		{name: "single", in: "127.0.0.1/32", expected: []string{"127.0.0.1/32"}},
		{name: "spaces and quotes", in: ` "a" , 'b',c `, expected: []string{"a", "b", "c"}},
		{name: "blank entries dropped", in: "a,, ,b", expected: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitAndTrim(tt.in))
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}
			assert.Equal(t, tt.expected, mustDuration(tt.key, tt.def))
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", key: "TEST_BOOL", value: "true", def: false, expected: true},
		{name: "false value", key: "TEST_BOOL_FALSE", value: "false", def: true, expected: false},
		{name: "invalid value uses default", key: "TEST_BOOL_INVALID", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", key: "TEST_BOOL_MISSING", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}
			assert.Equal(t, tt.expected, mustBool(tt.key, tt.def))
		})
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_INVALID", "not_a_number")

	assert.Equal(t, 42, getenvInt("TEST_INT", 1))
	assert.Equal(t, 7, getenvInt("TEST_INT_INVALID", 7))
	assert.Equal(t, 3, getenvInt("TEST_INT_MISSING", 3))
}
