package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/dock/internal/domain"
	"github.com/MrSnakeDoc/dock/internal/editor"
	"github.com/MrSnakeDoc/dock/internal/httpserver"
	"github.com/MrSnakeDoc/dock/internal/httpserver/deps"
	"github.com/MrSnakeDoc/dock/internal/icons"
	"github.com/MrSnakeDoc/dock/internal/index"
	"github.com/MrSnakeDoc/dock/internal/launcher"
	"github.com/MrSnakeDoc/dock/internal/logger"
	"github.com/MrSnakeDoc/dock/internal/notify"
	"github.com/MrSnakeDoc/dock/internal/scheduler"
	filestore "github.com/MrSnakeDoc/dock/internal/store/file"
	redisstore "github.com/MrSnakeDoc/dock/internal/store/redis"
)

// node is one dock process: its own index, reloader and API, sharing the
// configuration file and Redis with its peers.
type node struct {
	index    *index.MemoryIndex
	hub      *notify.Hub
	recorder *launcher.Recorder
	server   *httptest.Server
}

func startNode(t *testing.T, ctx context.Context, path string, store *redisstore.Store) *node {
	t.Helper()
	log := logger.NewNop()

	idx := index.NewMemoryIndex()
	hub := notify.NewHub()
	remote := notify.NewRedis(store, log)
	notifiers := notify.Multi{hub, remote}
	loader := filestore.NewLoader(path)

	reloader := scheduler.NewConfigReloader(loader, idx, notifiers, log, 0, nil)
	require.NoError(t, reloader.Start(ctx))
	t.Cleanup(reloader.Stop)

	watcher := notify.NewWatcher(path, 20*time.Millisecond, log)
	go func() { _ = watcher.Run(ctx, func() { reloader.Trigger(notify.SourceFile) }) }()
	go func() { _ = remote.Listen(ctx, func(notify.Event) { reloader.Trigger(notify.SourceRemote) }) }()

	renderer, err := icons.NewRenderer()
	require.NoError(t, err)
	rec := &launcher.Recorder{}

	d := deps.Deps{
		Logger:           log,
		StartTime:        time.Now(),
		MemoryIndex:      idx,
		Editor:           editor.New(loader, idx, notifiers, log),
		Launcher:         launcher.NewService(rec, idx, store, log),
		Icons:            icons.NewService(nil, renderer, store, time.Hour, log),
		Events:           hub,
		RedisStore:       store,
		ReloadTrigger:    make(chan struct{}, 1),
		LaunchRateBurst:  10,
		LaunchRatePerMin: 60,
	}
	srv := httptest.NewServer(httpserver.NewRouter(log, d))
	t.Cleanup(srv.Close)

	return &node{index: idx, hub: hub, recorder: rec, server: srv}
}

func (n *node) call(t *testing.T, method, path, body string) int {
	t.Helper()
	req, err := http.NewRequest(method, n.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.server.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func hasItem(n *node, categoryName, itemName string) func() bool {
	return func() bool {
		_, ok := domain.FindItem(n.index.Config(), categoryName, itemName)
		return ok
	}
}

func TestTwoDocksShareOneConfiguration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := redisstore.NewStore(client)

	path := filepath.Join(t.TempDir(), "dock-config.json")
	a := startNode(t, ctx, path, store)
	b := startNode(t, ctx, path, store)

	// both start from defaults on a missing file
	assert.Equal(t, domain.Default(), a.index.Config())
	assert.Equal(t, domain.Default(), b.index.Config())

	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(redisstore.ChannelConfigChanged)[redisstore.ChannelConfigChanged] == 2
	}, 2*time.Second, 10*time.Millisecond)

	// edits through A reach B
	require.Equal(t, http.StatusCreated, a.call(t, http.MethodPost, "/api/categories", `{"name":"Tools","icon":"🔧"}`))
	require.Equal(t, http.StatusCreated, a.call(t, http.MethodPost, "/api/categories/Tools/items",
		`{"name":"Term","type":"shell","path":"bash","icon":"auto"}`))
	require.Eventually(t, hasItem(b, "Tools", "Term"), 3*time.Second, 20*time.Millisecond)

	// B launches it and the count lands in the shared store
	require.Equal(t, http.StatusOK, b.call(t, http.MethodPost, "/api/launch", `{"category":"Tools","item":"Term"}`))
	assert.Equal(t, []domain.Action{{Action: domain.ActionExec, Target: "bash"}}, b.recorder.Actions())
	assert.Empty(t, a.recorder.Actions())

	u, err := store.GetUsage(ctx, "Tools/Term")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.Counter)

	// icons are cached once for everybody
	require.Equal(t, http.StatusOK, a.call(t, http.MethodGet, "/api/icons/Tools/Term", ""))
	var iconKeys []string
	for _, k := range mr.Keys() {
		if strings.HasPrefix(k, redisstore.KeyPrefixIcon) {
			iconKeys = append(iconKeys, k)
		}
	}
	assert.Len(t, iconKeys, 1)
}

func TestHandEditedFileIsPickedUp(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	path := filepath.Join(t.TempDir(), "dock-config.json")
	n := startNode(t, ctx, path, redisstore.NewStore(client))

	events, release := n.hub.Subscribe(4)
	defer release()

	edited := domain.AddCategory(domain.Default(), "Games", "🎮")
	edited = domain.AddItem(edited, "Games", domain.Item{Name: "Steam", Type: domain.TypeURL, Path: "steam://open/games"})
	data, err := filestore.Marshal(edited, filestore.FormatJSON)
	require.NoError(t, err)

	// rewrite until the watcher, which starts asynchronously, has seen it
	require.Eventually(t, func() bool {
		if hasItem(n, "Games", "Steam")() {
			return true
		}
		_ = os.WriteFile(path, data, 0o644)
		return false
	}, 3*time.Second, 50*time.Millisecond)

	select {
	case ev := <-events:
		assert.Equal(t, notify.SourceFile, ev.Source)
	case <-time.After(2 * time.Second):
		t.Fatal("no change event")
	}

	// a corrupt write keeps the last good configuration
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.True(t, hasItem(n, "Games", "Steam")())

	// the API refuses to edit over it
	assert.Equal(t, http.StatusInternalServerError, n.call(t, http.MethodPost, "/api/categories", `{"name":"Tools"}`))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw))

	// a deleted file falls back to defaults
	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		return len(n.index.Config().Categories) == 0
	}, 3*time.Second, 20*time.Millisecond)
}
