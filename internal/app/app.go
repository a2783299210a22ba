package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/dock/internal/config"
	"github.com/MrSnakeDoc/dock/internal/editor"
	"github.com/MrSnakeDoc/dock/internal/httpserver"
	"github.com/MrSnakeDoc/dock/internal/httpserver/deps"
	"github.com/MrSnakeDoc/dock/internal/icons"
	"github.com/MrSnakeDoc/dock/internal/index"
	"github.com/MrSnakeDoc/dock/internal/launcher"
	"github.com/MrSnakeDoc/dock/internal/logger"
	"github.com/MrSnakeDoc/dock/internal/notify"
	"github.com/MrSnakeDoc/dock/internal/redis"
	"github.com/MrSnakeDoc/dock/internal/scheduler"
	filestore "github.com/MrSnakeDoc/dock/internal/store/file"
	redisstore "github.com/MrSnakeDoc/dock/internal/store/redis"
	"github.com/MrSnakeDoc/dock/internal/utils"
	"github.com/MrSnakeDoc/dock/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	redisStore  *redisstore.Store
	memIndex    *index.MemoryIndex
	reloader    *scheduler.ConfigReloader
	watcher     *notify.Watcher
	remote      *notify.Redis
	gc          *scheduler.GarbageCollector
}

// New wires every component from the environment. Redis is optional, but
// once configured it must be reachable.
func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	var (
		redisClient *goredis.Client
		store       *redisstore.Store
	)
	if cfg.RedisEnabled() {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(context.Background(), redis.OptionsFromConfig(cfg), loggerClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		redisClient = client
		store = redisstore.NewStore(client)
		loggerClient.Info("Redis initialized successfully")
	} else {
		loggerClient.Info("Redis not configured, usage is kept in memory only")
	}

	memIndex := index.NewMemoryIndex()
	loader := filestore.NewLoader(cfg.ConfigFile)

	// In-process subscribers always; other dock processes through Redis.
	hub := notify.NewHub()
	notifiers := notify.Multi{hub}
	var remote *notify.Redis
	if store != nil {
		remote = notify.NewRedis(store, loggerClient)
		notifiers = append(notifiers, remote)
	}

	reloadTrigger := make(chan struct{}, 1)
	reloader := scheduler.NewConfigReloader(
		loader,
		memIndex,
		notifiers,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	var watcher *notify.Watcher
	if cfg.WatchDebounce > 0 {
		watcher = notify.NewWatcher(loader.Path(), cfg.WatchDebounce, loggerClient)
	}

	gc := scheduler.NewGarbageCollector(
		store,
		memIndex,
		loggerClient,
		nil,
		cfg.GCInterval,
		cfg.GCThreshold,
	)

	// Interface parameters get an untyped nil when Redis is off.
	var (
		usageStore launcher.UsageStore
		iconCache  icons.Cache
	)
	if store != nil {
		usageStore = store
		iconCache = store
	}

	renderer, err := icons.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to init icon renderer: %w", err)
	}

	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		TimeNow:          time.Now,
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		TrustProxy:       cfg.TrustProxy,
		ConfigFile:       loader.Path(),
		MemoryIndex:      memIndex,
		Editor:           editor.New(loader, memIndex, notifiers, loggerClient).WithAssignIDs(cfg.AssignIDs),
		Launcher:         launcher.NewService(launcher.NewOS(), memIndex, usageStore, loggerClient),
		Icons:            icons.NewService(icons.NoopExtractor{}, renderer, iconCache, redisstore.DefaultIconTTL, loggerClient),
		Events:           hub,
		RedisStore:       store,
		ReloadTrigger:    reloadTrigger,
		LaunchRateBurst:  cfg.LaunchRateBurst,
		LaunchRatePerMin: cfg.LaunchRatePerMin,
	}

	server := httpserver.New(cfg.ListenAddr, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		redisStore:  store,
		memIndex:    memIndex,
		reloader:    reloader,
		watcher:     watcher,
		remote:      remote,
		gc:          gc,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting dock %s on %s", version.Version, a.cfg.ListenAddr)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Restore usage counters before the first configuration is installed
	if a.redisStore != nil {
		syncer := scheduler.NewRedisSyncer(a.redisStore, a.memIndex, a.logger)
		if err := syncer.Sync(ctx); err != nil {
			a.logger.Warn("failed to sync usage from redis, starting with empty counters",
				logger.Error(err))
		}
	}

	// Start configuration reloader (loads the file and starts periodic refresh)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start config reloader: %w", err)
	}
	a.logger.Info("config reloader started",
		logger.String("path", a.cfg.ConfigFile),
		logger.Duration("interval", a.cfg.ReloadInterval))

	if a.watcher != nil {
		if err := os.MkdirAll(filepath.Dir(a.cfg.ConfigFile), 0o755); err != nil {
			a.logger.Warn("failed to create config directory", logger.Error(err))
		}
		go func() {
			err := a.watcher.Run(ctx, func() { a.reloader.Trigger(notify.SourceFile) })
			if err != nil {
				a.logger.Warn("file watch disabled, relying on periodic reload", logger.Error(err))
			}
		}()
	}

	if a.remote != nil {
		go func() {
			err := a.remote.Listen(ctx, func(notify.Event) { a.reloader.Trigger(notify.SourceRemote) })
			if err != nil {
				a.logger.Warn("not listening for changes from other processes", logger.Error(err))
			}
		}()
	}

	// Start garbage collector
	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start garbage collector: %w", err)
	}
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}
	stop()

	a.reloader.Stop()
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		utils.CloseLogged(a.redisClient, "redis", a.logger)
	}

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ dock stopped cleanly")
	_ = a.logger.Sync()
	return nil
}
