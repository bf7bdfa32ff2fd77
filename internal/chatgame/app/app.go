package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	cgassets "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/assets"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/auth"
	cgconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/config"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/httpapi"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/llm"
	cgredis "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/redis"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/repository"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/rules"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/service"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/session"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/bootstrap"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/dbutil"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/httpserver"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/messageprovider"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/telemetry"
)

const (
	limiterPruneInterval = 10 * time.Minute
	limiterIdleTTL       = 30 * time.Minute
	telemetryFlushWait   = 5 * time.Second
)

// chatGameSessions 는 선택된 세션 백엔드와 그 백엔드가 요구하는 백그라운드 작업이다.
type chatGameSessions struct {
	registry session.Registry
	tasks    []bootstrap.BackgroundTask
}

func newChatGameTelemetry(ctx context.Context, cfg *cgconfig.Config, logger *slog.Logger) (*telemetry.Provider, func(), error) {
	provider, err := telemetry.NewProvider(ctx, cfg.Telemetry)
	if err != nil {
		return nil, nil, fmt.Errorf("init telemetry failed: %w", err)
	}
	if provider.IsEnabled() {
		logger.Info("telemetry_enabled", "endpoint", cfg.Telemetry.OTLPEndpoint, "sample_rate", cfg.Telemetry.SampleRate)
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryFlushWait)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry_shutdown_failed", "err", err)
		}
	}
	return provider, cleanup, nil
}

func newChatGameMessageProvider() (*messageprovider.Provider, error) {
	msgProvider, err := messageprovider.NewFromYAMLAtPath(cgassets.GameMessagesYAML, "chatgame")
	if err != nil {
		return nil, fmt.Errorf("load game messages failed: %w", err)
	}
	return msgProvider, nil
}

func newChatGameDB(ctx context.Context, cfg *cgconfig.Config, logger *slog.Logger) (*gorm.DB, func(), error) {
	db, closeDB, err := dbutil.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog db failed: %w", err)
	}
	return db, closeDB, nil
}

func newChatGameRepository(ctx context.Context, cfg *cgconfig.Config, db *gorm.DB, logger *slog.Logger) (*repository.Repository, error) {
	repo := repository.New(db)
	if err := repo.AutoMigrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate catalog db failed: %w", err)
	}
	if cfg.Catalog.SeedDefaults {
		seeded, err := repo.SeedIfEmpty(ctx, cgassets.DefaultCatalogYAML)
		if err != nil {
			return nil, fmt.Errorf("seed catalog failed: %w", err)
		}
		if seeded > 0 {
			logger.Info("catalog_seeded", "items", seeded)
		}
	}
	return repo, nil
}

func newChatGameSessions(ctx context.Context, cfg *cgconfig.Config, logger *slog.Logger) (*chatGameSessions, func(), error) {
	switch cfg.Session.Backend {
	case cgconfig.SessionBackendValkey:
		client, closeClient, err := bootstrap.NewAndPingValkeyClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect session valkey failed: %w", err)
		}
		store := cgredis.NewSessionStore(client, logger, cfg.Session.TTL)
		locks := cgredis.NewLockManager(ctx, client, logger, cfg.Session.LockTTL, cfg.Session.LockTimeout)
		logger.Info("session_backend_selected", "backend", cfg.Session.Backend, "ttl", cfg.Session.TTL)
		return &chatGameSessions{registry: session.NewValkeyRegistry(store, locks, logger)}, closeClient, nil
	default:
		registry := session.NewMemoryRegistry(logger, cfg.Session.LockTimeout)
		logger.Info("session_backend_selected", "backend", cfg.Session.Backend, "idle_ttl", cfg.Session.IdleTTL)
		sweeper := bootstrap.BackgroundTask{
			Name:        "session_sweeper",
			ErrorLogKey: "session_sweeper_failed",
			Run: func(ctx context.Context) error {
				return registry.RunSweeper(ctx, cfg.Session.SweepInterval, cfg.Session.IdleTTL)
			},
		}
		return &chatGameSessions{registry: registry, tasks: []bootstrap.BackgroundTask{sweeper}}, func() {}, nil
	}
}

func newChatGameGenerator(ctx context.Context, cfg *cgconfig.Config, msgProvider *messageprovider.Provider, logger *slog.Logger) (llm.Generator, error) {
	generator, err := llm.New(ctx, cfg.Generator, msgProvider, logger)
	if err != nil {
		return nil, fmt.Errorf("init generator failed: %w", err)
	}
	return generator, nil
}

func newChatGameCatalogService(
	cfg *cgconfig.Config,
	repo *repository.Repository,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) *service.CatalogService {
	return service.NewCatalogService(repo, msgProvider, cfg.Catalog, cfg.Generator, logger)
}

func newChatGameGameService(
	cfg *cgconfig.Config,
	catalog *service.CatalogService,
	sessions *chatGameSessions,
	generator llm.Generator,
	msgProvider *messageprovider.Provider,
	logger *slog.Logger,
) *service.GameService {
	return service.NewGameService(
		catalog,
		sessions.registry,
		generator,
		rules.NewResolver(),
		msgProvider,
		service.GameOptionsFromConfig(cfg.Generator),
		logger,
	)
}

func newChatGameAuthService(cfg *cgconfig.Config, logger *slog.Logger) (*auth.Service, error) {
	authService, err := auth.NewService(cfg.Admin)
	if err != nil {
		return nil, fmt.Errorf("init admin auth failed: %w", err)
	}
	if !authService.Enabled() {
		logger.Warn("admin_api_disabled", "reason", "ADMIN_PASSWORD(_HASH) or JWT_SECRET not set")
	}
	return authService, nil
}

func newChatGameLoginLimiter(cfg *cgconfig.Config) *auth.LoginLimiter {
	return auth.NewLoginLimiter(cfg.Admin.LoginRatePerMinute, cfg.Admin.LoginBurst)
}

func newChatGameRouter(cfg *cgconfig.Config, handler *httpapi.Handler, logger *slog.Logger) http.Handler {
	return httpapi.NewRouter(httpapi.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		LogLevel:       cfg.Log.Level,
	}, handler, logger)
}

func newChatGameHTTPServer(cfg *cgconfig.Config, handler http.Handler) *http.Server {
	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))

	traceOperation := ""
	if cfg.Telemetry.Enabled {
		traceOperation = cgconfig.ServiceName
	}

	return httpserver.NewServer(addr, handler, httpserver.ServerOptions{
		UseH2C:            cfg.ServerTuning.UseH2C,
		ReadHeaderTimeout: cfg.ServerTuning.ReadHeaderTimeout,
		IdleTimeout:       cfg.ServerTuning.IdleTimeout,
		MaxHeaderBytes:    cfg.ServerTuning.MaxHeaderBytes,
		TraceOperation:    traceOperation,
	})
}

func newChatGameServerApp(
	cfg *cgconfig.Config,
	logger *slog.Logger,
	server *http.Server,
	sessions *chatGameSessions,
	limiter *auth.LoginLimiter,
	_ *telemetry.Provider,
) *bootstrap.ServerApp {
	tasks := append([]bootstrap.BackgroundTask{}, sessions.tasks...)
	tasks = append(tasks, bootstrap.BackgroundTask{
		Name:        "login_limiter_pruner",
		ErrorLogKey: "login_limiter_pruner_failed",
		Run: func(ctx context.Context) error {
			return limiter.RunPruner(ctx, limiterPruneInterval, limiterIdleTTL)
		},
	})

	return bootstrap.NewServerApp(
		cgconfig.ServiceName,
		logger,
		server,
		cfg.ServerTuning.ShutdownTimeout,
		tasks...,
	)
}
