//go:build !wireinject

package app

import (
	"context"
	"log/slog"

	cgconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/config"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/httpapi"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/bootstrap"
)

// Initialize 는 대화형 추측 게임 서버의 의존성을 조립하고 ServerApp 을 반환한다.
func Initialize(ctx context.Context, cfg *cgconfig.Config, logger *slog.Logger) (*bootstrap.ServerApp, func(), error) {
	telemetryProvider, cleanupTelemetry, err := newChatGameTelemetry(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	msgProvider, err := newChatGameMessageProvider()
	if err != nil {
		cleanupTelemetry()
		return nil, nil, err
	}

	db, cleanupDB, err := newChatGameDB(ctx, cfg, logger)
	if err != nil {
		cleanupTelemetry()
		return nil, nil, err
	}

	repo, err := newChatGameRepository(ctx, cfg, db, logger)
	if err != nil {
		cleanupDB()
		cleanupTelemetry()
		return nil, nil, err
	}

	sessions, cleanupSessions, err := newChatGameSessions(ctx, cfg, logger)
	if err != nil {
		cleanupDB()
		cleanupTelemetry()
		return nil, nil, err
	}

	generator, err := newChatGameGenerator(ctx, cfg, msgProvider, logger)
	if err != nil {
		cleanupSessions()
		cleanupDB()
		cleanupTelemetry()
		return nil, nil, err
	}

	authService, err := newChatGameAuthService(cfg, logger)
	if err != nil {
		cleanupSessions()
		cleanupDB()
		cleanupTelemetry()
		return nil, nil, err
	}
	limiter := newChatGameLoginLimiter(cfg)

	catalogService := newChatGameCatalogService(cfg, repo, msgProvider, logger)
	gameService := newChatGameGameService(cfg, catalogService, sessions, generator, msgProvider, logger)

	handler := httpapi.NewHandler(gameService, catalogService, authService, limiter, msgProvider, cfg, logger)
	router := newChatGameRouter(cfg, handler, logger)
	httpServer := newChatGameHTTPServer(cfg, router)

	serverApp := newChatGameServerApp(cfg, logger, httpServer, sessions, limiter, telemetryProvider)

	cleanup := func() {
		cleanupSessions()
		cleanupDB()
		cleanupTelemetry()
	}

	return serverApp, cleanup, nil
}
