package main

import (
	"context"
	"log/slog"
	"os"

	cgapp "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/app"
	cgconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/config"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/bootstrap"
	commonconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/config"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/health"
)

// Version: 빌드 시 ldflags로 주입됨 (예: -ldflags="-X main.Version=1.0.0")
var Version = "dev"

func main() {
	health.Init(Version)

	logger := bootstrap.NewLogger()
	slog.SetDefault(logger)

	finalLogger, err := bootstrap.RunEntrypoint(
		context.Background(),
		logger,
		cgconfig.LogFileName,
		cgconfig.LoadFromEnv,
		func(cfg *cgconfig.Config) (commonconfig.LogConfig, bool) {
			return cfg.Log, cfg.Telemetry.Enabled
		},
		cgapp.Initialize,
	)
	if err != nil {
		logger = finalLogger
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}
