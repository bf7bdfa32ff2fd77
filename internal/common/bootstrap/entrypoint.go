package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	commonconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/config"
)

// ConfigLoader: 설정을 로드하는 함수 타입
type ConfigLoader[C any] func() (*C, error)

// LoggingOptions: 설정에서 로거 구성 정보를 뽑아내는 함수 타입 (로그 설정, OTel 상관관계 여부)
type LoggingOptions[C any] func(*C) (commonconfig.LogConfig, bool)

// AppInitializer: 애플리케이션 초기화 함수 타입 (ServerApp과 정리 함수 반환)
type AppInitializer[C any] func(context.Context, *C, *slog.Logger) (*ServerApp, func(), error)

// RunEntrypoint: 서비스 공통 시작점.
// .env 로드, 설정 로드, 로거 구성, 앱 초기화 및 실행을 담당합니다.
func RunEntrypoint[C any](
	ctx context.Context,
	logger *slog.Logger,
	logFileName string,
	loadConfig ConfigLoader[C],
	loggingOptions LoggingOptions[C],
	initialize AppInitializer[C],
) (*slog.Logger, error) {
	if err := commonconfig.LoadDotenvIfPresent(); err != nil {
		return logger, fmt.Errorf("load dotenv failed: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return logger, fmt.Errorf("load config failed: %w", err)
	}

	if loggingOptions != nil {
		logCfg, enableOTel := loggingOptions(cfg)
		configured, logErr := ConfigureLogger(logCfg, logFileName, enableOTel)
		if logErr != nil {
			return logger, fmt.Errorf("configure logger failed: %w", logErr)
		}
		logger = configured
	}

	serverApp, cleanup, err := initialize(ctx, cfg, logger)
	if err != nil {
		return logger, fmt.Errorf("initialize app failed: %w", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	if err := serverApp.Run(ctx); err != nil {
		return logger, fmt.Errorf("run app failed: %w", err)
	}
	return logger, nil
}
