package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	commonconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/config"
)

// ParseLevel: 설정 문자열을 slog.Level 로 바꿉니다. 알 수 없는 값은 info 입니다.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger: stdout 으로 출력하는 tint 로거를 생성합니다.
func NewLogger() *slog.Logger {
	return NewConsoleLogger(slog.LevelInfo)
}

// NewConsoleLogger: 지정 레벨의 stdout tint 로거입니다.
func NewConsoleLogger(level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		AddSource:  true,
	}))
}

// ConfigureLogger: 로그 설정에 맞는 로거를 만들고 기본 로거로 지정합니다.
// Dir 가 비어 있으면 콘솔만, 아니면 콘솔 + 서비스 로그 + combined.log 로 함께 씁니다.
// enableOTel 이 true 면 trace_id/span_id 가 레코드에 붙습니다.
func ConfigureLogger(cfg commonconfig.LogConfig, fileName string, enableOTel bool) (*slog.Logger, error) {
	level := ParseLevel(cfg.Level)

	logDir := strings.TrimSpace(cfg.Dir)
	if logDir == "" {
		var handler slog.Handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
			AddSource:  true,
		})
		if enableOTel {
			handler = NewOTelHandler(handler)
		}
		logger := slog.New(handler)
		slog.SetDefault(logger)
		return logger, nil
	}

	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		return nil, fmt.Errorf("invalid log config: size=%d backups=%d age_days=%d", cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir failed: %w", err)
	}

	serviceFile := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, fileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	// 여러 서비스가 공유하는 파일
	combinedFile := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "combined.log"),
		MaxSize:    cfg.MaxSizeMB * 3,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	var handler slog.Handler = tint.NewHandler(io.MultiWriter(os.Stdout, serviceFile, combinedFile), &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		AddSource:  true,
		NoColor:    true,
	})
	if enableOTel {
		handler = NewOTelHandler(handler)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	logger.Info("file_logging_enabled",
		slog.String("path", serviceFile.Filename),
		slog.String("combined", combinedFile.Filename),
		slog.String("level", level.String()),
		slog.Bool("otel_correlation", enableOTel),
	)
	return logger, nil
}
