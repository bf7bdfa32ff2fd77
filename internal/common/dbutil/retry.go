package dbutil

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"
)

// RetryConfig: DB 연결 재시도 설정
type RetryConfig struct {
	MaxAttempts int           // 최대 시도 횟수 (기본: 5)
	BaseDelay   time.Duration // 초기 대기 시간 (기본: 1초)
	MaxDelay    time.Duration // 최대 대기 시간 (기본: 15초)
	MaxElapsed  time.Duration // 전체 허용 시간 (0 이면 MaxAttempts 만 적용)
}

// DefaultRetryConfig: 기본 재시도 설정
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    15 * time.Second,
	}
}

// OpenFunc: DB 연결을 시도하는 함수 타입
type OpenFunc func(ctx context.Context) (*gorm.DB, *sql.DB, error)

// OpenWithRetry: 지수 백오프로 DB 연결을 재시도합니다.
// DB 컨테이너가 앱보다 늦게 뜨는 경우를 흡수합니다.
func OpenWithRetry(
	ctx context.Context,
	openFn OpenFunc,
	cfg RetryConfig,
	logger *slog.Logger,
) (*gorm.DB, *sql.DB, error) {
	def := DefaultRetryConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = def.MaxDelay
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = cfg.BaseDelay
	expBackoff.MaxInterval = cfg.MaxDelay
	expBackoff.Multiplier = 2.0
	expBackoff.RandomizationFactor = 0.2
	expBackoff.MaxElapsedTime = cfg.MaxElapsed

	policy := backoff.WithContext(
		backoff.WithMaxRetries(expBackoff, uint64(cfg.MaxAttempts-1)),
		ctx,
	)

	var (
		db       *gorm.DB
		sqlDB    *sql.DB
		attempts int
	)
	operation := func() error {
		attempts++
		var err error
		db, sqlDB, err = openFn(ctx)
		return err
	}
	notify := func(err error, delay time.Duration) {
		if logger != nil {
			logger.Warn("db_connect_retry",
				slog.Int("attempt", attempts),
				slog.Int("max_attempts", cfg.MaxAttempts),
				slog.Duration("delay", delay),
				slog.Any("err", err),
			)
		}
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, fmt.Errorf("db connect cancelled: %w", ctxErr)
		}
		return nil, nil, fmt.Errorf("db connect failed after %d attempts: %w", attempts, err)
	}

	if attempts > 1 && logger != nil {
		logger.Info("db_connect_success_after_retry", slog.Int("attempts", attempts))
	}
	return db, sqlDB, nil
}
