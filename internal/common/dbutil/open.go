package dbutil

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	commonconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/config"
)

// Open: 설정된 드라이버(sqlite/postgres)로 gorm DB 를 열고 풀 설정을 적용합니다.
// 반환된 close 함수는 커넥션 풀을 닫습니다.
func Open(ctx context.Context, cfg commonconfig.DatabaseConfig, logger *slog.Logger) (*gorm.DB, func(), error) {
	switch cfg.Driver {
	case "sqlite", "postgres":
	default:
		return nil, nil, fmt.Errorf("unsupported db driver: %q", cfg.Driver)
	}

	openFn := func(ctx context.Context) (*gorm.DB, *sql.DB, error) {
		return openOnce(ctx, cfg)
	}

	db, sqlDB, err := OpenWithRetry(ctx, openFn, RetryConfig{
		MaxAttempts: 5,
		MaxElapsed:  cfg.OpenMaxElapsed,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s failed: %w", cfg.Driver, err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if logger != nil {
		logger.Info("db_opened", "driver", cfg.Driver, "name", displayName(cfg))
	}

	closeFn := func() {
		if closeErr := sqlDB.Close(); closeErr != nil && logger != nil {
			logger.Warn("db_close_failed", "driver", cfg.Driver, "err", closeErr)
		}
	}
	return db, closeFn, nil
}

func openOnce(ctx context.Context, cfg commonconfig.DatabaseConfig) (*gorm.DB, *sql.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
		)
		dialector = postgres.Open(dsn)
	case "sqlite":
		if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create sqlite dir failed: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, nil, fmt.Errorf("unsupported db driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("gorm open failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql db failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("db ping failed: %w", err)
	}
	return db, sqlDB, nil
}

func displayName(cfg commonconfig.DatabaseConfig) string {
	if cfg.Driver == "postgres" {
		return fmt.Sprintf("%s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.Name)
	}
	return cfg.Path
}
