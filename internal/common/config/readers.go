package config

import (
	"fmt"
	"strings"
	"time"
)

// ReadServerConfigFromEnv: HTTP 서버 호스트와 포트 설정을 환경 변수에서 읽어옵니다.
func ReadServerConfigFromEnv(defaultPort int) (ServerConfig, error) {
	serverPort, err := IntFromEnvFirstNonEmpty([]string{"SERVER_PORT", "PORT"}, defaultPort)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("read SERVER_PORT failed: %w", err)
	}
	if serverPort <= 0 || serverPort > 65535 {
		return ServerConfig{}, fmt.Errorf("invalid SERVER_PORT: %d", serverPort)
	}

	return ServerConfig{
		Host: StringFromEnv("SERVER_HOST", "0.0.0.0"),
		Port: serverPort,
	}, nil
}

// ReadServerTuningConfigFromEnv: HTTP 서버 튜닝 설정을 환경 변수에서 읽어옵니다.
func ReadServerTuningConfigFromEnv() (ServerTuningConfig, error) {
	useH2C, err := BoolFromEnv("SERVER_USE_H2C", false)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_USE_H2C failed: %w", err)
	}

	readHeaderTimeout, err := DurationSecondsFromEnv("SERVER_READ_HEADER_TIMEOUT_SECONDS", 5)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_READ_HEADER_TIMEOUT_SECONDS failed: %w", err)
	}

	// 0 을 주면 비활성화
	idleTimeout, err := DurationSecondsFromEnv("SERVER_IDLE_TIMEOUT_SECONDS", 90)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_IDLE_TIMEOUT_SECONDS failed: %w", err)
	}

	maxHeaderBytes, err := IntFromEnv("SERVER_MAX_HEADER_BYTES", 1<<20)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_MAX_HEADER_BYTES failed: %w", err)
	}
	if maxHeaderBytes < 0 {
		return ServerTuningConfig{}, fmt.Errorf("invalid SERVER_MAX_HEADER_BYTES: %d", maxHeaderBytes)
	}

	shutdownTimeout, err := DurationSecondsFromEnv("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 10)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_SHUTDOWN_TIMEOUT_SECONDS failed: %w", err)
	}

	return ServerTuningConfig{
		UseH2C:            useH2C,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
		ShutdownTimeout:   shutdownTimeout,
	}, nil
}

// ReadRedisConfigFromEnv: Valkey 연결 설정을 환경 변수에서 읽어옵니다.
func ReadRedisConfigFromEnv(defaultHost string, defaultPort int) (RedisConfig, error) {
	port, err := IntFromEnvFirstNonEmpty([]string{"REDIS_PORT", "VALKEY_PORT"}, defaultPort)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read redis port failed: %w", err)
	}

	db, err := IntFromEnvFirstNonEmpty([]string{"REDIS_DB", "VALKEY_DB"}, 0)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read redis db failed: %w", err)
	}

	dialTimeout, err := DurationSecondsFromEnv("REDIS_DIAL_TIMEOUT_SECONDS", 10)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read REDIS_DIAL_TIMEOUT_SECONDS failed: %w", err)
	}

	return RedisConfig{
		Host:     StringFromEnvFirstNonEmpty([]string{"REDIS_HOST", "VALKEY_HOST"}, defaultHost),
		Port:     port,
		Password: StringFromEnvFirstNonEmpty([]string{"REDIS_PASSWORD", "VALKEY_PASSWORD"}, ""),
		DB:       db,

		DialTimeout:  dialTimeout,
		WriteTimeout: 3 * time.Second,
	}, nil
}

// ReadLogConfigFromEnv: 로그 레벨과 파일 출력 설정을 환경 변수에서 읽어옵니다.
func ReadLogConfigFromEnv() (LogConfig, error) {
	level := strings.ToLower(StringFromEnv("LOG_LEVEL", "info"))
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return LogConfig{}, fmt.Errorf("invalid LOG_LEVEL: %q", level)
	}

	dir := StringFromEnv("LOG_DIR", "")
	if dir == "" {
		return LogConfig{Level: level}, nil
	}

	maxSizeMB, err := IntFromEnv("LOG_FILE_MAX_SIZE_MB", 10)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_SIZE_MB failed: %w", err)
	}
	if maxSizeMB <= 0 {
		return LogConfig{}, fmt.Errorf("invalid LOG_FILE_MAX_SIZE_MB: %d", maxSizeMB)
	}

	maxBackups, err := IntFromEnv("LOG_FILE_MAX_BACKUPS", 30)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_BACKUPS failed: %w", err)
	}
	if maxBackups <= 0 {
		return LogConfig{}, fmt.Errorf("invalid LOG_FILE_MAX_BACKUPS: %d", maxBackups)
	}

	maxAgeDays, err := IntFromEnv("LOG_FILE_MAX_AGE_DAYS", 7)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_AGE_DAYS failed: %w", err)
	}
	if maxAgeDays <= 0 {
		return LogConfig{}, fmt.Errorf("invalid LOG_FILE_MAX_AGE_DAYS: %d", maxAgeDays)
	}

	compress, err := BoolFromEnv("LOG_FILE_COMPRESS", true)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_COMPRESS failed: %w", err)
	}

	return LogConfig{
		Level:      level,
		Dir:        dir,
		MaxSizeMB:  maxSizeMB,
		MaxBackups: maxBackups,
		MaxAgeDays: maxAgeDays,
		Compress:   compress,
	}, nil
}

// ReadDatabaseConfigFromEnv: 데이터베이스 연결 설정을 환경 변수에서 읽어옵니다.
func ReadDatabaseConfigFromEnv(defaultSQLitePath string, defaultDBName string) (DatabaseConfig, error) {
	driver := strings.ToLower(StringFromEnv("DB_DRIVER", "sqlite"))
	if driver != "sqlite" && driver != "postgres" {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER: %q", driver)
	}

	port, err := IntFromEnv("DB_PORT", 5432)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("read DB_PORT failed: %w", err)
	}

	maxOpen, err := IntFromEnv("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("read DB_MAX_OPEN_CONNS failed: %w", err)
	}

	maxIdle, err := IntFromEnv("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("read DB_MAX_IDLE_CONNS failed: %w", err)
	}

	lifetime, err := DurationSecondsFromEnv("DB_CONN_MAX_LIFETIME_SECONDS", 300)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("read DB_CONN_MAX_LIFETIME_SECONDS failed: %w", err)
	}

	openMaxElapsed, err := DurationSecondsFromEnv("DB_OPEN_MAX_ELAPSED_SECONDS", 30)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("read DB_OPEN_MAX_ELAPSED_SECONDS failed: %w", err)
	}

	return DatabaseConfig{
		Driver:          driver,
		Path:            StringFromEnv("DB_PATH", defaultSQLitePath),
		Host:            StringFromEnv("DB_HOST", "localhost"),
		Port:            port,
		Name:            StringFromEnv("DB_NAME", defaultDBName),
		User:            StringFromEnv("DB_USER", "postgres"),
		Password:        StringFromEnv("DB_PASSWORD", ""),
		SSLMode:         StringFromEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: lifetime,
		OpenMaxElapsed:  openMaxElapsed,
	}, nil
}

// ReadTelemetryConfigFromEnv: OpenTelemetry 설정을 환경 변수에서 읽어옵니다.
func ReadTelemetryConfigFromEnv(defaultServiceName string) (TelemetryConfig, error) {
	enabled, err := BoolFromEnv("OTEL_ENABLED", false)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_ENABLED failed: %w", err)
	}

	insecure, err := BoolFromEnv("OTEL_EXPORTER_OTLP_INSECURE", true)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_EXPORTER_OTLP_INSECURE failed: %w", err)
	}

	sampleRate, err := Float64FromEnv("OTEL_SAMPLE_RATE", 1.0)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_SAMPLE_RATE failed: %w", err)
	}

	return TelemetryConfig{
		Enabled:        enabled,
		ServiceName:    StringFromEnv("OTEL_SERVICE_NAME", defaultServiceName),
		ServiceVersion: StringFromEnv("OTEL_SERVICE_VERSION", DefaultServiceVersion),
		Environment:    StringFromEnv("OTEL_ENVIRONMENT", "production"),
		OTLPEndpoint:   StringFromEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "jaeger:4317"),
		OTLPInsecure:   insecure,
		SampleRate:     sampleRate,
	}, nil
}
