package config

import (
	"fmt"
	"strings"
	"time"

	commonconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/config"
)

// ServerConfig: HTTP 서버 설정 alias
type ServerConfig = commonconfig.ServerConfig

// ServerTuningConfig: 서버 튜닝 설정 alias
type ServerTuningConfig = commonconfig.ServerTuningConfig

// RedisConfig: Valkey 연결 설정 alias
type RedisConfig = commonconfig.RedisConfig

// LogConfig: 로깅 설정 alias
type LogConfig = commonconfig.LogConfig

// DatabaseConfig: 카탈로그/결과 DB 설정 alias
type DatabaseConfig = commonconfig.DatabaseConfig

// SessionConfig: 세션 레지스트리 설정
type SessionConfig struct {
	Backend       string        // memory | valkey
	TTL           time.Duration // valkey 키 TTL
	IdleTTL       time.Duration // memory 백엔드에서 이 시간 이상 갱신 없는 세션은 정리
	SweepInterval time.Duration
	LockTTL       time.Duration // 분산 락 만료
	LockTimeout   time.Duration // 락 대기 최대 시간
}

// GeneratorConfig: 응답 생성기 설정. APIKey 가 비어 있으면 스텁을 사용한다.
type GeneratorConfig struct {
	APIKey        string
	Model         string
	Timeout       time.Duration
	HistoryWindow int
	MaxTokens     int
	Temperature   float64
}

// AdminConfig: 관리자 로그인/토큰 설정
type AdminConfig struct {
	Username           string
	PasswordHash       string // bcrypt
	Password           string // 해시가 없을 때만 사용 (기동 시 해시)
	JWTSecret          string
	TokenTTL           time.Duration
	LoginRatePerMinute int
	LoginBurst         int
}

// Enabled: 비밀번호와 서명 키가 모두 있어야 관리자 API 를 연다.
func (c AdminConfig) Enabled() bool {
	return (c.PasswordHash != "" || c.Password != "") && c.JWTSecret != ""
}

// CatalogConfig: 카탈로그 캐시/시드 설정
type CatalogConfig struct {
	CacheSize    int
	CacheTTL     time.Duration
	SeedDefaults bool
}

// CORSConfig: 허용 Origin 목록. 비어 있으면 모든 Origin 허용
type CORSConfig struct {
	AllowedOrigins []string
}

// Config: 전체 애플리케이션 설정 구조체
type Config struct {
	Server       ServerConfig
	ServerTuning ServerTuningConfig
	Log          LogConfig
	Redis        RedisConfig
	Database     DatabaseConfig
	Session      SessionConfig
	Generator    GeneratorConfig
	Admin        AdminConfig
	Catalog      CatalogConfig
	CORS         CORSConfig
	Telemetry    commonconfig.TelemetryConfig
}

// LoadFromEnv: 환경 변수로부터 전체 애플리케이션 설정을 로드합니다.
func LoadFromEnv() (*Config, error) {
	server, err := commonconfig.ReadServerConfigFromEnv(DefaultServerPort)
	if err != nil {
		return nil, fmt.Errorf("read server config failed: %w", err)
	}
	serverTuning, err := commonconfig.ReadServerTuningConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read server tuning config failed: %w", err)
	}
	logCfg, err := commonconfig.ReadLogConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read log config failed: %w", err)
	}
	redisCfg, err := commonconfig.ReadRedisConfigFromEnv(DefaultValkeyHost, DefaultValkeyPort)
	if err != nil {
		return nil, fmt.Errorf("read redis config failed: %w", err)
	}
	database, err := commonconfig.ReadDatabaseConfigFromEnv(DefaultSQLitePath, DefaultDatabaseName)
	if err != nil {
		return nil, fmt.Errorf("read database config failed: %w", err)
	}
	session, err := readSessionConfig()
	if err != nil {
		return nil, err
	}
	generator, err := readGeneratorConfig()
	if err != nil {
		return nil, err
	}
	// 락은 생성기 호출 전체를 감싸므로 생성기 타임아웃보다 길어야 한다.
	if session.LockTTL <= generator.Timeout {
		return nil, fmt.Errorf("invalid SESSION_LOCK_TTL_SECONDS: %s must exceed GENERATOR_TIMEOUT_SECONDS %s", session.LockTTL, generator.Timeout)
	}
	admin, err := readAdminConfig()
	if err != nil {
		return nil, err
	}
	catalog, err := readCatalogConfig()
	if err != nil {
		return nil, err
	}
	telemetry, err := commonconfig.ReadTelemetryConfigFromEnv(ServiceName)
	if err != nil {
		return nil, fmt.Errorf("read telemetry config failed: %w", err)
	}

	return &Config{
		Server:       server,
		ServerTuning: serverTuning,
		Log:          logCfg,
		Redis:        redisCfg,
		Database:     database,
		Session:      session,
		Generator:    generator,
		Admin:        admin,
		Catalog:      catalog,
		CORS:         CORSConfig{AllowedOrigins: commonconfig.StringListFromEnv("CORS_ALLOWED_ORIGINS", nil)},
		Telemetry:    telemetry,
	}, nil
}

func readSessionConfig() (SessionConfig, error) {
	backend := strings.ToLower(commonconfig.StringFromEnv("SESSION_BACKEND", SessionBackendMemory))
	if backend != SessionBackendMemory && backend != SessionBackendValkey {
		return SessionConfig{}, fmt.Errorf("invalid SESSION_BACKEND: %q", backend)
	}

	ttl, err := commonconfig.DurationSecondsFromEnv("SESSION_TTL_SECONDS", DefaultSessionTTLSeconds)
	if err != nil {
		return SessionConfig{}, fmt.Errorf("read SESSION_TTL_SECONDS failed: %w", err)
	}
	idleTTL, err := commonconfig.DurationSecondsFromEnv("SESSION_IDLE_TTL_SECONDS", DefaultSessionIdleTTLSeconds)
	if err != nil {
		return SessionConfig{}, fmt.Errorf("read SESSION_IDLE_TTL_SECONDS failed: %w", err)
	}
	sweep, err := commonconfig.DurationSecondsFromEnv("SESSION_SWEEP_INTERVAL_SECONDS", DefaultSweepIntervalSeconds)
	if err != nil {
		return SessionConfig{}, fmt.Errorf("read SESSION_SWEEP_INTERVAL_SECONDS failed: %w", err)
	}
	lockTTL, err := commonconfig.DurationSecondsFromEnv("SESSION_LOCK_TTL_SECONDS", DefaultLockTTLSeconds)
	if err != nil {
		return SessionConfig{}, fmt.Errorf("read SESSION_LOCK_TTL_SECONDS failed: %w", err)
	}
	lockTimeout, err := commonconfig.DurationSecondsFromEnv("SESSION_LOCK_TIMEOUT_SECONDS", DefaultLockWaitTimeoutSeconds)
	if err != nil {
		return SessionConfig{}, fmt.Errorf("read SESSION_LOCK_TIMEOUT_SECONDS failed: %w", err)
	}
	if ttl <= 0 || lockTTL <= 0 || lockTimeout <= 0 {
		return SessionConfig{}, fmt.Errorf("session ttl and lock timings must be positive")
	}

	return SessionConfig{
		Backend:       backend,
		TTL:           ttl,
		IdleTTL:       idleTTL,
		SweepInterval: sweep,
		LockTTL:       lockTTL,
		LockTimeout:   lockTimeout,
	}, nil
}

func readGeneratorConfig() (GeneratorConfig, error) {
	timeout, err := commonconfig.DurationSecondsFromEnv("GENERATOR_TIMEOUT_SECONDS", DefaultGeneratorTimeoutSeconds)
	if err != nil {
		return GeneratorConfig{}, fmt.Errorf("read GENERATOR_TIMEOUT_SECONDS failed: %w", err)
	}
	window, err := commonconfig.IntFromEnv("GENERATOR_HISTORY_WINDOW", DefaultHistoryWindow)
	if err != nil {
		return GeneratorConfig{}, fmt.Errorf("read GENERATOR_HISTORY_WINDOW failed: %w", err)
	}
	maxTokens, err := commonconfig.IntFromEnv("GENERATOR_MAX_TOKENS", DefaultMaxTokens)
	if err != nil {
		return GeneratorConfig{}, fmt.Errorf("read GENERATOR_MAX_TOKENS failed: %w", err)
	}
	temperature, err := commonconfig.Float64FromEnv("GENERATOR_TEMPERATURE", DefaultTemperature)
	if err != nil {
		return GeneratorConfig{}, fmt.Errorf("read GENERATOR_TEMPERATURE failed: %w", err)
	}
	if timeout <= 0 {
		return GeneratorConfig{}, fmt.Errorf("invalid GENERATOR_TIMEOUT_SECONDS: must be positive")
	}
	if window <= 0 || maxTokens <= 0 {
		return GeneratorConfig{}, fmt.Errorf("invalid generator config: window=%d max_tokens=%d", window, maxTokens)
	}

	return GeneratorConfig{
		APIKey:        commonconfig.StringFromEnvFirstNonEmpty([]string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}, ""),
		Model:         commonconfig.StringFromEnv("GEMINI_MODEL", DefaultGeminiModel),
		Timeout:       timeout,
		HistoryWindow: window,
		MaxTokens:     maxTokens,
		Temperature:   temperature,
	}, nil
}

func readAdminConfig() (AdminConfig, error) {
	ttlHours, err := commonconfig.IntFromEnv("ADMIN_TOKEN_TTL_HOURS", DefaultAdminTokenTTLHours)
	if err != nil {
		return AdminConfig{}, fmt.Errorf("read ADMIN_TOKEN_TTL_HOURS failed: %w", err)
	}
	ratePerMinute, err := commonconfig.IntFromEnv("ADMIN_LOGIN_RATE_PER_MINUTE", DefaultLoginRatePerMinute)
	if err != nil {
		return AdminConfig{}, fmt.Errorf("read ADMIN_LOGIN_RATE_PER_MINUTE failed: %w", err)
	}
	burst, err := commonconfig.IntFromEnv("ADMIN_LOGIN_BURST", DefaultLoginBurst)
	if err != nil {
		return AdminConfig{}, fmt.Errorf("read ADMIN_LOGIN_BURST failed: %w", err)
	}
	if ttlHours <= 0 || ratePerMinute <= 0 || burst <= 0 {
		return AdminConfig{}, fmt.Errorf("invalid admin config: ttl_hours=%d rate=%d burst=%d", ttlHours, ratePerMinute, burst)
	}

	return AdminConfig{
		Username:           commonconfig.StringFromEnv("ADMIN_USERNAME", DefaultAdminUsername),
		PasswordHash:       commonconfig.StringFromEnv("ADMIN_PASSWORD_HASH", ""),
		Password:           commonconfig.StringFromEnv("ADMIN_PASSWORD", ""),
		JWTSecret:          commonconfig.StringFromEnv("JWT_SECRET", ""),
		TokenTTL:           time.Duration(ttlHours) * time.Hour,
		LoginRatePerMinute: ratePerMinute,
		LoginBurst:         burst,
	}, nil
}

func readCatalogConfig() (CatalogConfig, error) {
	size, err := commonconfig.IntFromEnv("CATALOG_CACHE_SIZE", DefaultCatalogCacheSize)
	if err != nil {
		return CatalogConfig{}, fmt.Errorf("read CATALOG_CACHE_SIZE failed: %w", err)
	}
	ttl, err := commonconfig.DurationSecondsFromEnv("CATALOG_CACHE_TTL_SECONDS", DefaultCatalogCacheTTLSeconds)
	if err != nil {
		return CatalogConfig{}, fmt.Errorf("read CATALOG_CACHE_TTL_SECONDS failed: %w", err)
	}
	seed, err := commonconfig.BoolFromEnv("CATALOG_SEED_DEFAULTS", true)
	if err != nil {
		return CatalogConfig{}, fmt.Errorf("read CATALOG_SEED_DEFAULTS failed: %w", err)
	}
	return CatalogConfig{CacheSize: size, CacheTTL: ttl, SeedDefaults: seed}, nil
}
