package config

// ServiceName 은 로그/트레이스에 쓰이는 서비스 이름이다.
const (
	ServiceName = "chatgame"
	LogFileName = "chatgame.log"
)

// 세션 저장소 백엔드.
const (
	SessionBackendMemory = "memory"
	SessionBackendValkey = "valkey"
)

// Redis 키 상수 목록.
const (
	RedisKeyPrefix        = "chatgame"
	RedisKeySessionPrefix = RedisKeyPrefix + ":session"
	RedisKeyLockPrefix    = RedisKeyPrefix + ":lock"
)

// 세션 기본값 (초).
const (
	DefaultSessionTTLSeconds       = 24 * 60 * 60
	DefaultSessionIdleTTLSeconds   = 2 * 60 * 60
	DefaultSweepIntervalSeconds    = 5 * 60
	DefaultLockTTLSeconds          = 60
	DefaultLockWaitTimeoutSeconds  = 35
	DefaultAdminSessionListLimit   = 200
	DefaultRecentResultsListLimit  = 50
	DefaultGeneratorTimeoutSeconds = 30
)

// 응답 생성 기본값.
const (
	DefaultGeminiModel     = "gemini-2.0-flash"
	DefaultHistoryWindow   = 5
	DefaultMaxTokens       = 300
	DefaultTemperature     = 0.7
	MaxPlayerMessageLength = 1000
	MaxReplyLength         = 2000 // 저장되는 캐릭터 응답 최대 문자 수
)

// 관리자 기본값.
const (
	DefaultAdminUsername      = "admin"
	DefaultAdminTokenTTLHours = 24
	DefaultLoginRatePerMinute = 10
	DefaultLoginBurst         = 5
)

// 카탈로그 캐시 기본값.
const (
	DefaultCatalogCacheSize       = 256
	DefaultCatalogCacheTTLSeconds = 60
	DefaultSQLitePath             = "data/chatgame.db"
	DefaultDatabaseName           = "chatgame"
	DefaultServerPort             = 8080
	DefaultValkeyHost             = "localhost"
	DefaultValkeyPort             = 6379
)
