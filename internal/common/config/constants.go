package config

// DefaultServiceVersion: 빌드 시 주입되지 않았을 때 보고할 서비스 버전입니다.
const DefaultServiceVersion = "0.1.0"

// HTTP 공통 상수.
const (
	// MaxRequestBodyBytes: JSON 요청 본문 최대 크기 (1MiB)
	MaxRequestBodyBytes = 1 << 20
	// GzipMinLength: 이 크기 미만의 응답은 압축하지 않음
	GzipMinLength = 1024
)

// Valkey 락 상수.
const (
	// LockRetryInitialMillis: 락 재시도 초기 대기(ms)
	LockRetryInitialMillis = 50
	// LockRetryMaxMillis: 락 재시도 최대 대기(ms)
	LockRetryMaxMillis = 500
)
