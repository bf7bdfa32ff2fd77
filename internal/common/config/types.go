package config

import "time"

// ServerConfig: HTTP 서버 주소/포트 설정입니다.
type ServerConfig struct {
	Host string // 서버 바인딩 호스트
	Port int    // 서버 리스닝 포트
}

// ServerTuningConfig: HTTP 서버 튜닝 설정(Timeouts, Limits)입니다.
type ServerTuningConfig struct {
	UseH2C            bool
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	ShutdownTimeout   time.Duration
}

// RedisConfig: Valkey 연결 설정입니다.
type RedisConfig struct {
	Host     string // 서버 호스트
	Port     int    // 서버 포트
	Password string // 인증 패스워드
	DB       int    // 사용할 DB 번호

	DialTimeout  time.Duration // 연결 타임아웃
	WriteTimeout time.Duration // 쓰기 타임아웃
}

// LogConfig: 로그 레벨과 파일 로그 로테이션 설정입니다.
type LogConfig struct {
	Level string // debug/info/warn/error
	Dir   string // 로그 파일 디렉터리 (비어있으면 콘솔만)

	MaxSizeMB  int  // 단일 파일 최대 크기 (MB)
	MaxBackups int  // 보관할 백업 파일 수
	MaxAgeDays int  // 백업 파일 보관 일수
	Compress   bool // 백업 파일 압축 여부
}

// DatabaseConfig: gorm 데이터베이스 연결 설정입니다.
type DatabaseConfig struct {
	Driver string // sqlite | postgres

	// sqlite
	Path string

	// postgres
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	OpenMaxElapsed  time.Duration // 초기 연결 재시도 총 허용 시간
}

// TelemetryConfig: OpenTelemetry 트레이싱 설정입니다.
type TelemetryConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	OTLPInsecure   bool
	SampleRate     float64
}
