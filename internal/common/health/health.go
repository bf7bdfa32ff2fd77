// Package health: 서비스 상태 정보
package health

import (
	"runtime"
	"sync"
	"time"
)

var (
	startTime = time.Now()
	version   = "dev"
	initOnce  sync.Once
)

// Init: 서비스 시작 시 호출 (버전 정보 설정)
func Init(v string) {
	initOnce.Do(func() {
		startTime = time.Now()
		if v != "" {
			version = v
		}
	})
}

// Response: /api/health 표준 응답
type Response struct {
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	Goroutines int    `json:"goroutines"`
}

// Get: 현재 상태 반환
func Get() Response {
	return Response{
		Status:     "online",
		Version:    version,
		Uptime:     Uptime().Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
	}
}

// Uptime: 서비스 시작 이후 경과 시간
func Uptime() time.Duration {
	return time.Since(startTime)
}

// Version: 설정된 서비스 버전
func Version() string {
	return version
}
