package httpserver

import (
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// h2cMaxConcurrentStreams: 연결당 동시 스트림 상한
const h2cMaxConcurrentStreams = 100

// newH2CServer: HTTP/1.1 서버와 같은 유휴 타임아웃을 쓰는 HTTP/2 설정
func newH2CServer(opts ServerOptions) *http2.Server {
	return &http2.Server{
		IdleTimeout:          opts.IdleTimeout,
		MaxConcurrentStreams: h2cMaxConcurrentStreams,
	}
}

// WrapH2C: prior knowledge 와 Upgrade 방식의 평문 HTTP/2 (h2c) 를 모두 받도록 핸들러를 감쌉니다.
func WrapH2C(handler http.Handler, opts ServerOptions) http.Handler {
	return h2c.NewHandler(handler, newH2CServer(opts))
}
