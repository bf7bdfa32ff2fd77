package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Serve: HTTP 서버를 시작하고 ctx 가 끝나면 shutdownTimeout 안에서 graceful shutdown 합니다.
func Serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error {
	lis, err := (&net.ListenConfig{}).Listen(ctx, "tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("http server listen failed: %w", err)
	}
	return ServeListener(ctx, server, lis, shutdownTimeout)
}

// ServeListener: 이미 열린 리스너로 서버를 구동합니다. (테스트에서 임의 포트 사용)
func ServeListener(ctx context.Context, server *http.Server, lis net.Listener, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(lis)
	}()

	select {
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server serve failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}

		err := <-errCh
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server stopped with error: %w", err)
	}
}
