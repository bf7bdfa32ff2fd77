// Package testhelper 는 테스트에서 공통으로 쓰는 인메모리 Valkey/DB 픽스처를 제공한다.
package testhelper

import (
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/valkey-io/valkey-go"
)

// NewTestValkeyClient: miniredis 를 띄우고 연결된 Valkey 클라이언트를 반환합니다.
// 테스트 종료 시 클라이언트와 서버를 정리합니다.
func NewTestValkeyClient(t *testing.T) (valkey.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{mr.Addr()},
		DisableCache:      true,
		ForceSingleClient: true,
	})
	if err != nil {
		t.Fatalf("valkey client create failed: %v", err)
	}
	t.Cleanup(client.Close)

	return client, mr
}

// DiscardLogger: 출력을 버리는 로거를 반환합니다.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
