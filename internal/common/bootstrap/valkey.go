package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/valkey-io/valkey-go"

	commonconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/config"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/valkeyx"
)

// ToValkeyConfig: 세션 저장소용 Valkey 설정을 만듭니다.
// 세션 값은 요청마다 바뀌므로 클라이언트 사이드 캐싱은 끕니다.
func ToValkeyConfig(cfg commonconfig.RedisConfig) valkeyx.Config {
	return valkeyx.Config{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		WriteTimeout: cfg.WriteTimeout,
		DisableCache: true,
	}
}

// NewAndPingValkeyClient: 클라이언트를 만들고 Ping 으로 연결을 확인합니다. 실패하면 닫고 에러를 반환합니다.
func NewAndPingValkeyClient(ctx context.Context, cfg commonconfig.RedisConfig, logger *slog.Logger) (valkey.Client, func(), error) {
	vcfg := ToValkeyConfig(cfg)
	client, err := valkeyx.NewClient(vcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create valkey client failed: %w", err)
	}

	closeFn := func() {
		client.Close()
		logger.Debug("valkey_client_closed", "addr", vcfg.Addr)
	}

	if pingErr := valkeyx.Ping(ctx, client); pingErr != nil {
		closeFn()
		return nil, nil, fmt.Errorf("valkey ping failed (%s): %w", vcfg.Addr, pingErr)
	}

	logger.Info("valkey_connected", "addr", vcfg.Addr, "db", cfg.DB)
	return client, closeFn, nil
}
