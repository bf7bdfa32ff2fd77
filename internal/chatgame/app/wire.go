//go:build wireinject

package app

import (
	"context"
	"log/slog"

	"github.com/google/wire"

	cgconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/config"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/bootstrap"
)

//go:generate go run github.com/google/wire/cmd/wire@v0.7.0
func Initialize(
	ctx context.Context,
	cfg *cgconfig.Config,
	logger *slog.Logger,
) (*bootstrap.ServerApp, func(), error) {
	wire.Build(
		chatGameProviderSet,
	)
	return nil, nil, nil
}
