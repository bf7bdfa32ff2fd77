//go:build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/httpapi"
)

var chatGameProviderSet = wire.NewSet(
	newChatGameTelemetry,
	newChatGameMessageProvider,
	newChatGameDB,
	newChatGameRepository,
	newChatGameSessions,
	newChatGameGenerator,
	newChatGameAuthService,
	newChatGameLoginLimiter,
	newChatGameCatalogService,
	newChatGameGameService,
	httpapi.NewHandler,
	newChatGameRouter,
	newChatGameHTTPServer,
	newChatGameServerApp,
)
