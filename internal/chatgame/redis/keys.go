package redis

import (
	cgconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/config"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/valkeyx"
)

func sessionKey(sessionID string) string {
	return valkeyx.BuildKey(cgconfig.RedisKeySessionPrefix, sessionID)
}

func lockKey(sessionID string) string {
	return valkeyx.BuildKey(cgconfig.RedisKeyLockPrefix, sessionID)
}
