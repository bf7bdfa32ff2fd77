package valkeyx

import (
	"errors"
	"strings"

	"github.com/valkey-io/valkey-go"

	cerrors "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/errors"
)

// WrapRedisError: Valkey 관련 에러를 공통 타입으로 감싼다.
func WrapRedisError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return cerrors.RedisError{Operation: operation, Err: err}
}

// IsNoScript: EVALSHA 대상 스크립트가 서버에 없을 때의 에러인지 확인한다.
func IsNoScript(err error) bool {
	if err == nil {
		return false
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		if verr, ok := valkey.IsValkeyErr(e); ok && verr.IsNoScript() {
			return true
		}
	}
	return strings.HasPrefix(err.Error(), "NOSCRIPT")
}
