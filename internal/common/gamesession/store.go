package gamesession

import (
	"context"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	cerrors "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/errors"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/valkeyx"
)

// Store: 게임 세션 상태를 Valkey 에 JSON 으로 저장하는 제네릭 저장소입니다.
// 키 프리픽스/TTL/데이터 타입만 주입하여 같은 저장 로직을 재사용합니다.
type Store[T any] struct {
	client valkey.Client
	logger *slog.Logger
	prefix string
	ttl    time.Duration
}

// Config: 세션 저장소 생성에 필요한 설정 정보입니다.
type Config struct {
	Prefix string
	TTL    time.Duration
}

// NewStore: 새로운 제네릭 세션 저장소를 생성합니다.
func NewStore[T any](client valkey.Client, logger *slog.Logger, cfg Config) *Store[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[T]{
		client: client,
		logger: logger,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}
}

// Key: 세션 ID 에 대응하는 Valkey 키를 반환합니다.
func (s *Store[T]) Key(sessionID string) string {
	return valkeyx.BuildKey(s.prefix, sessionID)
}

// Save: 세션 데이터를 JSON 으로 직렬화하여 TTL 과 함께 저장합니다.
func (s *Store[T]) Save(ctx context.Context, sessionID string, data T) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return cerrors.RedisError{Operation: "session_marshal", Err: err}
	}

	if err := valkeyx.SetStringEX(ctx, s.client, s.Key(sessionID), string(payload), s.ttl); err != nil {
		return cerrors.RedisError{Operation: "session_save", Err: err}
	}

	s.logger.Debug("session_saved", "session_id", sessionID)
	return nil
}

// Load: 저장된 세션을 읽어옵니다. 없거나 만료되었으면 nil 을 반환합니다.
func (s *Store[T]) Load(ctx context.Context, sessionID string) (*T, error) {
	raw, ok, err := valkeyx.GetBytes(ctx, s.client, s.Key(sessionID))
	if err != nil {
		return nil, cerrors.RedisError{Operation: "session_load", Err: err}
	}
	if !ok {
		return nil, nil
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, cerrors.RedisError{Operation: "session_unmarshal", Err: err}
	}
	return &data, nil
}

// Delete: 세션을 삭제하고 실제로 존재했는지 여부를 반환합니다.
func (s *Store[T]) Delete(ctx context.Context, sessionID string) (bool, error) {
	n, err := valkeyx.DeleteKeys(ctx, s.client, s.Key(sessionID))
	if err != nil {
		return false, cerrors.RedisError{Operation: "session_delete", Err: err}
	}
	s.logger.Debug("session_deleted", "session_id", sessionID, "existed", n > 0)
	return n > 0, nil
}

// Exists: 세션이 존재하는지 확인합니다.
func (s *Store[T]) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Do(ctx, s.client.B().Exists().Key(s.Key(sessionID)).Build()).AsInt64()
	if err != nil {
		return false, cerrors.RedisError{Operation: "session_exists", Err: err}
	}
	return n > 0, nil
}

// RefreshTTL: 세션의 TTL 을 연장합니다.
func (s *Store[T]) RefreshTTL(ctx context.Context, sessionID string) (bool, error) {
	ok, err := valkeyx.Expire(ctx, s.client, s.Key(sessionID), s.ttl)
	if err != nil {
		return false, cerrors.RedisError{Operation: "session_refresh_ttl", Err: err}
	}
	return ok, nil
}

// List: 프리픽스 아래의 세션을 최대 limit 개까지 읽어옵니다. (관리자 조회용)
// 스캔과 조회 사이에 만료된 키는 건너뜁니다.
func (s *Store[T]) List(ctx context.Context, limit int) ([]T, error) {
	keys, err := valkeyx.ScanKeys(ctx, s.client, valkeyx.KeyPattern(s.prefix), limit)
	if err != nil {
		return nil, cerrors.RedisError{Operation: "session_scan", Err: err}
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := s.client.Do(ctx, s.client.B().Mget().Key(keys...).Build()).ToArray()
	if err != nil {
		return nil, cerrors.RedisError{Operation: "session_mget", Err: err}
	}

	out := make([]T, 0, len(values))
	for i, v := range values {
		raw, err := v.ToString()
		if err != nil {
			if valkeyx.IsNil(err) {
				continue
			}
			return nil, cerrors.RedisError{Operation: "session_mget", Err: err}
		}
		var data T
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			s.logger.Warn("session_decode_skipped", "key", keys[i], "err", err)
			continue
		}
		out = append(out, data)
	}
	return out, nil
}
