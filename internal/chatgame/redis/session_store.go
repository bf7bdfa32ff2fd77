package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	cgconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/config"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/gamesession"
)

// SessionStore: 게임 세션을 chatgame:session:{id} 키에 JSON 으로 저장한다.
type SessionStore struct {
	store *gamesession.Store[model.Session]
}

// NewSessionStore: SessionStore 를 생성한다.
func NewSessionStore(client valkey.Client, logger *slog.Logger, ttl time.Duration) *SessionStore {
	return &SessionStore{
		store: gamesession.NewStore[model.Session](client, logger, gamesession.Config{
			Prefix: cgconfig.RedisKeySessionPrefix,
			TTL:    ttl,
		}),
	}
}

// Save: 세션을 저장하고 TTL 을 갱신한다.
func (s *SessionStore) Save(ctx context.Context, session *model.Session) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}
	return s.store.Save(ctx, session.ID, *session)
}

// Load: 세션을 조회한다. 없으면 nil.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*model.Session, error) {
	return s.store.Load(ctx, sessionID)
}

// Touch: 조회된 세션의 TTL 을 처음 값으로 되돌린다. 키가 없으면 false.
func (s *SessionStore) Touch(ctx context.Context, sessionID string) (bool, error) {
	return s.store.RefreshTTL(ctx, sessionID)
}

// Exists: 세션 키 존재 여부
func (s *SessionStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	return s.store.Exists(ctx, sessionID)
}

// Delete: 세션을 삭제하고 존재했는지 반환한다.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	return s.store.Delete(ctx, sessionID)
}

// List: 관리자 목록용으로 최대 limit 개 세션을 반환한다.
func (s *SessionStore) List(ctx context.Context, limit int) ([]model.Session, error) {
	return s.store.List(ctx, limit)
}
