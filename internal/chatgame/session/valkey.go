package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cgerr "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/errors"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
	cgredis "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/redis"
)

// ValkeyRegistry: Valkey 에 세션을 두고 분산 락으로 직렬화하는 Registry.
type ValkeyRegistry struct {
	store  *cgredis.SessionStore
	locks  *cgredis.LockManager
	newID  IDGenerator
	now    func() time.Time
	logger *slog.Logger
}

// NewValkeyRegistry: ValkeyRegistry 를 생성한다.
func NewValkeyRegistry(store *cgredis.SessionStore, locks *cgredis.LockManager, logger *slog.Logger) *ValkeyRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValkeyRegistry{
		store:  store,
		locks:  locks,
		newID:  uuid.NewString,
		now:    time.Now,
		logger: logger,
	}
}

// Create: 존재하지 않는 id 를 골라 세션을 저장한다.
func (r *ValkeyRegistry) Create(ctx context.Context, item model.CatalogItem) (*model.Session, error) {
	for attempt := 0; attempt < 3; attempt++ {
		id := r.newID()
		exists, err := r.store.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}
		s := model.NewSession(id, item, r.now().UTC())
		if err := r.store.Save(ctx, s); err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("allocate session id failed")
}

// Get: 세션을 조회하고 TTL 을 연장한다. 읽기만 하는 세션도 활동 중이면 만료되지 않는다.
func (r *ValkeyRegistry) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	s, err := r.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, cgerr.SessionNotFoundError{SessionID: sessionID}
	}
	if _, err := r.store.Touch(ctx, sessionID); err != nil {
		r.logger.Warn("session_touch_failed", "session_id", sessionID, "err", err)
	}
	return s, nil
}

// Save: 기존 세션을 덮어쓰고 TTL 을 갱신한다.
func (r *ValkeyRegistry) Save(ctx context.Context, session *model.Session) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}
	exists, err := r.store.Exists(ctx, session.ID)
	if err != nil {
		return err
	}
	if !exists {
		return cgerr.SessionNotFoundError{SessionID: session.ID}
	}
	return r.store.Save(ctx, session)
}

// Remove: 세션을 읽은 뒤 삭제한다.
func (r *ValkeyRegistry) Remove(ctx context.Context, sessionID string) (*model.Session, error) {
	s, err := r.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	existed, err := r.store.Delete(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !existed {
		return nil, cgerr.SessionNotFoundError{SessionID: sessionID}
	}
	return s, nil
}

// List: SCAN 으로 최대 limit 개 세션을 읽는다.
func (r *ValkeyRegistry) List(ctx context.Context, limit int) ([]*model.Session, error) {
	sessions, err := r.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Session, 0, len(sessions))
	for i := range sessions {
		out = append(out, &sessions[i])
	}
	return out, nil
}

// WithLock: 분산 락 아래에서 fn 을 실행한다.
func (r *ValkeyRegistry) WithLock(ctx context.Context, sessionID string, fn func(ctx context.Context) error) error {
	return r.locks.WithLock(ctx, sessionID, fn)
}
