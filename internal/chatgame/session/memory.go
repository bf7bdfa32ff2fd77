package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	cgerr "github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/errors"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
	cerrors "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/errors"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/lockutil"
)

// MemoryRegistry: 프로세스 메모리 세션 저장소. 재시작하면 세션은 사라진다.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session

	locks       *lockutil.KeyedMutex
	lockTimeout time.Duration

	newID  IDGenerator
	now    func() time.Time
	logger *slog.Logger
}

// MemoryOption: MemoryRegistry 옵션
type MemoryOption func(*MemoryRegistry)

// WithIDGenerator: 세션 id 발급 함수를 바꾼다. (테스트용)
func WithIDGenerator(gen IDGenerator) MemoryOption {
	return func(r *MemoryRegistry) { r.newID = gen }
}

// WithClock: 현재 시각 함수를 바꾼다. (테스트용)
func WithClock(now func() time.Time) MemoryOption {
	return func(r *MemoryRegistry) { r.now = now }
}

// NewMemoryRegistry: 빈 MemoryRegistry 를 생성한다.
func NewMemoryRegistry(logger *slog.Logger, lockTimeout time.Duration, opts ...MemoryOption) *MemoryRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &MemoryRegistry{
		sessions:    make(map[string]*model.Session),
		locks:       lockutil.NewKeyedMutex(),
		lockTimeout: lockTimeout,
		newID:       uuid.NewString,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create: 중복되지 않는 id 로 세션을 만든다.
func (r *MemoryRegistry) Create(ctx context.Context, item model.CatalogItem) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt < 3; attempt++ {
		id := r.newID()
		if _, exists := r.sessions[id]; exists || id == "" {
			continue
		}
		s := model.NewSession(id, item, r.now().UTC())
		r.sessions[id] = s.Clone()
		return s, nil
	}
	return nil, fmt.Errorf("allocate session id failed")
}

// Get: 세션 사본을 반환한다.
func (r *MemoryRegistry) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, cgerr.SessionNotFoundError{SessionID: sessionID}
	}
	return s.Clone(), nil
}

// Save: 기존 세션을 갱신한다.
func (r *MemoryRegistry) Save(ctx context.Context, session *model.Session) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.ID]; !ok {
		return cgerr.SessionNotFoundError{SessionID: session.ID}
	}
	r.sessions[session.ID] = session.Clone()
	return nil
}

// Remove: 세션을 삭제한다.
func (r *MemoryRegistry) Remove(ctx context.Context, sessionID string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, cgerr.SessionNotFoundError{SessionID: sessionID}
	}
	delete(r.sessions, sessionID)
	return s, nil
}

// List: 최근 갱신 순으로 정렬한 사본 목록
func (r *MemoryRegistry) List(ctx context.Context, limit int) ([]*model.Session, error) {
	r.mu.RLock()
	out := make([]*model.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.Clone())
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *model.Session) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// WithLock: 세션별 뮤텍스를 잡고 fn 을 실행한다. lockTimeout 안에 못 잡으면 LockError.
func (r *MemoryRegistry) WithLock(ctx context.Context, sessionID string, fn func(ctx context.Context) error) error {
	ctx, scope := lockutil.EnsureScope(ctx)
	if scope.IncrementIfHeld(sessionID) {
		defer scope.ReleaseIfLast(sessionID)
		return fn(ctx)
	}

	lockCtx := ctx
	if r.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, r.lockTimeout)
		defer cancel()
	}

	unlock, err := r.locks.Lock(lockCtx, sessionID)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("lock acquire canceled: %w", ctx.Err())
		}
		return cerrors.LockError{SessionID: sessionID, Description: "failed to acquire lock before timeout"}
	}
	defer unlock()

	scope.Set(sessionID, lockutil.HeldLock{Count: 1})
	defer scope.ReleaseIfLast(sessionID)

	return fn(ctx)
}

// Sweep: idleTTL 이상 갱신되지 않은 세션을 삭제하고 삭제 수를 반환한다.
// 턴 처리 중(락 보유 중)인 세션은 건너뛰고 다음 주기에 다시 본다.
func (r *MemoryRegistry) Sweep(idleTTL time.Duration) int {
	if idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().UTC().Add(-idleTTL)

	r.mu.RLock()
	stale := make([]string, 0)
	for id, s := range r.sessions {
		if s.UpdatedAt.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	removed := 0
	for _, id := range stale {
		unlock, ok := r.locks.TryLock(id)
		if !ok {
			r.logger.Debug("session_sweep_skipped_locked", "session_id", id)
			continue
		}
		r.mu.Lock()
		if s, exists := r.sessions[id]; exists && s.UpdatedAt.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
		r.mu.Unlock()
		unlock()
	}
	return removed
}

// RunSweeper: ctx 가 끝날 때까지 interval 마다 Sweep 한다.
func (r *MemoryRegistry) RunSweeper(ctx context.Context, interval time.Duration, idleTTL time.Duration) error {
	if interval <= 0 || idleTTL <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(idleTTL); n > 0 {
				r.logger.Info("stale_sessions_swept", "removed", n, "idle_ttl", idleTTL)
			}
		}
	}
}

// Len: 현재 세션 수
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
