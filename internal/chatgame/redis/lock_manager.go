package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/valkey-io/valkey-go"

	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/assets"
	commonconfig "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/config"
	cerrors "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/errors"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/lockutil"
	luautil "github.com/park285/llm-kakao-bots/chat-game-go/internal/common/lua"
	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/valkeyx"
)

var errLockHeld = errors.New("lock held by another request")

// lockRenewMinInterval: 갱신 주기 하한. 주기는 ttl/3 이다.
const lockRenewMinInterval = 100 * time.Millisecond

// LockManager: 세션별 배타 락. SET NX PX 로 획득하고 토큰이 일치할 때만 Lua 로 해제한다.
// 보유 중에는 watchdog 이 TTL 을 연장하므로 block 이 ttl 보다 오래 걸려도 락을 잃지 않는다.
// 같은 Context Scope 안에서는 재진입할 수 있다.
type LockManager struct {
	client   valkey.Client
	logger   *slog.Logger
	registry *luautil.Registry

	ttl              time.Duration
	renewInterval    time.Duration
	waitTimeout      time.Duration
	redisCallTimeout time.Duration
}

// NewLockManager: 락 해제 스크립트를 등록하고 미리 적재한다. 적재 실패는 경고만 남긴다. (EVALSHA 가 NOSCRIPT 시 EVAL 로 대체됨)
func NewLockManager(ctx context.Context, client valkey.Client, logger *slog.Logger, ttl time.Duration, waitTimeout time.Duration) *LockManager {
	registry := luautil.NewRegistry(
		luautil.Script{Name: luautil.ScriptLockRelease, Source: assets.LockReleaseLua},
		luautil.Script{Name: luautil.ScriptLockRenew, Source: assets.LockRenewLua},
	)
	if err := registry.Preload(ctx, client); err != nil && logger != nil {
		logger.Warn("lua_preload_failed", "component", "chatgame_lock_manager", "err", err)
	}
	return &LockManager{
		client:           client,
		logger:           logger,
		registry:         registry,
		ttl:              ttl,
		renewInterval:    max(ttl/3, lockRenewMinInterval),
		waitTimeout:      waitTimeout,
		redisCallTimeout: 5 * time.Second,
	}
}

// WithLock: 락을 잡은 상태에서 block 을 실행한다. block 이 어떻게 끝나든 락은 해제된다.
func (m *LockManager) WithLock(ctx context.Context, sessionID string, block func(ctx context.Context) error) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return fmt.Errorf("session id is empty")
	}

	key := lockKey(sessionID)
	ctx, scope := lockutil.EnsureScope(ctx)
	if scope.IncrementIfHeld(key) {
		defer scope.ReleaseIfLast(key)
		return block(ctx)
	}

	token, err := lockutil.NewToken()
	if err != nil {
		return fmt.Errorf("generate lock token failed: %w", err)
	}

	if err := m.acquireWithRetry(ctx, sessionID, key, token); err != nil {
		return err
	}

	renewCancel := m.startRenewWatchdog(ctx, sessionID, key, token)
	scope.Set(key, lockutil.HeldLock{Token: token, Count: 1, StopRenew: renewCancel})
	defer m.releaseIfLast(ctx, scope, key, sessionID)

	m.logger.Debug("lock_acquired", "session_id", sessionID)
	return block(ctx)
}

func (m *LockManager) acquire(ctx context.Context, key string, token string) error {
	cmd := m.client.B().Set().Key(key).Value(token).Nx().Px(m.ttl).Build()
	err := m.client.Do(ctx, cmd).Error()
	if err == nil {
		return nil
	}
	if valkeyx.IsNil(err) {
		return errLockHeld
	}
	return backoff.Permanent(valkeyx.WrapRedisError("lock_acquire", err))
}

// acquireWithRetry: 경합 시 waitTimeout 안에서 지수 백오프로 재시도한다.
func (m *LockManager) acquireWithRetry(ctx context.Context, sessionID string, key string, token string) error {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = commonconfig.LockRetryInitialMillis * time.Millisecond
	expBackoff.MaxInterval = commonconfig.LockRetryMaxMillis * time.Millisecond
	expBackoff.MaxElapsedTime = m.waitTimeout

	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		return m.acquire(ctx, key, token)
	}, backoff.WithContext(expBackoff, ctx))
	if err == nil {
		if attempts > 1 {
			m.logger.Debug("lock_acquired_after_retry", "session_id", sessionID, "attempts", attempts)
		}
		return nil
	}

	if errors.Is(err, errLockHeld) {
		m.logger.Debug("lock_acquire_timeout", "session_id", sessionID, "attempts", attempts)
		return cerrors.LockError{SessionID: sessionID, Description: "failed to acquire lock after retries"}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("lock acquire canceled: %w", ctxErr)
	}
	return err
}

func (m *LockManager) releaseIfLast(ctx context.Context, scope *lockutil.Scope, key string, sessionID string) {
	held, last := scope.ReleaseIfLast(key)
	if !last {
		return
	}
	if held.StopRenew != nil {
		held.StopRenew()
	}

	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.redisCallTimeout)
	defer cancel()

	resp, err := m.registry.Exec(releaseCtx, m.client, luautil.ScriptLockRelease, []string{key}, []string{held.Token})
	if err == nil {
		err = resp.Error()
	}
	if err != nil {
		m.logger.Warn("lock_release_failed", "session_id", sessionID, "err", err)
		return
	}
	m.logger.Debug("lock_released", "session_id", sessionID)
}

// renew: 토큰이 일치하면 TTL 을 ttl 로 되돌린다. 이미 다른 소유자로 넘어갔으면 false.
func (m *LockManager) renew(ctx context.Context, key string, token string) (bool, error) {
	ttlArg := strconv.FormatInt(m.ttl.Milliseconds(), 10)
	resp, err := m.registry.Exec(ctx, m.client, luautil.ScriptLockRenew, []string{key}, []string{token, ttlArg})
	if err != nil {
		return false, fmt.Errorf("lock renew script missing: %w", err)
	}
	n, err := resp.AsInt64()
	if err != nil {
		return false, valkeyx.WrapRedisError("lock_renew", err)
	}
	return n == 1, nil
}

// startRenewWatchdog: 락 해제 전까지 renewInterval 마다 TTL 을 연장한다. 반환된 cancel 로 멈춘다.
func (m *LockManager) startRenewWatchdog(ctx context.Context, sessionID string, key string, token string) context.CancelFunc {
	renewCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	go func() {
		ticker := time.NewTicker(m.renewInterval)
		defer ticker.Stop()

		for {
			select {
			case <-renewCtx.Done():
				return
			case <-ticker.C:
				callCtx, callCancel := context.WithTimeout(renewCtx, m.redisCallTimeout)
				renewed, err := m.renew(callCtx, key, token)
				callCancel()
				if renewCtx.Err() != nil {
					return
				}
				if err != nil {
					m.logger.Warn("lock_renew_failed", "session_id", sessionID, "err", err)
					return
				}
				if !renewed {
					m.logger.Warn("lock_renew_rejected", "session_id", sessionID)
					return
				}
			}
		}
	}()

	return cancel
}
