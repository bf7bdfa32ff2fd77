// Package session 은 게임 세션 레지스트리(생성/조회/저장/삭제 + 세션별 락)를 제공한다.
package session

import (
	"context"

	"github.com/park285/llm-kakao-bots/chat-game-go/internal/chatgame/model"
)

// Registry: 세션 저장소 계약. 반환되는 세션은 호출자 소유의 사본이다.
type Registry interface {
	// Create: 새 세션 id 를 발급하고 항목 스냅샷으로 세션을 만든다.
	Create(ctx context.Context, item model.CatalogItem) (*model.Session, error)
	// Get: 없으면 SessionNotFoundError.
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	// Save: 이미 존재하는 세션만 덮어쓴다. 없으면 SessionNotFoundError.
	Save(ctx context.Context, session *model.Session) error
	// Remove: 삭제하고 삭제된 세션을 반환한다. 없으면 SessionNotFoundError.
	Remove(ctx context.Context, sessionID string) (*model.Session, error)
	// List: 관리자 조회용. limit 이하로 반환한다.
	List(ctx context.Context, limit int) ([]*model.Session, error)
	// WithLock: 같은 세션에 대한 fn 실행을 직렬화한다. 어떤 경로로 끝나든 락은 풀린다.
	WithLock(ctx context.Context, sessionID string, fn func(ctx context.Context) error) error
}

// IDGenerator: 세션 id 발급 함수
type IDGenerator func() string
