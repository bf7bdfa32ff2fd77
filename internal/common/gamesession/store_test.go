package gamesession

import (
	"context"
	"testing"
	"time"

	"github.com/park285/llm-kakao-bots/chat-game-go/internal/common/testhelper"
)

type sample struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func newTestStore(t *testing.T) (*Store[sample], func(time.Duration)) {
	t.Helper()
	client, mr := testhelper.NewTestValkeyClient(t)
	store := NewStore[sample](client, testhelper.DiscardLogger(), Config{Prefix: "test:session", TTL: time.Minute})
	return store, mr.FastForward
}

func TestStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	got, err := store.Load(ctx, "missing")
	if err != nil {
		t.Fatalf("load missing failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing session, got %+v", got)
	}

	if err := store.Save(ctx, "a", sample{ID: "a", Count: 3}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err = store.Load(ctx, "a")
	if err != nil || got == nil {
		t.Fatalf("load failed: %v %v", got, err)
	}
	if got.Count != 3 {
		t.Errorf("expected count 3, got %d", got.Count)
	}

	exists, err := store.Exists(ctx, "a")
	if err != nil || !exists {
		t.Fatalf("expected exists, got %v err=%v", exists, err)
	}

	deleted, err := store.Delete(ctx, "a")
	if err != nil || !deleted {
		t.Fatalf("expected deleted, got %v err=%v", deleted, err)
	}
	deleted, err = store.Delete(ctx, "a")
	if err != nil || deleted {
		t.Fatalf("second delete should report false, got %v err=%v", deleted, err)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	store, fastForward := newTestStore(t)

	if err := store.Save(ctx, "a", sample{ID: "a"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	fastForward(30 * time.Second)
	if ok, err := store.RefreshTTL(ctx, "a"); err != nil || !ok {
		t.Fatalf("refresh failed: %v %v", ok, err)
	}
	fastForward(45 * time.Second)
	if got, _ := store.Load(ctx, "a"); got == nil {
		t.Fatal("expected session alive after refresh")
	}
	fastForward(2 * time.Minute)
	if got, _ := store.Load(ctx, "a"); got != nil {
		t.Fatal("expected session expired")
	}
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Save(ctx, id, sample{ID: id}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(limited))
	}
}
