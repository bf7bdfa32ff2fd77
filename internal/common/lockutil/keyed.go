package lockutil

import (
	"context"
	"sync"
)

// KeyedMutex: 키별 배타 락입니다. 대기 중인 호출자가 없으면 엔트리를 정리합니다.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*keyedEntry
}

type keyedEntry struct {
	ch      chan struct{}
	waiters int
}

// NewKeyedMutex: 빈 KeyedMutex 를 생성합니다.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*keyedEntry)}
}

// Lock: key 에 대한 락을 획득할 때까지 대기합니다. ctx 가 먼저 끝나면 에러를 반환합니다.
// 반환된 unlock 은 정확히 한 번 호출해야 합니다.
func (m *KeyedMutex) Lock(ctx context.Context, key string) (unlock func(), err error) {
	m.mu.Lock()
	entry, ok := m.entries[key]
	if !ok {
		entry = &keyedEntry{ch: make(chan struct{}, 1)}
		m.entries[key] = entry
	}
	entry.waiters++
	m.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		m.leave(key, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.ch
			m.leave(key, entry)
		})
	}, nil
}

// TryLock: 대기하지 않고 락을 시도합니다. 이미 잡혀 있으면 ok=false 입니다.
func (m *KeyedMutex) TryLock(key string) (unlock func(), ok bool) {
	m.mu.Lock()
	entry, exists := m.entries[key]
	if !exists {
		entry = &keyedEntry{ch: make(chan struct{}, 1)}
		m.entries[key] = entry
	}
	entry.waiters++
	m.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	default:
		m.leave(key, entry)
		return nil, false
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.ch
			m.leave(key, entry)
		})
	}, true
}

func (m *KeyedMutex) leave(key string, entry *keyedEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.waiters--
	if entry.waiters == 0 {
		delete(m.entries, key)
	}
}

// Len: 현재 추적 중인 키 개수를 반환합니다.
func (m *KeyedMutex) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
