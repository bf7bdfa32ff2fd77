// Package cache 는 프로세스 로컬 캐시를 제공한다.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// TTLLRU: 항목마다 만료 시각을 갖는 제네릭 LRU 캐시입니다. nil 캐시는 항상 miss 입니다.
type TTLLRU[K comparable, V any] struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	items      map[K]*list.Element
	order      *list.List
	now        func() time.Time
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// NewTTLLRU: TTL LRU 캐시를 생성합니다. maxEntries 나 ttl 이 0 이하이면 nil(비활성) 을 반환합니다.
func NewTTLLRU[K comparable, V any](maxEntries int, ttl time.Duration) *TTLLRU[K, V] {
	if maxEntries <= 0 || ttl <= 0 {
		return nil
	}
	return &TTLLRU[K, V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		items:      make(map[K]*list.Element, maxEntries),
		order:      list.New(),
		now:        time.Now,
	}
}

// Get: 캐시에서 값을 조회합니다. 만료된 항목은 제거하고 miss 로 처리합니다.
func (c *TTLLRU[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	e := elem.Value.(entry[K, V])
	if !e.expiresAt.After(c.now()) {
		c.removeElement(elem)
		return zero, false
	}

	c.order.MoveToFront(elem)
	return e.value, true
}

// Set: 캐시에 값을 저장하고 용량을 넘으면 가장 오래 쓰이지 않은 항목을 버립니다.
func (c *TTLLRU[K, V]) Set(key K, value V) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry[K, V]{key: key, value: value, expiresAt: c.now().Add(c.ttl)}
	if elem, ok := c.items[key]; ok {
		elem.Value = e
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(e)
	for len(c.items) > c.maxEntries {
		back := c.order.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
	}
}

// Delete: 항목을 제거합니다.
func (c *TTLLRU[K, V]) Delete(key K) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Purge: 모든 항목을 제거합니다.
func (c *TTLLRU[K, V]) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*list.Element, c.maxEntries)
	c.order.Init()
}

// Len: 현재 항목 수(만료 포함)를 반환합니다.
func (c *TTLLRU[K, V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTLLRU[K, V]) removeElement(elem *list.Element) {
	e := elem.Value.(entry[K, V])
	delete(c.items, e.key)
	c.order.Remove(elem)
}
