// Package cache holds assembled catalog and cart payloads between requests.
// Cart mutations drop the whole cache so stock and line changes show up on
// the next navigation.
package cache

import (
	"sync"
	"time"
)

const DefaultTTL = 5 * time.Minute

type item struct {
	data      any
	fetchedAt time.Time
}

type Views struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]item
}

func New(ttl time.Duration) *Views {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Views{ttl: ttl, m: map[string]item{}}
}

func (v *Views) Get(key string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	it, ok := v.m[key]
	if !ok || time.Since(it.fetchedAt) >= v.ttl {
		return nil, false
	}
	return it.data, true
}

func (v *Views) Set(key string, data any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.m[key] = item{data: data, fetchedAt: time.Now()}
}

// Invalidate drops every cached view. Called on any successful cart
// mutation; catalog admin runs out-of-band, so the TTL covers it.
func (v *Views) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.m = map[string]item{}
}
