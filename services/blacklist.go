package services

import (
	"sync"
	"time"
)

// TokenBlacklist remembers revoked session token ids until the tokens would have expired anyway.
type TokenBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{revoked: make(map[string]time.Time)}
}

func (b *TokenBlacklist) Add(tokenID string, expiresAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[tokenID] = expiresAt
}

func (b *TokenBlacklist) Contains(tokenID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.revoked[tokenID]
	return ok
}

// Prune drops entries whose tokens have expired by now and returns how many were removed.
func (b *TokenBlacklist) Prune(now time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	removed := 0
	for id, exp := range b.revoked {
		if !exp.After(now) {
			delete(b.revoked, id)
			removed++
		}
	}
	return removed
}

func (b *TokenBlacklist) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.revoked)
}
