package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist remembers revoked tokens until they would have expired anyway.
// It uses Redis when available and falls back to process memory.
type TokenBlacklist struct {
	rc *redis.Client

	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewTokenBlacklist(rc *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rc: rc, revoked: map[string]time.Time{}}
}

func blacklistKey(token string) string { return "jwt:blacklist:" + token }

// Revoke stores token until expiresAt.
func (b *TokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if b.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := b.rc.Set(ctx, blacklistKey(token), "1", ttl).Err(); err == nil {
			return
		}
	}
	b.mu.Lock()
	b.revoked[token] = expiresAt
	b.mu.Unlock()
}

// IsRevoked reports whether token was revoked before its natural expiration.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) bool {
	if b.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		n, err := b.rc.Exists(ctx, blacklistKey(token)).Result()
		if err == nil && n > 0 {
			return true
		}
	}

	b.mu.RLock()
	exp, ok := b.revoked[token]
	b.mu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		b.mu.Lock()
		delete(b.revoked, token)
		b.mu.Unlock()
		return false
	}
	return true
}
