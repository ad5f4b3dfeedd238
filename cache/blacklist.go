package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultBlacklistTTL mengikuti masa berlaku maksimum token yang dicabut.
const DefaultBlacklistTTL = 7 * 24 * time.Hour

// TokenBlacklist adalah key-value store dengan TTL untuk token yang sudah
// logout. Diinject supaya bisa diganti distributed cache saat deploy
// multi-instance.
type TokenBlacklist interface {
	Blacklist(ctx context.Context, token string) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// MemoryBlacklist menyimpan token di map dengan RWMutex, cukup untuk
// deployment single-instance.
type MemoryBlacklist struct {
	ttl       time.Duration
	mu        sync.RWMutex
	tokens    map[string]time.Time
	done      chan struct{}
	closeOnce sync.Once
}

func NewMemoryBlacklist(ttl time.Duration) *MemoryBlacklist {
	if ttl <= 0 {
		ttl = DefaultBlacklistTTL
	}
	bl := &MemoryBlacklist{
		ttl:    ttl,
		tokens: make(map[string]time.Time),
		done:   make(chan struct{}),
	}
	go bl.cleanupLoop()
	return bl
}

// Close menghentikan goroutine sweeper. Aman dipanggil berkali-kali.
// Lookup tetap jalan setelah Close, token kadaluarsa dibuang lazily.
func (b *MemoryBlacklist) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}

func (b *MemoryBlacklist) Blacklist(_ context.Context, token string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = time.Now().Add(b.ttl)
	return nil
}

func (b *MemoryBlacklist) IsBlacklisted(_ context.Context, token string) (bool, error) {
	b.mu.RLock()
	expiry, exists := b.tokens[token]
	b.mu.RUnlock()

	if !exists {
		return false, nil
	}
	if time.Now().After(expiry) {
		b.mu.Lock()
		delete(b.tokens, token)
		b.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// Bersihkan token kadaluarsa secara periodik sampai Close dipanggil
func (b *MemoryBlacklist) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			now := time.Now()
			b.mu.Lock()
			for token, expiry := range b.tokens {
				if now.After(expiry) {
					delete(b.tokens, token)
				}
			}
			b.mu.Unlock()
		}
	}
}

// RedisBlacklist menyimpan token di Redis dengan TTL, untuk deployment
// multi-instance.
type RedisBlacklist struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBlacklist(addr string, ttl time.Duration) *RedisBlacklist {
	if ttl <= 0 {
		ttl = DefaultBlacklistTTL
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &RedisBlacklist{client: client, ttl: ttl}
}

func (b *RedisBlacklist) Blacklist(ctx context.Context, token string) error {
	return b.client.Set(ctx, "blacklist_"+token, "1", b.ttl).Err()
}

func (b *RedisBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := b.client.Exists(ctx, "blacklist_"+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Healthy mengecek konektivitas Redis.
func (b *RedisBlacklist) Healthy(ctx context.Context) bool {
	if b == nil || b.client == nil {
		return false
	}
	return b.client.Ping(ctx).Err() == nil
}
