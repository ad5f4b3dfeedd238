package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryBlacklist(time.Minute)

	revoked, err := bl.IsBlacklisted(ctx, "unknown-token")
	assert.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, bl.Blacklist(ctx, "revoked-token"))

	revoked, err = bl.IsBlacklisted(ctx, "revoked-token")
	assert.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryBlacklistCloseStopsSweeper(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryBlacklist(10 * time.Millisecond)

	assert.NoError(t, bl.Blacklist(ctx, "tok"))
	bl.Close()
	bl.Close() // idempotent

	// Tanpa sweeper, expiry tetap ditegakkan lazily saat lookup
	time.Sleep(20 * time.Millisecond)
	revoked, err := bl.IsBlacklisted(ctx, "tok")
	assert.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryBlacklistExpiry(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryBlacklist(10 * time.Millisecond)

	assert.NoError(t, bl.Blacklist(ctx, "short-lived"))
	time.Sleep(20 * time.Millisecond)

	revoked, err := bl.IsBlacklisted(ctx, "short-lived")
	assert.NoError(t, err)
	assert.False(t, revoked)
}
