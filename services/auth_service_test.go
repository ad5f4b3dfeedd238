package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/childcheck-app/cache"
)

func TestRegisterAndLoginStaff(t *testing.T) {
	db := setupServiceDB(t)
	bl := cache.NewMemoryBlacklist(time.Minute)
	t.Cleanup(bl.Close)
	svc := NewAuthService(db, bl)

	res := svc.RegisterStaff("Maria", "Tan", "maria@example.com", "password123", "")
	assert.True(t, res.Success)
	assert.Equal(t, 201, res.StatusCode)

	// Role kosong -> default staff
	login := svc.Login("maria@example.com", "password123")
	assert.True(t, login.Success)
	data := login.Data.(LoginResponse)
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "staff", data.Staff.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := setupServiceDB(t)
	bl := cache.NewMemoryBlacklist(time.Minute)
	t.Cleanup(bl.Close)
	svc := NewAuthService(db, bl)

	assert.True(t, svc.RegisterStaff("Maria", "Tan", "maria@example.com", "password123", "staff").Success)

	wrongPassword := svc.Login("maria@example.com", "wrong-password")
	unknownEmail := svc.Login("nobody@example.com", "password123")

	assert.Equal(t, 401, wrongPassword.StatusCode)
	assert.Equal(t, 401, unknownEmail.StatusCode)
	// Pesan sama untuk email tak dikenal dan password salah
	assert.Equal(t, wrongPassword.Err, unknownEmail.Err)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	db := setupServiceDB(t)
	bl := cache.NewMemoryBlacklist(time.Minute)
	t.Cleanup(bl.Close)
	svc := NewAuthService(db, bl)

	assert.True(t, svc.RegisterStaff("Maria", "Tan", "maria@example.com", "password123", "staff").Success)

	res := svc.RegisterStaff("Other", "Person", "maria@example.com", "password456", "staff")
	assert.False(t, res.Success)
	assert.Equal(t, 409, res.StatusCode)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	db := setupServiceDB(t)
	bl := cache.NewMemoryBlacklist(time.Minute)
	t.Cleanup(bl.Close)
	svc := NewAuthService(db, bl)

	res := svc.Logout(context.Background(), "some-bearer-token")
	assert.True(t, res.Success)

	revoked, err := bl.IsBlacklisted(context.Background(), "some-bearer-token")
	assert.NoError(t, err)
	assert.True(t, revoked)
}
