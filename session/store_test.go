package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kycpay-web/database"
	"kycpay-web/models"
	"kycpay-web/utils"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Initialize("file:"+uuid.NewString()+"?mode=memory&cache=shared", false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	sealer, err := utils.NewSealer("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	return NewStore(db, sealer, time.Hour, zap.NewNop())
}

func TestStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sess, err := store.Create(ctx, "asha@example.com", models.TokenPair{Access: "opaque-access", Refresh: "opaque-refresh"}, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Minute)

	var row models.Session
	require.NoError(t, store.db.First(&row, "id = ?", sess.ID).Error)
	assert.NotContains(t, row.SealedAccess, "opaque-access")
	assert.False(t, store.db.Migrator().HasColumn(&models.Session{}, "sealed_refresh"))
	assert.Equal(t, "10.0.0.1", row.IPAddress)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "opaque-access", got.Credential)
	assert.Equal(t, "asha@example.com", got.Email)
}

func TestStore_CreateUsesTokenExpiry(t *testing.T) {
	exp := time.Now().Add(5 * time.Minute).Truncate(time.Second)
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	sess, err := newTestStore(t).Create(context.Background(), "asha@example.com", models.TokenPair{Access: access}, "", "")
	require.NoError(t, err)
	assert.True(t, exp.Equal(sess.ExpiresAt))
}

func TestStore_GetUnknown(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ExpiredSessionIsDeleted(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sess, err := store.Create(ctx, "asha@example.com", models.TokenPair{Access: "opaque"}, "", "")
	require.NoError(t, err)

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrExpired)

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteAndPurge(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first, err := store.Create(ctx, "a@example.com", models.TokenPair{Access: "a"}, "", "")
	require.NoError(t, err)
	_, err = store.Create(ctx, "b@example.com", models.TokenPair{Access: "b"}, "", "")
	require.NoError(t, err)
	_, err = store.Create(ctx, "c@example.com", models.TokenPair{Access: "c"}, "", "")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, first.ID))
	_, err = store.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	n, err = store.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
