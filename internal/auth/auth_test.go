// internal/auth/auth_test.go
package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtavares97/baiane-lp/internal/common/config"
	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
	"github.com/devtavares97/baiane-lp/internal/common/logger"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := config.AdminConfig{
		Username:   "admin",
		Password:   "super-secret",
		SessionTTL: 24 * 60 * 60 * 1000,
	}
	return NewManager(cfg, rdb, logger.NewNoOpLogger()), mr
}

func assertAuthCode(t *testing.T, err error, code stderrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, code, stdErr.Code)
}

func TestManager_LoginAndValidate(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	token, err := mgr.Login(ctx, "admin", "super-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, mgr.Validate(ctx, token))
}

func TestManager_Login_WrongCredentials(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	_, err := mgr.Login(ctx, "admin", "wrong")
	assertAuthCode(t, err, stderrors.ErrCodeAuthInvalidCredentials)

	_, err = mgr.Login(ctx, "intruder", "super-secret")
	assertAuthCode(t, err, stderrors.ErrCodeAuthInvalidCredentials)
}

func TestManager_Validate_UnknownToken(t *testing.T) {
	mgr, _ := newTestManager(t)

	err := mgr.Validate(context.Background(), "not-a-session")
	assertAuthCode(t, err, stderrors.ErrCodeAuthSessionExpired)
}

func TestManager_Validate_EmptyToken(t *testing.T) {
	mgr, _ := newTestManager(t)

	err := mgr.Validate(context.Background(), "")
	assertAuthCode(t, err, stderrors.ErrCodeAuthRequired)
}

func TestManager_Validate_ExpiredSession(t *testing.T) {
	mgr, mr := newTestManager(t)
	ctx := context.Background()

	token, err := mgr.Login(ctx, "admin", "super-secret")
	require.NoError(t, err)

	mr.FastForward(25 * time.Hour)

	err = mgr.Validate(ctx, token)
	assertAuthCode(t, err, stderrors.ErrCodeAuthSessionExpired)
}

func TestManager_Logout(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	token, err := mgr.Login(ctx, "admin", "super-secret")
	require.NoError(t, err)

	require.NoError(t, mgr.Logout(ctx, token))

	err = mgr.Validate(ctx, token)
	assertAuthCode(t, err, stderrors.ErrCodeAuthSessionExpired)

	// Logging out twice is harmless.
	assert.NoError(t, mgr.Logout(ctx, token))
	assert.NoError(t, mgr.Logout(ctx, ""))
}

func TestManager_Login_TokensAreUnique(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	t1, err := mgr.Login(ctx, "admin", "super-secret")
	require.NoError(t, err)
	t2, err := mgr.Login(ctx, "admin", "super-secret")
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
	assert.NoError(t, mgr.Validate(ctx, t1))
	assert.NoError(t, mgr.Validate(ctx, t2))
}
