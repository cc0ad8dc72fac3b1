// internal/auth/auth.go
package auth

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/devtavares97/baiane-lp/internal/common/config"
	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
	"github.com/devtavares97/baiane-lp/internal/common/logger"
)

const sessionKeyPrefix = "admin:session:"

// Manager handles admin login for the panel. Credentials come from
// configuration, sessions are opaque tokens held in Redis until their
// TTL runs out.
type Manager struct {
	cfg    config.AdminConfig
	redis  *redis.Client
	logger logger.Logger
}

func NewManager(cfg config.AdminConfig, rdb *redis.Client, log logger.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		redis:  rdb,
		logger: log.WithFields(map[string]interface{}{"component": "admin-auth"}),
	}
}

// Login checks the credentials and opens a session. The comparison is
// constant time on both fields regardless of which one mismatches.
func (m *Manager) Login(ctx context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(m.cfg.Username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(m.cfg.Password))
	if userOK&passOK != 1 {
		m.logger.Warn("admin login rejected", map[string]interface{}{
			"username": username,
		})
		return "", stderrors.NewAuthInvalidCredentialsError()
	}

	token := uuid.New().String()
	ttl := config.GetDuration(m.cfg.SessionTTL)
	if err := m.redis.Set(ctx, sessionKeyPrefix+token, time.Now().UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		return "", stderrors.NewInternalError(err)
	}

	m.logger.Info("admin session opened", map[string]interface{}{
		"expiresIn": ttl.String(),
	})
	return token, nil
}

// Validate reports whether a session token is still live. Expired
// sessions read the same as ones that never existed.
func (m *Manager) Validate(ctx context.Context, token string) error {
	if token == "" {
		return stderrors.NewAuthRequiredError()
	}

	err := m.redis.Get(ctx, sessionKeyPrefix+token).Err()
	if err == redis.Nil {
		return stderrors.NewAuthSessionExpiredError()
	}
	if err != nil {
		return stderrors.NewInternalError(err)
	}
	return nil
}

// Logout drops the session. A token that is already gone is not an
// error.
func (m *Manager) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.redis.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return stderrors.NewInternalError(err)
	}
	return nil
}
