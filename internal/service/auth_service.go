package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/session"
)

const (
	// MaxLoginAttempts failed logins from one IP block further attempts
	// until the window expires.
	MaxLoginAttempts = 5
	// LoginWindow is fixed from the first failure; later failures inside
	// it do not extend it.
	LoginWindow = 60 * time.Second
)

var (
	ErrNotConfigured      = errors.New("admin account not configured")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// AttemptCounter is the per-IP failed login counter. Increment must return
// the post-increment value and must set the TTL only on the 1 transition.
type AttemptCounter interface {
	Get(ctx context.Context, ip string) (int, error)
	Increment(ctx context.Context, ip string, window time.Duration) (int, error)
	Reset(ctx context.Context, ip string) error
}

// AuthService runs the login flow: rate check, credential check, session
// minting. Sessions themselves are stateless; the only server-side state is
// the attempt counter.
type AuthService struct {
	attempts AttemptCounter
	codec    *session.Codec
	admin    config.AdminConfig
	logger   *zap.Logger
}

func NewAuthService(attempts AttemptCounter, codec *session.Codec, admin config.AdminConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		attempts: attempts,
		codec:    codec,
		admin:    admin,
		logger:   logger,
	}
}

// Login validates credentials for a request from ip and returns a signed
// session token. A blocked IP is rejected before credentials are looked at.
func (s *AuthService) Login(ctx context.Context, ip, username, password string) (string, error) {
	count, err := s.attempts.Get(ctx, ip)
	if err != nil {
		return "", fmt.Errorf("rate limit check failed: %w", err)
	}
	if count >= MaxLoginAttempts {
		s.logger.Warn("Login blocked by rate limit", zap.String("ip", ip))
		return "", ErrTooManyAttempts
	}

	if s.admin.Username == "" || s.admin.Password == "" {
		return "", ErrNotConfigured
	}

	if !CredentialsMatch(s.admin, username, password) {
		if _, err := s.attempts.Increment(ctx, ip, LoginWindow); err != nil {
			return "", fmt.Errorf("failed to record login attempt: %w", err)
		}
		s.logger.Info("Login failed", zap.String("ip", ip))
		return "", ErrInvalidCredentials
	}

	if err := s.attempts.Reset(ctx, ip); err != nil {
		return "", fmt.Errorf("failed to reset login attempts: %w", err)
	}

	s.logger.Info("Login succeeded", zap.String("ip", ip))
	return s.codec.Mint(username), nil
}

// CredentialsMatch compares submitted credentials against the configured
// admin account. The username is not secret and uses plain equality; the
// password comparison is constant-time. A length-mismatched password is
// swapped for a zero buffer of the configured length so the comparison
// always runs over equal-length inputs and always fails.
func CredentialsMatch(admin config.AdminConfig, username, password string) bool {
	userMatch := username == admin.Username

	secret := []byte(admin.Password)
	input := []byte(password)
	if len(input) != len(secret) {
		input = make([]byte, len(secret))
	}
	passMatch := subtle.ConstantTimeCompare(secret, input) == 1

	return userMatch && passMatch
}
