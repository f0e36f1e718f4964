package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/session"
)

// fakeAttempts records counter operations. The window is captured only when
// the count transitions to 1, mirroring the Redis-backed implementation.
type fakeAttempts struct {
	counts  map[string]int
	windows map[string]time.Duration
	getErr  error
}

func newFakeAttempts() *fakeAttempts {
	return &fakeAttempts{
		counts:  map[string]int{},
		windows: map[string]time.Duration{},
	}
}

func (f *fakeAttempts) Get(ctx context.Context, ip string) (int, error) {
	if f.getErr != nil {
		return 0, f.getErr
	}
	return f.counts[ip], nil
}

func (f *fakeAttempts) Increment(ctx context.Context, ip string, window time.Duration) (int, error) {
	f.counts[ip]++
	if f.counts[ip] == 1 {
		f.windows[ip] = window
	}
	return f.counts[ip], nil
}

func (f *fakeAttempts) Reset(ctx context.Context, ip string) error {
	delete(f.counts, ip)
	delete(f.windows, ip)
	return nil
}

var testAdmin = config.AdminConfig{Username: "admin", Password: "hunter2hunter2"}

func newTestAuthService(attempts AttemptCounter) (*AuthService, *session.Codec) {
	codec := session.NewCodec("test-secret", 7*24*time.Hour, false)
	return NewAuthService(attempts, codec, testAdmin, zap.NewNop()), codec
}

func TestLogin_Success(t *testing.T) {
	attempts := newFakeAttempts()
	attempts.counts["9.9.9.9"] = 3

	svc, codec := newTestAuthService(attempts)

	token, err := svc.Login(context.Background(), "9.9.9.9", "admin", "hunter2hunter2")
	require.NoError(t, err)

	identity, ok := codec.Verify(token)
	require.True(t, ok)
	require.Equal(t, "admin", identity)

	// Success clears the counter for that IP.
	require.Equal(t, 0, attempts.counts["9.9.9.9"])
}

func TestLogin_WrongCredentialsAreIndistinguishable(t *testing.T) {
	attempts := newFakeAttempts()
	svc, _ := newTestAuthService(attempts)
	ctx := context.Background()

	_, errUser := svc.Login(ctx, "1.1.1.1", "nobody", "hunter2hunter2")
	_, errPass := svc.Login(ctx, "1.1.1.1", "admin", "wrong")

	require.ErrorIs(t, errUser, ErrInvalidCredentials)
	require.ErrorIs(t, errPass, ErrInvalidCredentials)
	require.Equal(t, errUser.Error(), errPass.Error())
	require.Equal(t, 2, attempts.counts["1.1.1.1"])
}

func TestLogin_RateLimited(t *testing.T) {
	attempts := newFakeAttempts()
	svc, _ := newTestAuthService(attempts)
	ctx := context.Background()

	for i := 0; i < MaxLoginAttempts; i++ {
		_, err := svc.Login(ctx, "1.1.1.1", "admin", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// The 6th attempt short-circuits: no credential evaluation, no
	// further increment, even with correct credentials.
	_, err := svc.Login(ctx, "1.1.1.1", "admin", "hunter2hunter2")
	require.ErrorIs(t, err, ErrTooManyAttempts)
	require.Equal(t, MaxLoginAttempts, attempts.counts["1.1.1.1"])

	// Another IP is unaffected.
	token, err := svc.Login(ctx, "2.2.2.2", "admin", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestLogin_WindowFixedFromFirstFailure(t *testing.T) {
	attempts := newFakeAttempts()
	svc, _ := newTestAuthService(attempts)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _ = svc.Login(ctx, "1.1.1.1", "admin", "wrong")
	}
	require.Equal(t, LoginWindow, attempts.windows["1.1.1.1"])

	// A success then a fresh failure starts a brand new window.
	_, err := svc.Login(ctx, "1.1.1.1", "admin", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "1.1.1.1", "admin", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, 1, attempts.counts["1.1.1.1"])
	require.Equal(t, LoginWindow, attempts.windows["1.1.1.1"])
}

func TestLogin_NotConfigured(t *testing.T) {
	attempts := newFakeAttempts()
	codec := session.NewCodec("test-secret", time.Hour, false)
	svc := NewAuthService(attempts, codec, config.AdminConfig{}, zap.NewNop())

	_, err := svc.Login(context.Background(), "1.1.1.1", "admin", "whatever")
	require.ErrorIs(t, err, ErrNotConfigured)
	require.Equal(t, 0, attempts.counts["1.1.1.1"])
}

func TestLogin_StoreErrorIsGeneric(t *testing.T) {
	attempts := newFakeAttempts()
	attempts.getErr = errors.New("connection refused")
	svc, _ := newTestAuthService(attempts)

	_, err := svc.Login(context.Background(), "1.1.1.1", "admin", "hunter2hunter2")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
	require.NotErrorIs(t, err, ErrTooManyAttempts)
}

func TestCredentialsMatch(t *testing.T) {
	admin := config.AdminConfig{Username: "admin", Password: "s3cret"}

	cases := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"both match", "admin", "s3cret", true},
		{"wrong username", "root", "s3cret", false},
		{"wrong password same length", "admin", "s3cr3t", false},
		{"shorter password", "admin", "s3", false},
		{"longer password", "admin", "s3cret-and-more", false},
		{"empty password", "admin", "", false},
		{"both wrong", "root", "toor", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CredentialsMatch(admin, tc.username, tc.password))
		})
	}
}
