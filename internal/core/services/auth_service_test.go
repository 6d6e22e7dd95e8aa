package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"princip-gym/internal/adapters/cache"
	"princip-gym/internal/adapters/persistence/models"
	"princip-gym/internal/config"
	"princip-gym/internal/core/domain"
	"princip-gym/internal/pkg/password"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}

func newAuthService(t *testing.T, env *testEnv, notifier Notifier) (*AuthService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := NewAuthService(env.users, env.tokens, cache.NewRedisStoreFromClient(client), notifier, testAuthConfig(), env.log)
	svc.now = clockAt(fixedNow)
	return svc, mr
}

func TestAuthServiceRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	notifier := new(mockNotifier)
	notifier.On("SendVerification", mock.Anything, mock.AnythingOfType("*models.User"), mock.AnythingOfType("string")).Return(nil).Once()
	svc, _ := newAuthService(t, env, notifier)

	resp, err := svc.Register(ctx, &RegisterInput{Email: "  Ana@Example.com ", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "ana@example.com", resp.Email)
	assert.Equal(t, string(domain.RoleUser), resp.Role)
	assert.False(t, resp.EmailVerified)
	notifier.AssertExpectations(t)

	user, err := env.users.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, user.Membership)
	assert.False(t, user.Membership.Active)
	assert.Nil(t, user.Membership.ExpiresAt)
	require.NotNil(t, user.VerificationToken)
	assert.True(t, password.Verify("secret1", user.PasswordHash))

	sentToken := notifier.Calls[0].Arguments.String(2)
	assert.Equal(t, *user.VerificationToken, sentToken)

	_, err = svc.Register(ctx, &RegisterInput{Email: "ana@example.com", Password: "another"})
	assert.True(t, errors.Is(err, domain.ErrUserAlreadyExists))
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	svc, _ := newAuthService(t, env, new(mockNotifier))

	for name, input := range map[string]*RegisterInput{
		"bad email":      {Email: "nope", Password: "secret1"},
		"short password": {Email: "ana@example.com", Password: "12345"},
		"long name":      {Email: "ana@example.com", Password: "secret1", Name: strings.Repeat("a", 81)},
		"nil":            nil,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), input)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestAuthServiceRegisterSurvivesMailFailure(t *testing.T) {
	env := newTestEnv(t)
	notifier := new(mockNotifier)
	notifier.On("SendVerification", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	svc, _ := newAuthService(t, env, notifier)

	resp, err := svc.Register(context.Background(), &RegisterInput{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
}

func TestAuthServiceLoginAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc, _ := newAuthService(t, env, new(mockNotifier))
	seedLoginUser(t, env, "ana@example.com", "secret1", &models.Membership{Active: true})

	auth, err := svc.Login(ctx, &LoginInput{Email: "ANA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, auth.AccessToken)
	assert.NotEmpty(t, auth.RefreshToken)
	assert.Equal(t, "ana@example.com", auth.User.Email)
	assert.True(t, auth.Membership.Authorized)

	id, err := svc.Authenticate(ctx, auth.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, id.UserID)
	assert.Equal(t, domain.RoleUser, id.Role)

	_, err = svc.Login(ctx, &LoginInput{Email: "ana@example.com", Password: "wrong-one"})
	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))

	_, err = svc.Login(ctx, &LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))

	_, err = svc.Authenticate(ctx, "not-a-token")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestAuthServiceRefreshRotates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc, _ := newAuthService(t, env, new(mockNotifier))
	seedLoginUser(t, env, "ana@example.com", "secret1", nil)

	auth, err := svc.Login(ctx, &LoginInput{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	rotated, err := svc.RefreshToken(ctx, auth.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, auth.RefreshToken, rotated.RefreshToken)

	// reusing the old token revokes every session
	_, err = svc.RefreshToken(ctx, auth.RefreshToken)
	assert.True(t, errors.Is(err, domain.ErrTokenRevoked))

	_, err = svc.RefreshToken(ctx, rotated.RefreshToken)
	assert.True(t, errors.Is(err, domain.ErrTokenRevoked))

	_, err = svc.RefreshToken(ctx, "garbage")
	assert.True(t, errors.Is(err, domain.ErrTokenInvalid))
}

func TestAuthServiceLogoutDeniesAccessToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc, mr := newAuthService(t, env, new(mockNotifier))
	seedLoginUser(t, env, "ana@example.com", "secret1", nil)

	auth, err := svc.Login(ctx, &LoginInput{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, auth.RefreshToken, auth.AccessToken))

	_, err = svc.Authenticate(ctx, auth.AccessToken)
	assert.True(t, errors.Is(err, domain.ErrTokenRevoked))

	_, err = svc.RefreshToken(ctx, auth.RefreshToken)
	assert.True(t, errors.Is(err, domain.ErrTokenRevoked))

	// the denylist entry lives no longer than the token
	keys := mr.Keys()
	require.Len(t, keys, 1)
	ttl := mr.TTL(keys[0])
	assert.Greater(t, ttl.Minutes(), 0.0)
	assert.LessOrEqual(t, ttl.Minutes(), 15.0)

	// a new login is unaffected
	again, err := svc.Login(ctx, &LoginInput{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, again.AccessToken)
	assert.NoError(t, err)
}

func TestAuthServiceAuthenticateFailsOpenWithoutRedis(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc, mr := newAuthService(t, env, new(mockNotifier))
	seedLoginUser(t, env, "ana@example.com", "secret1", nil)

	auth, err := svc.Login(ctx, &LoginInput{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	mr.Close()

	id, err := svc.Authenticate(ctx, auth.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, id.UserID)
}

func TestAuthServiceLogoutAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc, _ := newAuthService(t, env, new(mockNotifier))
	u := seedLoginUser(t, env, "ana@example.com", "secret1", nil)

	first, err := svc.Login(ctx, &LoginInput{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	second, err := svc.Login(ctx, &LoginInput{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(ctx, u.Identity()))

	for _, token := range []string{first.RefreshToken, second.RefreshToken} {
		_, err := svc.RefreshToken(ctx, token)
		assert.True(t, errors.Is(err, domain.ErrTokenRevoked))
	}
}

func TestAuthServiceVerifyEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	notifier := new(mockNotifier)
	notifier.On("SendVerification", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, _ := newAuthService(t, env, notifier)

	resp, err := svc.Register(ctx, &RegisterInput{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	token := notifier.Calls[0].Arguments.String(2)

	assert.True(t, errors.Is(svc.VerifyEmail(ctx, "wrong"), domain.ErrTokenInvalid))
	assert.True(t, errors.Is(svc.VerifyEmail(ctx, ""), domain.ErrTokenInvalid))

	require.NoError(t, svc.VerifyEmail(ctx, token))

	user, err := svc.GetUserByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
	assert.Nil(t, user.VerificationToken)

	// tokens are single use
	assert.True(t, errors.Is(svc.VerifyEmail(ctx, token), domain.ErrTokenInvalid))
}

func seedLoginUser(t *testing.T, env *testEnv, email, pass string, m *models.Membership) *models.User {
	t.Helper()
	u := env.seed(t, email, m)
	hash, err := password.Hash(pass)
	require.NoError(t, err)
	u.PasswordHash = hash
	require.NoError(t, env.users.Update(context.Background(), u))
	return u
}
