package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/services"
)

const (
	testIssuer = "planner-test"
	testTTL    = 7 * 24 * time.Hour
)

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

func newAuthService(t *testing.T) (services.AuthService, *fakeProvider, *fakeClock) {
	t.Helper()

	clock := newFakeClock(time.Now())
	provider := newFakeProvider()
	svc := services.NewAuthService(
		zerolog.Nop(),
		newTestStore(t),
		provider,
		testIssuer,
		testSigningKey,
		testTTL,
		services.WithClock(clock.Now),
	)
	return svc, provider, clock
}

func TestAuthService_AuthenticateCreatesUserOnce(t *testing.T) {
	ctx := context.Background()
	svc, provider, _ := newAuthService(t)

	provider.Set("code-1", models.Profile{
		Subject: "google-42",
		Email:   "ada@example.com",
		Name:    "Ada",
		Picture: "https://example.com/ada.png",
	})

	first, err := svc.Authenticate(ctx, "code-1")
	require.NoError(t, err)
	require.NotEmpty(t, first.User.ID)
	assert.Equal(t, "google-42", first.User.GoogleID)
	assert.Equal(t, "Ada", first.User.Name)
	assert.NotEmpty(t, first.AccessToken)

	second, err := svc.Authenticate(ctx, "code-1")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
}

func TestAuthService_AuthenticateRefreshesProfile(t *testing.T) {
	ctx := context.Background()
	svc, provider, clock := newAuthService(t)

	provider.Set("code", models.Profile{Subject: "google-7", Email: "old@example.com", Name: "Old"})
	first, err := svc.Authenticate(ctx, "code")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	provider.Set("code", models.Profile{Subject: "google-7", Email: "new@example.com", Name: "New"})
	second, err := svc.Authenticate(ctx, "code")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	user, err := svc.GetUserByID(ctx, first.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "New", user.Name)
	assert.True(t, user.UpdatedAt.After(user.CreatedAt))
}

func TestAuthService_AuthenticateExchangeFailure(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Authenticate(context.Background(), "unknown-code")
	assert.ErrorIs(t, err, services.ErrIdentityExchange)
}

func TestAuthService_ResolveUserRejectsEmptySubject(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.ResolveUser(context.Background(), models.Profile{Email: "x@example.com"})
	assert.ErrorIs(t, err, services.ErrIdentityExchange)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc, _, clock := newAuthService(t)

	user := &models.User{ID: "user-1", Email: "ada@example.com"}
	token, expiresAt, err := svc.IssueAccessToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, clock.Now().Add(testTTL), expiresAt, time.Second)

	claims, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestAuthService_ParseAccessTokenRejects(t *testing.T) {
	svc, _, clock := newAuthService(t)
	user := &models.User{ID: "user-1"}

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}
	now := clock.Now()
	valid := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	t.Run("expired", func(t *testing.T) {
		token, _, err := svc.IssueAccessToken(user)
		require.NoError(t, err)

		clock.Advance(testTTL + time.Minute)
		defer clock.Advance(-(testTTL + time.Minute))

		_, err = svc.ParseAccessToken(token)
		assert.ErrorIs(t, err, services.ErrInvalidToken)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong key", func(t *testing.T) {
		token := sign(jwt.SigningMethodHS256, []byte("another-key-another-key-another!"), valid)
		_, err := svc.ParseAccessToken(token)
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := valid
		claims.Issuer = "someone-else"
		_, err := svc.ParseAccessToken(sign(jwt.SigningMethodHS256, testSigningKey, claims))
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	})

	t.Run("no expiry", func(t *testing.T) {
		claims := valid
		claims.ExpiresAt = nil
		_, err := svc.ParseAccessToken(sign(jwt.SigningMethodHS256, testSigningKey, claims))
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		token := sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid)
		_, err := svc.ParseAccessToken(token)
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ParseAccessToken("not.a.token")
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	})
}

func TestAuthService_GetUserByIDUnknown(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestAuthService_AuthCodeURLDelegates(t *testing.T) {
	svc, _, _ := newAuthService(t)
	assert.Equal(t, "https://accounts.example.com/auth?state=xyz", svc.AuthCodeURL("xyz"))
}
