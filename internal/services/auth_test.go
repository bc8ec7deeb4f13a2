package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"EventRegistration/internal/config"
	"EventRegistration/internal/models"
	"EventRegistration/internal/store"
	"EventRegistration/internal/testutil"
)

func newTestAuth() *Auth {
	return NewAuth(AuthOptions{
		Secret:   "test-secret-of-reasonable-length",
		Expiry:   7 * 24 * time.Hour,
		Username: "admin",
		Password: "secret",
	})
}

func TestCheckCredentials(t *testing.T) {
	assert.True(t, CheckCredentials("admin", "secret", "admin", "secret"))
	assert.False(t, CheckCredentials("admin", "Secret", "admin", "secret"))
	assert.False(t, CheckCredentials("Admin", "secret", "admin", "secret"))
	assert.False(t, CheckCredentials("", "", "", ""), "unconfigured admin never matches")

	rapid.Check(t, func(rt *rapid.T) {
		u := rapid.StringN(1, 20, -1).Draw(rt, "user")
		p := rapid.String().Draw(rt, "pass")
		if !CheckCredentials(u, p, u, p) {
			rt.Fatalf("identical pair rejected")
		}
		other := rapid.String().Draw(rt, "other")
		if other != p && CheckCredentials(u, other, u, p) {
			rt.Fatalf("different password accepted")
		}
	})
}

func TestAuth_LoginSameErrorForEitherField(t *testing.T) {
	svc := newTestAuth()
	ctx := context.Background()

	_, errPass := svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "wrong"})
	_, errUser := svc.Login(ctx, models.LoginRequest{Username: "wrong", Password: "secret"})

	require.ErrorIs(t, errPass, models.ErrInvalidCredentials)
	require.ErrorIs(t, errUser, models.ErrInvalidCredentials)
	assert.Equal(t, "Invalid credentials", errPass.Error())
	assert.Equal(t, errPass.Error(), errUser.Error())
}

func TestAuth_LoginMissingFields(t *testing.T) {
	_, err := newTestAuth().Login(context.Background(), models.LoginRequest{Username: "  "})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestAuth_LoginIssuesValidToken(t *testing.T) {
	svc := newTestAuth()

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "admin", res.Admin.Username)

	p, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, AdminSubject, p.Subject)
	assert.Equal(t, "admin", p.Username)
}

func TestAuth_TokenExpiry(t *testing.T) {
	svc := newTestAuth()
	issued := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "secret"})
	require.NoError(t, err)
	assert.True(t, res.ExpiresAt.Equal(issued.Add(7*24*time.Hour)))

	svc.now = func() time.Time { return issued.Add(6 * 24 * time.Hour) }
	_, err = svc.ValidateToken(res.Token)
	require.NoError(t, err, "token should still be valid after 6 days")

	svc.now = func() time.Time { return issued.Add(8 * 24 * time.Hour) }
	_, err = svc.ValidateToken(res.Token)
	require.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuth_RejectsBadTokens(t *testing.T) {
	svc := newTestAuth()
	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "secret"})
	require.NoError(t, err)

	other := NewAuth(AuthOptions{Secret: "another-secret", Expiry: time.Hour, Username: "admin", Password: "secret"})
	_, err = other.ValidateToken(res.Token)
	require.ErrorIs(t, err, models.ErrUnauthorized, "wrong signing key")

	_, err = svc.ValidateToken(res.Token + "x")
	require.ErrorIs(t, err, models.ErrUnauthorized, "tampered signature")

	_, err = svc.ValidateToken("")
	require.ErrorIs(t, err, models.ErrUnauthorized)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": AdminSubject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(none)
	require.ErrorIs(t, err, models.ErrUnauthorized, "unsigned tokens are refused")

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": AdminSubject}).
		SignedString([]byte("test-secret-of-reasonable-length"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(noExp)
	require.ErrorIs(t, err, models.ErrUnauthorized, "tokens without expiry are refused")
}

func TestAuth_DatabaseSource(t *testing.T) {
	admins := store.NewAdmins(testutil.NewDB(t))
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	require.NoError(t, admins.Upsert(context.Background(), "root", hash))

	svc := NewAuth(AuthOptions{
		Secret: "test-secret-of-reasonable-length",
		Expiry: time.Hour,
		Source: config.AuthSourceDatabase,
		Admins: admins,
	})
	ctx := context.Background()

	res, err := svc.Login(ctx, models.LoginRequest{Username: "root", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "root", res.Admin.Username)

	_, err = svc.Login(ctx, models.LoginRequest{Username: "root", Password: "nope"})
	require.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Login(ctx, models.LoginRequest{Username: "ghost", Password: "s3cret"})
	require.ErrorIs(t, err, models.ErrInvalidCredentials)
}
