package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrenoBalsini/ultimate-praia-sub000/config"
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

const testKey = "provider-secret"

func newTestAuthenticator(allowed ...string) *Authenticator {
	return NewAuthenticator(&config.Config{
		SessionSecret: "0123456789abcdef0123456789abcdef",
		IDPSigningKey: testKey,
		AllowedEmails: allowed,
	})
}

func mintToken(t *testing.T, key string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"email": "Chefe@Praia.org",
		"name":  "Chefe",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestVerifyIDToken(t *testing.T) {
	a := newTestAuthenticator()

	id, err := a.VerifyIDToken(mintToken(t, testKey, jwt.SigningMethodHS256, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, models.Identity{Email: "chefe@praia.org", Name: "Chefe", Authenticated: true}, id)
}

func TestVerifyIDTokenRejects(t *testing.T) {
	a := newTestAuthenticator()

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()
	noExp := validClaims()
	delete(noExp, "exp")
	noEmail := validClaims()
	delete(noEmail, "email")

	tests := map[string]string{
		"wrong key": mintToken(t, "other", jwt.SigningMethodHS256, validClaims()),
		"wrong alg": mintToken(t, testKey, jwt.SigningMethodHS512, validClaims()),
		"expired":   mintToken(t, testKey, jwt.SigningMethodHS256, expired),
		"no exp":    mintToken(t, testKey, jwt.SigningMethodHS256, noExp),
		"no email":  mintToken(t, testKey, jwt.SigningMethodHS256, noEmail),
		"not a jwt": "abc.def",
		"empty":     "",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := a.VerifyIDToken(tok)
			assert.Error(t, err)
		})
	}
}

func TestVerifyIDTokenAllowList(t *testing.T) {
	a := newTestAuthenticator("outro@praia.org")

	_, err := a.VerifyIDToken(mintToken(t, testKey, jwt.SigningMethodHS256, validClaims()))
	assert.ErrorIs(t, err, ErrEmailNotAllowed)
}

func TestVerifyIDTokenWithoutKey(t *testing.T) {
	a := &Authenticator{}

	_, err := a.VerifyIDToken("whatever")
	assert.ErrorIs(t, err, ErrNoSigningKey)
}

func TestMiddlewareRejectsAnonymous(t *testing.T) {
	a := newTestAuthenticator()
	called := false
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/gvcs", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error": "unauthorized"}`, rr.Body.String())
}

func TestMiddlewareAcceptsBearer(t *testing.T) {
	a := newTestAuthenticator()
	var got models.Identity
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gvcs", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testKey, jwt.SigningMethodHS256, validClaims()))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "chefe@praia.org", got.Email)
}

func TestSessionRoundTrip(t *testing.T) {
	a := newTestAuthenticator()

	// sign in and capture the cookie
	login := httptest.NewRecorder()
	require.NoError(t, a.SignIn(login, httptest.NewRequest(http.MethodPost, "/api/v1/auth/session", nil),
		models.Identity{Email: "chefe@praia.org", Name: "Chefe", Authenticated: true}))
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	id, err := a.Identify(req)
	require.NoError(t, err)
	assert.Equal(t, "Chefe", id.Name)

	// signing out expires the cookie
	logout := httptest.NewRecorder()
	require.NoError(t, a.SignOut(logout, req))
	expired := logout.Result().Cookies()
	require.NotEmpty(t, expired)
	assert.True(t, expired[0].MaxAge < 0)
}

func TestSessionWithoutConfiguredSecret(t *testing.T) {
	a := NewAuthenticator(&config.Config{IDPSigningKey: testKey})

	id, err := a.VerifyIDToken(mintToken(t, testKey, jwt.SigningMethodHS256, validClaims()))
	require.NoError(t, err)

	login := httptest.NewRecorder()
	require.NoError(t, a.SignIn(login, httptest.NewRequest(http.MethodPost, "/api/v1/auth/session", nil), id))
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	got, err := a.Identify(req)
	require.NoError(t, err)
	assert.Equal(t, "chefe@praia.org", got.Email)
}
