package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/BrenoBalsini/ultimate-praia-sub000/config"
	"github.com/BrenoBalsini/ultimate-praia-sub000/models"
)

const sessionName = "praia-session"

var (
	// ErrMissingEmail is returned for ID tokens without an email claim
	ErrMissingEmail = errors.New("id token has no email claim")
	// ErrEmailNotAllowed is returned when the email is not in the allow list
	ErrEmailNotAllowed = errors.New("email is not allowed to sign in")
	// ErrNoSigningKey is returned when the provider key is not configured
	ErrNoSigningKey = errors.New("identity provider signing key is not configured")
)

type identityKey struct{}

// Authenticator verifies identity provider tokens and keeps signed in users
// in a cookie session
type Authenticator struct {
	Store         sessions.Store
	SigningKey    []byte
	AllowedEmails []string
}

// idClaims are the claims the identity provider puts in its ID tokens
type idClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// NewAuthenticator builds the gate from config. Without SESSION_SECRET the
// cookies are signed with a random per-process key, so sessions do not
// survive a restart.
func NewAuthenticator(conf *config.Config) *Authenticator {
	secret := []byte(conf.SessionSecret)
	if len(secret) == 0 {
		zap.S().Warnw("SESSION_SECRET is not set, using a random session key", "env", conf.Env)
		secret = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   conf.Env == "production",
		SameSite: http.SameSiteLaxMode,
	}
	return &Authenticator{
		Store:         store,
		SigningKey:    []byte(conf.IDPSigningKey),
		AllowedEmails: conf.AllowedEmails,
	}
}

// VerifyIDToken validates an ID token issued by the identity provider
func (a *Authenticator) VerifyIDToken(raw string) (models.Identity, error) {
	if len(a.SigningKey) == 0 {
		return models.Identity{}, ErrNoSigningKey
	}
	claims := &idClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return a.SigningKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return models.Identity{}, err
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return models.Identity{}, ErrMissingEmail
	}
	if !a.allowed(email) {
		return models.Identity{}, ErrEmailNotAllowed
	}
	name := claims.Name
	if name == "" {
		name = email
	}
	return models.Identity{Email: email, Name: name, Authenticated: true}, nil
}

func (a *Authenticator) allowed(email string) bool {
	if len(a.AllowedEmails) == 0 {
		return true
	}
	for _, e := range a.AllowedEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

// SignIn stores the identity in the session cookie
func (a *Authenticator) SignIn(w http.ResponseWriter, r *http.Request, id models.Identity) error {
	session, _ := a.Store.Get(r, sessionName)
	session.Values["email"] = id.Email
	session.Values["name"] = id.Name
	session.Values["signedInAt"] = time.Now().Unix()
	return session.Save(r, w)
}

// SignOut expires the session cookie
func (a *Authenticator) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, _ := a.Store.Get(r, sessionName)
	session.Values = map[interface{}]interface{}{}
	opts := *session.Options
	opts.MaxAge = -1
	session.Options = &opts
	return session.Save(r, w)
}

// Identify resolves the caller from the session cookie or a bearer ID token
func (a *Authenticator) Identify(r *http.Request) (models.Identity, error) {
	if session, err := a.Store.Get(r, sessionName); err == nil {
		if email, ok := session.Values["email"].(string); ok && email != "" {
			name, _ := session.Values["name"].(string)
			return models.Identity{Email: email, Name: name, Authenticated: true}, nil
		}
	}

	reqToken := r.Header.Get("Authorization")
	if !strings.HasPrefix(reqToken, "Bearer ") {
		return models.Identity{}, errors.New("no session and no bearer token")
	}
	return a.VerifyIDToken(strings.TrimPrefix(reqToken, "Bearer "))
}

// Middleware rejects requests without an authenticated identity
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := a.Identify(r)
		if err != nil {
			zap.S().Warnw("unauthorized",
				"url", r.URL.String(),
				"error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugf("User %s Authenticated", id.Email)
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// WithIdentity stores the caller identity in ctx
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller set by the middleware
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(models.Identity)
	return id, ok
}
