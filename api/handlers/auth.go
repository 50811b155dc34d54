package handlers

import (
	"errors"
	"net/http"

	"github.com/BrenoBalsini/ultimate-praia-sub000/api"
	"github.com/BrenoBalsini/ultimate-praia-sub000/config"
)

// Auth exchanges identity provider tokens for a session cookie
type Auth struct {
	Authenticator *api.Authenticator
}

type sessionRequest struct {
	IDToken string `json:"idToken"`
}

// CreateSessionHandler verifies an ID token and signs the user in
func (a Auth) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeBody(r, &req, false); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.IDToken == "" {
		config.ErrorStatus("idToken is required", http.StatusBadRequest, w, nil)
		return
	}

	id, err := a.Authenticator.VerifyIDToken(req.IDToken)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, api.ErrEmailNotAllowed) {
			status = http.StatusForbidden
		} else if errors.Is(err, api.ErrNoSigningKey) {
			status = http.StatusInternalServerError
		}
		config.ErrorStatus("failed to verify id token", status, w, err)
		return
	}
	if err := a.Authenticator.SignIn(w, r, id); err != nil {
		config.ErrorStatus("failed to save session", http.StatusInternalServerError, w, err)
		return
	}
	logger(r).Infow("signed in", "email", id.Email)
	writeJSON(w, http.StatusCreated, id)
}

// DeleteSessionHandler signs the user out
func (a Auth) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.Authenticator.SignOut(w, r); err != nil {
		config.ErrorStatus("failed to clear session", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// MeHandler returns the signed in user
func (a Auth) MeHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("not signed in", http.StatusUnauthorized, w, nil)
		return
	}
	writeJSON(w, http.StatusOK, id)
}
