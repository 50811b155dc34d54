package models

// Identity is the signed-in user as asserted by the identity provider
type Identity struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Authenticated bool   `json:"authenticated"`
}
