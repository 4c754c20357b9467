package relay

import (
	"crypto/subtle"
	"strings"
)

const bearerPrefix = "Bearer "

// Authenticator checks inbound Authorization headers against the shared secret
type Authenticator struct {
	secret      string
	rejectEmpty bool
}

// NewAuthenticator creates an authenticator for the given secret. With
// rejectEmpty set, an empty secret refuses every request; otherwise only a
// bare "Bearer " header matches it.
func NewAuthenticator(secret string, rejectEmpty bool) *Authenticator {
	return &Authenticator{
		secret:      secret,
		rejectEmpty: rejectEmpty,
	}
}

// Authenticate validates the raw Authorization header value
func (a *Authenticator) Authenticate(header string) error {
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return ErrUnauthorized
	}

	if a.secret == "" && a.rejectEmpty {
		return ErrUnauthorized
	}

	token := header[len(bearerPrefix):]
	if subtle.ConstantTimeCompare([]byte(token), []byte(a.secret)) != 1 {
		return ErrUnauthorized
	}

	return nil
}

// SecretConfigured reports whether a non-empty secret is set
func (a *Authenticator) SecretConfigured() bool {
	return a.secret != ""
}
