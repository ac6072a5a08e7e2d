package domain

import "errors"

// ErrUnauthorized reports an invalid, expired or mismatched-audience identity token.
var ErrUnauthorized = errors.New("unauthorized")

// VerifiedProfile is the identity extracted from a provider-issued token.
type VerifiedProfile struct {
	ProviderUserID string
	Email          string
	FullName       string
}
