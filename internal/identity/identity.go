// Package identity resolves bearer tokens into user identities.
//
// Two token shapes are understood: ephemeral demo tokens whose structure
// encodes the identity directly, and provider-issued JWTs whose subject is
// looked up against the profile store. Demo tokens are a placeholder, not a
// security mechanism; they are only meaningful within the issuing process.
package identity

import "errors"

// ErrUnauthenticated is returned by Require when no identity can be
// resolved from the presented token.
var ErrUnauthenticated = errors.New("identity: unauthenticated")

// Identity describes the authenticated (or demo) user behind a request.
type Identity struct {
	ID       string
	Username string
	Email    string
}

// Anonymous reports whether id carries no identity at all.
func (id *Identity) Anonymous() bool {
	return id == nil
}

// Profile is the stored account record a verified token maps onto.
type Profile struct {
	Subject  string
	Username string
	Email    string
}
