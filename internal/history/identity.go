package history

import (
	"context"

	"github.com/samaira-ai/samaira/internal/identity"
)

// IdentitySource adapts a Store to the resolver's profile lookup.
type IdentitySource struct {
	Store Store
}

func (s IdentitySource) ProfileBySubject(ctx context.Context, subject string) (*identity.Profile, error) {
	rec, err := s.Store.ProfileBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return &identity.Profile{Subject: rec.Subject, Username: rec.Username, Email: rec.Email}, nil
}
