// Package auth is the boundary to the external authentication provider. The
// provider's transport and token mechanics stay outside; the core consumes a
// resolved session plus a stream of session lifecycle events.
package auth

import (
	"context"
	"strings"

	"github.com/brightfeed/brightfeed/internal/apperr"
	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/google/uuid"
)

type Session struct {
	UserID    uuid.UUID
	Username  string
	AvatarURL string
}

func (s *Session) User() domain.User {
	return domain.User{ID: s.UserID, Username: s.Username, AvatarURL: s.AvatarURL}
}

// Verifier resolves an opaque bearer token into a session. Implementations
// wrap whatever the auth provider exposes.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Session, error)
}

// OpaqueTokenVerifier accepts tokens of the form "<user-uuid>:<username>" or
// "<user-uuid>:<username>:<avatar-url>". It stands in for the provider's
// verification endpoint in local and test setups.
type OpaqueTokenVerifier struct{}

func NewOpaqueTokenVerifier() *OpaqueTokenVerifier {
	return &OpaqueTokenVerifier{}
}

func (v *OpaqueTokenVerifier) Verify(ctx context.Context, token string) (*Session, error) {
	parts := strings.SplitN(token, ":", 3)
	if len(parts) < 2 {
		return nil, apperr.NewValidation("malformed session token")
	}

	userID, err := uuid.Parse(parts[0])
	if err != nil {
		return nil, apperr.NewValidationWrap("malformed session token", err)
	}

	s := &Session{UserID: userID, Username: parts[1]}
	if len(parts) == 3 {
		s.AvatarURL = parts[2]
	}
	return s, nil
}
