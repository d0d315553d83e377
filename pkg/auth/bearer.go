package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/docqa-dev/docqa/pkg/auth/token"
	"github.com/docqa-dev/docqa/pkg/users"
)

// BearerAuthenticator validates bearer tokens issued by this service and
// resolves the subject against the user store.
type BearerAuthenticator struct {
	issuer *token.Issuer
	store  users.Store
}

// Compile-time check that BearerAuthenticator implements Authenticator.
var _ Authenticator = (*BearerAuthenticator)(nil)

// NewBearer creates a bearer-token authenticator.
func NewBearer(issuer *token.Issuer, store users.Store) *BearerAuthenticator {
	return &BearerAuthenticator{issuer: issuer, store: store}
}

// Authenticate extracts a bearer token from the Authorization header,
// validates signature and expiry, and resolves the subject to an active
// user.
//
// Decision outcomes:
//   - Abstain: no Authorization header or not a Bearer scheme
//   - No: bearer token present but invalid, subject unknown, or account disabled
//   - Yes: valid token with populated Identity
func (a *BearerAuthenticator) Authenticate(ctx context.Context, r *http.Request) AuthResult {
	header := r.Header.Get("Authorization")
	if header == "" {
		return AuthResult{Decision: Abstain}
	}

	// Must be Bearer token.
	if !strings.HasPrefix(header, "Bearer ") {
		return AuthResult{Decision: Abstain}
	}

	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if tokenStr == "" {
		return AuthResult{Decision: No, Err: ErrUnauthenticated}
	}

	username, err := a.issuer.Validate(tokenStr)
	if err != nil {
		return AuthResult{Decision: No, Err: fmt.Errorf("%w: %v", ErrUnauthenticated, err)}
	}

	u, err := a.store.Get(ctx, username)
	if err != nil {
		// Token subjects must resolve to a provisioned user; a stale
		// token for a deleted account is treated like a bad token.
		return AuthResult{Decision: No, Err: ErrUnauthenticated}
	}

	if u.Disabled {
		return AuthResult{Decision: No, Err: ErrForbidden}
	}

	return AuthResult{
		Decision: Yes,
		Identity: &Identity{Subject: u.Username, FullName: u.FullName},
	}
}
