package auth

import (
	"context"
	"errors"
	"net/http"
)

// AuthDecision represents the three possible outcomes of authentication.
type AuthDecision int

const (
	// Yes means credentials are valid. The chain stops and the identity is used.
	Yes AuthDecision = iota

	// No means credentials are present but invalid. The chain stops and the
	// request is rejected.
	No

	// Abstain means this authenticator cannot handle the credentials type.
	// The chain continues to the next authenticator.
	Abstain
)

// AuthResult carries the outcome of an authentication attempt.
type AuthResult struct {
	Decision AuthDecision
	Identity *Identity // populated only when Decision == Yes
	Err      error     // populated only when Decision == No
}

// Identity represents an authenticated caller.
type Identity struct {
	// Subject is the username (required, non-empty).
	Subject string

	// FullName is the display name from the user record, if any.
	FullName string
}

// Authenticator examines request credentials and returns a three-outcome vote.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) AuthResult
}

// Sentinel errors.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("account disabled")
	ErrTooManyRequests = errors.New("rate limit exceeded")
)

// AuthChain evaluates authenticators in order using three-outcome voting.
type AuthChain struct {
	// Authenticators are evaluated left to right.
	Authenticators []Authenticator

	// DefaultDecision is used when all authenticators abstain.
	// Use Yes for development (no-auth behavior) or No for production.
	DefaultDecision AuthDecision
}

// Authenticate runs the chain. Stops on the first Yes or No.
// If all abstain, returns the default decision.
func (c *AuthChain) Authenticate(ctx context.Context, r *http.Request) AuthResult {
	for _, authn := range c.Authenticators {
		result := authn.Authenticate(ctx, r)
		if result.Decision != Abstain {
			return result
		}
	}

	// All abstained: use default.
	if c.DefaultDecision == Yes {
		return AuthResult{
			Decision: Yes,
			Identity: &Identity{Subject: "anonymous"},
		}
	}

	return AuthResult{
		Decision: No,
		Err:      ErrUnauthenticated,
	}
}
