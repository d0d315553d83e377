package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/docqa-dev/docqa/pkg/users"
)

// Authenticate verifies a username/password pair against the user store.
// Unknown usernames and wrong passwords produce the same ErrUnauthenticated,
// so callers cannot probe which usernames exist. A matching but disabled
// account fails with ErrForbidden.
func Authenticate(ctx context.Context, store users.Store, username, password string) (*users.User, error) {
	u, err := store.Get(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)) != nil {
		return nil, ErrUnauthenticated
	}

	if u.Disabled {
		return nil, ErrForbidden
	}

	return u, nil
}

// HashPassword produces a bcrypt hash of the given plaintext password at
// the library's default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
