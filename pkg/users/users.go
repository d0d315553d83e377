// Package users defines the user records backing authentication and the
// Store interface over their persistence. Records are provisioned out of
// band (see cmd/userctl); the request path only reads them.
package users

import (
	"context"
	"errors"
)

// User is a single account record. The username is the natural key;
// the numeric ID is the store's sequential record key.
type User struct {
	ID             int    `json:"-"`
	Username       string `json:"username"`
	FullName       string `json:"full_name,omitempty"`
	Email          string `json:"email,omitempty"`
	HashedPassword string `json:"hashed_password"`
	Disabled       bool   `json:"disabled"`
}

// Sentinel errors.
var (
	// ErrNotFound indicates no user exists with the given username.
	ErrNotFound = errors.New("user not found")

	// ErrExists indicates a create collided with an existing username.
	ErrExists = errors.New("user already exists")
)

// Store is the read-mostly keyed collection of user records.
type Store interface {
	// Get retrieves a user by username. Returns ErrNotFound if absent.
	Get(ctx context.Context, username string) (*User, error)

	// List returns all users ordered by record ID.
	List(ctx context.Context) ([]*User, error)

	// Create adds a new user, assigning the next sequential record ID.
	// Returns ErrExists if the username is taken.
	Create(ctx context.Context, u *User) error

	// Close releases any underlying resources.
	Close() error
}
