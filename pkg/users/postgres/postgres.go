// Package postgres provides a PostgreSQL implementation of users.Store.
// Unlike the flat-file store it offers atomic upsert, so concurrent
// provisioning does not need external serialization.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docqa-dev/docqa/pkg/users"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	username        TEXT NOT NULL UNIQUE,
	full_name       TEXT NOT NULL DEFAULT '',
	email           TEXT NOT NULL DEFAULT '',
	hashed_password TEXT NOT NULL,
	disabled        BOOLEAN NOT NULL DEFAULT FALSE
)`

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

// Store is a PostgreSQL-backed user store.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements users.Store at compile time.
var _ users.Store = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, the users schema is created automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if _, err := pool.Exec(ctx, schema); err != nil {
			pool.Close()
			return nil, fmt.Errorf("creating users schema: %w", err)
		}
	}

	return s, nil
}

// Get retrieves a user by username.
func (s *Store) Get(ctx context.Context, username string) (*users.User, error) {
	u := &users.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, full_name, email, hashed_password, disabled
		 FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.HashedPassword, &u.Disabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return u, nil
}

// List returns all users ordered by record ID.
func (s *Store) List(ctx context.Context) ([]*users.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, username, full_name, email, hashed_password, disabled
		 FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var out []*users.User
	for rows.Next() {
		u := &users.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.HashedPassword, &u.Disabled); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Create inserts a new user; the database assigns the sequential ID.
func (s *Store) Create(ctx context.Context, u *users.User) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, full_name, email, hashed_password, disabled)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		u.Username, u.FullName, u.Email, u.HashedPassword, u.Disabled,
	).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return users.ErrExists
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// Upsert inserts a user or, when the username exists, replaces its
// mutable fields atomically in a single statement.
func (s *Store) Upsert(ctx context.Context, u *users.User) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, full_name, email, hashed_password, disabled)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (username) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			hashed_password = EXCLUDED.hashed_password,
			disabled = EXCLUDED.disabled
		 RETURNING id`,
		u.Username, u.FullName, u.Email, u.HashedPassword, u.Disabled,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	return nil
}

// HealthCheck verifies the store connection is functional.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases database connections.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
