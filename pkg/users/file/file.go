// Package file implements users.Store over a flat JSON file mapping
// sequential string ids to user records. The whole file is read at
// construction and rewritten on every mutation; a single in-process mutex
// serializes the read-modify-write, so one process owns the file at a time.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/docqa-dev/docqa/pkg/users"
)

// Store is a flat-file user store.
type Store struct {
	path string

	mu      sync.RWMutex
	records map[int]*users.User // record id -> user
	byName  map[string]int      // username -> record id
}

// Ensure Store implements users.Store at compile time.
var _ users.Store = (*Store)(nil)

// New loads the user file at path. A missing file yields an empty store;
// the file is created on the first mutation.
func New(path string) (*Store, error) {
	s := &Store{
		path:    path,
		records: make(map[int]*users.User),
		byName:  make(map[string]int),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading user file: %w", err)
	}

	var raw map[string]*users.User
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing user file %s: %w", path, err)
	}

	for key, u := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("user file %s: non-numeric record key %q", path, key)
		}
		if _, dup := s.byName[u.Username]; dup {
			return nil, fmt.Errorf("user file %s: duplicate username %q", path, u.Username)
		}
		u.ID = id
		s.records[id] = u
		s.byName[u.Username] = id
	}

	return s, nil
}

// Get retrieves a user by username.
func (s *Store) Get(_ context.Context, username string) (*users.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[username]
	if !ok {
		return nil, users.ErrNotFound
	}
	u := *s.records[id]
	return &u, nil
}

// List returns all users ordered by record ID.
func (s *Store) List(_ context.Context) ([]*users.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]*users.User, 0, len(ids))
	for _, id := range ids {
		u := *s.records[id]
		out = append(out, &u)
	}
	return out, nil
}

// Create assigns the next sequential record ID (max existing + 1) and
// rewrites the whole file.
func (s *Store) Create(_ context.Context, u *users.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.byName[u.Username]; dup {
		return users.ErrExists
	}

	next := 1
	for id := range s.records {
		if id >= next {
			next = id + 1
		}
	}

	u.ID = next
	s.records[next] = u
	s.byName[u.Username] = next

	if err := s.writeLocked(); err != nil {
		delete(s.records, next)
		delete(s.byName, u.Username)
		return err
	}
	return nil
}

// Close is a no-op for the file store.
func (s *Store) Close() error { return nil }

// writeLocked serializes the full record map back to disk. Callers must
// hold the write lock.
func (s *Store) writeLocked() error {
	raw := make(map[string]*users.User, len(s.records))
	for id, u := range s.records {
		raw[strconv.Itoa(id)] = u
	}

	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding user file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing user file: %w", err)
	}
	return nil
}
