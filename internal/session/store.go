// Package session holds the authenticated identity of a device.
//
// A Store is created per device and passed explicitly to whoever needs it.
// Its state only changes through Restore, Login, UpdateUser and Logout, and
// every change is announced to subscribers.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"househunt/internal/model"
	"househunt/internal/storage"
)

// logoutAttempts bounds how often Logout tries to remove the persisted records.
const logoutAttempts = 2

// Snapshot is an immutable copy of the session state.
type Snapshot struct {
	User          *model.User
	Token         string
	Authenticated bool
}

// Role returns the session's role, RoleUnknown when anonymous.
func (s Snapshot) Role() model.Role {
	if !s.Authenticated || s.User == nil {
		return model.RoleUnknown
	}
	return s.User.Role
}

// UserID returns the session user's ID, empty when anonymous.
func (s Snapshot) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// Listener is notified after every session mutation.
type Listener func(Snapshot)

// Store is the session of one device.
type Store struct {
	storage storage.Storage
	logger  *slog.Logger

	mu        sync.RWMutex
	user      *model.User
	token     string
	loggedIn  bool
	listeners map[int]Listener
	nextID    int
}

// NewStore creates an empty session backed by st.
func NewStore(st storage.Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		storage:   st,
		logger:    logger,
		listeners: make(map[int]Listener),
	}
}

// Restore loads the persisted session. A missing or malformed user record
// leaves the session empty; Restore never fails.
func (s *Store) Restore(ctx context.Context) {
	user, ok := s.readUser(ctx)
	var token string
	if ok {
		if raw, found := s.storage.Get(ctx, storage.KeyToken); found {
			token = string(raw)
		}
	}

	s.mu.Lock()
	if ok {
		s.user, s.token, s.loggedIn = user, token, true
	} else {
		s.user, s.token, s.loggedIn = nil, "", false
	}
	s.mu.Unlock()
	s.publish()
}

func (s *Store) readUser(ctx context.Context) (*model.User, bool) {
	raw, found := s.storage.Get(ctx, storage.KeyUser)
	if !found {
		return nil, false
	}
	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil {
		s.logger.Warn("discarding unreadable session record", "error", err)
		return nil, false
	}
	if !u.Valid() {
		s.logger.Warn("discarding incomplete session record", "user_id", u.ID, "role", u.Role.String())
		return nil, false
	}
	return &u, true
}

// Login stores user and token and marks the session authenticated.
func (s *Store) Login(ctx context.Context, user model.User, token string) error {
	blob, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, storage.KeyToken, []byte(token)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if err := s.storage.Set(ctx, storage.KeyUser, blob); err != nil {
		_ = s.storage.Remove(ctx, storage.KeyToken)
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.user, s.token, s.loggedIn = &user, token, true
	s.mu.Unlock()
	s.publish()
	return nil
}

// UpdateUser replaces the stored profile of an authenticated session. It is a
// no-op for an anonymous session.
func (s *Store) UpdateUser(ctx context.Context, user model.User) error {
	s.mu.RLock()
	loggedIn := s.loggedIn
	s.mu.RUnlock()
	if !loggedIn {
		return nil
	}

	blob, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, storage.KeyUser, blob); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	s.publish()
	return nil
}

// Logout clears persisted and in-memory state. The in-memory session is
// always cleared; an error means the persisted records may have survived and
// the device would be logged back in by its next Restore.
func (s *Store) Logout(ctx context.Context) error {
	var err error
	for attempt := 0; attempt < logoutAttempts; attempt++ {
		if err = s.storage.Remove(ctx, storage.KeyToken, storage.KeyUser); err == nil {
			break
		}
		s.logger.Warn("clearing session storage", "attempt", attempt+1, "error", err)
	}

	s.mu.Lock()
	s.user, s.token, s.loggedIn = nil, "", false
	s.mu.Unlock()
	s.publish()

	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Token: s.token, Authenticated: s.loggedIn}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Subscribe registers fn for every later mutation and returns a function that
// removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) publish() {
	snap := s.Snapshot()

	s.mu.RLock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(snap)
	}
}
