/*
Package userstore implements the local-first user store and authentication
simulator.

The full user collection is fetched from the remote store exactly once per
store lifetime; from then on the in-memory list is the single source of truth
for lookups and credential checks. Mutations (signup, profile update,
registration mirroring) are applied locally first and written through to the
remote store on a best-effort basis: a failed write-through is logged and
never rolls back the local change. This trades consistency for availability:
a freshly signed-up user must be able to log in again in the same session
even while the device is offline.

Credential checks compare plaintext passwords, mirroring the development-mode
backing store. This is a simulation, not an authentication system.
*/
package userstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"eventbook/internal/app/model"
	"eventbook/internal/app/wire"
	"eventbook/internal/pkg/auth/token"
	"eventbook/internal/pkg/errs"
	"eventbook/internal/pkg/logx"
	"eventbook/internal/pkg/randx"
)

// Gateway is the slice of the remote gateway the user store depends on.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Put(ctx context.Context, path string, body any, out any) error
}

// State enumerates the lifecycle of the store.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateFailed
)

// Store is the local user store. Construct it with New and share one instance
// per process; tests create isolated instances and may call Reset between
// cases.
type Store struct {
	mu     sync.RWMutex
	gw     Gateway
	secret string
	state  State
	users  []model.User
	group  singleflight.Group
}

// New constructs a user store backed by the given gateway. tokenSecret signs
// the session tokens minted on login and signup.
func New(gw Gateway, tokenSecret string) *Store {
	return &Store{
		gw:     gw,
		secret: tokenSecret,
	}
}

// State returns the store's current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// EnsureInitialized primes the store with the full user collection. The fetch
// happens at most once per store lifetime: concurrent callers share a single
// request, and calls after a successful load are no-ops. A failed load leaves
// the store in StateFailed and may be retried by calling again.
func (s *Store) EnsureInitialized(ctx context.Context) error {
	s.mu.RLock()
	ready := s.state == StateReady
	s.mu.RUnlock()
	if ready {
		return nil
	}

	_, err, _ := s.group.Do("init", func() (any, error) {
		s.mu.Lock()
		if s.state == StateReady {
			s.mu.Unlock()
			return nil, nil
		}
		s.state = StateLoading
		s.mu.Unlock()

		var raw []wire.User
		if err := s.gw.Get(ctx, "/users", &raw); err != nil {
			s.mu.Lock()
			s.state = StateFailed
			s.mu.Unlock()
			return nil, err
		}

		users := wire.ToUsers(raw)

		s.mu.Lock()
		s.users = users
		s.state = StateReady
		s.mu.Unlock()

		logx.Info("User store initialized", "user_count", len(users))
		return nil, nil
	})

	return err
}

// Reset returns the store to its uninitialized state, discarding the cached
// user list. Intended for tests.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateUninitialized
	s.users = nil
}

// FindByEmail looks up a user by exact email match. It never touches the
// network; an uninitialized store simply finds nothing.
func (s *Store) FindByEmail(email string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return model.User{}, false
}

// FindByID looks up a user by id in the cached list.
func (s *Store) FindByID(id string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

// Users returns a snapshot of the cached user list.
func (s *Store) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out
}

// Login verifies the supplied credentials against the cached user list and
// mints a session token on success. It fails with ErrNotFound when no account
// matches the email and ErrInvalidCredentials when the password differs.
func (s *Store) Login(ctx context.Context, email, password string) (model.User, string, error) {
	if err := s.EnsureInitialized(ctx); err != nil {
		return model.User{}, "", err
	}

	user, ok := s.FindByEmail(email)
	if !ok {
		return model.User{}, "", errs.NewError(errs.ErrNotFound)
	}

	// Plaintext comparison by contract with the development store.
	if user.Password != password {
		return model.User{}, "", errs.NewError(errs.ErrInvalidCredentials)
	}

	tok, err := token.Mint(user.ID, s.secret)
	if err != nil {
		return model.User{}, "", errs.NewError(errs.ErrUnknown, err)
	}

	return user, tok, nil
}

// Signup creates a new account. The record is appended to the in-memory list
// immediately so a subsequent login in the same session succeeds even if the
// remote write-through fails; the write-through itself is best-effort.
func (s *Store) Signup(ctx context.Context, name, email, password string) (model.User, string, error) {
	if err := s.EnsureInitialized(ctx); err != nil {
		return model.User{}, "", err
	}

	s.mu.Lock()
	for _, u := range s.users {
		if u.Email == email {
			s.mu.Unlock()
			return model.User{}, "", errs.NewError(errs.ErrAlreadyExists)
		}
	}

	user := model.User{
		ID:        randx.NewUserID(),
		Name:      name,
		Email:     email,
		Password:  password,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	s.users = append(s.users, user)
	s.mu.Unlock()

	if err := s.gw.Post(ctx, "/users", wire.FromUser(user), nil); err != nil {
		logx.Warn("Signup write-through failed; account exists locally only",
			"user_id", user.ID, "error", err.Error())
	}

	tok, err := token.Mint(user.ID, s.secret)
	if err != nil {
		return model.User{}, "", errs.NewError(errs.ErrUnknown, err)
	}

	return user, tok, nil
}

// Patch describes a partial profile update. Nil fields are left unchanged; a
// non-nil RegisteredEventIDs replaces the mirrored list wholesale.
type Patch struct {
	Name               *string
	Email              *string
	Password           *string
	Avatar             *string
	RegisteredEventIDs []string
}

// UpdateProfile merges patch into the cached record and writes the result
// through to the remote store on a best-effort basis. It fails with
// ErrNotFound when the id is absent from the cache.
func (s *Store) UpdateProfile(ctx context.Context, id string, patch Patch) (model.User, error) {
	s.mu.Lock()
	idx := -1
	for i, u := range s.users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return model.User{}, errs.NewError(errs.ErrNotFound)
	}

	user := s.users[idx]
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		user.Password = *patch.Password
	}
	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
	}
	if patch.RegisteredEventIDs != nil {
		user.RegisteredEventIDs = dedupe(patch.RegisteredEventIDs)
	}
	s.users[idx] = user
	s.mu.Unlock()

	s.writeThrough(ctx, user)
	return user, nil
}

// AddRegisteredEvent appends eventID to the user's mirrored registration list
// (suppressing duplicates) and writes the user through. The mirrored list is
// a projection of the registrations resource maintained for dashboard reads.
func (s *Store) AddRegisteredEvent(ctx context.Context, userID, eventID string) error {
	s.mu.Lock()
	idx := -1
	for i, u := range s.users {
		if u.ID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return errs.NewError(errs.ErrNotFound)
	}

	user := s.users[idx]
	for _, id := range user.RegisteredEventIDs {
		if id == eventID {
			s.mu.Unlock()
			return nil
		}
	}
	user.RegisteredEventIDs = append(append([]string(nil), user.RegisteredEventIDs...), eventID)
	s.users[idx] = user
	s.mu.Unlock()

	s.writeThrough(ctx, user)
	return nil
}

// RemoveRegisteredEvent removes eventID from the user's mirrored registration
// list and writes the user through. Removing an absent id is a no-op.
func (s *Store) RemoveRegisteredEvent(ctx context.Context, userID, eventID string) error {
	s.mu.Lock()
	idx := -1
	for i, u := range s.users {
		if u.ID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return errs.NewError(errs.ErrNotFound)
	}

	user := s.users[idx]
	kept := make([]string, 0, len(user.RegisteredEventIDs))
	for _, id := range user.RegisteredEventIDs {
		if id != eventID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(user.RegisteredEventIDs) {
		s.mu.Unlock()
		return nil
	}
	user.RegisteredEventIDs = kept
	s.users[idx] = user
	s.mu.Unlock()

	s.writeThrough(ctx, user)
	return nil
}

// writeThrough persists the user record remotely, swallowing (but logging)
// any failure. The local record is already the source of truth.
func (s *Store) writeThrough(ctx context.Context, user model.User) {
	path := "/users/" + user.ID
	if err := s.gw.Put(ctx, path, wire.FromUser(user), nil); err != nil {
		logx.Warn("User write-through failed; local record retained",
			"user_id", user.ID, "error", err.Error())
	}
}

// dedupe suppresses duplicate ids while preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
