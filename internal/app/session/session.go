/*
Package session holds the current authenticated identity and its token.

On process start the session restores a persisted {token, user} pair from the
on-device keystore; both keys must be present, otherwise the session starts
unauthenticated. Login and signup persist the pair. Logout clears it, as does
any failed user refresh, which is treated as an authoritative signal that the
session is invalid. Authentication state is always derived from the presence
of user and token, never stored as a separate flag.
*/
package session

import (
	"context"
	"encoding/json"
	"sync"

	"eventbook/internal/app/model"
	"eventbook/internal/app/userstore"
	"eventbook/internal/pkg/auth/token"
	"eventbook/internal/pkg/errs"
	"eventbook/internal/pkg/keystore"
	"eventbook/internal/pkg/logx"
)

// Exactly two keys are persisted; absence of either forces Unauthenticated.
const (
	StorageKeyAuthToken = "auth_token"
	StorageKeyUserData  = "user_data"
)

// State enumerates the session lifecycle.
type State int

const (
	StateInitializing State = iota
	StateAuthenticated
	StateUnauthenticated
)

// Context is the session/auth context. One instance lives per process;
// it implements the gateway's TokenSource so outgoing requests carry the
// session token.
type Context struct {
	mu     sync.RWMutex
	store  *keystore.Store
	users  *userstore.Store
	secret string
	state  State
	user   *model.User
	token  string
}

// New constructs a session context over the given keystore and user store.
// tokenSecret verifies restored session tokens; it must match the secret the
// user store mints with. The context starts in StateInitializing; call
// Initialize before use.
func New(store *keystore.Store, users *userstore.Store, tokenSecret string) *Context {
	return &Context{
		store:  store,
		users:  users,
		secret: tokenSecret,
		state:  StateInitializing,
	}
}

// Initialize primes the user store and restores a persisted session. A failed
// user-store load clears any persisted pair and leaves the session
// unauthenticated; the error is logged, not surfaced, so the app still starts
// offline.
func (s *Context) Initialize(ctx context.Context) {
	if err := s.users.EnsureInitialized(ctx); err != nil {
		logx.Warn("User store initialization failed during session restore",
			"error", err.Error())
		s.clear()
		return
	}

	tok, okToken := s.store.Get(StorageKeyAuthToken)
	rawUser, okUser := s.store.Get(StorageKeyUserData)

	if !okToken || !okUser {
		s.clear()
		return
	}

	// A restored token that fails to parse or verify invalidates the whole
	// persisted pair.
	if _, err := token.Parse(tok, s.secret); err != nil {
		logx.Warn("Persisted session token failed validation; clearing session",
			"error", errs.NewError(errs.ErrInvalidToken).Error(),
			"cause", err.Error())
		s.clear()
		return
	}

	var user model.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		logx.Warn("Persisted user record is corrupted; clearing session",
			"error", err.Error())
		s.clear()
		return
	}

	s.mu.Lock()
	s.user = &user
	s.token = tok
	s.state = StateAuthenticated
	s.mu.Unlock()
}

// Login authenticates against the local user store and persists the session
// pair on success.
func (s *Context) Login(ctx context.Context, email, password string) error {
	user, tok, err := s.users.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.establish(user, tok)
}

// Signup creates an account through the local user store and persists the
// session pair on success.
func (s *Context) Signup(ctx context.Context, name, email, password string) error {
	user, tok, err := s.users.Signup(ctx, name, email, password)
	if err != nil {
		return err
	}
	return s.establish(user, tok)
}

// Logout clears the persisted pair and the in-memory identity.
func (s *Context) Logout() {
	s.clear()
}

// RefreshUser reloads the current user's record from the user store and
// re-persists it. Any failure is treated as an invalidated session: the
// persisted pair is cleared and the session becomes unauthenticated. This is
// a deliberate simplification: the client prefers a forced re-login over
// operating on a profile it cannot verify.
func (s *Context) RefreshUser(ctx context.Context) error {
	s.mu.RLock()
	current := s.user
	s.mu.RUnlock()

	if current == nil {
		return errs.NewError(errs.ErrUnauthenticated)
	}

	if err := s.users.EnsureInitialized(ctx); err != nil {
		logx.Warn("User refresh failed; clearing session", "error", err.Error())
		s.clear()
		return errs.NewError(errs.ErrUnauthenticated)
	}

	user, ok := s.users.FindByID(current.ID)
	if !ok {
		logx.Warn("User refresh found no record; clearing session", "user_id", current.ID)
		s.clear()
		return errs.NewError(errs.ErrUnauthenticated)
	}

	s.mu.Lock()
	tok := s.token
	s.user = &user
	s.mu.Unlock()

	return s.persist(user, tok)
}

// User returns a copy of the authenticated user, or nil when unauthenticated.
func (s *Context) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// Token returns the session token, or the empty string when unauthenticated.
// It implements the gateway's TokenSource.
func (s *Context) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// State returns the session lifecycle state.
func (s *Context) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated derives the authentication state from the presence of both
// user and token. It is never stored independently.
func (s *Context) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// establish stores the pair in memory and persists it.
func (s *Context) establish(user model.User, tok string) error {
	s.mu.Lock()
	s.user = &user
	s.token = tok
	s.state = StateAuthenticated
	s.mu.Unlock()

	return s.persist(user, tok)
}

// persist writes the session pair to the keystore. A persistence failure is
// surfaced: a session that cannot be saved would silently vanish on restart.
func (s *Context) persist(user model.User, tok string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return errs.NewError(errs.ErrUnknown, err)
	}

	if err := s.store.Set(StorageKeyAuthToken, tok); err != nil {
		return errs.NewError(errs.ErrUnknown, err)
	}
	if err := s.store.Set(StorageKeyUserData, string(raw)); err != nil {
		return errs.NewError(errs.ErrUnknown, err)
	}
	return nil
}

// clear removes the persisted pair and resets the in-memory identity.
func (s *Context) clear() {
	if err := s.store.Delete(StorageKeyAuthToken); err != nil {
		logx.Warn("Failed to clear persisted token", "error", err.Error())
	}
	if err := s.store.Delete(StorageKeyUserData); err != nil {
		logx.Warn("Failed to clear persisted user record", "error", err.Error())
	}

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.state = StateUnauthenticated
	s.mu.Unlock()
}
