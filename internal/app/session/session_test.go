package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"eventbook/internal/app/userstore"
	"eventbook/internal/app/wire"
	"eventbook/internal/pkg/auth/token"
	"eventbook/internal/pkg/errs"
	"eventbook/internal/pkg/keystore"
)

// fakeGateway serves a fixed /users collection and can be flipped into a
// failing mode.
type fakeGateway struct {
	users []wire.User
	fail  atomic.Bool
}

func (f *fakeGateway) Get(ctx context.Context, path string, out any) error {
	if f.fail.Load() {
		return errors.New("network down")
	}
	if path == "/users" {
		*(out.(*[]wire.User)) = f.users
		return nil
	}
	return errs.NewHTTPError(404, "")
}

func (f *fakeGateway) Post(ctx context.Context, path string, body any, out any) error {
	return nil
}

func (f *fakeGateway) Put(ctx context.Context, path string, body any, out any) error {
	return nil
}

func newFixture(t *testing.T) (*Context, *fakeGateway, string) {
	t.Helper()

	gw := &fakeGateway{
		users: []wire.User{{
			ID:       "u-1",
			Name:     "Client Test",
			Email:    "client@test.com",
			Password: "123123",
		}},
	}

	path := filepath.Join(t.TempDir(), "keystore.bin")
	ks, err := keystore.Open(path, "test-passphrase")
	if err != nil {
		t.Fatalf("keystore.Open() unexpected error: %v", err)
	}

	users := userstore.New(gw, "test-secret")
	return New(ks, users, "test-secret"), gw, path
}

func TestInitializeWithoutPersistedSession(t *testing.T) {
	sess, _, _ := newFixture(t)

	sess.Initialize(context.Background())

	if sess.State() != StateUnauthenticated {
		t.Errorf("State() = %v, want StateUnauthenticated", sess.State())
	}
	if sess.IsAuthenticated() {
		t.Error("IsAuthenticated() = true for an empty keystore")
	}
}

func TestLoginPersistsAndRestores(t *testing.T) {
	sess, gw, path := newFixture(t)
	ctx := context.Background()

	sess.Initialize(ctx)
	if err := sess.Login(ctx, "client@test.com", "123123"); err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}

	if !sess.IsAuthenticated() {
		t.Fatal("IsAuthenticated() = false after login")
	}
	if sess.Token() == "" {
		t.Fatal("Token() empty after login")
	}

	// A new context over the same keystore restores the session.
	ks, err := keystore.Open(path, "test-passphrase")
	if err != nil {
		t.Fatalf("keystore.Open() unexpected error: %v", err)
	}
	restored := New(ks, userstore.New(gw, "test-secret"), "test-secret")
	restored.Initialize(ctx)

	if restored.State() != StateAuthenticated {
		t.Fatalf("restored State() = %v, want StateAuthenticated", restored.State())
	}
	user := restored.User()
	if user == nil || user.ID != "u-1" {
		t.Errorf("restored User() = %+v, want u-1", user)
	}
	if restored.Token() != sess.Token() {
		t.Error("restored Token() differs from the persisted one")
	}
}

func TestLoginFailureLeavesUnauthenticated(t *testing.T) {
	sess, _, _ := newFixture(t)
	ctx := context.Background()

	sess.Initialize(ctx)
	err := sess.Login(ctx, "client@test.com", "wrong")
	if !errs.IsCode(err, errs.ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	if sess.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after failed login")
	}
}

func TestLogoutClearsPersistedPair(t *testing.T) {
	sess, gw, path := newFixture(t)
	ctx := context.Background()

	sess.Initialize(ctx)
	if err := sess.Login(ctx, "client@test.com", "123123"); err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}

	sess.Logout()

	if sess.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after logout")
	}
	if sess.State() != StateUnauthenticated {
		t.Errorf("State() = %v, want StateUnauthenticated", sess.State())
	}

	ks, err := keystore.Open(path, "test-passphrase")
	if err != nil {
		t.Fatalf("keystore.Open() unexpected error: %v", err)
	}
	restored := New(ks, userstore.New(gw, "test-secret"), "test-secret")
	restored.Initialize(ctx)
	if restored.IsAuthenticated() {
		t.Error("logged-out session was restored")
	}
}

func TestInitializeClearsOnPartialPair(t *testing.T) {
	gw := &fakeGateway{}
	path := filepath.Join(t.TempDir(), "keystore.bin")
	ks, err := keystore.Open(path, "pp")
	if err != nil {
		t.Fatalf("keystore.Open() unexpected error: %v", err)
	}
	if err := ks.Set(StorageKeyAuthToken, "orphan-token"); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}

	sess := New(ks, userstore.New(gw, "test-secret"), "test-secret")
	sess.Initialize(context.Background())

	if sess.IsAuthenticated() {
		t.Error("IsAuthenticated() = true with only a token persisted")
	}
	if _, ok := ks.Get(StorageKeyAuthToken); ok {
		t.Error("orphan token was not cleared")
	}
}

func TestInitializeClearsOnCorruptUserRecord(t *testing.T) {
	gw := &fakeGateway{}
	path := filepath.Join(t.TempDir(), "keystore.bin")
	ks, err := keystore.Open(path, "pp")
	if err != nil {
		t.Fatalf("keystore.Open() unexpected error: %v", err)
	}
	tok, err := token.Mint("u-1", "test-secret")
	if err != nil {
		t.Fatalf("token.Mint() unexpected error: %v", err)
	}
	if err := ks.Set(StorageKeyAuthToken, tok); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if err := ks.Set(StorageKeyUserData, "{not json"); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}

	sess := New(ks, userstore.New(gw, "test-secret"), "test-secret")
	sess.Initialize(context.Background())

	if sess.IsAuthenticated() {
		t.Error("IsAuthenticated() = true for a corrupt persisted record")
	}
	if _, ok := ks.Get(StorageKeyUserData); ok {
		t.Error("corrupt record was not cleared")
	}
}

func TestInitializeClearsOnInvalidToken(t *testing.T) {
	gw := &fakeGateway{}
	path := filepath.Join(t.TempDir(), "keystore.bin")
	ks, err := keystore.Open(path, "pp")
	if err != nil {
		t.Fatalf("keystore.Open() unexpected error: %v", err)
	}

	// A token signed with a different secret must not restore the session,
	// even alongside a well-formed user record.
	tok, err := token.Mint("u-1", "some-other-secret")
	if err != nil {
		t.Fatalf("token.Mint() unexpected error: %v", err)
	}
	if err := ks.Set(StorageKeyAuthToken, tok); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if err := ks.Set(StorageKeyUserData, `{"id":"u-1","name":"Client Test"}`); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}

	sess := New(ks, userstore.New(gw, "test-secret"), "test-secret")
	sess.Initialize(context.Background())

	if sess.IsAuthenticated() {
		t.Error("IsAuthenticated() = true with a token signed by another secret")
	}
	if sess.State() != StateUnauthenticated {
		t.Errorf("State() = %v, want StateUnauthenticated", sess.State())
	}
	if _, ok := ks.Get(StorageKeyAuthToken); ok {
		t.Error("invalid token was not cleared")
	}
	if _, ok := ks.Get(StorageKeyUserData); ok {
		t.Error("user record was not cleared alongside the invalid token")
	}
}

func TestRefreshUserFailureLogsOut(t *testing.T) {
	sess, gw, _ := newFixture(t)
	ctx := context.Background()

	sess.Initialize(ctx)
	if err := sess.Login(ctx, "client@test.com", "123123"); err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}

	// Drop the user from the backing collection and force a reload.
	gw.users = nil
	sess.users.Reset()
	gw.fail.Store(true)

	err := sess.RefreshUser(ctx)
	if !errs.IsCode(err, errs.ErrUnauthenticated) {
		t.Fatalf("RefreshUser() error = %v, want ErrUnauthenticated", err)
	}
	if sess.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after failed refresh")
	}
	if sess.State() != StateUnauthenticated {
		t.Errorf("State() = %v, want StateUnauthenticated", sess.State())
	}
}

func TestRefreshUserUpdatesRecord(t *testing.T) {
	sess, gw, _ := newFixture(t)
	ctx := context.Background()

	sess.Initialize(ctx)
	if err := sess.Login(ctx, "client@test.com", "123123"); err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}

	gw.users[0].Name = "Renamed"
	sess.users.Reset()

	if err := sess.RefreshUser(ctx); err != nil {
		t.Fatalf("RefreshUser() unexpected error: %v", err)
	}
	if user := sess.User(); user == nil || user.Name != "Renamed" {
		t.Errorf("User() = %+v, want refreshed name", user)
	}
}

func TestRefreshUserWhileUnauthenticated(t *testing.T) {
	sess, _, _ := newFixture(t)
	sess.Initialize(context.Background())

	err := sess.RefreshUser(context.Background())
	if !errs.IsCode(err, errs.ErrUnauthenticated) {
		t.Errorf("RefreshUser() error = %v, want ErrUnauthenticated", err)
	}
}
