package session

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"shopfront/internal/domain"
	"shopfront/internal/storefront/localstore"
)

func newTestSession(t *testing.T, dir string) *Store {
	t.Helper()
	store, err := localstore.New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return New(store, log.New(io.Discard, "", 0))
}

func signedToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "cust-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestSessionLoginLogout(t *testing.T) {
	sess := newTestSession(t, t.TempDir())

	if sess.Authenticated() {
		t.Fatalf("fresh session should be logged out")
	}

	var flips []bool
	sess.OnChange(func(authenticated bool) {
		flips = append(flips, authenticated)
	})

	sess.Login(State{
		AccessToken:  signedToken(t, time.Hour),
		RefreshToken: "refresh-1",
		Customer:     domain.Customer{ID: "cust-1", Email: "a@b.c"},
	})

	if !sess.Authenticated() {
		t.Fatalf("expected authenticated after login")
	}
	if sess.CustomerID() != "cust-1" {
		t.Fatalf("customer id = %q", sess.CustomerID())
	}

	sess.Logout()
	if sess.Authenticated() {
		t.Fatalf("expected logged out after logout")
	}
	if sess.AccessToken() != "" || sess.RefreshToken() != "" {
		t.Fatalf("tokens should be cleared")
	}

	if len(flips) != 2 || flips[0] != true || flips[1] != false {
		t.Fatalf("unexpected watcher calls: %v", flips)
	}
}

func TestSessionExpiredTokenIsLoggedOut(t *testing.T) {
	sess := newTestSession(t, t.TempDir())

	var flips []bool
	sess.OnChange(func(authenticated bool) {
		flips = append(flips, authenticated)
	})

	sess.Login(State{AccessToken: signedToken(t, -time.Minute)})
	if sess.Authenticated() {
		t.Fatalf("expired token should not authenticate")
	}
	if len(flips) != 0 {
		t.Fatalf("watcher should not fire when the flag never flips, got %v", flips)
	}
}

func TestSessionOpaqueTokenAuthenticates(t *testing.T) {
	sess := newTestSession(t, t.TempDir())
	sess.Login(State{AccessToken: "opaque-token"})
	if !sess.Authenticated() {
		t.Fatalf("opaque token should count as live")
	}
}

func TestSessionPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := newTestSession(t, dir)
	first.Login(State{
		AccessToken: signedToken(t, time.Hour),
		Customer:    domain.Customer{ID: "cust-1"},
	})

	second := newTestSession(t, dir)
	if !second.Authenticated() {
		t.Fatalf("expected session to survive reload")
	}
	if second.CustomerID() != "cust-1" {
		t.Fatalf("customer id = %q", second.CustomerID())
	}
}
