// Package session tracks the shopper's authentication state. It is an
// explicit state container passed by reference to the facade and the
// reconciler; nothing reads ambient globals.
package session

import (
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"shopfront/internal/domain"
	"shopfront/internal/storefront/localstore"
)

const sessionKey = "session"

// State is the persisted session record.
type State struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken,omitempty"`
	Customer     domain.Customer `json:"customer"`
}

// Store holds the current session and notifies observers when the
// authenticated flag flips.
type Store struct {
	mu       sync.Mutex
	store    *localstore.Store
	logger   *log.Logger
	state    State
	watchers []func(authenticated bool)
}

// New loads any persisted session. An expired token is treated as logged
// out without being erased; a refresh may still revive it.
func New(store *localstore.Store, logger *log.Logger) *Store {
	s := &Store{store: store, logger: logger}
	if _, err := store.Load(sessionKey, &s.state); err != nil {
		logger.Printf("load session: %v", err)
	}
	return s
}

// Authenticated reports whether a non-expired access token is present. The
// check runs fresh on every call; callers must not cache the answer.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tokenLive(s.state.AccessToken)
}

// AccessToken returns the current bearer token, empty when logged out.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken
}

// RefreshToken returns the current refresh token, empty when none is held.
func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RefreshToken
}

// CustomerID returns the logged-in customer's ID, empty when logged out.
func (s *Store) CustomerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Customer.ID
}

// Customer returns the logged-in customer profile snapshot.
func (s *Store) Customer() domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Customer
}

// Login stores the new session and notifies observers if the authenticated
// flag flipped.
func (s *Store) Login(state State) {
	s.mu.Lock()
	was := tokenLive(s.state.AccessToken)
	s.state = state
	if err := s.store.Save(sessionKey, s.state); err != nil {
		s.logger.Printf("persist session: %v", err)
	}
	now := tokenLive(s.state.AccessToken)
	watchers := append([]func(bool){}, s.watchers...)
	s.mu.Unlock()

	if was != now {
		for _, fn := range watchers {
			fn(now)
		}
	}
}

// Logout clears the session and notifies observers.
func (s *Store) Logout() {
	s.mu.Lock()
	was := tokenLive(s.state.AccessToken)
	s.state = State{}
	if err := s.store.Delete(sessionKey); err != nil {
		s.logger.Printf("clear session: %v", err)
	}
	watchers := append([]func(bool){}, s.watchers...)
	s.mu.Unlock()

	if was {
		for _, fn := range watchers {
			fn(false)
		}
	}
}

// OnChange registers an observer invoked whenever the authenticated flag
// flips. Observers run on the caller's goroutine of the triggering call.
func (s *Store) OnChange(fn func(authenticated bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

// tokenLive checks presence and, for JWTs, the exp claim. The signature is
// not verified here; the server rejects forged tokens regardless.
func tokenLive(token string) bool {
	if token == "" {
		return false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque tokens are assumed live until the server says otherwise.
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.After(time.Now())
}
