// Package session owns the authentication token and its observable
// presence/absence. It is the sole source of truth for whether protected
// gateway calls may be made.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Backend is the durable storage for the token, satisfied by prefs.Store.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

const tokenKey = "session.token"

// Store holds the current token in memory, mirrors it to the backend on every
// change, and notifies subscribers when the authenticated state flips.
//
// The in-memory copy is the one read on the request-signing path, so
// CurrentToken never touches storage. Persistence is best-effort: if a write
// fails, memory still updates and the UI stays consistent.
type Store struct {
	mu      sync.Mutex
	backend Backend
	token   string
	subs    map[int]func(bool)
	nextSub int
}

// NewStore loads any persisted token and returns the store. A storage read
// failure is treated as "no token" (fail safe to logged-out), and a token
// whose JWT expiry has already passed is discarded.
func NewStore(ctx context.Context, backend Backend) *Store {
	s := &Store{
		backend: backend,
		subs:    make(map[int]func(bool)),
	}

	token, ok, err := backend.Get(ctx, tokenKey)
	if err != nil {
		log.Printf("session: reading stored token failed, starting logged out: %v", err)
		return s
	}
	if !ok {
		return s
	}
	if tokenExpired(token) {
		if err := backend.Delete(ctx, tokenKey); err != nil {
			log.Printf("session: removing expired token failed: %v", err)
		}
		return s
	}
	s.token = token
	return s
}

// CurrentToken returns the token for request signing. Synchronous, no I/O.
func (s *Store) CurrentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Store) Authenticated() bool {
	return s.CurrentToken() != ""
}

// SetToken stores a new token and emits true to subscribers if the
// authenticated state changed.
func (s *Store) SetToken(ctx context.Context, token string) {
	s.swap(ctx, token)
}

// ClearToken removes the token and emits false to subscribers if the
// authenticated state changed.
func (s *Store) ClearToken(ctx context.Context) {
	s.swap(ctx, "")
}

func (s *Store) swap(ctx context.Context, token string) {
	s.mu.Lock()
	was := s.token != ""
	s.token = token
	now := token != ""
	var subs []func(bool)
	if was != now {
		subs = make([]func(bool), 0, len(s.subs))
		for _, fn := range s.subs {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	// Memory is already updated; durability is best-effort.
	var err error
	if token == "" {
		err = s.backend.Delete(ctx, tokenKey)
	} else {
		err = s.backend.Set(ctx, tokenKey, token)
	}
	if err != nil {
		log.Printf("session: persisting token change failed: %v", err)
	}

	for _, fn := range subs {
		fn(now)
	}
}

// Subscribe registers a listener for authenticated-state changes. Emissions
// are distinct-until-changed: the listener only fires when presence flips.
// The returned function unsubscribes and is safe to call more than once.
func (s *Store) Subscribe(fn func(authenticated bool)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// tokenExpired reports whether the token is a JWT whose exp claim has passed.
// Opaque tokens (anything that does not parse as a JWT, or has no exp) are
// never considered expired client-side; the server remains authoritative.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
