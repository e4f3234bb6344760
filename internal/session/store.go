// Package session persists the signed-in user's state between runs, mirroring
// the browser app's local-storage session. The aggregation engine never reads
// it; callers pass the user id on explicitly.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"finbook/internal/core"
)

// DefaultTTL is how long a session without remember-me stays valid.
const DefaultTTL = 24 * time.Hour

// RememberTTL is the extended expiry when remember-me is set.
const RememberTTL = 30 * 24 * time.Hour

// Session is the persisted state.
type Session struct {
	User       core.User `json:"user"`
	UserID     string    `json:"userId"`
	LoggedIn   bool      `json:"loggedIn"`
	RememberMe bool      `json:"rememberMe"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// Expired reports whether the session has passed its expiry.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Store is a file-backed session store.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes the session, assigning expiry from the remember-me flag.
func (s *Store) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ttl := DefaultTTL
	if sess.RememberMe {
		ttl = RememberTTL
	}
	sess.ExpiresAt = time.Now().Add(ttl)

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load reads the current session. An expired session is cleared and reported
// as absent.
func (s *Store) Load() (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// A corrupt session file is treated as signed out.
		_ = os.Remove(s.path)
		return Session{}, false, nil
	}

	if sess.Expired(time.Now()) {
		_ = os.Remove(s.path)
		return Session{}, false, nil
	}
	return sess, true, nil
}

// Clear signs the user out.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
