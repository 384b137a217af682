// internal/pkg/auth/session.go
package auth

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/infrastructure/storage"
)

const (
	tokenKey = "token"
	userKey  = "user"
)

// Session keeps the signed-in state under the `token` and `user`
// storage keys. It implements api.TokenSource so the API client picks
// up the bearer token automatically.
type Session struct {
	mu      sync.RWMutex
	storage storage.Storage
	log     *logrus.Logger
}

// NewSession creates a session manager over the given storage.
func NewSession(st storage.Storage, log *logrus.Logger) *Session {
	return &Session{storage: st, log: log}
}

// SignIn persists the backend-issued token and user record.
func (s *Session) SignIn(token string, user api.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(tokenKey, token); err != nil {
		return err
	}

	encoded, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.storage.Set(userKey, string(encoded))
}

// SignOut clears the session.
func (s *Session) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(tokenKey); err != nil {
		return err
	}
	return s.storage.Delete(userKey)
}

// Token returns the stored bearer token, pruning it when the embedded
// expiry has passed. An empty string means anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	token, err := s.storage.Get(tokenKey)
	s.mu.RUnlock()
	if err != nil {
		return ""
	}

	if claims, err := DecodeClaims(token); err == nil && claims.Expired() {
		s.log.Debug("session token expired, signing out")
		if err := s.SignOut(); err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.log.WithError(err).Warn("failed to clear expired session")
		}
		return ""
	}
	return token
}

// CurrentUser returns the stored user record, or nil when signed out
// or when the stored record is unreadable (fail-soft).
func (s *Session) CurrentUser() *api.User {
	if s.Token() == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := s.storage.Get(userKey)
	if err != nil {
		return nil
	}

	var user api.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.log.WithError(err).Debug("stored user record unreadable")
		return nil
	}
	return &user
}

// UpdateUser rewrites the stored user record, keeping the token.
func (s *Session) UpdateUser(user api.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	encoded, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.storage.Set(userKey, string(encoded))
}
