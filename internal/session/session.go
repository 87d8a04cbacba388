// Package session holds the process-wide authenticated session: token,
// user profile, active scope (owning company id) and role group. Reads are
// synchronous; mutation happens only through the lifecycle operations so
// there is a single writer.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/clinicore/crm_admin_app/internal/apperrors"
	"github.com/clinicore/crm_admin_app/internal/core/domain"
	"github.com/clinicore/crm_admin_app/internal/core/ports"
)

// Session is the authoritative in-memory session state.
type Session struct {
	mu    sync.RWMutex
	state domain.SessionState
	store ports.SessionStore // optional; nil disables persistence

	onScope []func(scopeID string)
	onReset []func()
}

var (
	_ ports.SessionReader = (*Session)(nil)
	_ ports.SessionWriter = (*Session)(nil)
)

// New creates an empty Session. The store may be nil for ephemeral use.
func New(store ports.SessionStore) *Session {
	return &Session{store: store}
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// ScopeID returns the active owning-company id, empty when logged out.
func (s *Session) ScopeID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ScopeID
}

// RoleGroup returns the active role group.
func (s *Session) RoleGroup() domain.RoleGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.RoleGroup
}

// Profile returns the authenticated user's profile and whether one exists.
func (s *Session) Profile() (domain.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Profile, s.state.Token != ""
}

// Authenticated reports whether a login has populated the session.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// OnScopeChange registers a callback fired after the active scope changes.
// Controllers use this to refetch so no stale-scope data survives a switch.
func (s *Session) OnScopeChange(fn func(scopeID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onScope = append(s.onScope, fn)
}

// OnReset registers a callback fired after logout clears the session.
func (s *Session) OnReset(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReset = append(s.onReset, fn)
}

// Begin installs a freshly authenticated state and persists it.
func (s *Session) Begin(state domain.SessionState) error {
	if state.Token == "" {
		return fmt.Errorf("%w: login produced no token", apperrors.ErrValidation)
	}
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return s.persist()
}

// Restore loads a previously persisted session. A missing file yields
// apperrors.ErrNoSession; an expired token yields apperrors.ErrSessionExpired
// and the stale file is removed.
func (s *Session) Restore() error {
	if s.store == nil {
		return apperrors.ErrNoSession
	}
	state, err := s.store.Load()
	if err != nil {
		return err
	}
	if state.Token == "" {
		return apperrors.ErrNoSession
	}
	if tokenExpired(state.Token, time.Now()) {
		_ = s.store.Clear()
		return apperrors.ErrSessionExpired
	}
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return nil
}

// Clear logs the session out: in-memory state and the persisted file are
// wiped, then reset listeners fire so dependent controllers drop their data.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.state = domain.SessionState{}
	listeners := append([]func(){}, s.onReset...)
	s.mu.Unlock()

	var err error
	if s.store != nil {
		err = s.store.Clear()
	}
	for _, fn := range listeners {
		fn()
	}
	return err
}

// SwitchScope changes the active owning-company id, persists the session
// and fires scope listeners so every dependent controller refetches.
func (s *Session) SwitchScope(scopeID string) error {
	if scopeID == "" {
		return fmt.Errorf("%w: scope id must not be empty", apperrors.ErrValidation)
	}
	s.mu.Lock()
	if s.state.Token == "" {
		s.mu.Unlock()
		return apperrors.ErrNoSession
	}
	if s.state.ScopeID == scopeID {
		s.mu.Unlock()
		return nil
	}
	s.state.ScopeID = scopeID
	listeners := append([]func(string){}, s.onScope...)
	s.mu.Unlock()

	err := s.persist()
	for _, fn := range listeners {
		fn(scopeID)
	}
	return err
}

// SwitchRoleGroup changes the active role group and persists the session.
func (s *Session) SwitchRoleGroup(rg domain.RoleGroup) error {
	s.mu.Lock()
	if s.state.Token == "" {
		s.mu.Unlock()
		return apperrors.ErrNoSession
	}
	s.state.RoleGroup = rg
	s.mu.Unlock()
	return s.persist()
}

func (s *Session) persist() error {
	if s.store == nil {
		return nil
	}
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()
	if err := s.store.Save(state); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}
