package ports

import "github.com/clinicore/crm_admin_app/internal/core/domain"

// SessionReader provides synchronous read access to the active session.
// Reads never hit the network.
type SessionReader interface {
	Token() string
	ScopeID() string
	RoleGroup() domain.RoleGroup
	Profile() (domain.UserProfile, bool)
	Authenticated() bool
}

// SessionWriter mutates the session through its lifecycle operations.
// Direct field writes are not part of the contract: login, logout and the
// switch operations are the only writers.
type SessionWriter interface {
	Begin(state domain.SessionState) error
	Clear() error
	SwitchScope(scopeID string) error
	SwitchRoleGroup(rg domain.RoleGroup) error
}

// SessionStore persists a session snapshot across runs of the client.
type SessionStore interface {
	Save(state domain.SessionState) error
	Load() (domain.SessionState, error)
	Clear() error
}
