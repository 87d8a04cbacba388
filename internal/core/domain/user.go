package domain

// RoleGroup defines the access tier the session operates under.
type RoleGroup string

const (
	RoleGroupMaster RoleGroup = "MASTER"
	RoleGroupAdmin  RoleGroup = "ADMIN"
	RoleGroupStaff  RoleGroup = "STAFF"
)

// UserProfile represents the authenticated user as returned by the backend.
type UserProfile struct {
	UserID    string    `json:"userID"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CompanyID string    `json:"companyID"` // Default owning scope for this user
	RoleGroup RoleGroup `json:"roleGroup"`
}

// SessionState is the persisted snapshot of an authenticated session.
// It is what survives a restart of the client.
type SessionState struct {
	Token     string      `json:"token" mapstructure:"token"`
	Profile   UserProfile `json:"profile" mapstructure:"profile"`
	ScopeID   string      `json:"scopeId" mapstructure:"scopeId"`
	RoleGroup RoleGroup   `json:"roleGroup" mapstructure:"roleGroup"`
}
