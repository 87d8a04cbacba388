package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/clinicore/crm_admin_app/internal/apperrors"
	"github.com/clinicore/crm_admin_app/internal/core/domain"
	"github.com/clinicore/crm_admin_app/internal/core/ports"
)

// FileStore persists the session snapshot as a JSON file, the client-side
// analog of the dashboard's persisted local session.
type FileStore struct {
	path string
}

var _ ports.SessionStore = (*FileStore)(nil)

// NewFileStore creates a store writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the snapshot, creating parent directories as needed.
// The file is owner-only since it carries the bearer token.
func (f *FileStore) Save(state domain.SessionState) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(f.path)
	v.SetConfigType("json")
	v.Set("token", state.Token)
	v.Set("scopeId", state.ScopeID)
	v.Set("roleGroup", string(state.RoleGroup))
	v.Set("profile", map[string]any{
		"userID":    state.Profile.UserID,
		"name":      state.Profile.Name,
		"email":     state.Profile.Email,
		"companyID": state.Profile.CompanyID,
		"roleGroup": string(state.Profile.RoleGroup),
	})
	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return os.Chmod(f.path, 0o600)
}

// Load reads the snapshot back. A missing file yields apperrors.ErrNoSession.
func (f *FileStore) Load() (domain.SessionState, error) {
	if _, err := os.Stat(f.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.SessionState{}, apperrors.ErrNoSession
		}
		return domain.SessionState{}, fmt.Errorf("failed to stat session file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(f.path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return domain.SessionState{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var state domain.SessionState
	if err := v.Unmarshal(&state); err != nil {
		return domain.SessionState{}, fmt.Errorf("failed to decode session file: %w", err)
	}
	return state, nil
}

// Clear removes the session file. A missing file is not an error.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
