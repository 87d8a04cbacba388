// Package settings covers the two resources that are not list-shaped:
// per-form field visibility and the tenant company profile.
package settings

import (
	"context"
	"fmt"
	"net/url"

	"github.com/clinicore/crm_admin_app/internal/apperrors"
	"github.com/clinicore/crm_admin_app/internal/core/domain"
	"github.com/clinicore/crm_admin_app/internal/core/ports"
)

const fieldSettingsPath = "/field-settings"

// FieldSettingsService fetches and stores the field visibility map keyed
// by (scope, form type).
type FieldSettingsService struct {
	client  ports.RESTClient
	session ports.SessionReader
}

// NewFieldSettingsService creates a FieldSettingsService.
func NewFieldSettingsService(client ports.RESTClient, sess ports.SessionReader) *FieldSettingsService {
	return &FieldSettingsService{client: client, session: sess}
}

// Get fetches the settings for one form type within the active scope.
// A backend answer with no map still yields usable settings: the map is
// open and absent keys read as visible.
func (s *FieldSettingsService) Get(ctx context.Context, formType string) (domain.FieldSettings, error) {
	scopeID := s.session.ScopeID()
	if scopeID == "" {
		return domain.FieldSettings{}, apperrors.ErrNoSession
	}
	if formType == "" {
		return domain.FieldSettings{}, fmt.Errorf("%w: form type is required", apperrors.ErrValidation)
	}

	query := url.Values{"companyId": {scopeID}, "formType": {formType}}
	var fs domain.FieldSettings
	if err := s.client.GetJSON(ctx, fieldSettingsPath, query, &fs); err != nil {
		return domain.FieldSettings{}, err
	}
	fs.CompanyID = scopeID
	fs.FormType = formType
	if fs.Fields == nil {
		fs.Fields = make(map[string]bool)
	}
	return fs, nil
}

// Put stores the full visibility map for its (scope, form type) key.
func (s *FieldSettingsService) Put(ctx context.Context, fs domain.FieldSettings) error {
	scopeID := s.session.ScopeID()
	if scopeID == "" {
		return apperrors.ErrNoSession
	}
	if fs.FormType == "" {
		return fmt.Errorf("%w: form type is required", apperrors.ErrValidation)
	}
	fs.CompanyID = scopeID
	if err := s.client.PutJSON(ctx, fieldSettingsPath, fs, nil); err != nil {
		return fmt.Errorf("failed to store field settings: %w", err)
	}
	return nil
}
