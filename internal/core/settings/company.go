package settings

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/clinicore/crm_admin_app/internal/apperrors"
	"github.com/clinicore/crm_admin_app/internal/core/domain"
	"github.com/clinicore/crm_admin_app/internal/core/ports"
)

const companyPath = "/our-client"

// CompanyService fetches and updates the tenant company profile. There is
// exactly one per scope, so this is get/update rather than a controller.
type CompanyService struct {
	client   ports.RESTClient
	session  ports.SessionReader
	validate *validator.Validate
}

// NewCompanyService creates a CompanyService.
func NewCompanyService(client ports.RESTClient, sess ports.SessionReader, validate *validator.Validate) *CompanyService {
	return &CompanyService{client: client, session: sess, validate: validate}
}

// Get fetches the company record for the active scope.
func (s *CompanyService) Get(ctx context.Context) (domain.Company, error) {
	scopeID := s.session.ScopeID()
	if scopeID == "" {
		return domain.Company{}, apperrors.ErrNoSession
	}
	var company domain.Company
	if err := s.client.GetJSON(ctx, companyPath, url.Values{"companyId": {scopeID}}, &company); err != nil {
		return domain.Company{}, err
	}
	return company, nil
}

// Update replaces the company record. Full-record replace, same as every
// other update in the API.
func (s *CompanyService) Update(ctx context.Context, company domain.Company) error {
	scopeID := s.session.ScopeID()
	if scopeID == "" {
		return apperrors.ErrNoSession
	}
	if company.CompanyID == "" {
		return fmt.Errorf("%w: company id is required", apperrors.ErrValidation)
	}
	if s.validate != nil {
		if err := s.validate.Struct(company); err != nil {
			return fmt.Errorf("%w: company: %v", apperrors.ErrValidation, err)
		}
	}
	if err := s.client.PutJSON(ctx, companyPath+"/"+url.PathEscape(company.CompanyID), company, nil); err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}
	return nil
}
