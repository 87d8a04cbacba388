package domain

// Company represents the tenant company record ("our client" in the backend API).
// There is exactly one per scope; it is fetched and updated, never listed.
type Company struct {
	CompanyID string  `json:"companyID"`
	Name      string  `json:"name" validate:"required"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Phone     string  `json:"phone"`
	Address   Address `json:"address"`
	TaxNumber string  `json:"taxNumber"`
	AuditFields
}
