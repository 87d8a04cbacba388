package domain

import "github.com/shopspring/decimal"

// Address holds the postal address fields shared by leads and clients.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

// Lead represents a prospective client captured by the sales flow.
type Lead struct {
	LeadID    string  `json:"leadID"`
	CompanyID string  `json:"companyID"` // Owning scope
	Name      string  `json:"name" validate:"required"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Phone     string  `json:"phone"`
	Address   Address `json:"address"`
	TaxNumber string  `json:"taxNumber"` // Tax registration number (e.g. GSTIN)
	Notes     string  `json:"notes,omitempty"`
	AuditFields
}

// Client represents an onboarded client. Same shape as Lead plus billing fields.
type Client struct {
	ClientID    string          `json:"clientID"`
	CompanyID   string          `json:"companyID"` // Owning scope
	Name        string          `json:"name" validate:"required"`
	Email       string          `json:"email" validate:"omitempty,email"`
	Phone       string          `json:"phone"`
	Address     Address         `json:"address"`
	TaxNumber   string          `json:"taxNumber"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	Outstanding decimal.Decimal `json:"outstanding"`
	AuditFields
}
