package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LedgerType defines the possible kinds of a ledger.
type LedgerType string

const (
	LedgerTypeIncome  LedgerType = "income"
	LedgerTypeExpense LedgerType = "expense"
)

// ParseLedgerType resolves free text (as entered in bulk import) to a
// LedgerType. Matching is case-insensitive after trimming.
func ParseLedgerType(s string) (LedgerType, bool) {
	switch LedgerType(strings.ToLower(strings.TrimSpace(s))) {
	case LedgerTypeIncome:
		return LedgerTypeIncome, true
	case LedgerTypeExpense:
		return LedgerTypeExpense, true
	}
	return "", false
}

// Ledger represents an income or expense head within a company.
type Ledger struct {
	LedgerID       string          `json:"ledgerID"`
	CompanyID      string          `json:"companyID"` // Owning scope
	Name           string          `json:"name" validate:"required"`
	Type           LedgerType      `json:"type" validate:"required,oneof=income expense"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	AuditFields
}

// SubLedger represents a sub-head under a Ledger of the same company.
type SubLedger struct {
	SubLedgerID string `json:"subLedgerID"`
	CompanyID   string `json:"companyID"` // Owning scope
	Name        string `json:"name" validate:"required"`
	LedgerID    string `json:"ledgerID" validate:"required"` // FK -> Ledger, same scope
	AuditFields
}
