package mysql

import (
	"testing"

	covenantDomain "coven-backend/internal/domain/covenant"
	dnaDomain "coven-backend/internal/domain/dna"
	documentDomain "coven-backend/internal/domain/document"
	loanDomain "coven-backend/internal/domain/loan"
	riskDomain "coven-backend/internal/domain/risk"
	timelineDomain "coven-backend/internal/domain/timeline"
	"coven-backend/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the full schema. The
// domain models avoid engine-specific column types, so the production
// migration set works here too.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&loanDomain.Loan{},
		&covenantDomain.Covenant{},
		&timelineDomain.Event{},
		&riskDomain.Prediction{},
		&dnaDomain.LoanDNA{},
		&dnaDomain.ExtractedCovenant{},
		&documentDomain.Document{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeLoan() *loanDomain.Loan {
	return &loanDomain.Loan{
		ID:              id.New(id.PrefixLoan),
		Borrower:        "Meridian Industrial Holdings",
		Amount:          25_000_000,
		Currency:        "USD",
		InterestRate:    6.25,
		StartDate:       "2025-01-15",
		MaturityDate:    "2030-01-15",
		Status:          loanDomain.StatusActive,
		ComplianceScore: 100,
	}
}

func makeCovenant(loanID string, status covenantDomain.ComplianceStatus) *covenantDomain.Covenant {
	return &covenantDomain.Covenant{
		ID:        id.New(id.PrefixCovenant),
		LoanID:    loanID,
		Title:     "Maximum Leverage Ratio",
		Type:      covenantDomain.TypeFinancial,
		DueDate:   "2026-03-31",
		Status:    status,
		Value:     "3.2x",
		Threshold: "< 4.0x",
		Frequency: "Quarterly",
	}
}
