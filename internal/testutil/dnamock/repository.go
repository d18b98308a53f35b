package dnamock

import (
	"context"

	domain "coven-backend/internal/domain/dna"

	"gorm.io/gorm"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, d *domain.LoanDNA) error
	GetByLoanIDFn  func(ctx context.Context, loanID string) (*domain.LoanDNA, error)
	DeleteByLoanFn func(ctx context.Context, loanID string) error
}

func (m *Repo) Create(ctx context.Context, d *domain.LoanDNA) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}
func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.LoanDNA, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *Repo) DeleteByLoan(ctx context.Context, loanID string) error {
	if m.DeleteByLoanFn != nil {
		return m.DeleteByLoanFn(ctx, loanID)
	}
	return nil
}
