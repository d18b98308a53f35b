package documentmock

import (
	"context"

	domain "coven-backend/internal/domain/document"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, d *domain.Document) error
	ListByLoanFn   func(ctx context.Context, loanID string) ([]domain.Document, error)
	DeleteByLoanFn func(ctx context.Context, loanID string) error
}

func (m *Repo) Create(ctx context.Context, d *domain.Document) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}
func (m *Repo) ListByLoan(ctx context.Context, loanID string) ([]domain.Document, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanID)
	}
	return nil, nil
}
func (m *Repo) DeleteByLoan(ctx context.Context, loanID string) error {
	if m.DeleteByLoanFn != nil {
		return m.DeleteByLoanFn(ctx, loanID)
	}
	return nil
}
