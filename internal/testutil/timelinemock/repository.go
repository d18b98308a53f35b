package timelinemock

import (
	"context"

	domain "coven-backend/internal/domain/timeline"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, e *domain.Event) error
	ListByLoanFn       func(ctx context.Context, loanID string) ([]domain.Event, error)
	ListByLoanLimitFn  func(ctx context.Context, loanID string, limit int) ([]domain.Event, error)
	ListRecentFn       func(ctx context.Context, limit int) ([]domain.Event, error)
	ClearCovenantRefFn func(ctx context.Context, covenantID string) error
	DeleteByLoanFn     func(ctx context.Context, loanID string) error
}

func (m *Repo) Create(ctx context.Context, e *domain.Event) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}
func (m *Repo) ListByLoan(ctx context.Context, loanID string) ([]domain.Event, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanID)
	}
	return nil, nil
}
func (m *Repo) ListByLoanLimit(ctx context.Context, loanID string, limit int) ([]domain.Event, error) {
	if m.ListByLoanLimitFn != nil {
		return m.ListByLoanLimitFn(ctx, loanID, limit)
	}
	return nil, nil
}
func (m *Repo) ListRecent(ctx context.Context, limit int) ([]domain.Event, error) {
	if m.ListRecentFn != nil {
		return m.ListRecentFn(ctx, limit)
	}
	return nil, nil
}
func (m *Repo) ClearCovenantRef(ctx context.Context, covenantID string) error {
	if m.ClearCovenantRefFn != nil {
		return m.ClearCovenantRefFn(ctx, covenantID)
	}
	return nil
}
func (m *Repo) DeleteByLoan(ctx context.Context, loanID string) error {
	if m.DeleteByLoanFn != nil {
		return m.DeleteByLoanFn(ctx, loanID)
	}
	return nil
}
