package covenantmock

import (
	"context"

	domain "coven-backend/internal/domain/covenant"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn            func(ctx context.Context, c *domain.Covenant) error
	GetByIDFn           func(ctx context.Context, id string) (*domain.Covenant, error)
	ListByLoanFn        func(ctx context.Context, loanID string) ([]domain.Covenant, error)
	ListByLoanAndTypeFn func(ctx context.Context, loanID string, t domain.Type) ([]domain.Covenant, error)
	SaveFn              func(ctx context.Context, c *domain.Covenant) error
	DeleteFn            func(ctx context.Context, id string) error
	CountFn             func(ctx context.Context) (int64, error)
	CountByStatusFn     func(ctx context.Context, statuses ...domain.ComplianceStatus) (int64, error)
}

func (m *Repo) Create(ctx context.Context, c *domain.Covenant) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}
func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Covenant, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) ListByLoan(ctx context.Context, loanID string) ([]domain.Covenant, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanID)
	}
	return nil, nil
}
func (m *Repo) ListByLoanAndType(ctx context.Context, loanID string, t domain.Type) ([]domain.Covenant, error) {
	if m.ListByLoanAndTypeFn != nil {
		return m.ListByLoanAndTypeFn(ctx, loanID, t)
	}
	return nil, nil
}
func (m *Repo) Save(ctx context.Context, c *domain.Covenant) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}
func (m *Repo) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
func (m *Repo) Count(ctx context.Context) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return 0, nil
}
func (m *Repo) CountByStatus(ctx context.Context, statuses ...domain.ComplianceStatus) (int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx, statuses...)
	}
	return 0, nil
}
