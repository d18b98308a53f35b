package riskmock

import (
	"context"

	domain "coven-backend/internal/domain/risk"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, p *domain.Prediction) error
	ListByLoanFn       func(ctx context.Context, loanID string) ([]domain.Prediction, error)
	ListHighRiskFn     func(ctx context.Context, minProbability int) ([]domain.HighRisk, error)
	DeleteByCovenantFn func(ctx context.Context, covenantID string) error
	DeleteByLoanFn     func(ctx context.Context, loanID string) error
}

func (m *Repo) Create(ctx context.Context, p *domain.Prediction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}
func (m *Repo) ListByLoan(ctx context.Context, loanID string) ([]domain.Prediction, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanID)
	}
	return nil, nil
}
func (m *Repo) ListHighRisk(ctx context.Context, minProbability int) ([]domain.HighRisk, error) {
	if m.ListHighRiskFn != nil {
		return m.ListHighRiskFn(ctx, minProbability)
	}
	return nil, nil
}
func (m *Repo) DeleteByCovenant(ctx context.Context, covenantID string) error {
	if m.DeleteByCovenantFn != nil {
		return m.DeleteByCovenantFn(ctx, covenantID)
	}
	return nil
}
func (m *Repo) DeleteByLoan(ctx context.Context, loanID string) error {
	if m.DeleteByLoanFn != nil {
		return m.DeleteByLoanFn(ctx, loanID)
	}
	return nil
}
