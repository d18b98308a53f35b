package risk

import (
	"context"
	"errors"

	covenantDomain "coven-backend/internal/domain/covenant"
	loanDomain "coven-backend/internal/domain/loan"
	riskDomain "coven-backend/internal/domain/risk"
	"coven-backend/internal/domain/uow"
	"coven-backend/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(u uow.UnitOfWork) *Usecase { return &Usecase{uow: u} }

type CreateInput struct {
	CovenantID          string
	CurrentValue        string
	Threshold           string
	PredictedBreachDate string
	Probability         int
	Trend               riskDomain.Trend
	Explanation         string
}

// Create appends a manually supplied prediction to the covenant's trail.
// Analyst overrides use this when the automated refresh is stale. The
// covenant must belong to the given loan.
func (u *Usecase) Create(ctx context.Context, loanID string, in CreateInput) (*riskDomain.Prediction, error) {
	p := &riskDomain.Prediction{
		ID:                  id.New(id.PrefixRiskPrediction),
		LoanID:              loanID,
		CovenantID:          in.CovenantID,
		CurrentValue:        in.CurrentValue,
		Threshold:           in.Threshold,
		PredictedBreachDate: in.PredictedBreachDate,
		Probability:         in.Probability,
		Trend:               in.Trend,
		Explanation:         in.Explanation,
	}
	if p.Trend == "" {
		p.Trend = riskDomain.TrendStable
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Loans.GetByID(ctx, loanID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loanDomain.ErrNotFound
			}
			return err
		}
		cov, err := r.Covenants.GetByID(ctx, in.CovenantID)
		if err != nil || cov.LoanID != loanID {
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return covenantDomain.ErrNotFound
		}
		return r.Predictions.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByLoan returns the loan's predictions, highest probability first.
func (u *Usecase) ListByLoan(ctx context.Context, loanID string) ([]riskDomain.Prediction, error) {
	var out []riskDomain.Prediction
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Loans.GetByID(ctx, loanID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loanDomain.ErrNotFound
			}
			return err
		}
		var err error
		out, err = r.Predictions.ListByLoan(ctx, loanID)
		return err
	})
	return out, err
}
