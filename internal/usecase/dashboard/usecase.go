package dashboard

import (
	"context"
	"math"

	covenantDomain "coven-backend/internal/domain/covenant"
	riskDomain "coven-backend/internal/domain/risk"
	timelineDomain "coven-backend/internal/domain/timeline"
	"coven-backend/internal/domain/uow"
)

// Usecase aggregates the portfolio-wide read model shown on the landing
// dashboard.
type Usecase struct {
	uow uow.UnitOfWork
}

func NewUsecase(u uow.UnitOfWork) *Usecase {
	return &Usecase{uow: u}
}

// RecentEvent is a timeline entry enriched with its loan's borrower for
// portfolio-level display.
type RecentEvent struct {
	ID          string                   `json:"id"`
	LoanID      string                   `json:"loanId"`
	Borrower    string                   `json:"borrower"`
	Type        timelineDomain.EventType `json:"type"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Date        string                   `json:"date"`
}

type Stats struct {
	TotalLoans          int64                 `json:"total_loans"`
	TotalCovenants      int64                 `json:"total_covenants"`
	AtRiskCovenants     int64                 `json:"at_risk_covenants"`
	BreachedCovenants   int64                 `json:"breached_covenants"`
	AvgComplianceScore  int                   `json:"avg_compliance_score"`
	HighRiskPredictions []riskDomain.HighRisk `json:"high_risk_predictions"`
	RecentEvents        []RecentEvent         `json:"recent_events"`
}

// Stats builds the dashboard snapshot in a single read transaction.
// AtRiskCovenants counts both At Risk and Breached; BreachedCovenants
// counts breaches alone.
func (u *Usecase) Stats(ctx context.Context) (*Stats, error) {
	out := &Stats{
		HighRiskPredictions: []riskDomain.HighRisk{},
		RecentEvents:        []RecentEvent{},
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		if out.TotalLoans, err = r.Loans.Count(ctx); err != nil {
			return err
		}
		if out.TotalCovenants, err = r.Covenants.Count(ctx); err != nil {
			return err
		}
		if out.AtRiskCovenants, err = r.Covenants.CountByStatus(ctx,
			covenantDomain.StatusAtRisk, covenantDomain.StatusBreached); err != nil {
			return err
		}
		if out.BreachedCovenants, err = r.Covenants.CountByStatus(ctx,
			covenantDomain.StatusBreached); err != nil {
			return err
		}

		loans, err := r.Loans.List(ctx)
		if err != nil {
			return err
		}
		if len(loans) > 0 {
			sum := 0
			for _, l := range loans {
				sum += l.ComplianceScore
			}
			out.AvgComplianceScore = int(math.Round(float64(sum) / float64(len(loans))))
		}
		borrowers := make(map[string]string, len(loans))
		for _, l := range loans {
			borrowers[l.ID] = l.Borrower
		}

		high, err := r.Predictions.ListHighRisk(ctx, 50)
		if err != nil {
			return err
		}
		if len(high) > 3 {
			high = high[:3]
		}
		out.HighRiskPredictions = append(out.HighRiskPredictions, high...)

		events, err := r.Timeline.ListRecent(ctx, 5)
		if err != nil {
			return err
		}
		for _, e := range events {
			out.RecentEvents = append(out.RecentEvents, RecentEvent{
				ID:          e.ID,
				LoanID:      e.LoanID,
				Borrower:    borrowers[e.LoanID],
				Type:        e.Type,
				Title:       e.Title,
				Description: e.Description,
				Date:        e.Date,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
