package loan

import (
	"context"
	"errors"
	"fmt"

	covenantDomain "coven-backend/internal/domain/covenant"
	dnaDomain "coven-backend/internal/domain/dna"
	documentDomain "coven-backend/internal/domain/document"
	loanDomain "coven-backend/internal/domain/loan"
	riskDomain "coven-backend/internal/domain/risk"
	timelineDomain "coven-backend/internal/domain/timeline"
	"coven-backend/internal/domain/uow"
	"coven-backend/internal/usecase/timeline"
	"coven-backend/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(u uow.UnitOfWork) *Usecase { return &Usecase{uow: u} }

type CreateInput struct {
	ID              string
	Borrower        string
	Amount          float64
	Currency        string
	InterestRate    float64
	StartDate       string
	MaturityDate    string
	Status          loanDomain.Status
	ComplianceScore *int
	RiskSummary     string
}

type UpdateInput struct {
	Borrower        *string
	Amount          *float64
	Currency        *string
	InterestRate    *float64
	StartDate       *string
	MaturityDate    *string
	Status          *loanDomain.Status
	ComplianceScore *int
	RiskSummary     *string
}

// ListItem is the list-view projection: the loan plus covenant counts.
type ListItem struct {
	loanDomain.Loan
	CovenantCount int64 `json:"covenant_count"`
	AtRiskCount   int64 `json:"at_risk_count"`
}

// Detail is the full aggregate served by the loan detail endpoint.
type Detail struct {
	loanDomain.Loan
	Covenants       []covenantDomain.Covenant   `json:"covenants"`
	TimelineEvents  []timelineDomain.Event      `json:"timeline_events"`
	RiskPredictions []riskDomain.Prediction     `json:"risk_predictions"`
	Documents       []documentDomain.Document   `json:"uploaded_documents"`
	LoanDNA         *dnaDomain.LoanDNA          `json:"loan_dna,omitempty"`
}

type DashboardStats struct {
	TotalCovenants  int64             `json:"total_covenants"`
	AtRiskCount     int64             `json:"at_risk_count"`
	ComplianceScore int               `json:"compliance_score"`
	Status          loanDomain.Status `json:"status"`
}

// Create persists the loan and appends the LoanCreated audit event. The
// compliance score may be seeded by the caller; production flows overwrite
// it on the next recomputation.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*loanDomain.Loan, error) {
	l := &loanDomain.Loan{
		ID:              in.ID,
		Borrower:        in.Borrower,
		Amount:          in.Amount,
		Currency:        in.Currency,
		InterestRate:    in.InterestRate,
		StartDate:       in.StartDate,
		MaturityDate:    in.MaturityDate,
		Status:          in.Status,
		ComplianceScore: 100,
		RiskSummary:     in.RiskSummary,
	}
	if l.ID == "" {
		l.ID = id.New(id.PrefixLoan)
	}
	if l.Currency == "" {
		l.Currency = "USD"
	}
	if l.Status == "" {
		l.Status = loanDomain.StatusActive
	}
	if in.ComplianceScore != nil {
		l.ComplianceScore = *in.ComplianceScore
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		desc := fmt.Sprintf("New loan facility created for %s with principal amount of %s %s.",
			l.Borrower, l.Currency, FormatAmount(l.Amount))
		_, err := timeline.Record(ctx, r.Timeline, l.ID, timelineDomain.EventLoanCreated,
			"Loan Facility Created", desc, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out *loanDomain.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByID(ctx, loanID)
		if err != nil {
			return err
		}
		out = l
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return out, err
}

// GetDetail loads the loan with every owned relation.
func (u *Usecase) GetDetail(ctx context.Context, loanID string) (*Detail, error) {
	var out Detail
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByID(ctx, loanID)
		if err != nil {
			return err
		}
		out.Loan = *l
		if out.Covenants, err = r.Covenants.ListByLoan(ctx, loanID); err != nil {
			return err
		}
		if out.TimelineEvents, err = r.Timeline.ListByLoan(ctx, loanID); err != nil {
			return err
		}
		if out.RiskPredictions, err = r.Predictions.ListByLoan(ctx, loanID); err != nil {
			return err
		}
		if out.Documents, err = r.Documents.ListByLoan(ctx, loanID); err != nil {
			return err
		}
		d, err := r.DNA.GetByLoanID(ctx, loanID)
		if err == nil {
			out.LoanDNA = d
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *Usecase) List(ctx context.Context) ([]ListItem, error) {
	var out []ListItem
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		loans, err := r.Loans.List(ctx)
		if err != nil {
			return err
		}
		out = make([]ListItem, 0, len(loans))
		for _, l := range loans {
			covs, err := r.Covenants.ListByLoan(ctx, l.ID)
			if err != nil {
				return err
			}
			item := ListItem{Loan: l, CovenantCount: int64(len(covs))}
			for _, c := range covs {
				if c.Status == covenantDomain.StatusAtRisk || c.Status == covenantDomain.StatusBreached {
					item.AtRiskCount++
				}
			}
			out = append(out, item)
		}
		return nil
	})
	return out, err
}

func (u *Usecase) Update(ctx context.Context, loanID string, in UpdateInput) (*loanDomain.Loan, error) {
	var out *loanDomain.Loan
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if in.Borrower != nil {
			l.Borrower = *in.Borrower
		}
		if in.Amount != nil {
			l.Amount = *in.Amount
		}
		if in.Currency != nil {
			l.Currency = *in.Currency
		}
		if in.InterestRate != nil {
			l.InterestRate = *in.InterestRate
		}
		if in.StartDate != nil {
			l.StartDate = *in.StartDate
		}
		if in.MaturityDate != nil {
			l.MaturityDate = *in.MaturityDate
		}
		if in.Status != nil {
			l.Status = *in.Status
		}
		if in.ComplianceScore != nil {
			l.ComplianceScore = *in.ComplianceScore
		}
		if in.RiskSummary != nil {
			l.RiskSummary = *in.RiskSummary
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return out, err
}

// Delete removes the loan and all dependents transitively.
func (u *Usecase) Delete(ctx context.Context, loanID string) error {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Loans.Delete(ctx, loanID)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return loanDomain.ErrNotFound
	}
	return err
}

// DashboardStats serves the per-loan header card.
func (u *Usecase) DashboardStats(ctx context.Context, loanID string) (*DashboardStats, error) {
	var out DashboardStats
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByID(ctx, loanID)
		if err != nil {
			return err
		}
		covs, err := r.Covenants.ListByLoan(ctx, loanID)
		if err != nil {
			return err
		}
		out.TotalCovenants = int64(len(covs))
		for _, c := range covs {
			if c.Status == covenantDomain.StatusAtRisk || c.Status == covenantDomain.StatusBreached {
				out.AtRiskCount++
			}
		}
		out.ComplianceScore = l.ComplianceScore
		out.Status = l.Status
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
