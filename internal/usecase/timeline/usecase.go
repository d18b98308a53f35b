package timeline

import (
	"context"
	"errors"
	"time"

	timelineDomain "coven-backend/internal/domain/timeline"
	"coven-backend/internal/domain/uow"
	"coven-backend/pkg/id"

	"gorm.io/gorm"

	loanDomain "coven-backend/internal/domain/loan"
)

// Record shapes and appends one audit event using the caller's repository
// binding (transactional or not). Events are append-only; there is no
// update or delete path.
func Record(ctx context.Context, repo timelineDomain.Repository, loanID string, typ timelineDomain.EventType, title, description string, relatedCovenantID *string) (*timelineDomain.Event, error) {
	e := &timelineDomain.Event{
		ID:                id.New(id.PrefixTimelineEvent),
		LoanID:            loanID,
		Type:              typ,
		Date:              time.Now().UTC().Format("2006-01-02"),
		Title:             title,
		Description:       description,
		RelatedCovenantID: relatedCovenantID,
	}
	if err := repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

type CreateInput struct {
	LoanID            string
	Type              timelineDomain.EventType
	Date              string
	Title             string
	Description       string
	RelatedCovenantID *string
	Metadata          string
}

type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(u uow.UnitOfWork) *Usecase { return &Usecase{uow: u} }

// Create appends a manually supplied event (e.g. payments, amendments) to
// a loan's audit trail.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*timelineDomain.Event, error) {
	e := &timelineDomain.Event{
		ID:                id.New(id.PrefixTimelineEvent),
		LoanID:            in.LoanID,
		Type:              in.Type,
		Date:              in.Date,
		Title:             in.Title,
		Description:       in.Description,
		RelatedCovenantID: in.RelatedCovenantID,
		Metadata:          in.Metadata,
	}
	if e.Date == "" {
		e.Date = time.Now().UTC().Format("2006-01-02")
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Loans.GetByID(ctx, in.LoanID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loanDomain.ErrNotFound
			}
			return err
		}
		return r.Timeline.Create(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListByLoan returns the loan's audit trail newest first.
func (u *Usecase) ListByLoan(ctx context.Context, loanID string) ([]timelineDomain.Event, error) {
	var out []timelineDomain.Event
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Timeline.ListByLoan(ctx, loanID)
		return err
	})
	return out, err
}
