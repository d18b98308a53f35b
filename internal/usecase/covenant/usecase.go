package covenant

import (
	"context"
	"errors"
	"fmt"
	"time"

	covenantDomain "coven-backend/internal/domain/covenant"
	loanDomain "coven-backend/internal/domain/loan"
	timelineDomain "coven-backend/internal/domain/timeline"
	"coven-backend/internal/domain/uow"
	"coven-backend/internal/usecase/scoring"
	"coven-backend/internal/usecase/timeline"
	"coven-backend/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Usecase is the covenant lifecycle controller. Every mutation runs as one
// transaction that locks the owning loan row, updates the covenant, appends
// the audit event and recomputes the compliance score, so the three views
// (covenant status, timeline, score) never drift apart.
type Usecase struct {
	uow uow.UnitOfWork
	log *logrus.Logger
}

func NewUsecase(u uow.UnitOfWork, log *logrus.Logger) *Usecase {
	return &Usecase{uow: u, log: log}
}

type CreateInput struct {
	LoanID      string
	Title       string
	Type        covenantDomain.Type
	DueDate     string
	Status      covenantDomain.ComplianceStatus
	Value       string
	Threshold   string
	Description string
	Frequency   string
}

type UpdateInput struct {
	Title       *string
	Type        *covenantDomain.Type
	DueDate     *string
	Value       *string
	Threshold   *string
	Description *string
	Frequency   *string
}

type UpdateStatusInput struct {
	Status       covenantDomain.ComplianceStatus
	Value        string
	WaiverReason string
}

// Create persists the covenant, logs the CovenantAdded event and rescores
// the loan. A fresh covenant normally starts Upcoming, which cannot move
// the score, but rescoring unconditionally keeps a seeded non-Upcoming
// status consistent too.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*covenantDomain.Covenant, error) {
	c := &covenantDomain.Covenant{
		ID:          id.New(id.PrefixCovenant),
		LoanID:      in.LoanID,
		Title:       in.Title,
		Type:        in.Type,
		DueDate:     in.DueDate,
		Status:      in.Status,
		Value:       in.Value,
		Threshold:   in.Threshold,
		Description: in.Description,
		Frequency:   in.Frequency,
	}
	if c.Status == "" {
		c.Status = covenantDomain.StatusUpcoming
	}

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if err := r.Covenants.Create(ctx, c); err != nil {
			return err
		}
		threshold := c.Threshold
		if threshold == "" {
			threshold = "N/A"
		}
		desc := fmt.Sprintf("New %s covenant %q added to monitoring. Threshold: %s.", c.Type, c.Title, threshold)
		if _, err := timeline.Record(ctx, r.Timeline, l.ID, timelineDomain.EventCovenantAdded,
			"Covenant Added", desc, &c.ID); err != nil {
			return err
		}
		_, err := scoring.Apply(ctx, r, l)
		return err
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateStatus applies a lifecycle transition. Waiver metadata is populated
// on entry to Waived and cleared on exit; exactly one audit event is
// written when the status actually changes; the score is recomputed
// regardless.
func (u *Usecase) UpdateStatus(ctx context.Context, covenantID string, in UpdateStatusInput, actor string) (*covenantDomain.Covenant, error) {
	var out *covenantDomain.Covenant
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Covenants.GetByID(ctx, covenantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return covenantDomain.ErrNotFound
			}
			return err
		}
		// Serialize against other mutations of the same loan aggregate.
		l, err := r.Loans.GetByIDForUpdate(ctx, c.LoanID)
		if err != nil {
			return err
		}

		oldStatus := c.Status
		newStatus := in.Status

		c.Status = newStatus
		if in.Value != "" {
			c.Value = in.Value
		}

		if newStatus == covenantDomain.StatusWaived {
			reason := in.WaiverReason
			today := time.Now().UTC().Format("2006-01-02")
			c.WaiverReason = &reason
			c.WaiverDate = &today
			approver := actor
			c.WaiverApprovedBy = &approver
		} else if oldStatus == covenantDomain.StatusWaived {
			c.WaiverReason = nil
			c.WaiverDate = nil
			c.WaiverApprovedBy = nil
		}

		if err := r.Covenants.Save(ctx, c); err != nil {
			return err
		}

		if oldStatus != newStatus {
			if newStatus == covenantDomain.StatusWaived {
				reason := in.WaiverReason
				if reason == "" {
					reason = "Not specified"
				}
				desc := fmt.Sprintf("Waiver granted for %q covenant. Reason: %s. Approved by %s.",
					c.Title, reason, *c.WaiverApprovedBy)
				if _, err := timeline.Record(ctx, r.Timeline, l.ID, timelineDomain.EventWaiverGranted,
					"Waiver Granted", desc, &c.ID); err != nil {
					return err
				}
			} else {
				desc := fmt.Sprintf("Covenant status changed from %s to %s.", oldStatus, newStatus)
				if in.Value != "" {
					desc += fmt.Sprintf(" Current value: %s.", in.Value)
				}
				if _, err := timeline.Record(ctx, r.Timeline, l.ID, timelineDomain.EventStatusChanged,
					fmt.Sprintf("%s Status Changed", c.Title), desc, &c.ID); err != nil {
					return err
				}
			}
		}

		// Rescore even on a no-op status change; the recomputation is
		// idempotent.
		if _, err := scoring.Apply(ctx, r, l); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{
		"covenant_id": covenantID,
		"status":      in.Status,
	}).Info("covenant status updated")
	return out, nil
}

// Update edits descriptive fields without touching the lifecycle state.
func (u *Usecase) Update(ctx context.Context, covenantID string, in UpdateInput) (*covenantDomain.Covenant, error) {
	var out *covenantDomain.Covenant
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Covenants.GetByID(ctx, covenantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return covenantDomain.ErrNotFound
			}
			return err
		}
		if in.Title != nil {
			c.Title = *in.Title
		}
		if in.Type != nil {
			c.Type = *in.Type
		}
		if in.DueDate != nil {
			c.DueDate = *in.DueDate
		}
		if in.Value != nil {
			c.Value = *in.Value
		}
		if in.Threshold != nil {
			c.Threshold = *in.Threshold
		}
		if in.Description != nil {
			c.Description = *in.Description
		}
		if in.Frequency != nil {
			c.Frequency = *in.Frequency
		}
		if err := r.Covenants.Save(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, covenantID string) (*covenantDomain.Covenant, error) {
	var out *covenantDomain.Covenant
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Covenants.GetByID(ctx, covenantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return covenantDomain.ErrNotFound
			}
			return err
		}
		out = c
		return nil
	})
	return out, err
}

func (u *Usecase) ListByLoan(ctx context.Context, loanID string) ([]covenantDomain.Covenant, error) {
	var out []covenantDomain.Covenant
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Covenants.ListByLoan(ctx, loanID)
		return err
	})
	return out, err
}

// Delete removes the covenant (cascading its predictions, nulling timeline
// references) and rescores the loan against the shrunken covenant set.
func (u *Usecase) Delete(ctx context.Context, covenantID string) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Covenants.GetByID(ctx, covenantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return covenantDomain.ErrNotFound
			}
			return err
		}
		l, err := r.Loans.GetByIDForUpdate(ctx, c.LoanID)
		if err != nil {
			return err
		}
		if err := r.Covenants.Delete(ctx, covenantID); err != nil {
			return err
		}
		_, err = scoring.Apply(ctx, r, l)
		return err
	})
}
