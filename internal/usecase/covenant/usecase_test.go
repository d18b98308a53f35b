package covenant

import (
	"context"
	"errors"
	"io"
	"testing"

	covenantDomain "coven-backend/internal/domain/covenant"
	loanDomain "coven-backend/internal/domain/loan"
	timelineDomain "coven-backend/internal/domain/timeline"
	"coven-backend/internal/domain/uow"
	"coven-backend/internal/testutil/covenantmock"
	"coven-backend/internal/testutil/loanmock"
	"coven-backend/internal/testutil/timelinemock"
	"coven-backend/internal/testutil/uowmock"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type fixture struct {
	loan     *loanDomain.Loan
	covenant *covenantDomain.Covenant
	events   []*timelineDomain.Event
}

func newFixture(status covenantDomain.ComplianceStatus) *fixture {
	return &fixture{
		loan: &loanDomain.Loan{ID: "ln_00000001", Borrower: "Meridian", ComplianceScore: 100},
		covenant: &covenantDomain.Covenant{
			ID: "cov_00000001", LoanID: "ln_00000001",
			Title: "Maximum Leverage Ratio", Type: covenantDomain.TypeFinancial,
			Status: status,
		},
	}
}

func (f *fixture) repos() uow.Repos {
	return uow.Repos{
		Loans: &loanmock.Repo{
			GetByIDForUpdateFn: func(ctx context.Context, id string) (*loanDomain.Loan, error) {
				if f.loan.ID != id {
					return nil, gorm.ErrRecordNotFound
				}
				return f.loan, nil
			},
			SaveFn: func(ctx context.Context, l *loanDomain.Loan) error {
				*f.loan = *l
				return nil
			},
		},
		Covenants: &covenantmock.Repo{
			GetByIDFn: func(ctx context.Context, id string) (*covenantDomain.Covenant, error) {
				if f.covenant == nil || f.covenant.ID != id {
					return nil, gorm.ErrRecordNotFound
				}
				cp := *f.covenant
				return &cp, nil
			},
			SaveFn: func(ctx context.Context, c *covenantDomain.Covenant) error {
				*f.covenant = *c
				return nil
			},
			CreateFn: func(ctx context.Context, c *covenantDomain.Covenant) error {
				f.covenant = c
				return nil
			},
			ListByLoanFn: func(ctx context.Context, loanID string) ([]covenantDomain.Covenant, error) {
				if f.covenant == nil {
					return nil, nil
				}
				return []covenantDomain.Covenant{*f.covenant}, nil
			},
			DeleteFn: func(ctx context.Context, id string) error {
				f.covenant = nil
				return nil
			},
		},
		Timeline: &timelinemock.Repo{
			CreateFn: func(ctx context.Context, e *timelineDomain.Event) error {
				f.events = append(f.events, e)
				return nil
			},
		},
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestCreate_RecordsEventAndRescores(t *testing.T) {
	f := newFixture(covenantDomain.StatusUpcoming)
	f.covenant = nil
	uc := NewUsecase(uowmock.Passthrough(f.repos()), quietLogger())

	c, err := uc.Create(context.Background(), CreateInput{
		LoanID: "ln_00000001",
		Title:  "Maximum Leverage Ratio",
		Type:   covenantDomain.TypeFinancial,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Status != covenantDomain.StatusUpcoming {
		t.Errorf("default status=%s want Upcoming", c.Status)
	}
	if len(f.events) != 1 || f.events[0].Type != timelineDomain.EventCovenantAdded {
		t.Fatalf("expected one CovenantAdded event, got %+v", f.events)
	}
	if got := f.events[0].Description; got != `New Financial covenant "Maximum Leverage Ratio" added to monitoring. Threshold: N/A.` {
		t.Errorf("unexpected event description: %q", got)
	}
	if f.loan.ComplianceScore != 100 {
		t.Errorf("score=%d want=100 (Upcoming is healthy)", f.loan.ComplianceScore)
	}
}

func TestCreate_MissingLoan(t *testing.T) {
	f := newFixture(covenantDomain.StatusUpcoming)
	uc := NewUsecase(uowmock.Passthrough(f.repos()), quietLogger())

	_, err := uc.Create(context.Background(), CreateInput{LoanID: "ln_deadbeef", Title: "x"})
	if !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatus_ToWaived_PopulatesWaiverFields(t *testing.T) {
	f := newFixture(covenantDomain.StatusAtRisk)
	uc := NewUsecase(uowmock.Passthrough(f.repos()), quietLogger())

	got, err := uc.UpdateStatus(context.Background(), "cov_00000001", UpdateStatusInput{
		Status:       covenantDomain.StatusWaived,
		WaiverReason: "One-time restructuring charge",
	}, "Jordan Blake")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.WaiverReason == nil || *got.WaiverReason != "One-time restructuring charge" {
		t.Errorf("waiver reason not set: %+v", got.WaiverReason)
	}
	if got.WaiverDate == nil || got.WaiverApprovedBy == nil || *got.WaiverApprovedBy != "Jordan Blake" {
		t.Errorf("waiver metadata incomplete: date=%v approver=%v", got.WaiverDate, got.WaiverApprovedBy)
	}
	if len(f.events) != 1 || f.events[0].Type != timelineDomain.EventWaiverGranted {
		t.Fatalf("expected one WaiverGranted event, got %+v", f.events)
	}
	want := `Waiver granted for "Maximum Leverage Ratio" covenant. Reason: One-time restructuring charge. Approved by Jordan Blake.`
	if f.events[0].Description != want {
		t.Errorf("event description:\n got %q\nwant %q", f.events[0].Description, want)
	}
	if f.loan.ComplianceScore != 100 {
		t.Errorf("score=%d want=100 (waived is healthy)", f.loan.ComplianceScore)
	}
}

func TestUpdateStatus_LeavingWaived_ClearsWaiverFields(t *testing.T) {
	f := newFixture(covenantDomain.StatusWaived)
	reason, date, by := "old reason", "2025-01-01", "Someone"
	f.covenant.WaiverReason, f.covenant.WaiverDate, f.covenant.WaiverApprovedBy = &reason, &date, &by
	uc := NewUsecase(uowmock.Passthrough(f.repos()), quietLogger())

	got, err := uc.UpdateStatus(context.Background(), "cov_00000001", UpdateStatusInput{
		Status: covenantDomain.StatusCompliant,
		Value:  "3.1x",
	}, "Jordan Blake")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.WaiverReason != nil || got.WaiverDate != nil || got.WaiverApprovedBy != nil {
		t.Errorf("waiver fields not cleared: %+v", got)
	}
	if got.Value != "3.1x" {
		t.Errorf("value not applied: %q", got.Value)
	}
	if len(f.events) != 1 || f.events[0].Type != timelineDomain.EventStatusChanged {
		t.Fatalf("expected one StatusChanged event, got %+v", f.events)
	}
	want := "Covenant status changed from Waived to Compliant. Current value: 3.1x."
	if f.events[0].Description != want {
		t.Errorf("event description:\n got %q\nwant %q", f.events[0].Description, want)
	}
	if f.events[0].Title != "Maximum Leverage Ratio Status Changed" {
		t.Errorf("event title: %q", f.events[0].Title)
	}
}

// Re-waiving after a round trip must not leak the earlier waiver reason.
func TestUpdateStatus_RewaiveUsesFreshReason(t *testing.T) {
	f := newFixture(covenantDomain.StatusAtRisk)
	uc := NewUsecase(uowmock.Passthrough(f.repos()), quietLogger())
	ctx := context.Background()

	if _, err := uc.UpdateStatus(ctx, "cov_00000001", UpdateStatusInput{
		Status: covenantDomain.StatusWaived, WaiverReason: "first waiver",
	}, "A"); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.UpdateStatus(ctx, "cov_00000001", UpdateStatusInput{
		Status: covenantDomain.StatusCompliant,
	}, "A"); err != nil {
		t.Fatal(err)
	}
	got, err := uc.UpdateStatus(ctx, "cov_00000001", UpdateStatusInput{
		Status: covenantDomain.StatusWaived, WaiverReason: "second waiver",
	}, "B")
	if err != nil {
		t.Fatal(err)
	}
	if *got.WaiverReason != "second waiver" || *got.WaiverApprovedBy != "B" {
		t.Errorf("stale waiver metadata: reason=%q approver=%q", *got.WaiverReason, *got.WaiverApprovedBy)
	}
}

// A no-op transition writes no event but still rescores.
func TestUpdateStatus_SameStatusNoEvent(t *testing.T) {
	f := newFixture(covenantDomain.StatusBreached)
	uc := NewUsecase(uowmock.Passthrough(f.repos()), quietLogger())

	_, err := uc.UpdateStatus(context.Background(), "cov_00000001", UpdateStatusInput{
		Status: covenantDomain.StatusBreached,
	}, "A")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if len(f.events) != 0 {
		t.Errorf("no event expected for no-op transition, got %+v", f.events)
	}
	if f.loan.ComplianceScore != 0 {
		t.Errorf("score=%d want=0 (single breached covenant)", f.loan.ComplianceScore)
	}
}

func TestUpdateStatus_MissingCovenant(t *testing.T) {
	f := newFixture(covenantDomain.StatusCompliant)
	uc := NewUsecase(uowmock.Passthrough(f.repos()), quietLogger())

	_, err := uc.UpdateStatus(context.Background(), "cov_deadbeef", UpdateStatusInput{
		Status: covenantDomain.StatusCompliant,
	}, "A")
	if !errors.Is(err, covenantDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_Rescores(t *testing.T) {
	f := newFixture(covenantDomain.StatusBreached)
	f.loan.ComplianceScore = 0
	uc := NewUsecase(uowmock.Passthrough(f.repos()), quietLogger())

	if err := uc.Delete(context.Background(), "cov_00000001"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.loan.ComplianceScore != 100 {
		t.Errorf("score=%d want=100 after removing only covenant", f.loan.ComplianceScore)
	}
}
