package mysql

import (
	"context"
	"errors"
	"testing"

	dnaDomain "coven-backend/internal/domain/dna"
	documentDomain "coven-backend/internal/domain/document"
	riskDomain "coven-backend/internal/domain/risk"
	timelineDomain "coven-backend/internal/domain/timeline"
	"coven-backend/pkg/id"

	"gorm.io/gorm"
)

func TestLoanCreateAndGetByID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan()
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Borrower != l.Borrower || got.ComplianceScore != 100 {
		t.Errorf("unexpected loan: %+v", got)
	}
}

func TestLoanGetByID_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)

	_, err := repo.GetByID(context.Background(), "ln_deadbeef")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestLoanSaveUpdatesScore(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan()
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	l.ComplianceScore = 63
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ComplianceScore != 63 {
		t.Errorf("ComplianceScore not updated, got=%d want=63", got.ComplianceScore)
	}
}

// Deleting a loan must take its entire dependency graph with it: covenants,
// timeline events, risk predictions, DNA (including extracted covenants)
// and documents.
func TestLoanDelete_Cascades(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	loans := NewLoanRepository(db)
	covenants := NewCovenantRepository(db)
	events := NewTimelineRepository(db)
	risks := NewRiskRepository(db)
	dnas := NewDNARepository(db)
	docs := NewDocumentRepository(db)

	l := makeLoan()
	if err := loans.Create(ctx, l); err != nil {
		t.Fatal(err)
	}
	c := makeCovenant(l.ID, "Compliant")
	if err := covenants.Create(ctx, c); err != nil {
		t.Fatal(err)
	}
	if err := events.Create(ctx, &timelineDomain.Event{
		ID: id.New(id.PrefixTimelineEvent), LoanID: l.ID,
		Type: timelineDomain.EventLoanCreated, Date: "2025-01-15", Title: "Loan Facility Created",
	}); err != nil {
		t.Fatal(err)
	}
	if err := risks.Create(ctx, &riskDomain.Prediction{
		ID: id.New(id.PrefixRiskPrediction), LoanID: l.ID, CovenantID: c.ID,
		Probability: 70, Trend: riskDomain.TrendDeteriorating,
	}); err != nil {
		t.Fatal(err)
	}
	if err := dnas.Create(ctx, &dnaDomain.LoanDNA{
		ID: id.New(id.PrefixLoanDNA), LoanID: l.ID, ExtractedAt: "2025-02-01",
		ExtractedCovenants: []dnaDomain.ExtractedCovenant{{
			ID: id.New(id.PrefixExtractedCovenant), Title: "Minimum Liquidity",
		}},
	}); err != nil {
		t.Fatal(err)
	}
	if err := docs.Create(ctx, &documentDomain.Document{
		ID: id.New(id.PrefixDocument), LoanID: l.ID, Filename: "agreement.pdf",
	}); err != nil {
		t.Fatal(err)
	}

	if err := loans.Delete(ctx, l.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := loans.GetByID(ctx, l.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("loan survived delete: %v", err)
	}
	for _, table := range []string{
		"covenants", "timeline_events", "risk_predictions",
		"loan_dna", "extracted_covenants", "uploaded_documents",
	} {
		var n int64
		if err := db.Table(table).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("%s not cascaded, %d rows left", table, n)
		}
	}
}

func TestLoanDelete_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)

	err := repo.Delete(context.Background(), "ln_deadbeef")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestLoanCount(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		l := makeLoan()
		l.ID = id.New(id.PrefixLoan)
		if err := repo.Create(ctx, l); err != nil {
			t.Fatal(err)
		}
	}
	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("Count=%d want=3", n)
	}
}
