package mysql

import (
	"context"
	"errors"
	"testing"

	loanDomain "coven-backend/internal/domain/loan"
	"coven-backend/internal/domain/uow"

	"gorm.io/gorm"
)

func TestWithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	unit := NewGormUoW(db)
	ctx := context.Background()

	l := makeLoan()
	err := unit.WithinTx(ctx, func(r uow.Repos) error {
		return r.Loans.Create(ctx, l)
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	if _, err := NewLoanRepository(db).GetByID(ctx, l.ID); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
}

func TestWithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	unit := NewGormUoW(db)
	ctx := context.Background()

	l := makeLoan()
	boom := errors.New("boom")
	_ = unit.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		return boom
	})

	_, err := NewLoanRepository(db).GetByID(ctx, l.ID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected rollback, got %v", err)
	}
}

func TestWithinLoanTx_PassesLockedLoan(t *testing.T) {
	db := openTestDB(t)
	unit := NewGormUoW(db)
	ctx := context.Background()

	l := makeLoan()
	if err := NewLoanRepository(db).Create(ctx, l); err != nil {
		t.Fatal(err)
	}

	err := unit.WithinLoanTx(ctx, l.ID, func(r uow.Repos, locked *loanDomain.Loan) error {
		if locked.ID != l.ID {
			t.Errorf("locked wrong loan: %s", locked.ID)
		}
		locked.ComplianceScore = 75
		return r.Loans.Save(ctx, locked)
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}

	got, err := NewLoanRepository(db).GetByID(ctx, l.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ComplianceScore != 75 {
		t.Errorf("score=%d want=75", got.ComplianceScore)
	}
}

func TestWithinLoanTx_MissingLoan(t *testing.T) {
	db := openTestDB(t)
	unit := NewGormUoW(db)

	err := unit.WithinLoanTx(context.Background(), "ln_deadbeef", func(r uow.Repos, l *loanDomain.Loan) error {
		t.Fatal("fn must not run for a missing loan")
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
