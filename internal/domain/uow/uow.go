package uow

import (
	"context"

	"coven-backend/internal/domain/covenant"
	"coven-backend/internal/domain/dna"
	"coven-backend/internal/domain/document"
	"coven-backend/internal/domain/loan"
	"coven-backend/internal/domain/risk"
	"coven-backend/internal/domain/timeline"
)

type Repos struct {
	Loans       loan.Repository
	Covenants   covenant.Repository
	Timeline    timeline.Repository
	Predictions risk.Repository
	DNA         dna.Repository
	Documents   document.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn with all repositories bound to one transaction.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row first, so concurrent mutations of
	// the same loan aggregate serialize and score recomputation always
	// sees a settled covenant set.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
