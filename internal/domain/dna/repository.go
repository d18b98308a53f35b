package dna

import "context"

type Repository interface {
	// Create persists the DNA record together with its extracted
	// covenants.
	Create(ctx context.Context, d *LoanDNA) error
	GetByLoanID(ctx context.Context, loanID string) (*LoanDNA, error)
	DeleteByLoan(ctx context.Context, loanID string) error
}
