package document

import "context"

type Repository interface {
	Create(ctx context.Context, d *Document) error
	// ListByLoan returns documents newest first.
	ListByLoan(ctx context.Context, loanID string) ([]Document, error)
	DeleteByLoan(ctx context.Context, loanID string) error
}
