package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id string) (*Loan, error)
	// GetByIDForUpdate locks the loan row for the duration of the
	// surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*Loan, error)
	List(ctx context.Context) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
	// Delete removes the loan and every dependent entity (covenants,
	// timeline events, risk predictions, loan DNA, documents).
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
