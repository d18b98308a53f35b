package timeline

import "context"

type Repository interface {
	Create(ctx context.Context, e *Event) error
	// ListByLoan returns events newest first (date desc, then creation
	// order desc), the display ordering of the audit trail.
	ListByLoan(ctx context.Context, loanID string) ([]Event, error)
	ListByLoanLimit(ctx context.Context, loanID string, limit int) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
	// ClearCovenantRef nulls related_covenant_id on events pointing at the
	// given covenant without touching the events themselves.
	ClearCovenantRef(ctx context.Context, covenantID string) error
	DeleteByLoan(ctx context.Context, loanID string) error
}
