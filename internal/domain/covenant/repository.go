package covenant

import "context"

type Repository interface {
	Create(ctx context.Context, c *Covenant) error
	GetByID(ctx context.Context, id string) (*Covenant, error)
	// ListByLoan returns the loan's covenants in creation (id) order. The
	// AI risk flow pairs model output positionally against this list, so
	// the ordering is part of the contract.
	ListByLoan(ctx context.Context, loanID string) ([]Covenant, error)
	ListByLoanAndType(ctx context.Context, loanID string, t Type) ([]Covenant, error)
	Save(ctx context.Context, c *Covenant) error
	// Delete removes the covenant, cascades its risk predictions, and
	// nulls out (does not delete) timeline events that reference it.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, statuses ...ComplianceStatus) (int64, error)
}
