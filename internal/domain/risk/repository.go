package risk

import "context"

// HighRisk carries a prediction joined with its loan and covenant context
// for the dashboard's top-risk view.
type HighRisk struct {
	LoanID        string `json:"loanId"`
	Borrower      string `json:"borrower"`
	CovenantID    string `json:"covenantId"`
	CovenantTitle string `json:"covenantTitle"`
	Probability   int    `json:"probability"`
	Trend         Trend  `json:"trend"`
}

type Repository interface {
	Create(ctx context.Context, p *Prediction) error
	// ListByLoan returns predictions ordered by probability descending.
	ListByLoan(ctx context.Context, loanID string) ([]Prediction, error)
	// ListHighRisk returns predictions with probability strictly above
	// minProbability across all loans, highest first.
	ListHighRisk(ctx context.Context, minProbability int) ([]HighRisk, error)
	DeleteByCovenant(ctx context.Context, covenantID string) error
	DeleteByLoan(ctx context.Context, loanID string) error
}
