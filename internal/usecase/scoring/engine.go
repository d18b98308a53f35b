package scoring

import (
	"context"
	"errors"
	"math"

	covenantDomain "coven-backend/internal/domain/covenant"
	loanDomain "coven-backend/internal/domain/loan"
	"coven-backend/internal/domain/uow"

	"gorm.io/gorm"
)

// Per-covenant contribution to the status-based score.
const (
	pointsHealthy  = 100 // Compliant, Waived, Upcoming
	pointsAtRisk   = 50
	pointsBreached = 0
)

// Blend weights for the AI-adjusted score.
const (
	statusWeight = 0.6
	aiWeight     = 0.4
	riskFactor   = 0.8
)

// StatusScore derives the 0-100 status-based compliance score from a
// covenant set. An empty set scores 100: no covenants means nothing is in
// breach.
func StatusScore(covenants []covenantDomain.Covenant) int {
	total := len(covenants)
	if total == 0 {
		return 100
	}
	sum := 0
	for _, c := range covenants {
		switch {
		case c.Status.Healthy():
			sum += pointsHealthy
		case c.Status == covenantDomain.StatusAtRisk:
			sum += pointsAtRisk
		default:
			sum += pointsBreached
		}
	}
	return int(math.Round(float64(sum) / float64(total)))
}

// AIScore maps an average breach probability (0-100) onto the compliance
// scale. Higher risk means a lower score; the result is clamped to 0-100.
// The multiplication result is truncated, not rounded.
func AIScore(avgRisk float64) int {
	s := 100 - int(avgRisk*riskFactor)
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// Blend combines the status-based and AI-derived scores 60/40. The result
// is truncated, not rounded.
func Blend(statusScore, aiScore int) int {
	return int(float64(statusScore)*statusWeight + float64(aiScore)*aiWeight)
}

// Apply recomputes the loan's status-based score from its current covenant
// set and persists it. Must run inside the caller's loan transaction so the
// covenant read and the score write are one unit. Idempotent: repeated
// calls without covenant changes keep the same score.
func Apply(ctx context.Context, r uow.Repos, l *loanDomain.Loan) (int, error) {
	covenants, err := r.Covenants.ListByLoan(ctx, l.ID)
	if err != nil {
		return 0, err
	}
	l.ComplianceScore = StatusScore(covenants)
	if err := r.Loans.Save(ctx, l); err != nil {
		return 0, err
	}
	return l.ComplianceScore, nil
}

// ApplyBlended recomputes the status score fresh, blends in the AI-derived
// score for the given average risk, and persists the result.
func ApplyBlended(ctx context.Context, r uow.Repos, l *loanDomain.Loan, avgRisk float64) (int, error) {
	covenants, err := r.Covenants.ListByLoan(ctx, l.ID)
	if err != nil {
		return 0, err
	}
	l.ComplianceScore = Blend(StatusScore(covenants), AIScore(avgRisk))
	if err := r.Loans.Save(ctx, l); err != nil {
		return 0, err
	}
	return l.ComplianceScore, nil
}

// Engine exposes rescoring as a standalone command with its own locked
// transaction scope.
type Engine struct {
	uow uow.UnitOfWork
}

func NewEngine(u uow.UnitOfWork) *Engine { return &Engine{uow: u} }

// Recalculate recomputes and persists the loan's status-based score,
// returning the previous and new values.
func (e *Engine) Recalculate(ctx context.Context, loanID string) (oldScore, newScore int, err error) {
	err = e.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		oldScore = l.ComplianceScore
		newScore, err = Apply(ctx, r, l)
		return err
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, 0, loanDomain.ErrNotFound
	}
	return oldScore, newScore, err
}
