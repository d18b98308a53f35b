package mysql

import (
	"context"

	riskDomain "coven-backend/internal/domain/risk"

	"gorm.io/gorm"
)

type RiskRepository struct{ db *gorm.DB }

func NewRiskRepository(db *gorm.DB) *RiskRepository { return &RiskRepository{db: db} }

func (r *RiskRepository) Create(ctx context.Context, p *riskDomain.Prediction) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *RiskRepository) ListByLoan(ctx context.Context, loanID string) ([]riskDomain.Prediction, error) {
	var out []riskDomain.Prediction
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("probability DESC").
		Find(&out)
	return out, res.Error
}

func (r *RiskRepository) ListHighRisk(ctx context.Context, minProbability int) ([]riskDomain.HighRisk, error) {
	var out []riskDomain.HighRisk
	res := r.db.WithContext(ctx).
		Table("risk_predictions").
		Select(`risk_predictions.loan_id AS loan_id,
			loans.borrower AS borrower,
			risk_predictions.covenant_id AS covenant_id,
			covenants.title AS covenant_title,
			risk_predictions.probability AS probability,
			risk_predictions.trend AS trend`).
		Joins("JOIN loans ON loans.id = risk_predictions.loan_id").
		Joins("JOIN covenants ON covenants.id = risk_predictions.covenant_id").
		Where("risk_predictions.probability > ?", minProbability).
		Order("risk_predictions.probability DESC").
		Scan(&out)
	return out, res.Error
}

func (r *RiskRepository) DeleteByCovenant(ctx context.Context, covenantID string) error {
	return r.db.WithContext(ctx).Where("covenant_id = ?", covenantID).Delete(&riskDomain.Prediction{}).Error
}

func (r *RiskRepository) DeleteByLoan(ctx context.Context, loanID string) error {
	return r.db.WithContext(ctx).Where("loan_id = ?", loanID).Delete(&riskDomain.Prediction{}).Error
}
