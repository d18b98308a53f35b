package mysql

import (
	"context"

	covenantDomain "coven-backend/internal/domain/covenant"
	riskDomain "coven-backend/internal/domain/risk"
	timelineDomain "coven-backend/internal/domain/timeline"

	"gorm.io/gorm"
)

type CovenantRepository struct{ db *gorm.DB }

func NewCovenantRepository(db *gorm.DB) *CovenantRepository { return &CovenantRepository{db: db} }

func (r *CovenantRepository) Create(ctx context.Context, c *covenantDomain.Covenant) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CovenantRepository) Save(ctx context.Context, c *covenantDomain.Covenant) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CovenantRepository) GetByID(ctx context.Context, id string) (*covenantDomain.Covenant, error) {
	var out covenantDomain.Covenant
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

// ListByLoan orders by id: the AI prediction flow matches model output to
// covenants by position, so this ordering must stay stable.
func (r *CovenantRepository) ListByLoan(ctx context.Context, loanID string) ([]covenantDomain.Covenant, error) {
	var out []covenantDomain.Covenant
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *CovenantRepository) ListByLoanAndType(ctx context.Context, loanID string, t covenantDomain.Type) ([]covenantDomain.Covenant, error) {
	var out []covenantDomain.Covenant
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND type = ?", loanID, t).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *CovenantRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&covenantDomain.Covenant{}).Count(&n)
	return n, res.Error
}

func (r *CovenantRepository) CountByStatus(ctx context.Context, statuses ...covenantDomain.ComplianceStatus) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&covenantDomain.Covenant{}).
		Where("status IN ?", statuses).
		Count(&n)
	return n, res.Error
}

// Delete cascades the covenant's risk predictions and nulls out timeline
// references; the events themselves stay in the audit log.
func (r *CovenantRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("covenant_id = ?", id).Delete(&riskDomain.Prediction{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&timelineDomain.Event{}).
			Where("related_covenant_id = ?", id).
			Update("related_covenant_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&covenantDomain.Covenant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
