package mysql

import (
	"context"

	timelineDomain "coven-backend/internal/domain/timeline"

	"gorm.io/gorm"
)

type TimelineRepository struct{ db *gorm.DB }

func NewTimelineRepository(db *gorm.DB) *TimelineRepository { return &TimelineRepository{db: db} }

func (r *TimelineRepository) Create(ctx context.Context, e *timelineDomain.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *TimelineRepository) ListByLoan(ctx context.Context, loanID string) ([]timelineDomain.Event, error) {
	var out []timelineDomain.Event
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("date DESC, created_at DESC").
		Find(&out)
	return out, res.Error
}

func (r *TimelineRepository) ListByLoanLimit(ctx context.Context, loanID string, limit int) ([]timelineDomain.Event, error) {
	var out []timelineDomain.Event
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("date DESC, created_at DESC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

func (r *TimelineRepository) ListRecent(ctx context.Context, limit int) ([]timelineDomain.Event, error) {
	var out []timelineDomain.Event
	res := r.db.WithContext(ctx).
		Order("date DESC, created_at DESC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

func (r *TimelineRepository) ClearCovenantRef(ctx context.Context, covenantID string) error {
	return r.db.WithContext(ctx).
		Model(&timelineDomain.Event{}).
		Where("related_covenant_id = ?", covenantID).
		Update("related_covenant_id", nil).Error
}

func (r *TimelineRepository) DeleteByLoan(ctx context.Context, loanID string) error {
	return r.db.WithContext(ctx).Where("loan_id = ?", loanID).Delete(&timelineDomain.Event{}).Error
}
