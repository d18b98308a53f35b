package mysql

import (
	"context"

	documentDomain "coven-backend/internal/domain/document"

	"gorm.io/gorm"
)

type DocumentRepository struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) *DocumentRepository { return &DocumentRepository{db: db} }

func (r *DocumentRepository) Create(ctx context.Context, d *documentDomain.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DocumentRepository) ListByLoan(ctx context.Context, loanID string) ([]documentDomain.Document, error) {
	var out []documentDomain.Document
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("uploaded_at DESC").
		Find(&out)
	return out, res.Error
}

func (r *DocumentRepository) DeleteByLoan(ctx context.Context, loanID string) error {
	return r.db.WithContext(ctx).Where("loan_id = ?", loanID).Delete(&documentDomain.Document{}).Error
}
