package mysql

import (
	"context"

	covenantDomain "coven-backend/internal/domain/covenant"
	dnaDomain "coven-backend/internal/domain/dna"
	documentDomain "coven-backend/internal/domain/document"
	loanDomain "coven-backend/internal/domain/loan"
	riskDomain "coven-backend/internal/domain/risk"
	timelineDomain "coven-backend/internal/domain/timeline"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByID(ctx context.Context, id string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) List(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).Order("created_at DESC").Find(&out)
	return out, res.Error
}

func (r *LoanRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).Count(&n)
	return n, res.Error
}

// Delete removes the loan and its full dependency graph. The cascade is
// spelled out here rather than left to engine-level foreign keys so it
// behaves identically on MySQL and the sqlite test database.
func (r *LoanRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("loan_id = ?", id).Delete(&riskDomain.Prediction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("loan_id = ?", id).Delete(&timelineDomain.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("loan_id = ?", id).Delete(&covenantDomain.Covenant{}).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM extracted_covenants WHERE loan_dna_id IN (SELECT id FROM loan_dna WHERE loan_id = ?)", id,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("loan_id = ?", id).Delete(&dnaDomain.LoanDNA{}).Error; err != nil {
			return err
		}
		if err := tx.Where("loan_id = ?", id).Delete(&documentDomain.Document{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&loanDomain.Loan{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
