package mysql

import (
	"context"

	dnaDomain "coven-backend/internal/domain/dna"

	"gorm.io/gorm"
)

type DNARepository struct{ db *gorm.DB }

func NewDNARepository(db *gorm.DB) *DNARepository { return &DNARepository{db: db} }

// Create persists the DNA row and its extracted covenants in one
// transaction.
func (r *DNARepository) Create(ctx context.Context, d *dnaDomain.LoanDNA) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		covs := d.ExtractedCovenants
		d.ExtractedCovenants = nil
		if err := tx.Create(d).Error; err != nil {
			d.ExtractedCovenants = covs
			return err
		}
		for i := range covs {
			covs[i].LoanDNAID = d.ID
			if err := tx.Create(&covs[i]).Error; err != nil {
				d.ExtractedCovenants = covs
				return err
			}
		}
		d.ExtractedCovenants = covs
		return nil
	})
}

func (r *DNARepository) GetByLoanID(ctx context.Context, loanID string) (*dnaDomain.LoanDNA, error) {
	var out dnaDomain.LoanDNA
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if res.Error != nil {
		return &out, res.Error
	}
	err := r.db.WithContext(ctx).
		Where("loan_dna_id = ?", out.ID).
		Order("id ASC").
		Find(&out.ExtractedCovenants).Error
	return &out, err
}

func (r *DNARepository) DeleteByLoan(ctx context.Context, loanID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM extracted_covenants WHERE loan_dna_id IN (SELECT id FROM loan_dna WHERE loan_id = ?)", loanID,
		).Error; err != nil {
			return err
		}
		return tx.Where("loan_id = ?", loanID).Delete(&dnaDomain.LoanDNA{}).Error
	})
}
