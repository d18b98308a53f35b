package dna

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("loan DNA not found")
	ErrDuplicate = errors.New("loan already has DNA extracted")
)

// LoanDNA is the AI-extracted structured profile of a loan agreement
// document. A loan has at most one; the write path enforces the 1:1, not a
// storage constraint.
type LoanDNA struct {
	ID             string `gorm:"primaryKey;size:50;column:id" json:"id"`
	LoanID         string `gorm:"size:50;uniqueIndex;not null;column:loan_id" json:"loan_id"`
	ExtractedAt    string `gorm:"size:10;column:extracted_at" json:"extracted_at"`
	SourceDocument string `gorm:"size:255;column:source_document" json:"source_document"`
	Confidence     int    `json:"confidence"`
	Summary        string `gorm:"type:text" json:"summary"`

	FacilityType string `gorm:"size:255;column:facility_type" json:"facility_type"`
	Purpose      string `gorm:"size:255" json:"purpose"`
	SecurityType string `gorm:"size:255;column:security_type" json:"security_type"`
	GoverningLaw string `gorm:"size:100;column:governing_law" json:"governing_law"`

	// JSON-encoded array of strings.
	RiskFactors string `gorm:"type:text;column:risk_factors" json:"-"`

	ExtractedCovenants []ExtractedCovenant `gorm:"foreignKey:LoanDNAID" json:"extracted_covenants"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (LoanDNA) TableName() string { return "loan_dna" }

// ExtractedCovenant is a candidate covenant pulled from a document, not yet
// promoted into the monitored covenant set.
type ExtractedCovenant struct {
	ID          string `gorm:"primaryKey;size:50;column:id" json:"id"`
	LoanDNAID   string `gorm:"size:50;index;not null;column:loan_dna_id" json:"-"`
	Title       string `gorm:"size:255" json:"title"`
	Type        string `gorm:"size:20" json:"type"`
	Threshold   string `gorm:"size:100" json:"threshold"`
	Frequency   string `gorm:"size:50" json:"frequency"`
	Description string `gorm:"type:text" json:"description"`
}

func (ExtractedCovenant) TableName() string { return "extracted_covenants" }
