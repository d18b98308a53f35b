package loan

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("loan not found")

type Status string

const (
	StatusActive  Status = "Active"
	StatusPending Status = "Pending"
	StatusClosed  Status = "Closed"
)

// Loan is the root aggregate. Every other entity is owned by a loan,
// directly or transitively, and is removed with it.
//
// ComplianceScore is derived: outside of seeding it is only written by the
// scoring engine.
type Loan struct {
	ID              string    `gorm:"primaryKey;size:50;column:id" json:"id"`
	Borrower        string    `gorm:"size:255;not null" json:"borrower"`
	Amount          float64   `gorm:"type:decimal(15,2)" json:"amount"`
	Currency        string    `gorm:"size:10;default:'USD'" json:"currency"`
	InterestRate    float64   `gorm:"type:decimal(5,2);column:interest_rate" json:"interest_rate"`
	StartDate       string    `gorm:"size:10;column:start_date" json:"start_date"`
	MaturityDate    string    `gorm:"size:10;column:maturity_date" json:"maturity_date"`
	Status          Status    `gorm:"size:20;default:'Active'" json:"status"`
	ComplianceScore int       `gorm:"default:100;column:compliance_score" json:"compliance_score"`
	RiskSummary     string    `gorm:"type:text;column:risk_summary" json:"risk_summary,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }
