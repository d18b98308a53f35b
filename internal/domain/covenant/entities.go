package covenant

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("covenant not found")

type Type string

const (
	TypeFinancial   Type = "Financial"
	TypeReporting   Type = "Reporting"
	TypeAffirmative Type = "Affirmative"
	TypeNegative    Type = "Negative"
)

type ComplianceStatus string

const (
	StatusCompliant ComplianceStatus = "Compliant"
	StatusAtRisk    ComplianceStatus = "At Risk"
	StatusBreached  ComplianceStatus = "Breached"
	StatusUpcoming  ComplianceStatus = "Upcoming"
	StatusWaived    ComplianceStatus = "Waived"
)

// Covenant is a tracked contractual condition on a loan.
//
// The waiver fields are non-nil iff Status == StatusWaived; the lifecycle
// controller enforces that, not the storage layer.
type Covenant struct {
	ID          string           `gorm:"primaryKey;size:50;column:id" json:"id"`
	LoanID      string           `gorm:"size:50;index;not null;column:loan_id" json:"loan_id"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Type        Type             `gorm:"size:20" json:"type"`
	DueDate     string           `gorm:"size:10;column:due_date" json:"due_date"`
	Status      ComplianceStatus `gorm:"size:20;default:'Upcoming'" json:"status"`
	Value       string           `gorm:"size:100" json:"value,omitempty"`
	Threshold   string           `gorm:"size:100" json:"threshold,omitempty"`
	Description string           `gorm:"type:text" json:"description"`
	Frequency   string           `gorm:"size:50" json:"frequency,omitempty"`

	WaiverReason     *string `gorm:"type:text;column:waiver_reason" json:"waiver_reason,omitempty"`
	WaiverDate       *string `gorm:"size:10;column:waiver_date" json:"waiver_date,omitempty"`
	WaiverApprovedBy *string `gorm:"size:255;column:waiver_approved_by" json:"waiver_approved_by,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Covenant) TableName() string { return "covenants" }

// Healthy reports whether s counts as full compliance for scoring.
func (s ComplianceStatus) Healthy() bool {
	return s == StatusCompliant || s == StatusWaived || s == StatusUpcoming
}

func ValidStatus(s ComplianceStatus) bool {
	switch s {
	case StatusCompliant, StatusAtRisk, StatusBreached, StatusUpcoming, StatusWaived:
		return true
	}
	return false
}

func ValidType(t Type) bool {
	switch t {
	case TypeFinancial, TypeReporting, TypeAffirmative, TypeNegative:
		return true
	}
	return false
}
