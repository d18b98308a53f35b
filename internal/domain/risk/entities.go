package risk

import "time"

type Trend string

const (
	TrendImproving     Trend = "improving"
	TrendStable        Trend = "stable"
	TrendDeteriorating Trend = "deteriorating"
)

// Prediction is one breach forecast for a covenant. A covenant accumulates
// predictions over time; the newest set is what the dashboards read, the
// rest is the historical trail.
type Prediction struct {
	ID                  string    `gorm:"primaryKey;size:50;column:id" json:"id"`
	LoanID              string    `gorm:"size:50;index;not null;column:loan_id" json:"loan_id"`
	CovenantID          string    `gorm:"size:50;index;not null;column:covenant_id" json:"covenant_id"`
	CurrentValue        string    `gorm:"size:100;column:current_value" json:"current_value"`
	Threshold           string    `gorm:"size:100" json:"threshold,omitempty"`
	PredictedBreachDate string    `gorm:"size:100;column:predicted_breach_date" json:"predicted_breach_date"`
	Probability         int       `json:"probability"`
	Trend               Trend     `gorm:"size:20" json:"trend"`
	Explanation         string    `gorm:"type:text" json:"explanation"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Prediction) TableName() string { return "risk_predictions" }

func ValidTrend(t Trend) bool {
	return t == TrendImproving || t == TrendStable || t == TrendDeteriorating
}
