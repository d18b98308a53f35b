package timeline

import "time"

type EventType string

const (
	EventLoanCreated      EventType = "Loan Created"
	EventCovenantAdded    EventType = "Covenant Added"
	EventStatusChanged    EventType = "Status Changed"
	EventWaiverGranted    EventType = "Waiver Granted"
	EventPaymentReceived  EventType = "Payment Received"
	EventDocumentUploaded EventType = "Document Uploaded"
	EventRiskAlert        EventType = "Risk Alert"
	EventAmendmentMade    EventType = "Amendment Made"
)

// Event is one entry in a loan's append-only audit log. Events are never
// updated or removed; deleting a covenant only clears RelatedCovenantID.
type Event struct {
	ID                string    `gorm:"primaryKey;size:50;column:id" json:"id"`
	LoanID            string    `gorm:"size:50;index;not null;column:loan_id" json:"loan_id"`
	Type              EventType `gorm:"size:50" json:"type"`
	Date              string    `gorm:"size:10" json:"date"`
	Title             string    `gorm:"size:255" json:"title"`
	Description       string    `gorm:"type:text" json:"description"`
	RelatedCovenantID *string   `gorm:"size:50;column:related_covenant_id" json:"related_covenant_id,omitempty"`
	Metadata          string    `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Event) TableName() string { return "timeline_events" }

func ValidEventType(t EventType) bool {
	switch t {
	case EventLoanCreated, EventCovenantAdded, EventStatusChanged, EventWaiverGranted,
		EventPaymentReceived, EventDocumentUploaded, EventRiskAlert, EventAmendmentMade:
		return true
	}
	return false
}
