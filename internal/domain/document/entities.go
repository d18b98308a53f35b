package document

import "time"

// Document records an uploaded file attached to a loan. The file body lives
// in the blob store; FilePath is the store handle.
type Document struct {
	ID         string    `gorm:"primaryKey;size:50;column:id" json:"id"`
	LoanID     string    `gorm:"size:50;index;not null;column:loan_id" json:"loan_id"`
	Filename   string    `gorm:"size:255" json:"filename"`
	FilePath   string    `gorm:"size:512;column:file_path" json:"file_path"`
	UploadedAt time.Time `gorm:"autoCreateTime;column:uploaded_at" json:"uploaded_at"`
}

func (Document) TableName() string { return "uploaded_documents" }
