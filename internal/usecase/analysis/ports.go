package analysis

import (
	"context"
	"errors"

	"coven-backend/internal/infrastructure/ocr"
)

var (
	// ErrMissingInput is returned when neither a file nor raw document
	// text is supplied to the extraction flow.
	ErrMissingInput = errors.New("either file or document_text is required")
	// ErrUnprocessable is returned when OCR answered at the transport
	// level but reported a processing failure.
	ErrUnprocessable = errors.New("ocr extraction failed")
)

// TextGenerator is the text-generation collaborator (Groq in production).
type TextGenerator interface {
	Chat(ctx context.Context, message, systemPrompt string) (string, error)
}

// TextExtractor is the OCR collaborator (OCR.space in production).
type TextExtractor interface {
	Extract(ctx context.Context, content []byte, filename, language string) (*ocr.Result, error)
}
