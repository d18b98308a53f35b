package aimock

import (
	"context"

	"coven-backend/internal/infrastructure/ocr"
)

// Generator is a function-backed mock for the text-generation collaborator.
type Generator struct {
	ChatFn func(ctx context.Context, message, systemPrompt string) (string, error)
	Calls  []string
}

func (g *Generator) Chat(ctx context.Context, message, systemPrompt string) (string, error) {
	g.Calls = append(g.Calls, message)
	if g.ChatFn != nil {
		return g.ChatFn(ctx, message, systemPrompt)
	}
	return "", context.Canceled
}

// Extractor is a function-backed mock for the OCR collaborator.
type Extractor struct {
	ExtractFn func(ctx context.Context, content []byte, filename, language string) (*ocr.Result, error)
}

func (e *Extractor) Extract(ctx context.Context, content []byte, filename, language string) (*ocr.Result, error) {
	if e.ExtractFn != nil {
		return e.ExtractFn(ctx, content, filename, language)
	}
	return &ocr.Result{Success: true, Text: "mock document text"}, nil
}
