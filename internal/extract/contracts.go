package extract

import (
	"context"
	"time"

	"github.com/facturascan/facturascan/internal/fields"
)

// TextExtractor is stage 1: file -> raw text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // "PDF" | "IMAGE"
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr"
	Language   string
	Duration   time.Duration
	Warnings   []string
}

// FieldExtractor is stage 2: raw text -> structured invoice record.
type FieldExtractor interface {
	Extract(ctx context.Context, rawText string) (*fields.InvoiceRecord, error)
}
