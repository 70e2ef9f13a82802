package destination

import (
	"context"
	"time"

	"github.com/facturascan/facturascan/internal/fields"
)

// Destination is the spreadsheet collaborator: one row per persisted
// invoice.
type Destination interface {
	// Init ensures the destination exists and has its header row.
	Init(ctx context.Context) error
	// FindDuplicate reports whether a row with the same invoice number and
	// company already exists.
	FindDuplicate(ctx context.Context, invoiceNumber, company string) (bool, error)
	// Append adds a new record row.
	Append(ctx context.Context, rec *fields.InvoiceRecord) error
}

// Headers is the fixed 11-column layout (A..K) shared by every destination.
var Headers = []string{
	"Fecha",
	"Nº Factura",
	"Empresa",
	"Concepto",
	"Base Imponible",
	"IVA",
	"Retención IRPF",
	"Importe Total",
	"Moneda Original",
	"Importe Original",
	"Fecha Procesamiento",
}

// rowValues renders a record into the A..K column layout.
func rowValues(rec *fields.InvoiceRecord, processedAt time.Time) []any {
	moneda := rec.MonedaOriginal
	if moneda == "" {
		moneda = "EUR"
	}
	original := rec.ImporteOriginal
	if original == "" {
		original = rec.ImporteTotal
	}
	return []any{
		rec.Fecha,
		rec.NumeroFactura,
		rec.Empresa,
		rec.Concepto,
		rec.BaseImponible,
		rec.IVA,
		rec.RetencionIRPF,
		rec.ImporteTotal,
		moneda,
		original,
		processedAt.Format("02/01/2006 15:04:05"),
	}
}
