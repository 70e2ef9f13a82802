package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/facturascan/facturascan/internal/destination"
	"github.com/facturascan/facturascan/internal/fields"
)

// Service produces XLSX bytes for a set of extracted records, using the same
// column layout as the persistence destinations.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// RenderXLSX returns a workbook with one row per record.
func (s *Service) RenderXLSX(recs []*fields.InvoiceRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Facturas"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for i, h := range destination.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	row := 2
	for _, rec := range recs {
		if rec == nil {
			continue
		}
		moneda := rec.MonedaOriginal
		if moneda == "" {
			moneda = "EUR"
		}
		original := rec.ImporteOriginal
		if original == "" {
			original = rec.ImporteTotal
		}
		values := []any{
			rec.Fecha, rec.NumeroFactura, rec.Empresa, rec.Concepto,
			rec.BaseImponible, rec.IVA, rec.RetencionIRPF, rec.ImporteTotal,
			moneda, original, time.Now().Format("02/01/2006 15:04:05"),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	s.logger.Info("export.rendered", "rows", row-2, "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}
