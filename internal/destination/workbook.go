package destination

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/facturascan/facturascan/internal/fields"
)

const workbookSheet = "Facturas"

// Workbook persists invoice rows to a local XLSX file. It serves as the
// offline destination when no remote spreadsheet is configured, and as the
// backing store for exports.
type Workbook struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

func NewWorkbook(path string, logger *slog.Logger) *Workbook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workbook{path: path, logger: logger}
}

// Init creates the workbook with its header row when missing.
func (w *Workbook) Init(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := os.Stat(w.path); err == nil {
		return nil
	}

	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet(workbookSheet); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(workbookSheet, cell, h); err != nil {
			return err
		}
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	w.logger.Info("workbook.created", "path", w.path)
	return nil
}

func (w *Workbook) FindDuplicate(_ context.Context, invoiceNumber, company string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		w.logger.Warn("workbook.duplicate_probe_failed", "error", err)
		return false, nil
	}
	defer f.Close()

	rows, err := f.GetRows(workbookSheet)
	if err != nil {
		return false, nil
	}
	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			continue
		}
		if row[1] == invoiceNumber && row[2] == company {
			return true, nil
		}
	}
	return false, nil
}

func (w *Workbook) Append(_ context.Context, rec *fields.InvoiceRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(workbookSheet)
	if err != nil {
		return fmt.Errorf("read workbook: %w", err)
	}
	next := len(rows) + 1

	for i, v := range rowValues(rec, time.Now()) {
		cell, _ := excelize.CoordinatesToCellName(i+1, next)
		if err := f.SetCellValue(workbookSheet, cell, v); err != nil {
			return err
		}
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	w.logger.Info("workbook.row_appended", "path", w.path, "numero", rec.NumeroFactura)
	return nil
}

// Bytes renders the current workbook for download.
func (w *Workbook) Bytes() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return os.ReadFile(w.path)
}
