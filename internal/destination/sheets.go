package destination

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/sheets/v4"

	"github.com/facturascan/facturascan/internal/fields"
	"github.com/facturascan/facturascan/internal/gsuite"
)

const (
	headerRange = "A1:K1"
	appendRange = "A:K"
	// Duplicate probe reads fecha/numero/empresa columns only.
	dupRange = "A:C"
)

// Sheets persists invoice rows to a Google Spreadsheet.
type Sheets struct {
	auth     *gsuite.Auth
	resolver *Resolver
	logger   *slog.Logger
}

func NewSheets(auth *gsuite.Auth, resolver *Resolver, logger *slog.Logger) *Sheets {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sheets{auth: auth, resolver: resolver, logger: logger}
}

// Init ensures the header row exists on the configured spreadsheet.
func (s *Sheets) Init(ctx context.Context) error {
	id, err := s.resolver.SpreadsheetID()
	if err != nil {
		return err
	}
	if err := s.auth.SignIn(ctx); err != nil {
		return err
	}
	svc := s.auth.Sheets()

	resp, err := svc.Spreadsheets.Values.Get(id, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("probe header row: %w", err)
	}
	if len(resp.Values) > 0 {
		return nil
	}

	header := make([]any, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	_, err = svc.Spreadsheets.Values.Update(id, headerRange, &sheets.ValueRange{
		Values: [][]any{header},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	s.logger.Info("sheets.header_created", "spreadsheet", id)
	return nil
}

// FindDuplicate scans the invoice-number and company columns. A read
// failure reports no duplicate: the save proceeds rather than blocking on a
// transient probe error.
func (s *Sheets) FindDuplicate(ctx context.Context, invoiceNumber, company string) (bool, error) {
	id, err := s.resolver.SpreadsheetID()
	if err != nil {
		return false, err
	}
	resp, err := s.auth.Sheets().Spreadsheets.Values.Get(id, dupRange).Context(ctx).Do()
	if err != nil {
		s.logger.Warn("sheets.duplicate_probe_failed", "error", err)
		return false, nil
	}

	for i, row := range resp.Values {
		if i == 0 || len(row) < 3 {
			continue // header or short row
		}
		if row[1] == invoiceNumber && row[2] == company {
			return true, nil
		}
	}
	return false, nil
}

// Append adds the record as a new row below the existing data.
func (s *Sheets) Append(ctx context.Context, rec *fields.InvoiceRecord) error {
	id, err := s.resolver.SpreadsheetID()
	if err != nil {
		return err
	}
	_, err = s.auth.Sheets().Spreadsheets.Values.Append(id, appendRange, &sheets.ValueRange{
		Values: [][]any{rowValues(rec, time.Now())},
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	s.logger.Info("sheets.row_appended", "spreadsheet", id, "numero", rec.NumeroFactura)
	return nil
}
