// Command facturascan processes invoice files from the command line,
// printing each extracted record and persisting it through the configured
// destination. Files are processed one at a time in argument order; a failed
// document does not stop the batch.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/facturascan/facturascan/internal/common"
	"github.com/facturascan/facturascan/internal/configstore"
	"github.com/facturascan/facturascan/internal/currency"
	"github.com/facturascan/facturascan/internal/destination"
	"github.com/facturascan/facturascan/internal/export"
	"github.com/facturascan/facturascan/internal/extract"
	"github.com/facturascan/facturascan/internal/fields"
	"github.com/facturascan/facturascan/internal/gsuite"
	"github.com/facturascan/facturascan/internal/ocr"
	"github.com/facturascan/facturascan/internal/pipeline"
	"github.com/facturascan/facturascan/internal/storage"
)

func main() {
	exportPath := flag.String("export", "", "also write an XLSX with the extracted records to this path")
	verbose := flag.Bool("v", false, "log at debug level")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: facturascan [-export out.xlsx] <factura.pdf|jpg|png> ...")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	ctx := context.Background()

	store, err := configstore.NewBoltStore(cfg.Store.Path)
	if err != nil {
		logger.Error("opening settings store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	rates := currency.NewService(currency.Config{
		APIURL:       cfg.Currency.APIURL,
		MaxAge:       cfg.Currency.MaxAge,
		FetchTimeout: cfg.Currency.FetchTimeout,
	}, store, logger)

	fieldExtractor := fields.NewExtractor(rates, fields.Config{}, logger)
	textExtractor := extract.NewOCRAdapter(ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
		EnablePDFOCR:  cfg.OCR.EnablePDFOCR,
		Preprocess:    cfg.OCR.Preprocess,
		TessdataDir:   cfg.OCR.TessdataDir,
	}, logger))

	resolver := destination.NewResolver(store, cfg.Sheets.SpreadsheetID, cfg.Drive.FolderID)

	var (
		auth  pipeline.Authenticator
		dest  destination.Destination
		files storage.FileStorage
	)
	if cfg.Sheets.CredentialsFile != "" {
		g := gsuite.NewAuth(cfg.Sheets.CredentialsFile, logger)
		auth = g
		dest = destination.NewSheets(g, resolver, logger)
		files = gsuite.NewDrive(g, logger)
	} else {
		path := cfg.Sheets.WorkbookPath
		if path == "" {
			path = "facturas.xlsx"
		}
		dest = destination.NewWorkbook(path, logger)
		fs, err := storage.NewFS("archivos")
		if err != nil {
			logger.Error("opening local storage", "error", err)
			os.Exit(1)
		}
		files = fs
	}

	processor := pipeline.NewProcessor(logger, auth, dest, files, resolver, textExtractor, fieldExtractor)

	var processed []*fields.InvoiceRecord
	failures := 0
	for _, path := range flag.Args() {
		rec, err := processor.ProcessFile(ctx, pipeline.Document{
			Path: path,
			Name: filepath.Base(path),
		}, func(st pipeline.ProcessingStatus) {
			logger.Info("progress", "file", filepath.Base(path),
				"stage", st.Stage, "percent", st.Progress, "message", st.Message)
		})
		if err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}
		processed = append(processed, rec)

		out, _ := json.MarshalIndent(rec, "", "  ")
		fmt.Println(string(out))
	}

	if *exportPath != "" && len(processed) > 0 {
		data, err := export.NewService(logger).RenderXLSX(processed)
		if err != nil {
			logger.Error("rendering export", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*exportPath, data, 0644); err != nil {
			logger.Error("writing export", "error", err)
			os.Exit(1)
		}
		logger.Info("export written", "path", *exportPath, "records", len(processed))
	}

	if failures > 0 {
		os.Exit(1)
	}
}
