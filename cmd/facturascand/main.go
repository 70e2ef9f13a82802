package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/facturascan/facturascan/internal/common"
	"github.com/facturascan/facturascan/internal/configstore"
	"github.com/facturascan/facturascan/internal/currency"
	"github.com/facturascan/facturascan/internal/destination"
	"github.com/facturascan/facturascan/internal/extract"
	"github.com/facturascan/facturascan/internal/fields"
	"github.com/facturascan/facturascan/internal/gsuite"
	"github.com/facturascan/facturascan/internal/ingest"
	"github.com/facturascan/facturascan/internal/ocr"
	"github.com/facturascan/facturascan/internal/pipeline"
	"github.com/facturascan/facturascan/internal/server"
	"github.com/facturascan/facturascan/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env")
	}
	cfg := common.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	// Remote Google collaborators when credentials are configured; a local
	// workbook plus filesystem storage otherwise.
	var (
		auth     pipeline.Authenticator
		dest     destination.Destination
		files    storage.FileStorage
		workbook *destination.Workbook
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
		workbook = destination.NewWorkbook(path, logger)
		dest = workbook
		fs, err := storage.NewFS("archivos")
		if err != nil {
			logger.Error("opening local storage", "error", err)
			os.Exit(1)
		}
		files = fs
	}

	processor := pipeline.NewProcessor(logger, auth, dest, files, resolver, textExtractor, fieldExtractor)

	srv, err := server.New(cfg.Server, logger, processor, store, rates, workbook)
	if err != nil {
		logger.Error("creating server", "error", err)
		os.Exit(1)
	}

	// Optional watched inbox: files dropped there are processed as if
	// uploaded.
	if inbox := os.Getenv("INGEST_DIR"); inbox != "" {
		events, watchErrs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:    []string{inbox},
			Debounce: 2 * time.Second,
		}, logger)
		if err != nil {
			logger.Error("starting inbox watcher", "error", err)
			os.Exit(1)
		}
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case path, ok := <-events:
					if !ok {
						return
					}
					if _, err := srv.SubmitPath(path); err != nil {
						logger.Warn("inbox submit failed", "path", path, "error", err)
					}
				case err, ok := <-watchErrs:
					if ok && err != nil {
						logger.Warn("inbox watcher error", "error", err)
					}
				}
			}
		}()
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
