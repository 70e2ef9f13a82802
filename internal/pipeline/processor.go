package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/facturascan/facturascan/constants"
	"github.com/facturascan/facturascan/internal/common"
	"github.com/facturascan/facturascan/internal/destination"
	"github.com/facturascan/facturascan/internal/extract"
	"github.com/facturascan/facturascan/internal/fields"
	"github.com/facturascan/facturascan/internal/storage"
)

// Authenticator initializes the external session used by the persistence
// collaborators. Idempotent.
type Authenticator interface {
	Initialize(ctx context.Context) error
}

// FolderResolver yields the effective file-storage folder for uploads.
type FolderResolver interface {
	DriveFolderID() string
}

// Document is one raw input file handed to the pipeline.
type Document struct {
	Path string // local path of the raw file
	Name string // original filename
	MIME string // content type as submitted
}

// Processor drives one document through the fixed stage sequence, emitting
// a status checkpoint before each stage's work. Any stage error aborts the
// run, produces a terminal error status and is returned to the caller; there
// is no retry and no compensating delete of an already-uploaded file.
type Processor struct {
	Logger  *slog.Logger
	Auth    Authenticator
	Dest    destination.Destination
	Storage storage.FileStorage
	Folders FolderResolver
	Text    extract.TextExtractor
	Fields  extract.FieldExtractor

	// saveMu keeps the duplicate-check-then-append sequence atomic when
	// documents are processed concurrently.
	saveMu sync.Mutex
}

func NewProcessor(
	logger *slog.Logger,
	auth Authenticator,
	dest destination.Destination,
	store storage.FileStorage,
	folders FolderResolver,
	text extract.TextExtractor,
	fieldsEx extract.FieldExtractor,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Logger:  logger,
		Auth:    auth,
		Dest:    dest,
		Storage: store,
		Folders: folders,
		Text:    text,
		Fields:  fieldsEx,
	}
}

// ProcessFile runs the full stage sequence for one document.
func (p *Processor) ProcessFile(ctx context.Context, doc Document, onStatus StatusFunc) (*fields.InvoiceRecord, error) {
	if onStatus == nil {
		onStatus = func(ProcessingStatus) {}
	}

	// Stage 1: session + destination initialization.
	onStatus(ProcessingStatus{
		Stage:    constants.StageUploading,
		Progress: constants.ProgressInit,
		Message:  "Inicializando servicios...",
	})
	if p.Auth != nil {
		if err := p.Auth.Initialize(ctx); err != nil {
			return nil, p.fail(onStatus, err)
		}
	}
	if err := p.Dest.Init(ctx); err != nil {
		return nil, p.fail(onStatus, err)
	}

	// Stage 2: text extraction.
	onStatus(ProcessingStatus{
		Stage:    constants.StageProcessing,
		Progress: constants.ProgressTextOCR,
		Message:  "Extrayendo texto del documento...",
	})
	if format := documentFormat(doc); format == "" {
		return nil, p.fail(onStatus, common.NewAppError(common.ErrUnsupportedFileType,
			"tipo de archivo no soportado", nil))
	}
	res, err := p.Text.Extract(ctx, doc.Path)
	if err != nil {
		return nil, p.fail(onStatus, err)
	}
	if strings.TrimSpace(res.Text) == "" {
		return nil, p.fail(onStatus, common.NewAppError(common.ErrEmptyExtractionResult,
			"no se pudo extraer texto del documento", nil))
	}
	p.Logger.Info("pipeline.text_extracted",
		"file", doc.Name, "method", res.Method, "pages", res.Pages, "bytes", len(res.Text))

	// Stage 3: field extraction.
	onStatus(ProcessingStatus{
		Stage:    constants.StageExtracting,
		Progress: constants.ProgressFields,
		Message:  "Analizando datos de la factura...",
	})
	rec, err := p.Fields.Extract(ctx, res.Text)
	if err != nil {
		return nil, p.fail(onStatus, err)
	}

	// Stage 4: currency conversion happens inside field extraction; this is
	// a status checkpoint only.
	onStatus(ProcessingStatus{
		Stage:    constants.StageConverting,
		Progress: constants.ProgressCurrency,
		Message:  "Procesando conversión de moneda...",
	})

	// Stage 5: upload the original document.
	onStatus(ProcessingStatus{
		Stage:    constants.StageSaving,
		Progress: constants.ProgressFileUpload,
		Message:  "Subiendo archivo al almacenamiento...",
	})
	raw, err := os.ReadFile(doc.Path)
	if err != nil {
		return nil, p.fail(onStatus, fmt.Errorf("read document: %w", err))
	}
	artifact := artifactName(rec, doc.Name)
	url, err := p.Storage.Upload(ctx, raw, artifact, p.Folders.DriveFolderID())
	if err != nil {
		return nil, p.fail(onStatus, err)
	}
	p.Logger.Info("pipeline.file_uploaded", "file", doc.Name, "artifact", artifact, "url", url)

	// Stage 6: persist the record, guarding against duplicate rows.
	onStatus(ProcessingStatus{
		Stage:    constants.StageSaving,
		Progress: constants.ProgressAppend,
		Message:  "Guardando datos en la hoja de cálculo...",
	})
	if err := p.saveRecord(ctx, rec); err != nil {
		return nil, p.fail(onStatus, err)
	}

	onStatus(ProcessingStatus{
		Stage:    constants.StageCompleted,
		Progress: constants.ProgressDone,
		Message:  "Procesamiento completado exitosamente",
	})
	return rec, nil
}

// saveRecord performs the duplicate check and the append as one atomic unit
// per processor.
func (p *Processor) saveRecord(ctx context.Context, rec *fields.InvoiceRecord) error {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	dup, err := p.Dest.FindDuplicate(ctx, rec.NumeroFactura, rec.Empresa)
	if err != nil {
		return err
	}
	if dup {
		return common.NewAppError(common.ErrDuplicateRecord,
			fmt.Sprintf("ya existe una factura con el número %s de la empresa %s",
				rec.NumeroFactura, rec.Empresa), nil)
	}
	return p.Dest.Append(ctx, rec)
}

// fail emits the terminal error status and normalizes unknown errors.
func (p *Processor) fail(onStatus StatusFunc, err error) error {
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		err = common.NewAppError(common.ErrUnknownProcessing, "error desconocido", err)
	}
	p.Logger.Error("pipeline.failed", "error", err)
	onStatus(ProcessingStatus{
		Stage:    constants.StageError,
		Progress: 0,
		Message:  "Error en el procesamiento",
		Error:    err.Error(),
	})
	return err
}

func documentFormat(doc Document) string {
	if f := constants.MapMIMEToFormat(doc.MIME); f != "" {
		return f
	}
	return constants.MapExtToFormat(filepath.Ext(doc.Name))
}

var reArtifactNoise = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// artifactName derives the stored filename from company, date and total,
// keeping the source extension.
func artifactName(rec *fields.InvoiceRecord, original string) string {
	company := strings.TrimSpace(reArtifactNoise.ReplaceAllString(rec.Empresa, ""))
	if company == "" {
		company = "factura"
	}
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		ext = ".pdf"
	}
	return fmt.Sprintf("%s %s %s%s", company, rec.Fecha, rec.ImporteTotal, ext)
}
