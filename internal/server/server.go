package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/facturascan/facturascan/constants"
	"github.com/facturascan/facturascan/internal/common"
	"github.com/facturascan/facturascan/internal/configstore"
	"github.com/facturascan/facturascan/internal/currency"
	"github.com/facturascan/facturascan/internal/destination"
	"github.com/facturascan/facturascan/internal/export"
	"github.com/facturascan/facturascan/internal/fields"
	"github.com/facturascan/facturascan/internal/pipeline"
)

// Server is the HTTP intake surface: uploads, per-document status,
// destination configuration and manual exchange rates.
type Server struct {
	cfg       common.ServerConfig
	logger    *slog.Logger
	registry  *Registry
	processor *pipeline.Processor
	store     configstore.Store
	rates     *currency.Service
	workbook  *destination.Workbook // nil when a remote spreadsheet is configured
	exporter  *export.Service
	tmpDir    string

	queue chan string
}

func New(
	cfg common.ServerConfig,
	logger *slog.Logger,
	processor *pipeline.Processor,
	store configstore.Store,
	rates *currency.Service,
	workbook *destination.Workbook,
) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpDir, err := os.MkdirTemp("", "facturascan-uploads-*")
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:       cfg,
		logger:    logger,
		registry:  NewRegistry(),
		processor: processor,
		store:     store,
		rates:     rates,
		workbook:  workbook,
		exporter:  export.NewService(logger),
		tmpDir:    tmpDir,
		queue:     make(chan string, 256),
	}, nil
}

// Run starts the intake worker and serves HTTP until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go s.worker(ctx)

	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http.serving", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = s.cfg.MaxUploadBytes

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/documents", s.handleUpload)
		api.GET("/documents", s.handleListDocuments)
		api.GET("/documents/:id", s.handleGetDocument)
		api.DELETE("/documents", s.handleClearDocuments)

		api.GET("/config", s.handleGetConfig)
		api.PUT("/config", s.handlePutConfig)

		api.PUT("/rates/:code", s.handlePutRate)
		api.DELETE("/rates/:code", s.handleDeleteRate)

		api.GET("/export", s.handleExport)
	}
	return r
}

// worker processes queued documents one at a time in submission order.
func (s *Server) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-s.queue:
			s.processOne(ctx, id)
		}
	}
}

func (s *Server) processOne(ctx context.Context, id string) {
	doc, err := s.registry.Get(id)
	if err != nil {
		s.logger.Warn("worker.unknown_document", "id", id)
		return
	}

	rec, err := s.processor.ProcessFile(ctx, pipeline.Document{
		Path: s.registry.path(id),
		Name: doc.FileName,
		MIME: doc.MIME,
	}, func(st pipeline.ProcessingStatus) {
		s.registry.SetStatus(id, st)
	})
	if err != nil {
		// Terminal error status was already recorded by the pipeline; a
		// failed document never blocks the rest of the batch.
		s.logger.Error("worker.document_failed", "id", id, "file", doc.FileName, "error", err)
		return
	}
	s.registry.SetRecord(id, rec)
}

// SubmitPath registers a file discovered outside the HTTP surface (e.g. the
// inbox watcher). The file is copied into the session's temp dir so the
// source is never touched.
func (s *Server) SubmitPath(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	name := filepath.Base(path)
	dst := filepath.Join(s.tmpDir, time.Now().Format("20060102T150405.000")+"-"+name)
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return "", err
	}
	doc := s.registry.Add(name, "", dst)
	s.queue <- doc.ID
	s.logger.Info("ingest.submitted", "file", name, "id", doc.ID)
	return doc.ID, nil
}

func (s *Server) handleUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files submitted"})
		return
	}

	// Validate the whole batch before storing or queueing anything.
	for _, fh := range files {
		ext := constants.NormalizeExt(filepath.Ext(fh.Filename))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{
				"error": "tipo de archivo no soportado: " + fh.Filename,
			})
			return
		}
	}

	var accepted []UploadedDocument
	for _, fh := range files {
		dst := filepath.Join(s.tmpDir, time.Now().Format("20060102T150405.000")+"-"+filepath.Base(fh.Filename))
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store upload"})
			return
		}

		doc := s.registry.Add(fh.Filename, fh.Header.Get("Content-Type"), dst)
		accepted = append(accepted, *doc)
		s.queue <- doc.ID
	}

	c.JSON(http.StatusAccepted, gin.H{"documents": accepted})
}

func (s *Server) handleListDocuments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"documents": s.registry.List()})
}

func (s *Server) handleGetDocument(c *gin.Context) {
	doc, err := s.registry.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleClearDocuments(c *gin.Context) {
	s.registry.Clear()
	c.Status(http.StatusNoContent)
}

type configPayload struct {
	SheetID       *string `json:"sheetId"`
	DriveFolderID *string `json:"driveFolderId"`
}

func (s *Server) handleGetConfig(c *gin.Context) {
	sheetID, _ := s.store.SheetID()
	folderID, _ := s.store.DriveFolderID()
	c.JSON(http.StatusOK, gin.H{"sheetId": sheetID, "driveFolderId": folderID})
}

func (s *Server) handlePutConfig(c *gin.Context) {
	var body configPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if body.SheetID != nil {
		if err := s.store.SetSheetID(*body.SheetID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if body.DriveFolderID != nil {
		if err := s.store.SetDriveFolderID(*body.DriveFolderID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.Status(http.StatusNoContent)
}

type ratePayload struct {
	Rate float64 `json:"rate"`
}

func (s *Server) handlePutRate(c *gin.Context) {
	var body ratePayload
	if err := c.ShouldBindJSON(&body); err != nil || body.Rate <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rate must be a positive number"})
		return
	}
	if err := s.rates.SetManualRate(c.Param("code"), body.Rate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteRate(c *gin.Context) {
	if err := s.rates.ClearManualRate(c.Param("code")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleExport(c *gin.Context) {
	var (
		data []byte
		err  error
	)
	if s.workbook != nil {
		data, err = s.workbook.Bytes()
	} else {
		// No local workbook: render the current session's records instead.
		var recs []*fields.InvoiceRecord
		for _, doc := range s.registry.List() {
			if doc.Record != nil {
				recs = append(recs, doc.Record)
			}
		}
		data, err = s.exporter.RenderXLSX(recs)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="facturas.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
