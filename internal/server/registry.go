package server

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/facturascan/facturascan/constants"
	"github.com/facturascan/facturascan/internal/fields"
	"github.com/facturascan/facturascan/internal/pipeline"
)

// UploadedDocument pairs a raw input file with its current status and, once
// available, its extracted record. It lives only for the session: clearing
// the registry destroys it, leaving just the external side effects.
type UploadedDocument struct {
	ID        string                    `json:"id"`
	FileName  string                    `json:"fileName"`
	MIME      string                    `json:"mimeType"`
	Status    pipeline.ProcessingStatus `json:"status"`
	Record    *fields.InvoiceRecord     `json:"extractedData,omitempty"`
	CreatedAt time.Time                 `json:"createdAt"`

	path string
}

// Registry is the mutex-guarded session store of in-flight and finished
// documents, ordered by submission.
type Registry struct {
	mu    sync.RWMutex
	docs  map[string]*UploadedDocument
	order []string
}

func NewRegistry() *Registry {
	return &Registry{docs: map[string]*UploadedDocument{}}
}

// Add registers a newly accepted file and returns its document handle.
func (r *Registry) Add(fileName, mime, path string) *UploadedDocument {
	doc := &UploadedDocument{
		ID:        uuid.New().String(),
		FileName:  fileName,
		MIME:      mime,
		CreatedAt: time.Now(),
		Status: pipeline.ProcessingStatus{
			Stage:    constants.StageIdle,
			Progress: 0,
			Message:  "En cola",
		},
		path: path,
	}
	r.mu.Lock()
	r.docs[doc.ID] = doc
	r.order = append(r.order, doc.ID)
	r.mu.Unlock()
	return doc
}

// SetStatus replaces the status snapshot for one document.
func (r *Registry) SetStatus(id string, st pipeline.ProcessingStatus) {
	r.mu.Lock()
	if doc, ok := r.docs[id]; ok {
		doc.Status = st
	}
	r.mu.Unlock()
}

// SetRecord attaches the extraction result to a finished document.
func (r *Registry) SetRecord(id string, rec *fields.InvoiceRecord) {
	r.mu.Lock()
	if doc, ok := r.docs[id]; ok {
		doc.Record = rec
	}
	r.mu.Unlock()
}

// Get returns a copy of one document.
func (r *Registry) Get(id string) (UploadedDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return UploadedDocument{}, fmt.Errorf("unknown document %s", id)
	}
	return *doc, nil
}

// List returns copies of all documents in submission order.
func (r *Registry) List() []UploadedDocument {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]UploadedDocument, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.docs[id])
	}
	return out
}

// Clear removes every document and its temporary file.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, doc := range r.docs {
		if doc.path != "" {
			_ = os.Remove(doc.path)
		}
	}
	r.docs = map[string]*UploadedDocument{}
	r.order = nil
}

func (r *Registry) path(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if doc, ok := r.docs[id]; ok {
		return doc.path
	}
	return ""
}
