package usecase

import (
	"context"
	"errors"

	"resume-editor/internal/canvas"
	"resume-editor/internal/domain"
	"resume-editor/internal/model"
	"resume-editor/internal/rasterize"

	"github.com/google/uuid"
)

var (
	ErrDocumentNotFound = domain.ErrDocumentNotFound
	// ErrBusy is returned when an operation is not allowed in the document's
	// current state, e.g. a second upload while processing.
	ErrBusy       = errors.New("document is busy")
	ErrNotEditing = errors.New("document is not in editing state")
)

type Rasterizer interface {
	Rasterize(ctx context.Context, data []byte, mimeType string) (*rasterize.Image, error)
}

type LayoutExtractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) (*model.OCRResult, error)
}

type Exporter interface {
	Export(ctx context.Context, c *canvas.Canvas) ([]byte, error)
}

// DocumentsRepo persists document state. result is nil until extraction
// succeeds. FindResult returns ErrDocumentNotFound when nothing is stored.
type DocumentsRepo interface {
	Save(ctx context.Context, doc *domain.Document, result *model.OCRResult) error
	FindResult(ctx context.Context, id uuid.UUID) (*model.OCRResult, error)
}

// Selection mirrors the last selection event of a document's canvas.
type Selection struct {
	HasSelection bool       `json:"has_selection"`
	SelectedID   *uuid.UUID `json:"selected_id,omitempty"`
}

// DocumentView is a read-only snapshot of a document and its scene.
type DocumentView struct {
	domain.Document
	Selection     Selection     `json:"selection"`
	ExportMessage string        `json:"export_message,omitempty"`
	Scale         *canvas.Scale `json:"scale,omitempty"`
	Scene         *canvas.Scene `json:"scene,omitempty"`
	Editing       *uuid.UUID    `json:"editing_id,omitempty"`
	CanUndo       bool          `json:"can_undo"`
	CanRedo       bool          `json:"can_redo"`
}
