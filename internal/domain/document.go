package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrDocumentNotFound is returned when no live session or stored record
// exists for a document id.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentState is the editor state machine position.
type DocumentState string

const (
	StateUpload     DocumentState = "upload"
	StateProcessing DocumentState = "processing"
	StateEditing    DocumentState = "editing"
	StateError      DocumentState = "error"
)

// Document is one resume going through upload, extraction and editing.
type Document struct {
	ID         uuid.UUID     `json:"id"`
	FileName   string        `json:"file_name"`
	MimeType   string        `json:"mime_type"`
	State      DocumentState `json:"state"`
	Error      string        `json:"error,omitempty"`
	BlockCount int           `json:"block_count"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
