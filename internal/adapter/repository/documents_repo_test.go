package repository

import (
	"context"
	"errors"
	"testing"

	"resume-editor/internal/domain"
	"resume-editor/internal/model"

	"github.com/google/uuid"
)

func TestDocumentsRepo_NilPool(t *testing.T) {
	repos := []*DocumentsRepo{nil, NewDocumentsRepo(nil)}
	for _, r := range repos {
		doc := &domain.Document{ID: uuid.New(), State: domain.StateEditing}
		if err := r.Save(context.Background(), doc, &model.OCRResult{}); err != nil {
			t.Errorf("Save() error = %v", err)
		}
		if _, err := r.FindResult(context.Background(), doc.ID); !errors.Is(err, ErrNotFound) || !errors.Is(err, domain.ErrDocumentNotFound) {
			t.Errorf("FindResult() error = %v, want ErrNotFound", err)
		}
	}
}
