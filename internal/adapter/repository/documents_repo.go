package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resume-editor/internal/domain"
	"resume-editor/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var ErrNotFound = domain.ErrDocumentNotFound

// DocumentsRepo stores document state and the extracted OCR result. A nil
// pool turns every call into a no-op.
type DocumentsRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentsRepo(pool *pgxpool.Pool) *DocumentsRepo {
	return &DocumentsRepo{pool: pool}
}

// Save upserts doc. A nil result keeps the stored one unless the document is
// back in upload, which clears it.
func (r *DocumentsRepo) Save(ctx context.Context, doc *domain.Document, result *model.OCRResult) error {
	if r == nil || r.pool == nil {
		return nil
	}

	var resultB []byte
	if result != nil {
		b, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshal ocr result: %w", err)
		}
		resultB = b
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO resume_documents (id, file_name, mime_type, state, error, block_count, ocr_result, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET file_name = EXCLUDED.file_name, mime_type = EXCLUDED.mime_type, state = EXCLUDED.state, error = EXCLUDED.error, block_count = EXCLUDED.block_count,
			ocr_result = CASE WHEN EXCLUDED.state = 'upload' THEN NULL ELSE coalesce(EXCLUDED.ocr_result, resume_documents.ocr_result) END,
			updated_at = EXCLUDED.updated_at`,
		doc.ID, doc.FileName, doc.MimeType, string(doc.State), doc.Error, doc.BlockCount, resultB, doc.CreatedAt, doc.UpdatedAt)
	return err
}

// FindResult loads the stored OCR result of a document.
func (r *DocumentsRepo) FindResult(ctx context.Context, id uuid.UUID) (*model.OCRResult, error) {
	if r == nil || r.pool == nil {
		return nil, ErrNotFound
	}
	var res model.OCRResult
	err := queryJSON(ctx, r.pool, &res, `SELECT ocr_result FROM resume_documents WHERE id = $1 AND ocr_result IS NOT NULL`, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// queryJSON runs a SQL that returns a single json value and unmarshals it
// into out.
func queryJSON(ctx context.Context, pool *pgxpool.Pool, out interface{}, sql string, args ...interface{}) error {
	var raw []byte
	if err := pool.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
