// Package usecase drives a resume document through upload, processing,
// editing and error, wiring the rasterizer, the layout extractor, the canvas
// and the exporter together.
package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"resume-editor/internal/canvas"
	"resume-editor/internal/domain"
	"resume-editor/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type session struct {
	mu        sync.Mutex
	doc       domain.Document
	canvas    *canvas.Canvas
	result    *model.OCRResult
	file      []byte
	selection Selection
	exportMsg string
}

type Orchestrator struct {
	rasterizer     Rasterizer
	extractor      LayoutExtractor
	exporter       Exporter
	repo           DocumentsRepo
	log            logrus.FieldLogger
	extractTimeout time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
	wg       sync.WaitGroup
}

// Options configures an Orchestrator. Repo and Log may be nil.
type Options struct {
	Rasterizer     Rasterizer
	Extractor      LayoutExtractor
	Exporter       Exporter
	Repo           DocumentsRepo
	Log            logrus.FieldLogger
	ExtractTimeout time.Duration
}

func NewOrchestrator(opts Options) *Orchestrator {
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Orchestrator{
		rasterizer:     opts.Rasterizer,
		extractor:      opts.Extractor,
		exporter:       opts.Exporter,
		repo:           opts.Repo,
		log:            log.WithField("component", "orchestrator"),
		extractTimeout: opts.ExtractTimeout,
		sessions:       make(map[uuid.UUID]*session),
	}
}

// Extract rasterizes data and extracts its layout without creating a
// document.
func (o *Orchestrator) Extract(ctx context.Context, mimeType string, data []byte) (*model.OCRResult, error) {
	log := o.log.WithFields(logrus.Fields{"mime_type": mimeType, "bytes": len(data)})
	res, err := o.runPipeline(ctx, mimeType, data, log)
	if err != nil {
		return nil, err
	}
	log.WithField("blocks", len(res.TextBlocks)).Info("Extraction completed")
	return res, nil
}

// CreateDocument starts a new document in the upload state.
func (o *Orchestrator) CreateDocument(ctx context.Context) domain.Document {
	now := time.Now().UTC()
	s := &session{doc: domain.Document{
		ID:        uuid.New(),
		State:     domain.StateUpload,
		CreatedAt: now,
		UpdatedAt: now,
	}}
	o.mu.Lock()
	o.sessions[s.doc.ID] = s
	o.mu.Unlock()

	o.save(ctx, s)
	return s.doc
}

// Get returns a snapshot of the document.
func (o *Orchestrator) Get(id uuid.UUID) (*DocumentView, error) {
	s, err := o.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

// Process runs the upload synchronously: upload -> processing -> editing, or
// error when rasterization or extraction fails.
func (o *Orchestrator) Process(ctx context.Context, id uuid.UUID, fileName, mimeType string, data []byte) error {
	s, err := o.begin(ctx, id, fileName, mimeType, data)
	if err != nil {
		return err
	}
	return o.finish(ctx, s)
}

// Submit moves the document to processing and finishes the work in the
// background. Only the state transition is synchronous.
func (o *Orchestrator) Submit(ctx context.Context, id uuid.UUID, fileName, mimeType string, data []byte) error {
	s, err := o.begin(ctx, id, fileName, mimeType, data)
	if err != nil {
		return err
	}
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		if err := o.finish(context.Background(), s); err != nil {
			o.log.WithField("document_id", id).WithError(err).Warn("Document processing failed")
		}
	}()
	return nil
}

// Wait blocks until background processing started by Submit has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) begin(ctx context.Context, id uuid.UUID, fileName, mimeType string, data []byte) (*session, error) {
	s, err := o.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.State != domain.StateUpload {
		return nil, fmt.Errorf("%w: state %s", ErrBusy, s.doc.State)
	}
	s.file = data
	s.doc.FileName = fileName
	s.doc.MimeType = mimeType
	s.doc.Error = ""
	o.transition(ctx, s, domain.StateProcessing)
	return s, nil
}

// finish runs the pipeline outside the session lock so readers can observe
// the processing state. Processing blocks every other mutation.
func (o *Orchestrator) finish(ctx context.Context, s *session) error {
	s.mu.Lock()
	mimeType, data, id := s.doc.MimeType, s.file, s.doc.ID
	s.mu.Unlock()

	log := o.log.WithFields(logrus.Fields{"document_id": id, "mime_type": mimeType, "bytes": len(data)})
	res, err := o.runPipeline(ctx, mimeType, data, log)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = nil
	if err == nil {
		err = o.populate(s, res)
	}
	if err != nil {
		s.doc.Error = domain.UserMessage(err)
		o.transition(ctx, s, domain.StateError)
		return err
	}
	s.result = res
	s.doc.BlockCount = len(res.TextBlocks)
	o.transition(ctx, s, domain.StateEditing)
	log.WithField("blocks", s.doc.BlockCount).Info("Document ready for editing")
	return nil
}

// populate mounts a fresh surface and loads res into it.
func (o *Orchestrator) populate(s *session, res *model.OCRResult) error {
	c := canvas.New()
	if err := c.Mount(canvas.DefaultWidth, canvas.DefaultHeight); err != nil {
		return err
	}
	c.OnSelectionChanged(func(ev canvas.SelectionEvent) {
		s.selection = Selection{HasSelection: ev.HasSelection}
		if ev.Selected != nil {
			id := ev.Selected.ID()
			s.selection.SelectedID = &id
		}
	})
	if !c.Load(res) {
		c.Dispose()
		return canvas.ErrSurfaceNotReady
	}
	s.canvas = c
	return nil
}

// Reset returns the document to upload and discards the file, the result and
// the scene. It is rejected while processing.
func (o *Orchestrator) Reset(ctx context.Context, id uuid.UUID) error {
	s, err := o.session(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.State == domain.StateProcessing {
		return fmt.Errorf("%w: state %s", ErrBusy, s.doc.State)
	}
	if s.canvas != nil {
		s.canvas.Dispose()
	}
	s.canvas, s.result, s.file = nil, nil, nil
	s.selection = Selection{}
	s.exportMsg = ""
	s.doc.FileName, s.doc.MimeType, s.doc.Error = "", "", ""
	s.doc.BlockCount = 0
	o.transition(ctx, s, domain.StateUpload)
	return nil
}

// Delete disposes the document's surface and drops its session. The stored
// record, if any, stays readable through Result. It is rejected while
// processing.
func (o *Orchestrator) Delete(ctx context.Context, id uuid.UUID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.sessions[id]
	if !ok {
		return ErrDocumentNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.State == domain.StateProcessing {
		return fmt.Errorf("%w: state %s", ErrBusy, s.doc.State)
	}
	if s.canvas != nil {
		s.canvas.Dispose()
	}
	s.canvas, s.result, s.file = nil, nil, nil
	delete(o.sessions, id)
	o.log.WithField("document_id", id).Info("Document session closed")
	return nil
}

// Result returns the extracted layout of a document. Live sessions answer
// from memory; otherwise the stored result is loaded from the repository.
func (o *Orchestrator) Result(ctx context.Context, id uuid.UUID) (*model.OCRResult, error) {
	if s, err := o.session(id); err == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.result == nil {
			return nil, fmt.Errorf("%w: state %s", ErrNotEditing, s.doc.State)
		}
		return s.result, nil
	}
	if o.repo == nil {
		return nil, ErrDocumentNotFound
	}
	res, err := o.repo.FindResult(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load result %s: %w", id, err)
	}
	return res, nil
}

// Edit runs fn against the document's canvas. fn must not retain c.
func (o *Orchestrator) Edit(id uuid.UUID, fn func(c *canvas.Canvas) error) (*DocumentView, error) {
	s, err := o.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.State != domain.StateEditing || s.canvas == nil {
		return nil, fmt.Errorf("%w: state %s", ErrNotEditing, s.doc.State)
	}
	if err := fn(s.canvas); err != nil {
		return nil, err
	}
	s.doc.UpdatedAt = time.Now().UTC()
	return s.view(), nil
}

// Export renders the current scene to PDF. A failure is kept as a transient
// message and the document stays in editing.
func (o *Orchestrator) Export(ctx context.Context, id uuid.UUID) ([]byte, error) {
	s, err := o.session(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.State != domain.StateEditing {
		return nil, fmt.Errorf("%w: state %s", ErrNotEditing, s.doc.State)
	}

	log := o.log.WithField("document_id", id)
	pdf, err := o.exporter.Export(ctx, s.canvas)
	if err != nil {
		s.exportMsg = domain.UserMessage(err)
		log.WithError(err).Warn("Export failed")
		return nil, err
	}
	s.exportMsg = ""
	log.WithField("bytes", len(pdf)).Info("Exported PDF")
	return pdf, nil
}

// Close disposes every surface after background work has drained.
func (o *Orchestrator) Close() {
	o.wg.Wait()
	o.mu.Lock()
	defer o.mu.Unlock()
	for id, s := range o.sessions {
		s.mu.Lock()
		if s.canvas != nil {
			s.canvas.Dispose()
		}
		s.mu.Unlock()
		delete(o.sessions, id)
	}
}

func (o *Orchestrator) session(id uuid.UUID) (*session, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	s, ok := o.sessions[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return s, nil
}

// transition sets the state and persists it. Callers hold s.mu.
func (o *Orchestrator) transition(ctx context.Context, s *session, state domain.DocumentState) {
	s.doc.State = state
	s.doc.UpdatedAt = time.Now().UTC()
	o.save(ctx, s)
}

func (o *Orchestrator) save(ctx context.Context, s *session) {
	if o.repo == nil {
		return
	}
	doc := s.doc
	if err := o.repo.Save(ctx, &doc, s.result); err != nil {
		o.log.WithField("document_id", doc.ID).WithError(err).Warn("Failed to save document")
	}
}

func (s *session) view() *DocumentView {
	v := &DocumentView{
		Document:      s.doc,
		Selection:     s.selection,
		ExportMessage: s.exportMsg,
	}
	if s.canvas != nil && s.canvas.Ready() {
		scale := s.canvas.Scale()
		scene := s.canvas.Snapshot()
		v.Scale, v.Scene = &scale, &scene
		v.CanUndo, v.CanRedo = s.canvas.CanUndo(), s.canvas.CanRedo()
		if ed := s.canvas.Editing(); ed != nil {
			id := ed.ID()
			v.Editing = &id
		}
	}
	return v
}
