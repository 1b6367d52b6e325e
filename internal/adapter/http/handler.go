package http

import (
	"encoding/json"
	"errors"
	"io"

	"resume-editor/internal/canvas"
	"resume-editor/internal/domain"
	"resume-editor/internal/rasterize"
	"resume-editor/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	msgNoFile      = "No file provided"
	msgInvalidType = "Invalid file type. Please upload PNG, JPG, WEBP, or PDF."
	exportFileName = "edited-resume.pdf"
)

type Handler struct {
	orch *usecase.Orchestrator
	log  logrus.FieldLogger
}

func NewHandler(o *usecase.Orchestrator, log logrus.FieldLogger) *Handler {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Handler{orch: o, log: log.WithField("component", "http")}
}

// Register mounts every route on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Post("/extract", h.Extract)

	d := app.Group("/documents")
	d.Post("/", h.CreateDocument)
	d.Get("/:id", h.GetDocument)
	d.Delete("/:id", h.DeleteDocument)
	d.Get("/:id/result", h.GetResult)
	d.Post("/:id/upload", h.Upload)
	d.Post("/:id/reset", h.Reset)
	d.Post("/:id/objects", h.AddText)
	d.Post("/:id/select", h.Select)
	d.Delete("/:id/select", h.ClearSelection)
	d.Delete("/:id/selected", h.DeleteSelected)
	d.Patch("/:id/style", h.UpdateStyle)
	d.Post("/:id/objects/:oid/move", h.Move)
	d.Post("/:id/objects/:oid/resize", h.Resize)
	d.Post("/:id/objects/:oid/text", h.EditText)
	d.Get("/:id/export", h.Export)
}

// readUpload returns the multipart "file" field. It writes the 400 response
// itself and reports ok=false when the field is missing or of a wrong type.
func (h *Handler) readUpload(c *fiber.Ctx) (name, mimeType string, data []byte, ok bool, err error) {
	fh, ferr := c.FormFile("file")
	if ferr != nil {
		return "", "", nil, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgNoFile})
	}
	mimeType = fh.Header.Get(fiber.HeaderContentType)
	if !rasterize.Supported(mimeType) {
		return "", "", nil, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidType})
	}
	f, ferr := fh.Open()
	if ferr != nil {
		return "", "", nil, false, ferr
	}
	defer f.Close()
	data, ferr = io.ReadAll(f)
	if ferr != nil {
		return "", "", nil, false, ferr
	}
	return fh.Filename, mimeType, data, true, nil
}

// Extract is the stateless extraction endpoint.
func (h *Handler) Extract(c *fiber.Ctx) error {
	_, mimeType, data, ok, err := h.readUpload(c)
	if !ok {
		return err
	}
	res, err := h.orch.Extract(c.UserContext(), mimeType, data)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			status = fiber.StatusBadRequest
		}
		h.log.WithError(err).WithField("mime_type", mimeType).Warn("Extraction failed")
		return c.Status(status).JSON(fiber.Map{"error": domain.UserMessage(err)})
	}
	return c.JSON(fiber.Map{"success": true, "data": res})
}

func (h *Handler) CreateDocument(c *fiber.Ctx) error {
	doc := h.orch.CreateDocument(c.UserContext())
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": doc.ID.String(), "state": doc.State})
}

func (h *Handler) GetDocument(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document id"})
	}
	v, err := h.orch.Get(id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(v)
}

// DeleteDocument closes the editing session and frees its canvas.
func (h *Handler) DeleteDocument(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document id"})
	}
	if err := h.orch.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetResult returns the extracted layout, from the live session or storage.
func (h *Handler) GetResult(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document id"})
	}
	res, err := h.orch.Result(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": res})
}

// Upload starts background processing and answers 202 immediately.
func (h *Handler) Upload(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document id"})
	}
	name, mimeType, data, ok, err := h.readUpload(c)
	if !ok {
		return err
	}
	if err := h.orch.Submit(c.UserContext(), id, name, mimeType, data); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"id": id.String(), "state": domain.StateProcessing})
}

func (h *Handler) Reset(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document id"})
	}
	if err := h.orch.Reset(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id.String(), "state": domain.StateUpload})
}

type addTextReq struct {
	Text string `json:"text"`
}

func (h *Handler) AddText(c *fiber.Ctx) error {
	var req addTextReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		}
	}
	return h.edit(c, fiber.StatusCreated, func(cv *canvas.Canvas) error {
		_, err := cv.AddText(req.Text)
		return err
	})
}

type selectReq struct {
	ID string `json:"id"`
}

func (h *Handler) Select(c *fiber.Ctx) error {
	var req selectReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	oid, err := uuid.Parse(req.ID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid object id"})
	}
	return h.edit(c, fiber.StatusOK, func(cv *canvas.Canvas) error {
		return cv.Select(oid)
	})
}

func (h *Handler) ClearSelection(c *fiber.Ctx) error {
	return h.edit(c, fiber.StatusOK, func(cv *canvas.Canvas) error {
		cv.ClearSelection()
		return nil
	})
}

func (h *Handler) DeleteSelected(c *fiber.Ctx) error {
	return h.edit(c, fiber.StatusOK, func(cv *canvas.Canvas) error {
		cv.DeleteSelected()
		return nil
	})
}

type styleReq struct {
	Property string          `json:"property"`
	Value    json.RawMessage `json:"value"`
}

func (h *Handler) UpdateStyle(c *fiber.Ctx) error {
	var req styleReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	op, err := canvas.ParseStyleOp(req.Property, req.Value)
	if err != nil {
		return h.fail(c, err)
	}
	return h.edit(c, fiber.StatusOK, func(cv *canvas.Canvas) error {
		return cv.UpdateStyle(op)
	})
}

type moveReq struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

func (h *Handler) Move(c *fiber.Ctx) error {
	oid, err := uuid.Parse(c.Params("oid"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid object id"})
	}
	var req moveReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	return h.edit(c, fiber.StatusOK, func(cv *canvas.Canvas) error {
		return cv.Move(oid, req.DX, req.DY)
	})
}

type resizeReq struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (h *Handler) Resize(c *fiber.Ctx) error {
	oid, err := uuid.Parse(c.Params("oid"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid object id"})
	}
	var req resizeReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	return h.edit(c, fiber.StatusOK, func(cv *canvas.Canvas) error {
		return cv.Resize(oid, req.Width, req.Height)
	})
}

// textReq drives in-place editing. Action is one of begin, update, commit
// and cancel. An empty action begins, sets the draft to Text and commits.
type textReq struct {
	Action string `json:"action"`
	Text   string `json:"text"`
}

func (h *Handler) EditText(c *fiber.Ctx) error {
	oid, err := uuid.Parse(c.Params("oid"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid object id"})
	}
	var req textReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	return h.edit(c, fiber.StatusOK, func(cv *canvas.Canvas) error {
		switch req.Action {
		case "begin":
			return cv.BeginTextEdit(oid)
		case "update":
			return cv.UpdateDraft(req.Text)
		case "commit":
			return cv.CommitTextEdit()
		case "cancel":
			cv.CancelTextEdit()
			return nil
		case "":
			if err := cv.BeginTextEdit(oid); err != nil {
				return err
			}
			if err := cv.UpdateDraft(req.Text); err != nil {
				return err
			}
			return cv.CommitTextEdit()
		}
		return errInvalidAction
	})
}

func (h *Handler) Export(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document id"})
	}
	pdf, err := h.orch.Export(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+exportFileName)
	return c.Send(pdf)
}

func (h *Handler) edit(c *fiber.Ctx, status int, fn func(*canvas.Canvas) error) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document id"})
	}
	v, err := h.orch.Edit(id, fn)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(status).JSON(v)
}

var errInvalidAction = errors.New("invalid text edit action")

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := err.Error()
	switch {
	case errors.Is(err, usecase.ErrDocumentNotFound), errors.Is(err, canvas.ErrObjectNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, usecase.ErrBusy), errors.Is(err, usecase.ErrNotEditing), errors.Is(err, canvas.ErrSurfaceNotReady):
		status = fiber.StatusConflict
	case errors.Is(err, canvas.ErrInvalidStyle), errors.Is(err, canvas.ErrInvalidSize),
		errors.Is(err, canvas.ErrNotEditing), errors.Is(err, errInvalidAction):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrExport):
		msg = domain.UserMessage(err)
	}
	if status == fiber.StatusInternalServerError {
		h.log.WithError(err).WithField("path", c.Path()).Error("Request failed")
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
