// Package canvas holds the editable scene built from an OCR result: a set of
// positioned objects on a fixed-size rendering surface, a single selection,
// in-place text editing, drag and corner resize.
//
// A Canvas is owned by one editing session and is not safe for concurrent
// use; callers serialize access.
package canvas

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"resume-editor/internal/model"

	"github.com/google/uuid"
)

const (
	DefaultWidth      = 1000.0
	DefaultHeight     = 1100.0
	DefaultBackground = "#ffffff"

	DefaultFontFamily = "Arial"
	DefaultFontSize   = 16.0
	DefaultFill       = "#000000"
	DefaultText       = "New Text"

	// MinFontSize is the floor applied when OCR font sizes are scaled onto the
	// surface and when objects are resized.
	MinFontSize = 10.0
	// MaxFontSize bounds every stored font size.
	MaxFontSize = 400.0

	LineHeight       = 1.16
	averageCharWidth = 0.55
)

// DefaultPosition is where AddText places new objects.
var DefaultPosition = Point{X: 100, Y: 100}

var (
	ErrSurfaceNotReady = errors.New("canvas surface is not initialized")
	ErrSurfaceMounted  = errors.New("canvas surface is already initialized")
	ErrObjectNotFound  = errors.New("canvas object not found")
	ErrInvalidStyle    = errors.New("invalid style")
	ErrInvalidSize     = errors.New("invalid size")
	ErrNotEditing      = errors.New("no text edit in progress")
)

// Scale maps normalized page units onto surface pixels.
type Scale struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type SelectionEventKind string

const (
	SelectionCreated SelectionEventKind = "created"
	SelectionUpdated SelectionEventKind = "updated"
	SelectionCleared SelectionEventKind = "cleared"
)

// SelectionEvent reports a change of the active selection. Selected is nil
// when HasSelection is false.
type SelectionEvent struct {
	Kind         SelectionEventKind
	HasSelection bool
	Selected     Object
}

type surface struct {
	width, height float64
	background    string
}

type textEdit struct {
	obj   *TextObject
	draft string
}

type Canvas struct {
	surface   *surface
	objects   []Object
	selected  Object
	editing   *textEdit
	scale     Scale
	listeners []func(SelectionEvent)
}

func New() *Canvas {
	return &Canvas{}
}

// Mount creates the rendering surface. Mounting twice without Dispose fails.
func (c *Canvas) Mount(width, height float64) error {
	if c.surface != nil {
		return ErrSurfaceMounted
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: surface %vx%v", ErrInvalidSize, width, height)
	}
	c.surface = &surface{width: width, height: height, background: DefaultBackground}
	return nil
}

// Dispose releases the surface and discards the scene. It is safe to call on
// an unmounted canvas.
func (c *Canvas) Dispose() {
	if c.surface == nil {
		return
	}
	c.editing = nil
	c.objects = nil
	c.scale = Scale{}
	c.setSelection(nil)
	c.surface = nil
}

func (c *Canvas) Ready() bool {
	return c.surface != nil
}

// Dimensions returns the unscaled surface size, zero when not mounted.
func (c *Canvas) Dimensions() Size {
	if c.surface == nil {
		return Size{}
	}
	return Size{Width: c.surface.width, Height: c.surface.height}
}

func (c *Canvas) Scale() Scale {
	return c.scale
}

// OnSelectionChanged registers fn for every selection change.
func (c *Canvas) OnSelectionChanged(fn func(SelectionEvent)) {
	c.listeners = append(c.listeners, fn)
}

// Load replaces the scene with one text object per block. It reports false and
// leaves the canvas untouched when the surface is not mounted.
func (c *Canvas) Load(res *model.OCRResult) bool {
	if c.surface == nil || res == nil {
		return false
	}
	c.editing = nil
	c.setSelection(nil)

	pageW, pageH := res.PageWidth, res.PageHeight
	if pageW <= 0 {
		pageW = model.PageWidth
	}
	if pageH <= 0 {
		pageH = model.PageHeight
	}
	c.scale = Scale{X: c.surface.width / pageW, Y: c.surface.height / pageH}
	fontScale := min(c.scale.X, c.scale.Y)

	c.objects = make([]Object, 0, len(res.TextBlocks))
	for _, b := range res.TextBlocks {
		style := defaultStyle()
		style.FontSize = clampFontSize(b.FontSize * fontScale)
		if b.FontWeight == model.FontWeightBold {
			style.FontWeight = model.FontWeightBold
		}
		if b.TextAlign.Valid() {
			style.TextAlign = b.TextAlign
		}

		obj := newTextObject(b.Text, Point{X: b.X * c.scale.X, Y: b.Y * c.scale.Y}, style)
		if b.Width > 0 && b.Height > 0 {
			obj.size = Size{Width: b.Width * c.scale.X, Height: b.Height * c.scale.Y}
		}
		c.objects = append(c.objects, obj)
	}
	return true
}

// AddText inserts a text object at DefaultPosition with the default style and
// selects it. An empty text uses DefaultText.
func (c *Canvas) AddText(text string) (*TextObject, error) {
	if c.surface == nil {
		return nil, ErrSurfaceNotReady
	}
	c.commitEdit()
	if text == "" {
		text = DefaultText
	}
	obj := newTextObject(text, DefaultPosition, defaultStyle())
	c.objects = append(c.objects, obj)
	c.setSelection(obj)
	return obj, nil
}

// DeleteSelected removes the selected object, if any, and clears the selection.
func (c *Canvas) DeleteSelected() {
	if c.selected == nil {
		return
	}
	if c.editing != nil && Object(c.editing.obj) == c.selected {
		c.editing = nil
	}
	id := c.selected.ID()
	for i, o := range c.objects {
		if o.ID() == id {
			c.objects = append(c.objects[:i], c.objects[i+1:]...)
			break
		}
	}
	c.setSelection(nil)
}

// Select makes the object with id the active selection.
func (c *Canvas) Select(id uuid.UUID) error {
	obj := c.find(id)
	if obj == nil {
		return ErrObjectNotFound
	}
	if c.editing != nil && Object(c.editing.obj) != obj {
		c.commitEdit()
	}
	c.setSelection(obj)
	return nil
}

func (c *Canvas) ClearSelection() {
	c.commitEdit()
	c.setSelection(nil)
}

// Selected returns the active object or nil.
func (c *Canvas) Selected() Object {
	return c.selected
}

// Objects returns the scene in paint order.
func (c *Canvas) Objects() []Object {
	out := make([]Object, len(c.objects))
	copy(out, c.objects)
	return out
}

// UpdateStyle applies op to the selected object. Without a selection it does
// nothing and returns nil.
func (c *Canvas) UpdateStyle(op StyleOp) error {
	if c.selected == nil || op == nil {
		return nil
	}
	return c.selected.applyStyle(op)
}

// Move translates an object by (dx, dy). Dragging selects the object.
func (c *Canvas) Move(id uuid.UUID, dx, dy float64) error {
	if err := c.Select(id); err != nil {
		return err
	}
	p := c.selected.Position()
	c.selected.setPosition(Point{X: p.X + dx, Y: p.Y + dy})
	return nil
}

// Resize sets an object's bounding box from a corner-handle drag and scales
// its font by the smaller of the two axis ratios, kept within
// [MinFontSize, MaxFontSize].
func (c *Canvas) Resize(id uuid.UUID, width, height float64) error {
	if !(width > 0 && height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidSize, width, height)
	}
	if err := c.Select(id); err != nil {
		return err
	}
	obj := c.selected
	old := obj.Size()
	factor := 1.0
	if old.Width > 0 && old.Height > 0 {
		factor = min(width/old.Width, height/old.Height)
	}
	size := clampFontSize(obj.Style().FontSize * factor)
	if err := obj.applyStyle(SetFontSize(size)); err != nil {
		return err
	}
	obj.setSize(Size{Width: width, Height: height})
	return nil
}

// BeginTextEdit enters in-place editing of a text object (double-click).
func (c *Canvas) BeginTextEdit(id uuid.UUID) error {
	if err := c.Select(id); err != nil {
		return err
	}
	obj, ok := c.selected.(*TextObject)
	if !ok {
		return fmt.Errorf("%w: object %s is not text", ErrObjectNotFound, id)
	}
	if c.editing == nil || c.editing.obj != obj {
		c.editing = &textEdit{obj: obj, draft: obj.text}
	}
	return nil
}

func (c *Canvas) UpdateDraft(text string) error {
	if c.editing == nil {
		return ErrNotEditing
	}
	c.editing.draft = text
	return nil
}

// CommitTextEdit writes the draft into the object (blur or confirm). A blank
// draft keeps the previous text.
func (c *Canvas) CommitTextEdit() error {
	if c.editing == nil {
		return ErrNotEditing
	}
	c.commitEdit()
	return nil
}

func (c *Canvas) CancelTextEdit() {
	c.editing = nil
}

// Editing returns the object under in-place edit, or nil.
func (c *Canvas) Editing() *TextObject {
	if c.editing == nil {
		return nil
	}
	return c.editing.obj
}

// CanUndo and CanRedo report the history controls, which are disabled.
func (c *Canvas) CanUndo() bool { return false }
func (c *Canvas) CanRedo() bool { return false }

// Snapshot returns an immutable view of the scene for rendering.
func (c *Canvas) Snapshot() Scene {
	if c.surface == nil {
		return Scene{}
	}
	items := make([]Item, 0, len(c.objects))
	for _, o := range c.objects {
		items = append(items, o.item())
	}
	return Scene{
		Width:      c.surface.width,
		Height:     c.surface.height,
		Background: c.surface.background,
		Items:      items,
	}
}

func clampFontSize(size float64) float64 {
	return min(MaxFontSize, max(MinFontSize, size))
}

func (c *Canvas) commitEdit() {
	if c.editing == nil {
		return
	}
	if strings.TrimSpace(c.editing.draft) != "" {
		c.editing.obj.setText(c.editing.draft)
	}
	c.editing = nil
}

func (c *Canvas) find(id uuid.UUID) Object {
	for _, o := range c.objects {
		if o.ID() == id {
			return o
		}
	}
	return nil
}

func (c *Canvas) setSelection(obj Object) {
	prev := c.selected
	if prev == obj {
		return
	}
	c.selected = obj

	ev := SelectionEvent{Kind: SelectionCleared}
	switch {
	case obj != nil && prev == nil:
		ev = SelectionEvent{Kind: SelectionCreated, HasSelection: true, Selected: obj}
	case obj != nil:
		ev = SelectionEvent{Kind: SelectionUpdated, HasSelection: true, Selected: obj}
	}
	for _, fn := range c.listeners {
		fn(ev)
	}
}
