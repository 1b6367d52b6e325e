package canvas

import (
	"strings"
	"unicode/utf8"

	"resume-editor/internal/model"

	"github.com/google/uuid"
)

// Kind enumerates the scene object variants.
type Kind int

const (
	KindText Kind = iota
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type FontStyle string

const (
	FontStyleNormal FontStyle = "normal"
	FontStyleItalic FontStyle = "italic"
)

func (s FontStyle) Valid() bool {
	return s == FontStyleNormal || s == FontStyleItalic
}

// Style is the visual style shared by every object kind.
type Style struct {
	FontFamily string           `json:"fontFamily"`
	FontSize   float64          `json:"fontSize"`
	FontWeight model.FontWeight `json:"fontWeight"`
	FontStyle  FontStyle        `json:"fontStyle"`
	Fill       string           `json:"fill"`
	TextAlign  model.TextAlign  `json:"textAlign"`
}

func defaultStyle() Style {
	return Style{
		FontFamily: DefaultFontFamily,
		FontSize:   DefaultFontSize,
		FontWeight: model.FontWeightNormal,
		FontStyle:  FontStyleNormal,
		Fill:       DefaultFill,
		TextAlign:  model.AlignLeft,
	}
}

// Object is a positioned element of the scene. The interface is sealed: only
// this package declares variants, and all mutation goes through Canvas.
type Object interface {
	ID() uuid.UUID
	Kind() Kind
	Position() Point
	Size() Size
	Style() Style

	item() Item
	setPosition(Point)
	setSize(Size)
	applyStyle(StyleOp) error
}

// TextObject is an editable line (or lines) of text.
type TextObject struct {
	id    uuid.UUID
	text  string
	pos   Point
	size  Size
	style Style
}

func newTextObject(text string, pos Point, style Style) *TextObject {
	return &TextObject{
		id:    uuid.New(),
		text:  text,
		pos:   pos,
		size:  measureText(text, style.FontSize),
		style: style,
	}
}

func (o *TextObject) ID() uuid.UUID   { return o.id }
func (o *TextObject) Kind() Kind      { return KindText }
func (o *TextObject) Position() Point { return o.pos }
func (o *TextObject) Size() Size      { return o.size }
func (o *TextObject) Style() Style    { return o.style }
func (o *TextObject) Text() string    { return o.text }

func (o *TextObject) setPosition(p Point) { o.pos = p }
func (o *TextObject) setSize(s Size)      { o.size = s }

func (o *TextObject) setText(text string) {
	o.text = text
	o.size = measureText(text, o.style.FontSize)
}

func (o *TextObject) applyStyle(op StyleOp) error {
	prev := o.style.FontSize
	if err := op.apply(&o.style); err != nil {
		return err
	}
	if o.style.FontSize != prev && prev > 0 {
		f := o.style.FontSize / prev
		o.size = Size{Width: o.size.Width * f, Height: o.size.Height * f}
	}
	return nil
}

func (o *TextObject) item() Item {
	return Item{
		ID:     o.id,
		Kind:   KindText,
		Text:   o.text,
		Left:   o.pos.X,
		Top:    o.pos.Y,
		Width:  o.size.Width,
		Height: o.size.Height,
		Style:  o.style,
	}
}

// measureText estimates the bounding box of text set at fontSize.
func measureText(text string, fontSize float64) Size {
	lines := strings.Split(text, "\n")
	widest := 1
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > widest {
			widest = n
		}
	}
	return Size{
		Width:  float64(widest) * fontSize * averageCharWidth,
		Height: float64(len(lines)) * fontSize * LineHeight,
	}
}
