package canvas

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"resume-editor/internal/model"

	"github.com/lucasb-eyer/go-colorful"
)

// StyleOp is one typed style mutation. The set of operations is closed.
type StyleOp interface {
	Property() string
	apply(*Style) error
}

type (
	SetFontFamily string
	SetFontSize   float64
	SetFontWeight model.FontWeight
	SetFontStyle  FontStyle
	SetFill       string
	SetTextAlign  model.TextAlign
)

func (SetFontFamily) Property() string { return "fontFamily" }
func (SetFontSize) Property() string   { return "fontSize" }
func (SetFontWeight) Property() string { return "fontWeight" }
func (SetFontStyle) Property() string  { return "fontStyle" }
func (SetFill) Property() string       { return "fill" }
func (SetTextAlign) Property() string  { return "textAlign" }

func (op SetFontFamily) apply(s *Style) error {
	family := strings.TrimSpace(string(op))
	if family == "" {
		return fmt.Errorf("%w: empty font family", ErrInvalidStyle)
	}
	s.FontFamily = family
	return nil
}

func (op SetFontSize) apply(s *Style) error {
	size := float64(op)
	if size <= 0 || size > MaxFontSize || math.IsNaN(size) {
		return fmt.Errorf("%w: font size %v", ErrInvalidStyle, size)
	}
	s.FontSize = size
	return nil
}

func (op SetFontWeight) apply(s *Style) error {
	w := model.FontWeight(op)
	if !w.Valid() {
		return fmt.Errorf("%w: font weight %q", ErrInvalidStyle, string(op))
	}
	s.FontWeight = w
	return nil
}

func (op SetFontStyle) apply(s *Style) error {
	fs := FontStyle(op)
	if !fs.Valid() {
		return fmt.Errorf("%w: font style %q", ErrInvalidStyle, string(op))
	}
	s.FontStyle = fs
	return nil
}

func (op SetFill) apply(s *Style) error {
	c, err := colorful.Hex(strings.TrimSpace(string(op)))
	if err != nil {
		return fmt.Errorf("%w: fill %q", ErrInvalidStyle, string(op))
	}
	s.Fill = c.Hex()
	return nil
}

func (op SetTextAlign) apply(s *Style) error {
	a := model.TextAlign(op)
	if !a.Valid() {
		return fmt.Errorf("%w: text align %q", ErrInvalidStyle, string(op))
	}
	s.TextAlign = a
	return nil
}

// ParseStyleOp decodes the wire form {property, value} of a style change.
func ParseStyleOp(property string, value json.RawMessage) (StyleOp, error) {
	switch property {
	case "fontSize":
		var size float64
		if err := json.Unmarshal(value, &size); err != nil {
			return nil, fmt.Errorf("%w: fontSize must be a number", ErrInvalidStyle)
		}
		return SetFontSize(size), nil
	case "fontFamily", "fontWeight", "fontStyle", "fill", "textAlign":
	default:
		return nil, fmt.Errorf("%w: unknown property %q", ErrInvalidStyle, property)
	}

	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidStyle, property)
	}
	switch property {
	case "fontFamily":
		return SetFontFamily(s), nil
	case "fontWeight":
		return SetFontWeight(s), nil
	case "fontStyle":
		return SetFontStyle(s), nil
	case "fill":
		return SetFill(s), nil
	default:
		return SetTextAlign(s), nil
	}
}
