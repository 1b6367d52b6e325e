package canvas

import (
	"strings"

	"github.com/google/uuid"
)

// Scene is a render-ready copy of the canvas in surface pixel space.
type Scene struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Background string  `json:"background"`
	Items      []Item  `json:"items"`
}

// Item is one object of a Scene, in paint order.
type Item struct {
	ID     uuid.UUID `json:"id"`
	Kind   Kind      `json:"-"`
	Text   string    `json:"text"`
	Left   float64   `json:"left"`
	Top    float64   `json:"top"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Style  Style     `json:"style"`
}

// Lines splits the item text into rendered lines.
func (it Item) Lines() []string {
	return strings.Split(it.Text, "\n")
}
