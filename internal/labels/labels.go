// Package labels renders lot identification labels. Rendering is read-only
// over lot data; the printing transport is external.
package labels

import (
	"fmt"
	"strings"
	"text/template"

	"fitlot/internal/store"
)

// Payload is the data a label template may reference.
type Payload struct {
	LotNumber string
	OrderID   string
	Item      string
	Origin    string
	Step      string
	CreatedAt string
	Urgency   string
}

// NewPayload builds a label payload from a lot.
func NewPayload(lot *store.Lot) Payload {
	if lot == nil {
		return Payload{}
	}
	created := ""
	if !lot.CreatedAt.IsZero() {
		created = lot.CreatedAt.Local().Format("2006-01-02 15:04")
	}
	return Payload{
		LotNumber: lot.LotNumber,
		OrderID:   lot.OrderID,
		Item:      lot.Item,
		Origin:    lot.OriginMachine,
		Step:      string(lot.CurrentStep),
		CreatedAt: created,
		Urgency:   string(lot.Urgency),
	}
}

// DefaultTemplate is the plain-text card layout used when no custom
// template is configured.
const DefaultTemplate = `LOT {{.LotNumber}}
ORDER {{.OrderID}}
{{.Item}}
{{.Origin}} {{.CreatedAt}}{{if .Urgency}}
*** {{.Urgency}} ***{{end}}
`

// Renderer turns payloads into printable label text.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses a label template. An empty source uses the default
// layout.
func NewRenderer(source string) (*Renderer, error) {
	if source == "" {
		source = DefaultTemplate
	}
	tmpl, err := template.New("label").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse label template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render produces the label text for a lot.
func (r *Renderer) Render(lot *store.Lot) (string, error) {
	var out strings.Builder
	if err := r.tmpl.Execute(&out, NewPayload(lot)); err != nil {
		return "", fmt.Errorf("render label: %w", err)
	}
	return out.String(), nil
}
