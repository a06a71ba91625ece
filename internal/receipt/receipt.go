package receipt

import (
	"time"

	"anbargar/internal/model"

	"github.com/shopspring/decimal"
)

// Kind selects the receipt audience.
type Kind string

const (
	KindBuyer  Kind = "buyer"
	KindSeller Kind = "seller"
)

// Label is the receipt heading for this kind.
func (k Kind) Label() string {
	if k == KindBuyer {
		return "Purchase receipt"
	}
	return "Sales receipt"
}

// Line is one rendered receipt row. Amount is nil when quantity or value is
// missing; renderers show a placeholder, never zero.
type Line struct {
	Name     string           `json:"name"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Unit     string           `json:"unit,omitempty"`
	Value    *decimal.Decimal `json:"value,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
}

// Document is the structured receipt. It is the single source of truth for
// every downstream renderer (preview, export, print).
type Document struct {
	Kind             Kind             `json:"kind"`
	EventID          string           `json:"eventId"`
	EventType        model.EventType  `json:"eventType"`
	CreatedAt        time.Time        `json:"createdAt"`
	CustomerName     string           `json:"customerName,omitempty"`
	CustomerPhone    string           `json:"customerPhone,omitempty"`
	CustomerAddress  string           `json:"customerAddress,omitempty"`
	Description      string           `json:"description,omitempty"`
	Lines            []Line           `json:"lines"`
	Total            *decimal.Decimal `json:"total,omitempty"`
	TotalComplete    bool             `json:"totalComplete"`
	ItemsUnavailable bool             `json:"itemsUnavailable"`
}

// Compose builds a Document from a fully detailed event, deterministically.
//
// Per-line amount is quantity times value when both are present; otherwise
// the amount stays nil and the line is excluded from the grand total. Total
// is the sum of the computable amounts; TotalComplete is true only when
// every line contributed, so a partial dataset is never reported as a
// misleadingly low total. An event without line detail (detail fetch failed)
// yields an empty line list with ItemsUnavailable set: a partial receipt is
// preferable to no receipt.
func Compose(ev *model.MovementEvent, kind Kind) Document {
	doc := Document{
		Kind:            kind,
		EventID:         ev.ID,
		EventType:       ev.Type,
		CreatedAt:       ev.CreatedAt,
		CustomerName:    ev.CustomerName,
		CustomerPhone:   ev.CustomerPhone,
		CustomerAddress: ev.CustomerAddress,
		Description:     ev.Description,
	}

	if !ev.HasLineDetail() {
		doc.ItemsUnavailable = true
		doc.Lines = []Line{}
		return doc
	}

	doc.Lines = make([]Line, 0, len(ev.Lines))
	total := decimal.Zero
	computable := 0
	for _, l := range ev.Lines {
		row := Line{
			Name:     l.Name,
			Quantity: l.Quantity,
			Unit:     l.Unit,
			Value:    l.Value,
		}
		if l.Quantity != nil && l.Value != nil {
			amount := l.Quantity.Mul(*l.Value)
			row.Amount = &amount
			total = total.Add(amount)
			computable++
		}
		doc.Lines = append(doc.Lines, row)
	}

	if computable > 0 {
		t := total
		doc.Total = &t
	}
	doc.TotalComplete = len(doc.Lines) > 0 && computable == len(doc.Lines)
	return doc
}
