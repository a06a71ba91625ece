package validate

import (
	"fmt"
	"strings"

	"anbargar/internal/model"

	"github.com/shopspring/decimal"
)

// Kind identifies a class of validation violation.
type Kind string

const (
	MissingFolderSelection     Kind = "MissingFolderSelection"
	NoLineItems                Kind = "NoLineItems"
	InvalidLineItem            Kind = "InvalidLineItem"
	UnresolvedCatalogReference Kind = "UnresolvedCatalogReference"
)

// Violation is one structural rule failure. LineIndex is set for
// InvalidLineItem, Names for UnresolvedCatalogReference.
type Violation struct {
	Kind      Kind
	Message   string
	LineIndex int
	Names     []string
}

func (v Violation) String() string {
	switch v.Kind {
	case InvalidLineItem:
		return fmt.Sprintf("%s: line %d: %s", v.Kind, v.LineIndex, v.Message)
	case UnresolvedCatalogReference:
		return fmt.Sprintf("%s: %s (%s)", v.Kind, v.Message, strings.Join(v.Names, ", "))
	default:
		return fmt.Sprintf("%s: %s", v.Kind, v.Message)
	}
}

// Validate applies the type-specific structural rules to a reconciled
// candidate event. All rules are evaluated and every violation is returned
// together, so the caller can present one complete report. An empty result
// means the event is accepted; there is no partial acceptance.
func Validate(ev *model.MovementEvent, unresolved []string) []Violation {
	var out []Violation

	// Folder topology.
	if ev.Type == model.EventMove {
		if ev.OriginFolderID == "" || ev.DestinationFolderID == "" {
			out = append(out, Violation{
				Kind:    MissingFolderSelection,
				Message: "MOVE requires both origin and destination folders",
			})
		}
	} else if ev.FolderID == "" {
		out = append(out, Violation{
			Kind:    MissingFolderSelection,
			Message: fmt.Sprintf("%s requires a folder", ev.Type),
		})
	}

	// Non-empty line set.
	if len(ev.Lines) == 0 {
		out = append(out, Violation{Kind: NoLineItems, Message: "event has no line items"})
	}

	// Per-line numeric validity.
	for i, line := range ev.Lines {
		if line.Name == "" {
			out = append(out, Violation{
				Kind:      InvalidLineItem,
				Message:   "missing item name",
				LineIndex: i,
			})
			continue
		}
		if line.Quantity == nil || line.Quantity.Cmp(decimal.Zero) <= 0 {
			out = append(out, Violation{
				Kind:      InvalidLineItem,
				Message:   "quantity must be a positive number",
				LineIndex: i,
			})
		}
	}

	// Unresolved references block inventory-affecting submissions.
	if ev.Type.AffectsInventory() && len(unresolved) > 0 {
		out = append(out, Violation{
			Kind:    UnresolvedCatalogReference,
			Message: "lines not resolved against the catalog",
			Names:   append([]string(nil), unresolved...),
		})
	}

	return out
}
