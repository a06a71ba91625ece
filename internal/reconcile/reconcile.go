package reconcile

import (
	"anbargar/internal/catalog"
	"anbargar/internal/model"
)

// Result is the outcome of one reconciliation pass. Unresolved holds the
// entered names that could not be bound; Ambiguous maps a subset of those
// names to the candidate item ids so a caller can offer disambiguation
// instead of forcing a full catalog pick. An ambiguous name is never bound
// to an arbitrary candidate.
type Result struct {
	Lines      []model.ReconciledLine
	Unresolved []string
	Ambiguous  map[string][]string
}

// Reconcile resolves entered lines against the catalog index. Pure function:
// no side effects, never errors. For event types that do not affect tracked
// inventory the unresolved list is left empty and lines pass through as-is.
func Reconcile(lines []model.EnteredLine, idx *catalog.Index, eventType model.EventType) Result {
	res := Result{
		Lines:     make([]model.ReconciledLine, 0, len(lines)),
		Ambiguous: make(map[string][]string),
	}

	for _, in := range lines {
		out := model.ReconciledLine{
			ItemRef:  in.ItemRef,
			Name:     in.Name,
			Quantity: in.Quantity,
			Unit:     in.Unit,
			Value:    in.Value,
		}

		switch {
		case in.ItemRef != "":
			// Explicit catalog reference: no name search.
			if it, ok := idx.ByID(in.ItemRef); ok {
				bind(&out, it)
			}
		case in.Name != "":
			matches := idx.MatchName(in.Name)
			if len(matches) == 1 {
				out.ItemRef = matches[0].ID
				bind(&out, matches[0])
			} else if eventType.AffectsInventory() {
				res.Unresolved = append(res.Unresolved, in.Name)
				if len(matches) > 1 {
					ids := make([]string, len(matches))
					for i, m := range matches {
						ids[i] = m.ID
					}
					res.Ambiguous[in.Name] = ids
				}
			}
		default:
			if eventType.AffectsInventory() {
				res.Unresolved = append(res.Unresolved, in.Name)
			}
		}

		res.Lines = append(res.Lines, out)
	}
	return res
}

// bind copies catalog-owned fields onto the line. The entered value and unit
// win over catalog defaults when present.
func bind(line *model.ReconciledLine, it *model.CanonicalItem) {
	line.SKU = it.SKU
	line.Barcode = it.Barcode
	if line.Name == "" {
		line.Name = it.Name
	}
	if line.Value == nil && it.Value != nil {
		v := *it.Value
		line.Value = &v
	}
}
