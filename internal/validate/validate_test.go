package validate

import (
	"strings"
	"testing"

	"anbargar/internal/model"

	"github.com/shopspring/decimal"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func hasKind(vs []Violation, k Kind) bool {
	for _, v := range vs {
		if v.Kind == k {
			return true
		}
	}
	return false
}

func TestValidate_AcceptsWellFormedSell(t *testing.T) {
	ev := &model.MovementEvent{
		Type:     model.EventSell,
		FolderID: "f1",
		Lines: []model.ReconciledLine{
			{ItemRef: "i1", Name: "Bolt", Quantity: dec("2")},
		},
	}
	if vs := Validate(ev, nil); len(vs) != 0 {
		t.Fatalf("unexpected violations: %v", vs)
	}
}

func TestValidate_MoveNeedsBothFolders(t *testing.T) {
	ev := &model.MovementEvent{
		Type:           model.EventMove,
		OriginFolderID: "f1",
		Lines: []model.ReconciledLine{
			{ItemRef: "i1", Name: "Bolt", Quantity: dec("1")},
		},
	}
	vs := Validate(ev, nil)
	if !hasKind(vs, MissingFolderSelection) {
		t.Fatalf("want MissingFolderSelection, got %v", vs)
	}
	// FolderID does not stand in for the MOVE topology.
	ev.FolderID = "f1"
	if vs := Validate(ev, nil); !hasKind(vs, MissingFolderSelection) {
		t.Fatalf("folder_id must not satisfy MOVE, got %v", vs)
	}
}

func TestValidate_NonMoveNeedsFolder(t *testing.T) {
	ev := &model.MovementEvent{
		Type: model.EventBuy,
		Lines: []model.ReconciledLine{
			{ItemRef: "i1", Name: "Bolt", Quantity: dec("1")},
		},
	}
	if vs := Validate(ev, nil); !hasKind(vs, MissingFolderSelection) {
		t.Fatalf("want MissingFolderSelection, got %v", vs)
	}
}

func TestValidate_EmptyLines(t *testing.T) {
	ev := &model.MovementEvent{Type: model.EventSell, FolderID: "f1"}
	if vs := Validate(ev, nil); !hasKind(vs, NoLineItems) {
		t.Fatalf("want NoLineItems, got %v", vs)
	}
}

func TestValidate_LineQuantityRules(t *testing.T) {
	ev := &model.MovementEvent{
		Type:     model.EventSell,
		FolderID: "f1",
		Lines: []model.ReconciledLine{
			{ItemRef: "i1", Name: "Bolt", Quantity: dec("1")},
			{ItemRef: "i2", Name: "Nut"},                        // nil quantity
			{ItemRef: "i3", Name: "Screw", Quantity: dec("0")},  // zero
			{ItemRef: "i4", Name: "Plate", Quantity: dec("-2")}, // negative
		},
	}
	vs := Validate(ev, nil)
	var bad []int
	for _, v := range vs {
		if v.Kind == InvalidLineItem {
			bad = append(bad, v.LineIndex)
		}
	}
	if len(bad) != 3 || bad[0] != 1 || bad[1] != 2 || bad[2] != 3 {
		t.Fatalf("want invalid lines [1 2 3], got %v", bad)
	}
}

func TestValidate_UnresolvedBlocksInventoryTypes(t *testing.T) {
	ev := &model.MovementEvent{
		Type:     model.EventSell,
		FolderID: "f1",
		Lines: []model.ReconciledLine{
			{Name: "Washer", Quantity: dec("1")},
		},
	}
	vs := Validate(ev, []string{"Washer"})
	if !hasKind(vs, UnresolvedCatalogReference) {
		t.Fatalf("want UnresolvedCatalogReference, got %v", vs)
	}
	found := false
	for _, v := range vs {
		if v.Kind == UnresolvedCatalogReference {
			found = true
			if !strings.Contains(v.String(), "Washer") {
				t.Fatalf("report must name the line: %s", v)
			}
		}
	}
	if !found {
		t.Fatalf("missing violation")
	}
}

func TestValidate_CollectsAllViolationsTogether(t *testing.T) {
	ev := &model.MovementEvent{
		Type: model.EventMove,
		Lines: []model.ReconciledLine{
			{Name: "", Quantity: nil},
		},
	}
	vs := Validate(ev, []string{"ghost"})
	if !hasKind(vs, MissingFolderSelection) || !hasKind(vs, InvalidLineItem) || !hasKind(vs, UnresolvedCatalogReference) {
		t.Fatalf("want a complete report, got %v", vs)
	}
}
