package reconcile

import (
	"testing"

	"anbargar/internal/catalog"
	"anbargar/internal/model"

	"github.com/shopspring/decimal"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func testIndex() *catalog.Index {
	items := []model.CanonicalItem{
		{ID: "i1", Name: "Bolt", SKU: "SKU-001", Barcode: "111", Value: dec("5")},
		{ID: "i2", Name: "Nut", SKU: "SKU-002", Value: dec("2")},
		{ID: "i3", Name: "Screw", SKU: "SKU-003"},
		{ID: "i4", Name: "screw", SKU: "SKU-004"},
	}
	return catalog.NewIndex(items, nil, nil)
}

func TestReconcile_ExplicitRefSkipsNameSearch(t *testing.T) {
	idx := testIndex()
	lines := []model.EnteredLine{
		{ItemRef: "i2", Name: "Bolt", Quantity: dec("3")},
	}
	res := Reconcile(lines, idx, model.EventSell)
	if len(res.Unresolved) != 0 {
		t.Fatalf("unexpected unresolved: %v", res.Unresolved)
	}
	got := res.Lines[0]
	if got.ItemRef != "i2" || got.SKU != "SKU-002" {
		t.Fatalf("bound wrong item: %+v", got)
	}
	// Value default comes from the referenced item, not from the misleading name.
	if got.Value == nil || !got.Value.Equal(decimal.RequireFromString("2")) {
		t.Fatalf("want value 2, got %v", got.Value)
	}
}

func TestReconcile_SingleMatchBindsNormalized(t *testing.T) {
	idx := testIndex()
	lines := []model.EnteredLine{
		{Name: "  BOLT ", Quantity: dec("5"), Value: dec("10")},
	}
	res := Reconcile(lines, idx, model.EventSell)
	if len(res.Unresolved) != 0 {
		t.Fatalf("unexpected unresolved: %v", res.Unresolved)
	}
	got := res.Lines[0]
	if got.ItemRef != "i1" || got.SKU != "SKU-001" || got.Barcode != "111" {
		t.Fatalf("bind: %+v", got)
	}
	// The entered value wins over the catalog default.
	if !got.Value.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("want entered value 10, got %v", got.Value)
	}
}

func TestReconcile_NoMatchUnresolvedForInventoryTypes(t *testing.T) {
	idx := testIndex()
	lines := []model.EnteredLine{
		{Name: "Washer", Quantity: dec("1")},
	}
	res := Reconcile(lines, idx, model.EventBuy)
	if len(res.Unresolved) != 1 || res.Unresolved[0] != "Washer" {
		t.Fatalf("want unresolved [Washer], got %v", res.Unresolved)
	}
	if res.Lines[0].ItemRef != "" {
		t.Fatalf("no-match line must stay unbound: %+v", res.Lines[0])
	}
}

func TestReconcile_AmbiguousMatchReportsCandidates(t *testing.T) {
	idx := testIndex()
	lines := []model.EnteredLine{
		{Name: "Screw", Quantity: dec("2")},
	}
	res := Reconcile(lines, idx, model.EventMove)
	if len(res.Unresolved) != 1 {
		t.Fatalf("want 1 unresolved, got %v", res.Unresolved)
	}
	ids := res.Ambiguous["Screw"]
	if len(ids) != 2 {
		t.Fatalf("want 2 candidates, got %v", ids)
	}
	if res.Lines[0].ItemRef != "" {
		t.Fatalf("ambiguous line must not bind: %+v", res.Lines[0])
	}
}

func TestReconcile_PreservesLineOrderAndCount(t *testing.T) {
	idx := testIndex()
	lines := []model.EnteredLine{
		{Name: "Bolt", Quantity: dec("1")},
		{Name: "Washer", Quantity: dec("1")},
		{ItemRef: "i2", Quantity: dec("1")},
	}
	res := Reconcile(lines, idx, model.EventSell)
	if len(res.Lines) != 3 {
		t.Fatalf("want 3 lines, got %d", len(res.Lines))
	}
	if res.Lines[0].ItemRef != "i1" || res.Lines[1].ItemRef != "" || res.Lines[2].ItemRef != "i2" {
		t.Fatalf("order broken: %+v", res.Lines)
	}
	// Name is filled from the catalog when only a ref was entered.
	if res.Lines[2].Name != "Nut" {
		t.Fatalf("want catalog name Nut, got %q", res.Lines[2].Name)
	}
}

func TestReconcile_NonInventoryTypePassesThrough(t *testing.T) {
	idx := testIndex()
	lines := []model.EnteredLine{
		{Name: "Washer", Quantity: dec("1")},
	}
	res := Reconcile(lines, idx, model.EventType("NOTE"))
	if len(res.Unresolved) != 0 {
		t.Fatalf("non-inventory type must not collect unresolved: %v", res.Unresolved)
	}
}
