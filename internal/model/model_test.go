package model

import (
	"encoding/json"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"  Bolt ":  "bolt",
		"BOLT":     "bolt",
		"bolt":     "bolt",
		"  ":       "",
		"Nut Case": "nut case",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEventTypeAffectsInventory(t *testing.T) {
	for _, typ := range []EventType{EventBuy, EventSell, EventMove} {
		if !typ.AffectsInventory() {
			t.Fatalf("%s must affect inventory", typ)
		}
	}
	if EventType("NOTE").AffectsInventory() {
		t.Fatalf("unknown type must not affect inventory")
	}
}

func TestCustomerFullName(t *testing.T) {
	if got := (Customer{FirstName: "Sara", LastName: "Ahmadi"}).FullName(); got != "Sara Ahmadi" {
		t.Fatalf("full name: %q", got)
	}
	if got := (Customer{FirstName: "Sara"}).FullName(); got != "Sara" {
		t.Fatalf("first only: %q", got)
	}
}

func TestHasLineDetail(t *testing.T) {
	summary := &MovementEvent{ID: "e1"}
	if summary.HasLineDetail() {
		t.Fatalf("nil lines means no detail")
	}
	detail := &MovementEvent{ID: "e1", Lines: []ReconciledLine{}}
	if !detail.HasLineDetail() {
		t.Fatalf("empty non-nil lines still count as detail")
	}
}

func TestMovementEventWireShape(t *testing.T) {
	ev := MovementEvent{
		Type:                EventMove,
		OriginFolderID:      "f1",
		DestinationFolderID: "f2",
		Lines:               []ReconciledLine{{ItemRef: "i1", Name: "Bolt"}},
	}
	b, err := json.Marshal(&ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"origin_folder_id", "destination_folder_id", "items"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("missing wire field %q in %s", key, b)
		}
	}
}
