package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EventType classifies a movement event.
type EventType string

const (
	EventBuy  EventType = "BUY"
	EventSell EventType = "SELL"
	EventMove EventType = "MOVE"
)

// AffectsInventory reports whether events of this type change tracked stock.
// Only these types require every line to resolve against the catalog.
func (t EventType) AffectsInventory() bool {
	return t == EventBuy || t == EventSell || t == EventMove
}

// CanonicalItem is one entry of the item catalog, immutable per load cycle.
type CanonicalItem struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	SKU     string           `json:"sku,omitempty"`
	Barcode string           `json:"barcode,omitempty"`
	Value   *decimal.Decimal `json:"value,omitempty"`
}

// Folder is a storage location (warehouse).
type Folder struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Customer as served by the catalog service.
type Customer struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Address   string `json:"address,omitempty"`
}

// FullName joins first and last name, skipping the empty parts.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// EnteredLine is one user-supplied draft row of a movement event.
// ItemRef is empty when the operator typed a free-text name instead of
// picking from the catalog. Quantity is nil when it did not parse.
type EnteredLine struct {
	ItemRef  string           `json:"item_id,omitempty"`
	Name     string           `json:"name"`
	Quantity *decimal.Decimal `json:"quantity"`
	Unit     string           `json:"unit,omitempty"`
	Value    *decimal.Decimal `json:"value,omitempty"`
}

// ReconciledLine is an EnteredLine after catalog resolution. When ItemRef is
// set, SKU/Barcode and the Value default come from the matched catalog item,
// not from user input; an explicit user value or unit is kept.
type ReconciledLine struct {
	ItemRef  string           `json:"item_id,omitempty"`
	Name     string           `json:"name"`
	Quantity *decimal.Decimal `json:"quantity"`
	Unit     string           `json:"unit,omitempty"`
	Value    *decimal.Decimal `json:"value,omitempty"`
	SKU      string           `json:"sku,omitempty"`
	Barcode  string           `json:"barcode,omitempty"`
}

// MovementEvent is a candidate or submitted stock movement. The customer
// fields are a snapshot taken at entry time, matching the wire shape of the
// event service.
type MovementEvent struct {
	ID                  string           `json:"id,omitempty"`
	Type                EventType        `json:"type"`
	Description         string           `json:"description,omitempty"`
	FolderID            string           `json:"folder_id,omitempty"`
	OriginFolderID      string           `json:"origin_folder_id,omitempty"`
	DestinationFolderID string           `json:"destination_folder_id,omitempty"`
	CustomerName        string           `json:"customer_name,omitempty"`
	CustomerPhone       string           `json:"customer_phone,omitempty"`
	CustomerAddress     string           `json:"customer_address,omitempty"`
	Lines               []ReconciledLine `json:"items"`
	CreatedAt           time.Time        `json:"createdAt,omitempty"`
}

// Draft is the operator's entry form for one movement event, before
// reconciliation. CustomerID may reference a catalog customer whose snapshot
// fields are copied onto the event unless overridden here.
type Draft struct {
	Type                EventType     `json:"type"`
	Description         string        `json:"description,omitempty"`
	FolderID            string        `json:"folder_id,omitempty"`
	OriginFolderID      string        `json:"origin_folder_id,omitempty"`
	DestinationFolderID string        `json:"destination_folder_id,omitempty"`
	CustomerID          string        `json:"customer_id,omitempty"`
	CustomerName        string        `json:"customer_name,omitempty"`
	CustomerPhone       string        `json:"customer_phone,omitempty"`
	CustomerAddress     string        `json:"customer_address,omitempty"`
	Lines               []EnteredLine `json:"lines"`
}

// HasLineDetail reports whether the event carries its line items. The event
// list endpoint may omit them, in which case a detail fetch is needed.
func (e *MovementEvent) HasLineDetail() bool {
	return e.Lines != nil
}

// NormalizeName is the canonical form used for catalog name matching.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
