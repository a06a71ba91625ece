package receiptstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StorageKey is the fixed namespace for locally persisted receipts. The
// suffix is the storage schema version.
const StorageKey = "anbargar_receipts_v1"

// ErrReceiptNotFound is returned by Get for an unknown id. Delete treats an
// unknown id as a no-op instead.
var ErrReceiptNotFound = errors.New("receipt not found")

// StoredReceipt is one persisted receipt record. Document holds the
// serialized receipt exactly as it was saved.
type StoredReceipt struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created"`
	Document  string    `json:"document"`
}

// Store persists receipt records. Identifiers are unique for the lifetime of
// the store and never reused after deletion.
type Store interface {
	// Save assigns a fresh id and timestamp, appends the record and
	// returns the new id.
	Save(title string, document string) (string, error)
	// List returns all records newest-first. Unreadable or corrupted
	// storage degrades to an empty list rather than failing.
	List() ([]StoredReceipt, error)
	// Get returns the record or ErrReceiptNotFound.
	Get(id string) (StoredReceipt, error)
	// Delete removes the record; an absent id is a no-op.
	Delete(id string) error
	Close() error
}

// Open builds a Store for the named backend: slot|memory|pebble|badger.
// The slot backend mirrors the original browser-local storage shape and is
// the default for single-operator use.
func Open(backend string, dir string) (Store, error) {
	switch backend {
	case "", "slot":
		slot, err := NewFileSlot(dir)
		if err != nil {
			return nil, err
		}
		return NewSlotStore(slot), nil
	case "memory":
		return NewSlotStore(NewMemorySlot()), nil
	case "pebble":
		return NewPebbleStore(dir)
	case "badger":
		return NewBadgerStore(dir)
	default:
		return nil, fmt.Errorf("unknown receipt store backend %q", backend)
	}
}

// newID returns a fresh receipt identifier. Split for testability.
var newID = func() string { return uuid.NewString() }

// now returns the save timestamp. Split for testability.
var now = func() time.Time { return time.Now().UTC() }
