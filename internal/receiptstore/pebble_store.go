package receiptstore

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/pebble"
)

// PebbleStore keeps one record per key in PebbleDB. Unlike the slot-backed
// store there is no whole-list read-modify-write, so concurrent writers do
// not lose saves.
type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(dir string) (*PebbleStore, error) {
	d, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleStore{db: d}, nil
}

func (p *PebbleStore) Close() error { return p.db.Close() }

func encodeRecord(rec StoredReceipt) ([]byte, error) { return json.Marshal(&rec) }

func decodeRecord(val []byte) (StoredReceipt, error) {
	var rec StoredReceipt
	if err := json.Unmarshal(val, &rec); err != nil {
		return StoredReceipt{}, err
	}
	return rec, nil
}

func (p *PebbleStore) Save(title string, document string) (string, error) {
	rec := StoredReceipt{
		ID:        newID(),
		Title:     title,
		CreatedAt: now(),
		Document:  document,
	}
	val, err := encodeRecord(rec)
	if err != nil {
		return "", fmt.Errorf("encode receipt: %w", err)
	}
	if err := p.db.Set([]byte(rec.ID), val, pebble.Sync); err != nil {
		return "", fmt.Errorf("pebble set: %w", err)
	}
	return rec.ID, nil
}

func (p *PebbleStore) List() ([]StoredReceipt, error) {
	it, err := p.db.NewIter(nil)
	if err != nil {
		return nil, nil
	}
	defer it.Close()

	var out []StoredReceipt
	for it.First(); it.Valid(); it.Next() {
		rec, err := decodeRecord(it.Value())
		if err != nil {
			// Skip unreadable records instead of blocking the listing.
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (p *PebbleStore) Get(id string) (StoredReceipt, error) {
	val, closer, err := p.db.Get([]byte(id))
	if err != nil {
		if err == pebble.ErrNotFound {
			return StoredReceipt{}, ErrReceiptNotFound
		}
		return StoredReceipt{}, fmt.Errorf("pebble get: %w", err)
	}
	defer closer.Close()
	rec, err := decodeRecord(val)
	if err != nil {
		return StoredReceipt{}, fmt.Errorf("decode receipt: %w", err)
	}
	return rec, nil
}

func (p *PebbleStore) Delete(id string) error {
	// Delete on a missing key is a no-op in pebble as well.
	if err := p.db.Delete([]byte(id), pebble.Sync); err != nil {
		return fmt.Errorf("pebble delete: %w", err)
	}
	return nil
}
