package receiptstore

import (
	"fmt"
	"path/filepath"
	"sort"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerStore implements Store using BadgerDB, one record per key.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(filepath.Clean(dir))
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger open: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (b *BadgerStore) Close() error { return b.db.Close() }

func (b *BadgerStore) Save(title string, document string) (string, error) {
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
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(rec.ID), val)
	})
	if err != nil {
		return "", fmt.Errorf("badger set: %w", err)
	}
	return rec.ID, nil
}

func (b *BadgerStore) List() ([]StoredReceipt, error) {
	var out []StoredReceipt
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			v, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			rec, err := decodeRecord(v)
			if err != nil {
				// Skip unreadable records instead of blocking the listing.
				continue
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (b *BadgerStore) Get(id string) (StoredReceipt, error) {
	var rec StoredReceipt
	err := b.db.View(func(txn *badger.Txn) error {
		item, e := txn.Get([]byte(id))
		if e != nil {
			return e
		}
		v, e := item.ValueCopy(nil)
		if e != nil {
			return e
		}
		rec, e = decodeRecord(v)
		return e
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return StoredReceipt{}, ErrReceiptNotFound
		}
		return StoredReceipt{}, fmt.Errorf("badger get: %w", err)
	}
	return rec, nil
}

func (b *BadgerStore) Delete(id string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(id))
	})
	if err != nil && err != badger.ErrKeyNotFound {
		return fmt.Errorf("badger delete: %w", err)
	}
	return nil
}
