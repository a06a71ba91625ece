package receiptstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Slot is the storage port for the slot-backed store: one namespaced blob
// holding the whole receipt list. Implementations only need Load and Store,
// which keeps the store testable with an in-memory fake and portable across
// runtimes.
type Slot interface {
	// Load returns the blob, or (nil, nil) when nothing was stored yet.
	Load() ([]byte, error)
	Store(data []byte) error
}

// FileSlot keeps the blob in a single file named after StorageKey.
type FileSlot struct {
	path string
}

func NewFileSlot(dir string) (*FileSlot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &FileSlot{path: filepath.Join(dir, StorageKey+".json")}, nil
}

func (s *FileSlot) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read slot: %w", err)
	}
	return data, nil
}

func (s *FileSlot) Store(data []byte) error {
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write slot: %w", err)
	}
	return nil
}

// MemorySlot is an in-memory Slot for tests and ephemeral runs.
type MemorySlot struct {
	data []byte
}

func NewMemorySlot() *MemorySlot { return &MemorySlot{} }

func (s *MemorySlot) Load() ([]byte, error) { return s.data, nil }

func (s *MemorySlot) Store(data []byte) error {
	s.data = append([]byte(nil), data...)
	return nil
}

// SlotStore keeps the full receipt list in one slot, append-only newest-last,
// persisted read-modify-write on every mutation. The read-modify-write is not
// guarded against concurrent writers; that is an accepted limitation for a
// single-operator tool.
type SlotStore struct {
	slot Slot
}

func NewSlotStore(slot Slot) *SlotStore { return &SlotStore{slot: slot} }

// load returns the stored list oldest-first. Corrupted or unreadable storage
// yields an empty list so the caller is never blocked by bad local state.
func (s *SlotStore) load() []StoredReceipt {
	data, err := s.slot.Load()
	if err != nil || len(data) == 0 {
		return nil
	}
	var list []StoredReceipt
	if err := json.Unmarshal(data, &list); err != nil {
		return nil
	}
	return list
}

func (s *SlotStore) persist(list []StoredReceipt) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal receipts: %w", err)
	}
	if err := s.slot.Store(data); err != nil {
		return fmt.Errorf("persist receipts: %w", err)
	}
	return nil
}

func (s *SlotStore) Save(title string, document string) (string, error) {
	list := s.load()
	rec := StoredReceipt{
		ID:        newID(),
		Title:     title,
		CreatedAt: now(),
		Document:  document,
	}
	list = append(list, rec)
	if err := s.persist(list); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *SlotStore) List() ([]StoredReceipt, error) {
	list := s.load()
	out := make([]StoredReceipt, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

func (s *SlotStore) Get(id string) (StoredReceipt, error) {
	for _, rec := range s.load() {
		if rec.ID == id {
			return rec, nil
		}
	}
	return StoredReceipt{}, ErrReceiptNotFound
}

func (s *SlotStore) Delete(id string) error {
	list := s.load()
	next := list[:0]
	found := false
	for _, rec := range list {
		if rec.ID == id {
			found = true
			continue
		}
		next = append(next, rec)
	}
	if !found {
		return nil
	}
	return s.persist(next)
}

func (s *SlotStore) Close() error { return nil }
