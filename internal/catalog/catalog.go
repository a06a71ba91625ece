package catalog

import (
	"anbargar/internal/model"
)

// Index is a read-only snapshot of the canonical catalog for one load cycle.
// The core borrows it for lookups and never mutates it; the surrounding
// command is responsible for refreshing it between passes.
type Index struct {
	items     []model.CanonicalItem
	folders   []model.Folder
	customers []model.Customer

	byID   map[string]*model.CanonicalItem
	byName map[string][]*model.CanonicalItem
}

// NewIndex builds an Index over the given catalog slices.
func NewIndex(items []model.CanonicalItem, folders []model.Folder, customers []model.Customer) *Index {
	idx := &Index{
		items:     items,
		folders:   folders,
		customers: customers,
		byID:      make(map[string]*model.CanonicalItem, len(items)),
		byName:    make(map[string][]*model.CanonicalItem),
	}
	for i := range items {
		it := &items[i]
		idx.byID[it.ID] = it
		key := model.NormalizeName(it.Name)
		idx.byName[key] = append(idx.byName[key], it)
	}
	return idx
}

// ByID returns the item with the given id, if any.
func (idx *Index) ByID(id string) (*model.CanonicalItem, bool) {
	it, ok := idx.byID[id]
	return it, ok
}

// MatchName returns every item whose normalized name equals the normalized
// input. Zero, one, or many results; the caller decides what ambiguity means.
func (idx *Index) MatchName(name string) []*model.CanonicalItem {
	return idx.byName[model.NormalizeName(name)]
}

// Items returns the item snapshot.
func (idx *Index) Items() []model.CanonicalItem { return idx.items }

// Folders returns the folder snapshot.
func (idx *Index) Folders() []model.Folder { return idx.folders }

// Customers returns the customer snapshot.
func (idx *Index) Customers() []model.Customer { return idx.customers }

// FolderByID returns the folder with the given id, if any.
func (idx *Index) FolderByID(id string) (*model.Folder, bool) {
	for i := range idx.folders {
		if idx.folders[i].ID == id {
			return &idx.folders[i], true
		}
	}
	return nil, false
}

// CustomerByID returns the customer with the given id, if any.
func (idx *Index) CustomerByID(id string) (*model.Customer, bool) {
	for i := range idx.customers {
		if idx.customers[i].ID == id {
			return &idx.customers[i], true
		}
	}
	return nil, false
}
