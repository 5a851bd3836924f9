package catalog

import (
	"errors"

	"github.com/meur/iconforge/internal/models"
	"github.com/meur/iconforge/internal/storage"
)

// ItemStore is the subset of storage.Store the index needs
type ItemStore interface {
	LatestImport() (*storage.Import, error)
	GetItems(importID string) ([]models.Item, error)
}

// BuildFromStore indexes the latest import held in a catalog database.
// It returns the import alongside the index. Errors are *LoadError.
func BuildFromStore(name string, store ItemStore) (*Index, *storage.Import, error) {
	imp, err := store.LatestImport()
	if err != nil {
		return nil, nil, &LoadError{Source: name, Err: err}
	}
	if imp == nil {
		return nil, nil, &LoadError{Source: name, Err: errors.New("no dataset has been imported")}
	}

	items, err := store.GetItems(imp.ID)
	if err != nil {
		return nil, nil, &LoadError{Source: name, Err: err}
	}
	return New(name, items), imp, nil
}
