package catalog

import "github.com/meur/iconforge/internal/models"

// Resolve finds the record for a caller-supplied identifier. The raw value
// is tried as a key first, which covers decimal keys and callers that
// already send the spaced hex form. A digits-only value is then retried
// under its derived hex key.
func (ix *Index) Resolve(rawID string) (*models.Item, error) {
	if item, ok := ix.Lookup(rawID); ok {
		return item, nil
	}
	if key, ok := HexKeyFromDecimal(rawID); ok {
		if item, ok := ix.Lookup(key); ok {
			return item, nil
		}
	}
	return nil, ErrNotFound
}
