package catalog

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/meur/iconforge/internal/models"
	"github.com/tidwall/gjson"
)

// Index maps lookup keys to item records. Every record is reachable by its
// decimal key and by its hex key. An Index is never modified after New
// returns, so it is safe for concurrent readers.
type Index struct {
	source  string
	records int
	keys    []string // insertion order
	items   map[string]*models.Item
}

// New indexes items under their decimal and hex keys. Later records
// replace earlier ones that share a key.
func New(source string, items []models.Item) *Index {
	ix := &Index{
		source: source,
		items:  make(map[string]*models.Item, len(items)*2),
	}
	for i := range items {
		item := &items[i]
		ix.put(item.Key, item)
		ix.put(HexKey(item.ItemID), item)
		ix.records++
	}
	return ix
}

// Empty returns an index with no records. Every lookup misses.
func Empty(source string) *Index {
	return New(source, nil)
}

// Build reads a dataset file and indexes it. The error is always a *LoadError.
func Build(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	items, err := ParseItems(data)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return New(path, items), nil
}

func (ix *Index) put(key string, item *models.Item) {
	if _, exists := ix.items[key]; !exists {
		ix.keys = append(ix.keys, key)
	}
	ix.items[key] = item
}

// Lookup returns the record stored under key. Only exact matches count.
func (ix *Index) Lookup(key string) (*models.Item, bool) {
	item, ok := ix.items[key]
	return item, ok
}

// Keys returns up to n keys in insertion order
func (ix *Index) Keys(n int) []string {
	if n > len(ix.keys) {
		n = len(ix.keys)
	}
	out := make([]string, n)
	copy(out, ix.keys[:n])
	return out
}

// Len returns the number of indexed records
func (ix *Index) Len() int { return ix.records }

// KeyCount returns the number of distinct lookup keys
func (ix *Index) KeyCount() int { return len(ix.keys) }

// Source names where the records were loaded from
func (ix *Index) Source() string { return ix.source }

// ParseItems decodes a JSON array of item objects. Objects lacking itemID
// or icon are skipped. An itemID that is not an integer fails the whole parse.
func ParseItems(data []byte) ([]models.Item, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, errors.New("dataset must be a JSON array")
	}

	var (
		items []models.Item
		err   error
		pos   = -1
	)
	root.ForEach(func(_, obj gjson.Result) bool {
		pos++
		if !obj.IsObject() {
			return true
		}
		id, icon := obj.Get("itemID"), obj.Get("icon")
		if !id.Exists() || !icon.Exists() {
			return true
		}

		item := models.Item{
			Icon: icon.String(),
			Rare: models.ParseRarity(obj.Get("Rare").String()),
			Raw:  []byte(obj.Raw),
		}
		item.ItemID, item.Key, err = parseItemID(id)
		if err != nil {
			err = fmt.Errorf("record %d: %w", pos, err)
			return false
		}
		items = append(items, item)
		return true
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// parseItemID accepts a JSON integer or a string holding one and returns
// the value with its decimal lookup key. Integers wider than 64 bits are
// kept as their low 32 bits, which is all the hex key uses.
func parseItemID(v gjson.Result) (int64, string, error) {
	var text, key string
	switch v.Type {
	case gjson.Number:
		text = v.Raw
	case gjson.String:
		text, key = strings.TrimSpace(v.Str), v.Str
	default:
		return 0, "", fmt.Errorf("itemID has unsupported type %s", v.Type)
	}

	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return 0, "", fmt.Errorf("itemID %s is not an integer", v.Raw)
	}
	if key == "" {
		key = n.String()
	}
	if !n.IsInt64() {
		n.And(n, lowWord)
	}
	return n.Int64(), key, nil
}
