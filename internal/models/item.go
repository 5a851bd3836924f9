package models

import "encoding/json"

// Item represents one catalog entry loaded from the dataset
type Item struct {
	ItemID int64  `json:"itemID"`
	Key    string `json:"-"` // Decimal lookup key as written in the source
	Icon   string `json:"icon"`
	Rare   Rarity `json:"Rare"`

	// Raw holds the source object verbatim, including fields the service does not interpret.
	Raw json.RawMessage `json:"-"`
}

// MarshalJSON returns the source object unchanged so metadata queries echo every field.
func (i Item) MarshalJSON() ([]byte, error) {
	if len(i.Raw) > 0 {
		return i.Raw, nil
	}
	type plain Item
	return json.Marshal(plain(i))
}
