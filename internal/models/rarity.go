package models

import "strings"

// Rarity is the category label that selects an optional background overlay
type Rarity string

const (
	RarityWhite  Rarity = "WHITE"
	RarityBlue   Rarity = "BLUE"
	RarityPurple Rarity = "PURPLE"
	RarityOrange Rarity = "ORANGE"
	RarityRed    Rarity = "RED"
)

// ParseRarity upper-cases a tag and falls back to WHITE when it is empty.
// Unknown tags are kept as-is; they simply have no background.
func ParseRarity(tag string) Rarity {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if tag == "" {
		return RarityWhite
	}
	return Rarity(tag)
}

// Rarities returns the tags that carry a background, in ascending order
func Rarities() []Rarity {
	return []Rarity{RarityBlue, RarityPurple, RarityOrange, RarityRed}
}
