package domain

import (
	"strings"
	"time"
)

// Rarity is a card rarity tier
type Rarity string

const (
	RarityCommon    Rarity = "COMMON"
	RarityUncommon  Rarity = "UNCOMMON"
	RarityRare      Rarity = "RARE"
	RarityEpic      Rarity = "EPIC"
	RarityLegendary Rarity = "LEGENDARY"
)

// Rarities lists all tiers from lowest to highest. Draws walk it in this order.
var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}

// Rank returns the tier index (0 = COMMON) or -1 for unknown values
func (r Rarity) Rank() int {
	for i, v := range Rarities {
		if v == r {
			return i
		}
	}
	return -1
}

// AtLeast reports whether r is the same tier as other or higher
func (r Rarity) AtLeast(other Rarity) bool {
	return r.Rank() >= other.Rank() && r.Rank() >= 0
}

// ParseRarity accepts any casing of a tier name
func ParseRarity(s string) (Rarity, error) {
	r := Rarity(strings.ToUpper(strings.TrimSpace(s)))
	if r.Rank() < 0 {
		return "", ErrInvalidRarity
	}
	return r, nil
}

// CardDistribution is one append-only pack-opening outcome
type CardDistribution struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	PackType  string    `json:"pack_type"`
	Rarity    Rarity    `json:"rarity"`
	CreatedAt time.Time `json:"created_at"`
}

// PityCounters hold draws since the last pull of each tier-or-higher
type PityCounters struct {
	SinceRare      int `json:"packs_since_rare"`
	SinceEpic      int `json:"packs_since_epic"`
	SinceLegendary int `json:"packs_since_legendary"`
}

// RateRule is an active custom rate override for one pack type and tier
type RateRule struct {
	PackType string  `json:"pack_type"`
	Rarity   Rarity  `json:"rarity"`
	Rate     float64 `json:"rate"`
}

// Card is a collectible in the catalog
type Card struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Rarity Rarity `json:"rarity"`
	Value  int    `json:"value"`
}

// PackDefinition describes a purchasable pack
type PackDefinition struct {
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
	Cost        int    `json:"cost"`
	CardCount   int    `json:"card_count"`
}

// Celebration levels for a pack reveal
const (
	CelebrationNormal    = "normal"
	CelebrationRare      = "rare"
	CelebrationEpic      = "epic"
	CelebrationLegendary = "legendary"
)

// SpecialEffects drives the reveal animation for an opened pack
type SpecialEffects struct {
	HasEpicOrLegendary bool   `json:"hasEpicOrLegendary"`
	HasMultipleRare    bool   `json:"hasMultipleRare"`
	CelebrationLevel   string `json:"celebrationLevel"`
}

// PackOpening is the pack-opening response
type PackOpening struct {
	PackType       string         `json:"packType"`
	Cards          []Card         `json:"cards"`
	RarityCount    map[Rarity]int `json:"rarityCount"`
	SpecialEffects SpecialEffects `json:"specialEffects"`
	TotalValue     int            `json:"totalValue"`
	NewBalance     int            `json:"newBalance"`
}

// RateSnapshot exposes the effective odds for a user's next draw
type RateSnapshot struct {
	PackType   string             `json:"pack_type"`
	Pity       PityCounters       `json:"pity"`
	Guaranteed *Rarity            `json:"guaranteed,omitempty"`
	Rates      map[Rarity]float64 `json:"rates"`
}
