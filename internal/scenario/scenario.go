// Package scenario holds the game content catalog: phases, scenarios,
// and monster presentation data. Presentation lookups (rarity colors,
// type labels) live here so economy logic never carries display strings.
package scenario

import "errors"

var ErrNotFound = errors.New("scenario not found")

// Monster rarity tiers.
const (
	RarityCommon    = "common"
	RarityUncommon  = "uncommon"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Monster types.
const (
	TypeBeast     = "beast"
	TypeUndead    = "undead"
	TypeConstruct = "construct"
	TypeElemental = "elemental"
	TypeBoss      = "boss"
)

// Scenario is one gated content unit inside a phase. A player must
// defeat MonsterCount monsters in it before it counts as completed.
type Scenario struct {
	ID           string `json:"id"`
	Phase        int    `json:"phase"`
	Name         string `json:"name"`
	MonsterCount int    `json:"monsterCount"`
	MonsterType  string `json:"monsterType"`
	Rarity       string `json:"rarity"`
}

// Catalog resolves scenarios by id and by phase.
type Catalog interface {
	Scenario(id string) (*Scenario, error)
	ByPhase(phase int) []*Scenario
}

var rarityColors = map[string]string{
	RarityCommon:    "#9e9e9e",
	RarityUncommon:  "#4caf50",
	RarityRare:      "#2196f3",
	RarityEpic:      "#9c27b0",
	RarityLegendary: "#ff9800",
}

var rarityLabels = map[string]string{
	RarityCommon:    "Common",
	RarityUncommon:  "Uncommon",
	RarityRare:      "Rare",
	RarityEpic:      "Epic",
	RarityLegendary: "Legendary",
}

var typeLabels = map[string]string{
	TypeBeast:     "Beast",
	TypeUndead:    "Undead",
	TypeConstruct: "Construct",
	TypeElemental: "Elemental",
	TypeBoss:      "Boss",
}

// RarityColor returns the display color for a rarity tier.
func RarityColor(rarity string) string {
	if c, ok := rarityColors[rarity]; ok {
		return c
	}
	return rarityColors[RarityCommon]
}

// RarityLabel returns the display label for a rarity tier.
func RarityLabel(rarity string) string {
	if l, ok := rarityLabels[rarity]; ok {
		return l
	}
	return rarityLabels[RarityCommon]
}

// TypeLabel returns the display label for a monster type.
func TypeLabel(monsterType string) string {
	if l, ok := typeLabels[monsterType]; ok {
		return l
	}
	return monsterType
}
