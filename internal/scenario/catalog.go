package scenario

import "sort"

// StaticCatalog is an in-memory Catalog seeded at construction. Game
// content ships with the binary; there is no runtime mutation.
type StaticCatalog struct {
	byID    map[string]*Scenario
	byPhase map[int][]*Scenario
}

// NewCatalog builds a catalog from the given scenarios.
func NewCatalog(scenarios []*Scenario) *StaticCatalog {
	c := &StaticCatalog{
		byID:    make(map[string]*Scenario),
		byPhase: make(map[int][]*Scenario),
	}
	for _, s := range scenarios {
		c.byID[s.ID] = s
		c.byPhase[s.Phase] = append(c.byPhase[s.Phase], s)
	}
	for _, list := range c.byPhase {
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
	return c
}

// DefaultCatalog returns the shipped game content.
func DefaultCatalog() *StaticCatalog {
	return NewCatalog([]*Scenario{
		{ID: "sc_rat_cellar", Phase: 1, Name: "Rat Cellar", MonsterCount: 10, MonsterType: TypeBeast, Rarity: RarityCommon},
		{ID: "sc_sunken_crypt", Phase: 1, Name: "Sunken Crypt", MonsterCount: 15, MonsterType: TypeUndead, Rarity: RarityUncommon},
		{ID: "sc_clockwork_mine", Phase: 2, Name: "Clockwork Mine", MonsterCount: 20, MonsterType: TypeConstruct, Rarity: RarityRare},
		{ID: "sc_storm_peak", Phase: 2, Name: "Storm Peak", MonsterCount: 25, MonsterType: TypeElemental, Rarity: RarityEpic},
		{ID: "sc_dooficus_lair", Phase: 3, Name: "Lair of Dooficus", MonsterCount: 1, MonsterType: TypeBoss, Rarity: RarityLegendary},
	})
}

func (c *StaticCatalog) Scenario(id string) (*Scenario, error) {
	s, ok := c.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (c *StaticCatalog) ByPhase(phase int) []*Scenario {
	return c.byPhase[phase]
}

// Phases returns the sorted list of phases present in the catalog.
func (c *StaticCatalog) Phases() []int {
	var out []int
	for p := range c.byPhase {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}
