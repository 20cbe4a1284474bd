package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Lookup(t *testing.T) {
	c := DefaultCatalog()

	s, err := c.Scenario("sc_rat_cellar")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Phase)
	assert.Equal(t, 10, s.MonsterCount)

	_, err = c.Scenario("sc_nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_ByPhase(t *testing.T) {
	c := DefaultCatalog()

	assert.Len(t, c.ByPhase(1), 2)
	assert.Len(t, c.ByPhase(2), 2)
	assert.Len(t, c.ByPhase(3), 1)
	assert.Empty(t, c.ByPhase(9))
	assert.Equal(t, []int{1, 2, 3}, c.Phases())
}

func TestPresentationLookups(t *testing.T) {
	assert.Equal(t, "#ff9800", RarityColor(RarityLegendary))
	assert.Equal(t, "Legendary", RarityLabel(RarityLegendary))
	assert.Equal(t, "Boss", TypeLabel(TypeBoss))

	// unknown values fall back instead of failing
	assert.Equal(t, RarityColor(RarityCommon), RarityColor("weird"))
	assert.Equal(t, "weird", TypeLabel("weird"))
}
