package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTradeTableLookup(t *testing.T) {
	table := DefaultTradeTable()

	profile, ok := table.Profile("roofing")
	assert.True(t, ok)
	assert.True(t, profile.HasCategory(CategoryExterior))
	assert.Contains(t, profile.ExclusionPhrases, "no roofing")

	// Lookup is case- and whitespace-insensitive.
	_, ok = table.Profile(" Roofing ")
	assert.True(t, ok)

	_, ok = table.Profile("underwater basket weaving")
	assert.False(t, ok)
}

func TestTradeCategories(t *testing.T) {
	table := DefaultTradeTable()

	assert.True(t, table.IsExterior("roofing"))
	assert.True(t, table.IsExterior("framing"))
	assert.False(t, table.IsExterior("electrical"))
	assert.False(t, table.IsExterior("unknown trade"))

	assert.True(t, table.IsGroundStructural("excavation"))
	assert.True(t, table.IsGroundStructural("foundation"))
	assert.False(t, table.IsGroundStructural("roofing"))
}

func TestTradesForCode(t *testing.T) {
	table := DefaultTradeTable()

	assert.Contains(t, table.TradesForCode("5551"), "roofing")
	assert.Empty(t, table.TradesForCode("9999"))
	assert.Empty(t, table.TradesForCode("not-a-number"))
	assert.Contains(t, table.TradesForCode(" 5551 "), "roofing")
}

func TestCodeRangeContains(t *testing.T) {
	r := CodeRange{From: 5550, To: 5553}
	assert.True(t, r.Contains(5550))
	assert.True(t, r.Contains(5553))
	assert.False(t, r.Contains(5549))
	assert.False(t, r.Contains(5554))
}
