package proposals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func p(typ, hash string, idx uint32) Proposal {
	return Proposal{Type: typ, TxHash: hash, Index: idx}
}

func TestGroupByTypeKeepsArrivalOrder(t *testing.T) {
	items := []Proposal{
		p(TypeInfoAction, "a", 0),
		p(TypeTreasuryWithdrawals, "b", 0),
		p(TypeInfoAction, "c", 1),
		p(TypeNoConfidence, "d", 0),
		p(TypeTreasuryWithdrawals, "e", 2),
	}

	groups := GroupByType(items)
	require.Len(t, groups, 3)

	assert.Equal(t, TypeInfoAction, groups[0].Title)
	assert.Equal(t, []Proposal{items[0], items[2]}, groups[0].Actions)
	assert.Equal(t, TypeTreasuryWithdrawals, groups[1].Title)
	assert.Equal(t, []Proposal{items[1], items[4]}, groups[1].Actions)
	assert.Equal(t, TypeNoConfidence, groups[2].Title)

	total := 0
	for _, g := range groups {
		for _, a := range g.Actions {
			assert.Equal(t, g.Title, a.Type)
		}
		total += len(g.Actions)
	}
	assert.Equal(t, len(items), total)
}

func TestGroupByTypeKeepsDuplicates(t *testing.T) {
	dup := p(TypeInfoAction, "a", 0)
	groups := GroupByType([]Proposal{dup, dup})
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Actions, 2)
}

func TestGroupByTypeEmpty(t *testing.T) {
	assert.Nil(t, GroupByType(nil))
	assert.Empty(t, GroupByType([]Proposal{}))
}
