package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/hucreative-studio/internal/model"
)

func TestLoad(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	require.Len(t, ds.Projects, 6)
	require.Len(t, ds.Messages, 1)
	require.Len(t, ds.Orders, 1)
	require.Len(t, ds.Plans, 3)

	for _, p := range ds.Projects {
		assert.True(t, p.Category.Valid(), "project %s has category %q", p.ID, p.Category)
		assert.NotEmpty(t, p.Tools)
	}

	assert.Equal(t, "Before: 0 Orders → After: 300% Revenue Boost", ds.Projects[0].Year)

	o := ds.Orders[0]
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, model.OrderStatusInProgress, o.Status)
	assert.Equal(t, int64(24999), o.Amount)
	assert.Empty(t, o.Notes)

	m := ds.Messages[0]
	assert.Equal(t, "2024-05-15", m.Date)
	assert.False(t, m.Read)
}

func TestLoad_IndependentCopies(t *testing.T) {
	a, err := Load()
	require.NoError(t, err)
	b, err := Load()
	require.NoError(t, err)

	a.Projects[0].Title = "changed"
	assert.Equal(t, "Cafe Dehradun", b.Projects[0].Title)
}

func TestCatalog_Plan(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	p, ok := ds.Plans.Plan("growth")
	require.True(t, ok)
	assert.Equal(t, "Growth Plan", p.Name)
	assert.Equal(t, "₹24,999", p.Price)

	_, ok = ds.Plans.Plan("enterprise")
	assert.False(t, ok)
}
