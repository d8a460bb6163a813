package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_KnownProcedure(t *testing.T) {
	table := NewTable(nil)

	p, err := table.Lookup(" Botox ")
	require.NoError(t, err)
	require.NotNil(t, p.MarketPrice)
	require.NotNil(t, p.OfferedPrice)
	assert.Equal(t, 550.0, *p.MarketPrice)
	assert.Equal(t, 450.0, *p.OfferedPrice)
}

func TestLookup_UnknownProcedure(t *testing.T) {
	table := NewTable(nil)

	p, err := table.Lookup("thread-lift")
	assert.ErrorIs(t, err, ErrUnknownProcedure)
	assert.Nil(t, p.MarketPrice)
	assert.Nil(t, p.OfferedPrice)
}

func TestNewTable_ConfiguredRowsReplaceDefaults(t *testing.T) {
	market := 100.0
	table := NewTable([]Procedure{{Slug: "brow-lamination", Name: "Brow Lamination", MarketPrice: &market}})

	assert.Equal(t, 1, table.Len())

	p, err := table.Lookup("brow-lamination")
	require.NoError(t, err)
	assert.Nil(t, p.OfferedPrice)
	assert.Equal(t, 100.0, *p.MarketPrice)

	_, err = table.Lookup("botox")
	assert.ErrorIs(t, err, ErrUnknownProcedure)
}
