package solver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridsolve/internal/energy"
)

func testSystem(t *testing.T) *energy.System {
	t.Helper()
	start := time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC)
	sys := energy.NewSystem(energy.TimeRange(start, 4, time.Hour))
	for _, e := range []energy.Entity{
		energy.NewBus("bel"),
		&energy.Source{Name: "wind"},
		&energy.Storage{Name: "storage"},
	} {
		require.NoError(t, sys.Add(e))
	}
	return sys
}

func TestDecodeName(t *testing.T) {
	sys := testSystem(t)

	block, variable, index, err := DecodeName("flow.value(wind,bel,3)", sys)
	require.NoError(t, err)
	assert.Equal(t, "flow", block)
	assert.Equal(t, "value", variable)
	require.Len(t, index, 3)
	assert.True(t, index[0].IsEntity())
	assert.Equal(t, "wind", index[0].Entity().Label())
	assert.True(t, index[1].IsEntity())
	assert.Equal(t, "bel", index[1].Entity().Label())
	assert.False(t, index[2].IsEntity())
	assert.Equal(t, 3, index[2].Step())
}

func TestDecodeNameScalar(t *testing.T) {
	sys := testSystem(t)

	block, variable, index, err := DecodeName("invest.capacity(bel,storage)", sys)
	require.NoError(t, err)
	assert.Equal(t, "invest", block)
	assert.Equal(t, "capacity", variable)
	require.Len(t, index, 2)
	assert.True(t, index[0].IsEntity())
	assert.True(t, index[1].IsEntity())
}

func TestDecodeNameNoBlock(t *testing.T) {
	sys := testSystem(t)

	block, variable, _, err := DecodeName("objective", sys)
	require.NoError(t, err)
	assert.Equal(t, "objective", block)
	assert.Equal(t, "objective", variable)
}

func TestDecodeNameUnknownToken(t *testing.T) {
	sys := testSystem(t)

	_, _, _, err := DecodeName("flow.value(nuclear,bel,0)", sys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nuclear")
}

func TestDecodeNameUnterminatedIndex(t *testing.T) {
	sys := testSystem(t)

	_, _, _, err := DecodeName("flow.value(wind,bel,0", sys)
	require.Error(t, err)
}

func TestDecodeBalanceRow(t *testing.T) {
	sys := testSystem(t)

	key, ok, err := decodeBalanceRow("balance(bel,2)", sys)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, DualKey{Bus: "bel", Step: 2}, key)

	_, ok, err = decodeBalanceRow("fuel_limit", sys)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = decodeBalanceRow("balance(unknown,2)", sys)
	require.Error(t, err)
}
