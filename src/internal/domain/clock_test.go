package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManualClockNeverMovesBackwards(t *testing.T) {
	c := NewManualClock(10)
	c.Set(5)
	require.Equal(t, uint64(10), c.BlockHeight())

	c.Set(12)
	require.Equal(t, uint64(12), c.BlockHeight())
	require.Equal(t, uint64(15), c.Advance(3))
}

func TestChainClockHeight(t *testing.T) {
	genesis := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := genesis.Add(65 * time.Minute)
	c := newChainClock(genesis, 10*time.Minute, func() time.Time { return now })

	require.Equal(t, uint64(6), c.BlockHeight())

	now = genesis.Add(-time.Hour)
	require.Equal(t, uint64(6), c.BlockHeight(), "wall clock skew must not lower the height")

	now = genesis.Add(24 * time.Hour)
	require.Equal(t, uint64(144), c.BlockHeight())
}
