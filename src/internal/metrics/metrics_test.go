package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

func TestCollectorObserve(t *testing.T) {
	c := NewCollector()

	c.Observe("create_deposit", time.Now(), nil)
	c.Observe("create_deposit", time.Now(), domain.ErrBelowMinimum)
	c.Observe("create_deposit", time.Now(), errors.New("db down"))

	require.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("create_deposit", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("create_deposit", "BELOW_MINIMUM")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("create_deposit", "error")))
}

// Releases of funds locked before a restart must not drive any series
// negative.
func TestCollectorCustodyCountersNeverGoNegative(t *testing.T) {
	c := NewCollector()

	c.Released(LedgerIndividual, 10_000_000)
	c.Locked(LedgerGroup, 3_000_000)
	c.Released(LedgerGroup, 1_000_000)

	require.Equal(t, 0.0, testutil.ToFloat64(c.locked.WithLabelValues(LedgerIndividual)))
	require.Equal(t, 10_000_000.0, testutil.ToFloat64(c.released.WithLabelValues(LedgerIndividual)))
	require.Equal(t, 3_000_000.0, testutil.ToFloat64(c.locked.WithLabelValues(LedgerGroup)))
	require.Equal(t, 1_000_000.0, testutil.ToFloat64(c.released.WithLabelValues(LedgerGroup)))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	require.NotPanics(t, func() {
		c.Observe("x", time.Now(), nil)
		c.Locked(LedgerLegacy, 1)
		c.Released(LedgerLegacy, 1)
		c.SetBlockHeight(5)
	})
}
