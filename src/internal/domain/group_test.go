package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPhaseOf(t *testing.T) {
	expiry := uint64(100)

	cases := []struct {
		name   string
		closed bool
		locked bool
		expiry *uint64
		now    uint64
		want   GroupPhase
	}{
		{name: "open", want: GroupPhaseOpen},
		{name: "closed", closed: true, want: GroupPhaseClosed},
		{name: "active", closed: true, locked: true, expiry: &expiry, now: 99, want: GroupPhaseActive},
		{name: "completed at expiry", closed: true, locked: true, expiry: &expiry, now: 100, want: GroupPhaseCompleted},
		{name: "completed after expiry", closed: true, locked: true, expiry: &expiry, now: 500, want: GroupPhaseCompleted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, PhaseOf(tc.closed, tc.locked, tc.expiry, tc.now))
		})
	}
}

func TestGroupThresholdReached(t *testing.T) {
	threshold := uint32(3)
	g := Group{MemberCount: 2, Threshold: &threshold}
	require.False(t, g.ThresholdReached())

	g.MemberCount = 3
	require.True(t, g.ThresholdReached())

	g.Threshold = nil
	require.False(t, g.ThresholdReached())
}
