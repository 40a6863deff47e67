package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMicro(t *testing.T) {
	assert.Equal(t, "10.000000", FormatMicro(10_000_000))
	assert.Equal(t, "0.000001", FormatMicro(1))
	assert.Equal(t, "0.000000", FormatMicro(0))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "0.50", FormatUSD(500_000))
	assert.Equal(t, "100.00", FormatUSD(100_000_000))
}

func TestParseUSD(t *testing.T) {
	price, err := ParseUSD("0.50")
	require.NoError(t, err)
	require.Equal(t, uint64(500_000), price)

	price, err = ParseUSD(" 2 ")
	require.NoError(t, err)
	require.Equal(t, uint64(2_000_000), price)

	_, err = ParseUSD("0.0000001")
	require.Error(t, err)

	_, err = ParseUSD("-1")
	require.Error(t, err)

	_, err = ParseUSD("abc")
	require.Error(t, err)
}

func TestMinimumDepositAmount(t *testing.T) {
	assert.Equal(t, uint64(4_000_000), MinimumDepositAmount(500_000))
	assert.Equal(t, uint64(1_000_000), MinimumDepositAmount(2_000_000))
	assert.Equal(t, uint64(FallbackMinimumDeposit), MinimumDepositAmount(0))
	// floor division
	assert.Equal(t, uint64(6_666_666), MinimumDepositAmount(300_000))
}

func TestDurationOf(t *testing.T) {
	want := []uint64{6, 18, 36, 48, 144, 720, 1008, 2016, 4320, 12960, 25920, 38880, 52560}
	for i, blocks := range want {
		assert.Equal(t, blocks, DurationOf(LockOption(i+1)))
	}
	assert.Zero(t, DurationOf(0))
	assert.Zero(t, DurationOf(14))
	assert.Len(t, LockOptions(), 13)
}
