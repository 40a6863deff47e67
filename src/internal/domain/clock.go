package domain

import (
	"sync/atomic"
	"time"
)

// Clock supplies the current block height. Heights never decrease.
type Clock interface {
	BlockHeight() uint64
}

// ManualClock is driven explicitly by its owner.
type ManualClock struct {
	height atomic.Uint64
}

func NewManualClock(start uint64) *ManualClock {
	c := &ManualClock{}
	c.height.Store(start)
	return c
}

func (c *ManualClock) BlockHeight() uint64 {
	return c.height.Load()
}

// Set moves the clock to height. Lower heights are ignored.
func (c *ManualClock) Set(height uint64) {
	for {
		cur := c.height.Load()
		if height <= cur {
			return
		}
		if c.height.CompareAndSwap(cur, height) {
			return
		}
	}
}

func (c *ManualClock) Advance(blocks uint64) uint64 {
	return c.height.Add(blocks)
}

// ChainClock derives the height from wall time as whole intervals elapsed
// since genesis.
type ChainClock struct {
	genesis  time.Time
	interval time.Duration
	now      func() time.Time
	last     atomic.Uint64
}

func NewChainClock(genesis time.Time, interval time.Duration) *ChainClock {
	return newChainClock(genesis, interval, time.Now)
}

func newChainClock(genesis time.Time, interval time.Duration, now func() time.Time) *ChainClock {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &ChainClock{genesis: genesis, interval: interval, now: now}
}

func (c *ChainClock) BlockHeight() uint64 {
	elapsed := c.now().Sub(c.genesis)
	var height uint64
	if elapsed > 0 {
		height = uint64(elapsed / c.interval)
	}

	for {
		last := c.last.Load()
		if height <= last {
			return last
		}
		if c.last.CompareAndSwap(last, height) {
			return height
		}
	}
}

func (c *ChainClock) Interval() time.Duration {
	return c.interval
}
