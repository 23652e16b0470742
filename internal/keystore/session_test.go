package keystore

import (
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSetGet(t *testing.T) {
	clk := clock.NewTestClock(time.Unix(1_700_000_000, 0))
	cache := NewSessionCache(clk)

	cache.Set([]byte("seed material"))
	assert.True(t, cache.Active())

	got := cache.Get()
	require.NotNil(t, got)
	assert.Equal(t, "seed material", string(got))

	// Returned slice is a copy; mutating it must not touch the cached slot
	got[0] = 'X'
	again := cache.Get()
	assert.Equal(t, "seed material", string(again))
}

func TestSessionExpiry(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	clk := clock.NewTestClock(start)
	cache := NewSessionCache(clk)

	cache.Set([]byte("seed material"))

	clk.SetTime(start.Add(SessionDuration - time.Second))
	assert.NotNil(t, cache.Get())

	clk.SetTime(start.Add(SessionDuration + time.Second))
	assert.Nil(t, cache.Get())
	assert.False(t, cache.Active())
}

func TestSessionGetDoesNotExtend(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	clk := clock.NewTestClock(start)
	cache := NewSessionCache(clk)

	cache.Set([]byte("seed material"))

	// Reads right up to the deadline must not push it out
	clk.SetTime(start.Add(SessionDuration - time.Second))
	require.NotNil(t, cache.Get())

	clk.SetTime(start.Add(SessionDuration + time.Second))
	assert.Nil(t, cache.Get())
}

func TestSessionExtend(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	clk := clock.NewTestClock(start)
	cache := NewSessionCache(clk)

	cache.Set([]byte("seed material"))

	clk.SetTime(start.Add(10 * time.Minute))
	cache.Extend()

	// Original deadline passed, extended one has not
	clk.SetTime(start.Add(SessionDuration + time.Minute))
	assert.NotNil(t, cache.Get())

	clk.SetTime(start.Add(10*time.Minute + SessionDuration + time.Second))
	assert.Nil(t, cache.Get())
}

func TestSessionExtendAfterExpiry(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	clk := clock.NewTestClock(start)
	cache := NewSessionCache(clk)

	cache.Set([]byte("seed material"))

	// A lapsed window stays lapsed: Extend must wipe, not grant a fresh one.
	clk.SetTime(start.Add(SessionDuration + time.Hour))
	cache.Extend()

	assert.Nil(t, cache.Get())
	assert.False(t, cache.Active())
}

func TestSessionExtendOnEmptySlot(t *testing.T) {
	clk := clock.NewTestClock(time.Unix(1_700_000_000, 0))
	cache := NewSessionCache(clk)

	cache.Extend()
	assert.False(t, cache.Active())
	assert.Nil(t, cache.Get())
}

func TestSessionClearZeroes(t *testing.T) {
	clk := clock.NewTestClock(time.Unix(1_700_000_000, 0))
	cache := NewSessionCache(clk)

	seed := []byte("seed material")
	cache.Set(seed)

	// Keep a handle on the internal buffer through the returned copy's twin:
	// Clear must leave nothing readable behind.
	internal := cache.seed
	cache.Clear()

	assert.Nil(t, cache.Get())
	assert.False(t, cache.Active())
	for _, b := range internal {
		assert.Zero(t, b)
	}
}

func TestSessionSetReplacesAndZeroesPrior(t *testing.T) {
	clk := clock.NewTestClock(time.Unix(1_700_000_000, 0))
	cache := NewSessionCache(clk)

	cache.Set([]byte("first seed"))
	prior := cache.seed
	cache.Set([]byte("second seed"))

	assert.Equal(t, "second seed", string(cache.Get()))
	for _, b := range prior {
		assert.Zero(t, b)
	}
}
