package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
)

func TestTTLCache_SetAndGet(t *testing.T) {
	c := NewTTLCache(time.Minute, 8)

	c.Set("BTC", &domain.AssetMetrics{Symbol: "BTC"})

	got := c.Get("BTC")
	require.NotNil(t, got)
	assert.Equal(t, "BTC", got.Symbol)
	assert.Nil(t, c.Get("ETH"))
}

func TestTTLCache_Expiry(t *testing.T) {
	c := NewTTLCache(20*time.Millisecond, 8)

	c.Set("BTC", &domain.AssetMetrics{Symbol: "BTC"})
	require.NotNil(t, c.Get("BTC"))

	time.Sleep(40 * time.Millisecond)

	assert.Nil(t, c.Get("BTC"))
	// The expired entry is dropped on access.
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_EvictsWhenFull(t *testing.T) {
	c := NewTTLCache(time.Minute, 3)

	for i := 0; i < 3; i++ {
		sym := fmt.Sprintf("SYM%d", i)
		c.Set(sym, &domain.AssetMetrics{Symbol: sym})
	}
	require.Equal(t, 3, c.Len())

	// A fourth distinct key evicts one arbitrary entry instead of growing.
	c.Set("SYM3", &domain.AssetMetrics{Symbol: "SYM3"})
	assert.Equal(t, 3, c.Len())
	require.NotNil(t, c.Get("SYM3"))
}

func TestTTLCache_OverwriteDoesNotEvict(t *testing.T) {
	c := NewTTLCache(time.Minute, 2)

	c.Set("BTC", &domain.AssetMetrics{Symbol: "BTC"})
	c.Set("ETH", &domain.AssetMetrics{Symbol: "ETH"})

	// Rewriting an existing key must not push out its neighbor.
	c.Set("BTC", &domain.AssetMetrics{Symbol: "BTC"})

	assert.Equal(t, 2, c.Len())
	assert.NotNil(t, c.Get("BTC"))
	assert.NotNil(t, c.Get("ETH"))
}
