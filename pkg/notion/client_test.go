package notion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()
	c := NewClient("ntn_test_token")
	nc := c.(*notionClient)
	assert.NotNil(t, nc.inner)
	require.NotNil(t, nc.limiter)
	assert.InDelta(t, 3, float64(nc.limiter.Limit()), 0.001)
}

func TestWithRateLimit(t *testing.T) {
	t.Parallel()
	c := NewClient("ntn_test_token", WithRateLimit(10))
	nc := c.(*notionClient)
	require.NotNil(t, nc.limiter)
	assert.InDelta(t, 10, float64(nc.limiter.Limit()), 0.001)
}

func TestWithRateLimitDisabled(t *testing.T) {
	t.Parallel()
	c := NewClient("ntn_test_token", WithRateLimit(0))
	nc := c.(*notionClient)
	assert.Nil(t, nc.limiter)
}

func TestRateLimitHonorsCancellation(t *testing.T) {
	t.Parallel()
	c := NewClient("ntn_test_token")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The limiter wait fails before any API call is attempted.
	_, err := c.QueryDatabase(ctx, "db-1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")

	_, err = c.CreatePage(ctx, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}
