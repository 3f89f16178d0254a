package ingest_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/veridoc/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayThrottle_ZeroDelays(t *testing.T) {
	t.Parallel()

	throttle := &ingest.DelayThrottle{}
	assert.NoError(t, throttle.BeforePage(context.Background(), 0))
	assert.NoError(t, throttle.AfterRateLimit(context.Background()))
}

func TestDelayThrottle_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	throttle := &ingest.DelayThrottle{PageDelay: time.Hour, Cooldown: time.Hour}
	require.Error(t, throttle.BeforePage(ctx, 1))
	require.Error(t, throttle.AfterRateLimit(ctx))
}

func TestLimiterThrottle_FirstCallImmediate(t *testing.T) {
	t.Parallel()

	throttle := ingest.NewLimiterThrottle(1000, 0)

	start := time.Now()
	require.NoError(t, throttle.BeforePage(context.Background(), 0))
	assert.Less(t, time.Since(start), time.Second)
	assert.NoError(t, throttle.AfterRateLimit(context.Background()))
}
