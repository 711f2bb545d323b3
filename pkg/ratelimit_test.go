package pkg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoginLimiter_ZeroRateIsUnlimited(t *testing.T) {
	l := NewLoginLimiter(nil, 0, 1, time.Minute, zap.NewNop())
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow(context.Background(), "alice"))
	}
}

func TestLoginLimiter_EnforcesBurstPerUsername(t *testing.T) {
	l := NewLoginLimiter(nil, 1, 3, time.Minute, zap.NewNop())

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(context.Background(), "alice"), "attempt %d", i+1)
	}
	assert.False(t, l.Allow(context.Background(), "alice"))

	// Buckets are per username.
	assert.True(t, l.Allow(context.Background(), "bob"))
}
