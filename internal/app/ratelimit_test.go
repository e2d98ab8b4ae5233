package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSendRateLimiterBoundsBurst(t *testing.T) {
	rl := NewSendRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(alice))
	}
	assert.False(t, rl.Allow(alice))
	assert.True(t, rl.Allow(bob), "limits are per user")
}

func TestSendRateLimiterRecoversAfterWindow(t *testing.T) {
	rl := NewSendRateLimiter(1, 10*time.Millisecond)

	assert.True(t, rl.Allow(alice))
	assert.False(t, rl.Allow(alice))
	time.Sleep(20 * time.Millisecond)
	assert.True(t, rl.Allow(alice))
}
