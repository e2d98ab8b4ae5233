package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// No config file in the test working directory, so defaults apply.
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "focusopolis", cfg.MongoDB)
	assert.Empty(t, cfg.RedisAddr)
	assert.EqualValues(t, 32768, cfg.ReadLimit)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 10, cfg.ChatRateLimit)
	assert.Equal(t, 10*time.Second, cfg.ChatRateInterval)
}
