package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGoalPeriod(t *testing.T) {
	for _, s := range []string{"daily", "weekly", "monthly"} {
		p, err := ParseGoalPeriod(s)
		require.NoError(t, err)
		assert.Equal(t, GoalPeriod(s), p)
	}

	for _, s := range []string{"", "Daily", "yearly", "hourly"} {
		_, err := ParseGoalPeriod(s)
		assert.ErrorIs(t, err, ErrInvalidArgument, "input %q", s)
	}
}
