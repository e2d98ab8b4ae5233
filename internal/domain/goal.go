package domain

import (
	"fmt"
	"time"
)

// GoalPeriod is the recurring window a room goal is measured against.
// It is a closed set; free-form strings are rejected at the boundary.
type GoalPeriod string

const (
	GoalDaily   GoalPeriod = "daily"
	GoalWeekly  GoalPeriod = "weekly"
	GoalMonthly GoalPeriod = "monthly"
)

func ParseGoalPeriod(s string) (GoalPeriod, error) {
	switch GoalPeriod(s) {
	case GoalDaily, GoalWeekly, GoalMonthly:
		return GoalPeriod(s), nil
	}
	return "", fmt.Errorf("%w: unknown goal period %q", ErrInvalidArgument, s)
}

// Goal is replaced wholesale on every update; there is no partial merge.
type Goal struct {
	Amount int        `json:"amount"`
	Period GoalPeriod `json:"period"`
	SetBy  UserID     `json:"setBy"`
	SetAt  time.Time  `json:"setAt"`
}
