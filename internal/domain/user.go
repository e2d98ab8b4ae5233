// Package domain contains entities without logic, just meta-data.
package domain

import "time"

const MaxUsernameLen = 36

type UserID string

// User is a verified identity supplied per call by the auth collaborator.
// This subsystem never resolves or stores credentials itself.
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}

const (
	SessionCompleted   = "completed"
	SessionInterrupted = "interrupted"
)

// FocusSession is one entry of a user's focus history, owned by the
// user-account collaborator and consumed here read-only.
type FocusSession struct {
	Duration  int       `json:"duration"` // minutes
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// MemberProfile is the aggregate view of one member: lifetime focus
// minutes and building count, as shown on room detail and leaderboard.
type MemberProfile struct {
	ID           UserID `json:"id"`
	Username     string `json:"username"`
	TotalMinutes int    `json:"totalFocus"`
	Buildings    int    `json:"buildings"`
}
