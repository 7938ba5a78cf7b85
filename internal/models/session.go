package models

import "time"

// Session represents one authenticated browser session.
// Token is the opaque identifier carried (signed) in the session cookie.
type Session struct {
	ID        int
	Token     string
	UserID    int
	CreatedAt time.Time
}
