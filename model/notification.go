package model

import "time"

// Notification addresses a single user, or everyone when UserID is nil
// (a broadcast). Only the owning user may toggle the read flag.
type Notification struct {
	ID        string    `json:"id"`
	UserID    *int      `json:"user_id,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) IsBroadcast() bool {
	return n.UserID == nil
}
