package models

import "time"

// AuthToken is the opaque bearer credential presented as
// "Authorization: Token <key>". A user has at most one.
type AuthToken struct {
	Key       string
	UserID    string
	CreatedAt time.Time
}
