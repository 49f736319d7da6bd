package models

// Category groups a single user's tasks. Name is unique per owner.
type Category struct {
	ID     int64
	UserID string
	Name   string
}
