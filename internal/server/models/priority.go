package models

// Priority is a shared label applicable to any user's tasks.
// The seeded set is "low", "medium" and "high".
type Priority struct {
	ID   int64
	Name string
}
