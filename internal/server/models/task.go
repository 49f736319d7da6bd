package models

import "database/sql"

// Task is an owned to-do item. Priority and Category hold the resolved
// names when the row was read with its joins; the *ID fields carry the
// foreign keys used for writes.
type Task struct {
	ID          int64
	UserID      string
	Title       string
	Description string
	PriorityID  sql.NullInt64
	CategoryID  sql.NullInt64
	Priority    sql.NullString
	Category    sql.NullString
	DueDate     sql.NullTime
	Completed   bool
}
