package model

import "time"

// Category is a user-defined label attachable to tasks.  Each category
// belongs to exactly one user; deleting a category detaches it from that
// user's tasks but never deletes the tasks themselves.
type Category struct {
	ID        uint64    `json:"category_id"`
	UserID    uint64    `json:"-"`
	Name      string    `json:"category_name"`
	CreatedAt time.Time `json:"-"`
}
