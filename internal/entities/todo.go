package entities

import "time"

// Todo represents a to-do item entity in the database
type Todo struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"` // Pointer allows nil (no description)
	UserID      int64     `json:"user_id"`               // Owner, set at creation and immutable
	CreatedAt   time.Time `json:"created_at"`
}
