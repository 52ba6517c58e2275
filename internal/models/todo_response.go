package models

import "time"

// TodoResponse represents a to-do item in API responses
type TodoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TodoListResponse represents a paginated page of to-do items
type TodoListResponse struct {
	Data  []*TodoResponse `json:"data"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int             `json:"total"`
}
