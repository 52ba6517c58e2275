package models

// TodoRequest represents the request body for creating or replacing a to-do item
type TodoRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
}

// ListTodosQuery holds the sanitized pagination, search and sort parameters
// for listing a user's to-do items
type ListTodosQuery struct {
	Page   int    // 1-based page number
	Limit  int    // page size
	Search string // optional title filter
	SortBy string // "id" or "title"
	Order  string // "asc" or "desc"
}

// Offset returns the row offset for the current page
func (q *ListTodosQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
