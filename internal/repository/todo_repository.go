package repository

import (
	"database/sql"
	"fmt"

	"todo-be/internal/apperrors"
	"todo-be/internal/entities"
	"todo-be/internal/models"
)

// TodoRepository defines the interface for to-do database operations
type TodoRepository interface {
	Create(userID int64, title string, description *string) (*entities.Todo, error)
	FindByID(id int64) (*entities.Todo, error)
	Update(id int64, title string, description *string) (*entities.Todo, error)
	Delete(id int64) error
	ListByUser(userID int64, q *models.ListTodosQuery) ([]*entities.Todo, int, error)
}

type todoRepository struct {
	db *sql.DB
}

// NewTodoRepository creates a new to-do repository
func NewTodoRepository(db *sql.DB) TodoRepository {
	return &todoRepository{db: db}
}

// Create inserts a new to-do owned by the given user
func (r *todoRepository) Create(userID int64, title string, description *string) (*entities.Todo, error) {
	query := `
		INSERT INTO todos (title, description, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, title, description, user_id, created_at
	`

	var todo entities.Todo
	err := r.db.QueryRow(query, title, description, userID).Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.UserID,
		&todo.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return &todo, nil
}

// FindByID finds a to-do by its id, regardless of owner
func (r *todoRepository) FindByID(id int64) (*entities.Todo, error) {
	query := `
		SELECT id, title, description, user_id, created_at
		FROM todos
		WHERE id = $1
	`

	var todo entities.Todo
	err := r.db.QueryRow(query, id).Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.UserID,
		&todo.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}

	return &todo, nil
}

// Update replaces the mutable fields of a to-do. The owner is immutable and
// is never touched here; ownership is checked by the caller before this runs.
func (r *todoRepository) Update(id int64, title string, description *string) (*entities.Todo, error) {
	query := `
		UPDATE todos
		SET title = $1, description = $2
		WHERE id = $3
		RETURNING id, title, description, user_id, created_at
	`

	var todo entities.Todo
	err := r.db.QueryRow(query, title, description, id).Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.UserID,
		&todo.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return &todo, nil
}

// Delete removes a to-do by id
func (r *todoRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// sortColumns whitelists the columns a list request may sort by
var sortColumns = map[string]string{
	"id":    "id",
	"title": "title",
}

// ListByUser retrieves one page of the user's to-dos plus the total count of
// rows matching the filter.
func (r *todoRepository) ListByUser(userID int64, q *models.ListTodosQuery) ([]*entities.Todo, int, error) {
	where := "WHERE user_id = $1"
	args := []interface{}{userID}

	if q.Search != "" {
		where += fmt.Sprintf(" AND title ILIKE $%d", len(args)+1)
		args = append(args, "%"+q.Search+"%")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM todos " + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count todos: %w", err)
	}

	sortCol, ok := sortColumns[q.SortBy]
	if !ok {
		sortCol = "id"
	}
	order := "ASC"
	if q.Order == "desc" {
		order = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT id, title, description, user_id, created_at
		FROM todos
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, where, sortCol, order, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset())

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	var todos []*entities.Todo
	for rows.Next() {
		var todo entities.Todo
		err := rows.Scan(
			&todo.ID,
			&todo.Title,
			&todo.Description,
			&todo.UserID,
			&todo.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, &todo)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, total, nil
}
