package service

import (
	"todo-be/internal/auth"
	"todo-be/internal/entities"
	"todo-be/internal/models"
	"todo-be/internal/repository"
)

// TodoService defines the interface for to-do business logic. Every method
// takes the already-resolved acting user; mutations of an existing item check
// ownership before touching it, and listing scopes by owner in the query.
type TodoService interface {
	Create(actor *entities.User, req *models.TodoRequest) (*models.TodoResponse, error)
	List(actor *entities.User, q *models.ListTodosQuery) (*models.TodoListResponse, error)
	Update(actor *entities.User, id int64, req *models.TodoRequest) (*models.TodoResponse, error)
	Delete(actor *entities.User, id int64) error
}

type todoService struct {
	repo repository.TodoRepository
}

// NewTodoService creates a new to-do service
func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo}
}

// Create adds a new to-do owned by the acting user
func (s *todoService) Create(actor *entities.User, req *models.TodoRequest) (*models.TodoResponse, error) {
	todo, err := s.repo.Create(actor.ID, req.Title, req.Description)
	if err != nil {
		return nil, err
	}
	return toTodoResponse(todo), nil
}

// List retrieves one page of the acting user's to-dos
func (s *todoService) List(actor *entities.User, q *models.ListTodosQuery) (*models.TodoListResponse, error) {
	todos, total, err := s.repo.ListByUser(actor.ID, q)
	if err != nil {
		return nil, err
	}

	data := make([]*models.TodoResponse, len(todos))
	for i, todo := range todos {
		data[i] = toTodoResponse(todo)
	}

	return &models.TodoListResponse{
		Data:  data,
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
	}, nil
}

// Update replaces the title and description of an existing to-do. A missing
// item is reported before ownership, so callers learn 404 vs 403 correctly.
func (s *todoService) Update(actor *entities.User, id int64, req *models.TodoRequest) (*models.TodoResponse, error) {
	todo, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if err := auth.Authorize(actor, todo.UserID); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(id, req.Title, req.Description)
	if err != nil {
		return nil, err
	}
	return toTodoResponse(updated), nil
}

// Delete removes an existing to-do after the ownership check
func (s *todoService) Delete(actor *entities.User, id int64) error {
	todo, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}

	if err := auth.Authorize(actor, todo.UserID); err != nil {
		return err
	}

	return s.repo.Delete(id)
}

func toTodoResponse(todo *entities.Todo) *models.TodoResponse {
	return &models.TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		UserID:      todo.UserID,
		CreatedAt:   todo.CreatedAt,
	}
}
