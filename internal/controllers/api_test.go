package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"todo-be/internal/apperrors"
	"todo-be/internal/auth"
	"todo-be/internal/entities"
	"todo-be/internal/middleware"
	"todo-be/internal/models"
	"todo-be/internal/service"
)

const testSecret = "test-signing-secret"

type fakeUserRepo struct {
	users  map[int64]*entities.User
	nextID int64
}

func (r *fakeUserRepo) Create(name, email, passwordHash string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return nil, apperrors.ErrEmailTaken
		}
	}
	r.nextID++
	user := &entities.User{
		ID:           r.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) FindByID(id int64) (*entities.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

type fakeTodoRepo struct {
	todos  map[int64]*entities.Todo
	nextID int64
}

func (r *fakeTodoRepo) Create(userID int64, title string, description *string) (*entities.Todo, error) {
	r.nextID++
	todo := &entities.Todo{
		ID:          r.nextID,
		Title:       title,
		Description: description,
		UserID:      userID,
		CreatedAt:   time.Now(),
	}
	r.todos[todo.ID] = todo
	return todo, nil
}

func (r *fakeTodoRepo) FindByID(id int64) (*entities.Todo, error) {
	if todo, ok := r.todos[id]; ok {
		copied := *todo
		return &copied, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeTodoRepo) Update(id int64, title string, description *string) (*entities.Todo, error) {
	todo, ok := r.todos[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	todo.Title = title
	todo.Description = description
	copied := *todo
	return &copied, nil
}

func (r *fakeTodoRepo) Delete(id int64) error {
	if _, ok := r.todos[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.todos, id)
	return nil
}

func (r *fakeTodoRepo) ListByUser(userID int64, q *models.ListTodosQuery) ([]*entities.Todo, int, error) {
	var matched []*entities.Todo
	for _, todo := range r.todos {
		if todo.UserID != userID {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(todo.Title), strings.ToLower(q.Search)) {
			continue
		}
		matched = append(matched, todo)
	}

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		if q.SortBy == "title" {
			less = matched[i].Title < matched[j].Title
		} else {
			less = matched[i].ID < matched[j].ID
		}
		if q.Order == "desc" {
			return !less
		}
		return less
	})

	total := len(matched)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// newTestRouter wires the full stack the same way main does, with in-memory
// repositories and no cache.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	userRepo := &fakeUserRepo{users: make(map[int64]*entities.User)}
	todoRepo := &fakeTodoRepo{todos: make(map[int64]*entities.Todo)}

	tokenService := auth.NewTokenService(testSecret, time.Hour)
	resolver := auth.NewIdentityResolver(tokenService)

	authService := service.NewAuthService(userRepo, tokenService, nil)
	todoService := service.NewTodoService(todoRepo)

	authController := NewAuthController(authService)
	todoController := NewTodoController(todoService)

	router := gin.New()
	router.POST("/register", authController.Register)
	router.POST("/login", authController.Login)

	todos := router.Group("/todos")
	todos.Use(middleware.AuthMiddleware(resolver, authService.LookupUser))
	{
		todos.POST("", todoController.Create)
		todos.GET("", todoController.List)
		todos.PUT("/:id", todoController.Update)
		todos.DELETE("/:id", todoController.Delete)
	}

	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, router *gin.Engine, name, email string) string {
	t.Helper()

	w := doRequest(t, router, http.MethodPost, "/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterAndLogin(t *testing.T) {
	router := newTestRouter()

	token := registerUser(t, router, "Ann", "ann@x.com")
	require.NotEmpty(t, token)

	// Duplicate email is rejected
	w := doRequest(t, router, http.MethodPost, "/register", "", gin.H{
		"name":     "Imposter",
		"email":    "ann@x.com",
		"password": "password456",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// The first user's token remains valid
	w = doRequest(t, router, http.MethodGet, "/todos", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Login with correct credentials
	w = doRequest(t, router, http.MethodPost, "/login", "", gin.H{
		"email":    "ann@x.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Wrong password and unknown email both fail with 401
	w = doRequest(t, router, http.MethodPost, "/login", "", gin.H{
		"email":    "ann@x.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, router, http.MethodPost, "/login", "", gin.H{
		"email":    "nobody@x.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	router := newTestRouter()

	cases := []gin.H{
		{"name": "", "email": "a@x.com", "password": "password123"},
		{"name": "Ann", "email": "not-an-email", "password": "password123"},
		{"name": "Ann", "email": "a@x.com", "password": "short"},
		{"email": "a@x.com", "password": "password123"},
	}
	for _, body := range cases {
		w := doRequest(t, router, http.MethodPost, "/register", "", body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body: %v", body)
	}
}

func TestTodosRequireAuth(t *testing.T) {
	router := newTestRouter()

	// No header, garbage token, wrong scheme
	for _, token := range []string{"", "garbage"} {
		w := doRequest(t, router, http.MethodPost, "/todos", token, gin.H{"title": "x"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Body.String(), "Unauthorized")
	}

	// Expired token signed with the right key
	expired := auth.NewTokenService(testSecret, -time.Minute)
	tok, err := expired.Issue(1)
	require.NoError(t, err)
	w := doRequest(t, router, http.MethodGet, "/todos", tok, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token signed with a different key
	wrongKey := auth.NewTokenService("other-secret", time.Hour)
	tok, err = wrongKey.Issue(1)
	require.NoError(t, err)
	w = doRequest(t, router, http.MethodGet, "/todos", tok, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token for a user that does not exist
	tokens := auth.NewTokenService(testSecret, time.Hour)
	tok, err = tokens.Issue(999)
	require.NoError(t, err)
	w = doRequest(t, router, http.MethodGet, "/todos", tok, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTodoLifecycle(t *testing.T) {
	router := newTestRouter()
	token := registerUser(t, router, "Ann", "ann@x.com")

	// Create
	w := doRequest(t, router, http.MethodPost, "/todos", token, gin.H{"title": "Buy milk"})
	require.Equal(t, http.StatusCreated, w.Code)

	var todo models.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &todo))
	require.Equal(t, int64(1), todo.ID)
	require.Equal(t, "Buy milk", todo.Title)
	require.Nil(t, todo.Description)

	// List
	w = doRequest(t, router, http.MethodGet, "/todos?page=1&limit=10", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list models.TodoListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	require.Len(t, list.Data, 1)
	require.Equal(t, "Buy milk", list.Data[0].Title)

	// Update
	w = doRequest(t, router, http.MethodPut, "/todos/1", token, gin.H{
		"title":       "Buy oat milk",
		"description": "from the corner shop",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &todo))
	require.Equal(t, "Buy oat milk", todo.Title)
	require.NotNil(t, todo.Description)
	require.Equal(t, "from the corner shop", *todo.Description)

	// Delete
	w = doRequest(t, router, http.MethodDelete, "/todos/1", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// List is empty again
	w = doRequest(t, router, http.MethodGet, "/todos", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 0, list.Total)
	require.Len(t, list.Data, 0)

	// Deleting again is a 404
	w = doRequest(t, router, http.MethodDelete, "/todos/1", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestOwnershipEnforced(t *testing.T) {
	router := newTestRouter()
	annToken := registerUser(t, router, "Ann", "ann@x.com")
	bobToken := registerUser(t, router, "Bob", "bob@x.com")

	w := doRequest(t, router, http.MethodPost, "/todos", annToken, gin.H{"title": "Ann's secret"})
	require.Equal(t, http.StatusCreated, w.Code)

	var todo models.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &todo))
	path := fmt.Sprintf("/todos/%d", todo.ID)

	// Bob can neither update nor delete Ann's item
	w = doRequest(t, router, http.MethodPut, path, bobToken, gin.H{"title": "Hacked"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, router, http.MethodDelete, path, bobToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Bob never sees Ann's item in a list
	w = doRequest(t, router, http.MethodGet, "/todos?limit=100", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list models.TodoListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 0, list.Total)

	// Ann still can
	w = doRequest(t, router, http.MethodPut, path, annToken, gin.H{"title": "Still Ann's"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodDelete, path, annToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestUpdateNotFound(t *testing.T) {
	router := newTestRouter()
	token := registerUser(t, router, "Ann", "ann@x.com")

	w := doRequest(t, router, http.MethodPut, "/todos/42", token, gin.H{"title": "Ghost"})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodPut, "/todos/not-a-number", token, gin.H{"title": "Ghost"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPaginationSearchAndSort(t *testing.T) {
	router := newTestRouter()
	token := registerUser(t, router, "Ann", "ann@x.com")

	for _, title := range []string{"banana", "apple", "cherry"} {
		w := doRequest(t, router, http.MethodPost, "/todos", token, gin.H{"title": title})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var list models.TodoListResponse

	// Defaults: page 1, limit 10, sorted by id ascending
	w := doRequest(t, router, http.MethodGet, "/todos", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 3, list.Total)
	require.Equal(t, 1, list.Page)
	require.Equal(t, 10, list.Limit)
	require.Equal(t, "banana", list.Data[0].Title)

	// Sort by title descending
	w = doRequest(t, router, http.MethodGet, "/todos?sort_by=title&order=desc", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, "cherry", list.Data[0].Title)
	require.Equal(t, "apple", list.Data[2].Title)

	// Pagination: second page of one
	w = doRequest(t, router, http.MethodGet, "/todos?page=2&limit=1&sort_by=title", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 3, list.Total)
	require.Len(t, list.Data, 1)
	require.Equal(t, "banana", list.Data[0].Title)

	// Search filters by title
	w = doRequest(t, router, http.MethodGet, "/todos?search=app", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	require.Equal(t, "apple", list.Data[0].Title)

	// Out-of-range values are clamped to defaults
	w = doRequest(t, router, http.MethodGet, "/todos?page=0&limit=-5&sort_by=bogus&order=sideways", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Page)
	require.Equal(t, 10, list.Limit)
	require.Equal(t, 3, list.Total)
}

func TestTodoValidation(t *testing.T) {
	router := newTestRouter()
	token := registerUser(t, router, "Ann", "ann@x.com")

	// Missing title
	w := doRequest(t, router, http.MethodPost, "/todos", token, gin.H{"description": "no title"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Title too long
	w = doRequest(t, router, http.MethodPost, "/todos", token, gin.H{"title": strings.Repeat("x", 256)})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Description too long
	w = doRequest(t, router, http.MethodPost, "/todos", token, gin.H{
		"title":       "ok",
		"description": strings.Repeat("x", 2001),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
