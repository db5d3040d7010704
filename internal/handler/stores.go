package handler // handler defines http handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"todoapp/internal/model"
)

// The handlers depend on narrow store interfaces rather than concrete
// repositories so that tests can exercise them against in-memory fakes.
// The repository package provides the MySQL implementations.

// UserStore persists user credentials.
type UserStore interface {
	Create(ctx context.Context, username, password string) (uint64, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// CategoryStore persists per-user categories.
type CategoryStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.Category, error)
	Create(ctx context.Context, userID uint64, name string) (uint64, error)
	Delete(ctx context.Context, userID, categoryID uint64) error
}

// TaskStore persists per-user tasks with manual ordering.
type TaskStore interface {
	ListByUser(ctx context.Context, userID uint64, status string) ([]model.Task, error)
	Create(ctx context.Context, userID uint64, d model.TaskDraft) (uint64, error)
	Update(ctx context.Context, userID, taskID uint64, d model.TaskDraft) error
	SetStatus(ctx context.Context, userID, taskID uint64, status string) error
	Delete(ctx context.Context, userID, taskID uint64) error
	Reorder(ctx context.Context, userID uint64, ids []uint64) error
}

// getUserID extracts the user_id placed in the context by the session
// middleware.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get("user_id").(uint64); ok && id != 0 {
		return id, nil
	}
	return 0, errors.New("no user_id in context")
}

// storageError logs the underlying failure server-side and returns a
// generic 500 body.  Driver error text never reaches the client.
func storageError(c echo.Context, op string, err error) error {
	log.Printf("%s %s: %s: %v", c.Request().Method, c.Request().URL.Path, op, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"success": false,
		"message": "storage error",
	})
}
