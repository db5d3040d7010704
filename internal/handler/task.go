package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"todoapp/internal/model"
	"todoapp/internal/repository"
)

// TaskHandler bundles dependencies for task endpoints.
type TaskHandler struct {
	Tasks TaskStore
}

func NewTaskHandler(tasks TaskStore) *TaskHandler {
	return &TaskHandler{Tasks: tasks}
}

// ----- DTOs -----

type taskReq struct {
	Title      string  `json:"title"`
	DueDate    string  `json:"due_date"`
	Priority   string  `json:"priority"`
	CategoryID *uint64 `json:"category_id"`
}

type createTaskResp struct {
	Success bool   `json:"success"`
	TaskID  uint64 `json:"taskId"`
}

type setStatusReq struct {
	Status string `json:"status"`
}

type reorderReq struct {
	IDs []uint64 `json:"ids"`
}

// draft validates the request body and converts it into a store draft.
// Title is required, priority defaults to medium and the due date must be
// a YYYY-MM-DD string when present.
func (r taskReq) draft() (model.TaskDraft, string) {
	d := model.TaskDraft{
		Title:      strings.TrimSpace(r.Title),
		Priority:   strings.ToLower(strings.TrimSpace(r.Priority)),
		CategoryID: r.CategoryID,
	}
	if d.Title == "" {
		return d, "title required"
	}
	if d.Priority == "" {
		d.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(d.Priority) {
		return d, "priority must be high, medium or low"
	}
	if r.DueDate != "" {
		due, err := model.ParseDateOnly(r.DueDate)
		if err != nil {
			return d, "due_date must be YYYY-MM-DD"
		}
		d.DueDate = &due
	}
	return d, ""
}

// List returns the user's tasks in display order.  An optional ?status=
// query narrows the list to pending or completed tasks.
func (h *TaskHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "not logged in"})
	}
	status := c.QueryParam("status")
	if status != "" && !model.ValidStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "status must be pending or completed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tasks, err := h.Tasks.ListByUser(ctx, uid, status)
	if err != nil {
		return storageError(c, "list tasks", err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// Create adds a task at the end of the user's list.
func (h *TaskHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "not logged in"})
	}
	var req taskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	draft, msg := req.draft()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Tasks.Create(ctx, uid, draft)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownCategory) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "unknown category"})
		}
		return storageError(c, "create task", err)
	}
	return c.JSON(http.StatusOK, createTaskResp{Success: true, TaskID: id})
}

// Update replaces the mutable fields of a task.
func (h *TaskHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "not logged in"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid task id"})
	}
	var req taskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	draft, msg := req.draft()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tasks.Update(ctx, uid, id, draft); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "task not found"})
		case errors.Is(err, repository.ErrUnknownCategory):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "unknown category"})
		}
		return storageError(c, "update task", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// SetStatus toggles a task between pending and completed.
func (h *TaskHandler) SetStatus(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "not logged in"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid task id"})
	}
	var req setStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if !model.ValidStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "status must be pending or completed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tasks.SetStatus(ctx, uid, id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "task not found"})
		}
		return storageError(c, "set task status", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Delete removes a task.  Deleting an id that is already gone still
// reports success.
func (h *TaskHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "not logged in"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid task id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tasks.Delete(ctx, uid, id); err != nil {
		return storageError(c, "delete task", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Reorder rewrites the manual order of the user's tasks to match the
// submitted id list.  Ids of other users are ignored.
func (h *TaskHandler) Reorder(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "not logged in"})
	}
	var req reorderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tasks.Reorder(ctx, uid, req.IDs); err != nil {
		return storageError(c, "reorder tasks", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
