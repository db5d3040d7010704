package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// CategoryHandler bundles dependencies for category endpoints.  All of
// them sit behind the session middleware, so the user id is always in
// the context.
type CategoryHandler struct {
	Categories CategoryStore
}

func NewCategoryHandler(categories CategoryStore) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

// ----- DTOs -----

type createCategoryReq struct {
	Name string `json:"category_name"`
}

type createCategoryResp struct {
	Success    bool   `json:"success"`
	CategoryID uint64 `json:"categoryId"`
}

// List returns all categories of the authenticated user.
func (h *CategoryHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "not logged in"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cats, err := h.Categories.ListByUser(ctx, uid)
	if err != nil {
		return storageError(c, "list categories", err)
	}
	return c.JSON(http.StatusOK, cats)
}

// Create adds a category and returns its id.
func (h *CategoryHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "not logged in"})
	}
	var req createCategoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "category_name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Categories.Create(ctx, uid, req.Name)
	if err != nil {
		return storageError(c, "create category", err)
	}
	return c.JSON(http.StatusOK, createCategoryResp{Success: true, CategoryID: id})
}

// Delete removes a category and detaches it from the user's tasks.  The
// operation is idempotent: deleting an id that no longer exists still
// reports success.
func (h *CategoryHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "not logged in"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid category id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Categories.Delete(ctx, uid, id); err != nil {
		return storageError(c, "delete category", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
