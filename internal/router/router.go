package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"todoapp/internal/handler"
	"todoapp/internal/middleware"
	"todoapp/internal/session"
)

// RegisterRoutes wires every endpoint of the application onto the Echo
// instance.  The auth endpoints under /api manage the session themselves;
// the category and task endpoints sit behind the session middleware so
// their handlers always see an authenticated user id.  Static assets for
// the browser client are served from ./public.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler, ch *handler.CategoryHandler, th *handler.TaskHandler, store session.Store) {
	e.GET("/healthz", handler.Health)
	e.Static("/", "public")

	api := e.Group("/api")
	api.POST("/register", a.Register)
	api.POST("/login", a.Login)
	api.POST("/logout", a.Logout)
	api.GET("/user", a.CurrentUser)

	auth := api.Group("", middleware.RequireSession(store))
	auth.GET("/categories", ch.List)
	auth.POST("/categories", ch.Create)
	auth.DELETE("/categories/:id", ch.Delete)

	auth.GET("/tasks", th.List)
	auth.POST("/tasks", th.Create)
	auth.PUT("/tasks/:id", th.Update)
	// The static /tasks/reorder route takes precedence over /tasks/:id.
	auth.PATCH("/tasks/reorder", th.Reorder)
	auth.PATCH("/tasks/:id", th.SetStatus)
	auth.DELETE("/tasks/:id", th.Delete)
}
