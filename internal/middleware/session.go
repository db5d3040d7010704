package middleware // contains reusable HTTP middleware functions

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"todoapp/internal/session"
)

// RequireSession returns an Echo middleware that resolves the session
// cookie against the store and injects the authenticated identity into
// the request context.  Handlers behind it can read the values via
// c.Get("user_id") and c.Get("username").  Requests without an active
// session are rejected with 401.
func RequireSession(store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "not logged in"})
			}
			sess, err := store.Get(c.Request().Context(), cookie.Value)
			if err != nil {
				// Expired, revoked and unknown tokens all look the same to the client.
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "not logged in"})
			}
			c.Set("user_id", sess.UserID)
			c.Set("username", sess.Username)
			return next(c)
		}
	}
}
