package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"todoapp/internal/config"
	"todoapp/internal/repository"
	"todoapp/internal/session"
	"todoapp/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Sessions session.Store
}

func NewAuthHandler(cfg config.Config, users UserStore, sessions session.Store) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Sessions: sessions}
}

// ----- DTOs -----

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResp struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type currentUserResp struct {
	LoggedIn bool   `json:"loggedIn"`
	Username string `json:"username,omitempty"`
}

// Register: create a user with a bcrypt-hashed password.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResp{Success: false, Message: "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, authResp{Success: false, Message: "username and password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.Create(ctx, req.Username, req.Password); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return c.JSON(http.StatusConflict, authResp{Success: false, Message: "that username is already taken"})
		}
		return storageError(c, "create user", err)
	}
	return c.JSON(http.StatusOK, authResp{Success: true, Message: "registered"})
}

// Login: verify credentials and issue a session cookie.  Unknown usernames
// and wrong passwords produce the same response so usernames cannot be
// probed through this endpoint.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, authResp{Success: false, Message: "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, authResp{Success: false, Message: "username and password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, authResp{Success: false, Message: "invalid username or password"})
		}
		return storageError(c, "load user", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, authResp{Success: false, Message: "invalid username or password"})
	}

	token, err := h.Sessions.Create(ctx, session.Session{
		UserID:    u.ID,
		Username:  u.Username,
		ExpiresAt: time.Now().UTC().Add(h.Cfg.SessionTTL),
	})
	if err != nil {
		return storageError(c, "create session", err)
	}
	c.SetCookie(h.sessionCookie(token, h.Cfg.SessionTTL))
	return c.JSON(http.StatusOK, authResp{Success: true})
}

// Logout: destroy the current session, if any.  Always succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		_ = h.Sessions.Delete(ctx, cookie.Value)
	}
	c.SetCookie(h.sessionCookie("", -time.Hour))
	return c.JSON(http.StatusOK, authResp{Success: true})
}

// CurrentUser reports whether the request carries an active session.
// Unlike the task and category endpoints this never returns 401; the
// client uses it to decide which screen to show.
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusOK, currentUserResp{LoggedIn: false})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Sessions.Get(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return c.JSON(http.StatusOK, currentUserResp{LoggedIn: false})
		}
		return storageError(c, "load session", err)
	}
	return c.JSON(http.StatusOK, currentUserResp{LoggedIn: true, Username: sess.Username})
}

// sessionCookie builds the auth cookie.  HTTP-only and SameSite=Lax
// always; Secure outside dev so the cookie only travels over HTTPS in
// production.
func (h *AuthHandler) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.Cfg.Env != "dev",
	}
}
