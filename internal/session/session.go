// Package session implements the server-side half of cookie
// authentication.  The client holds an opaque random token in an
// HTTP-only cookie; the server keeps the authenticated identity under an
// HMAC of that token, either in Redis or in a MySQL table.  Only the
// keyed hash is ever persisted, so a leaked store does not yield usable
// cookies.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// CookieName is the name of the session cookie issued on login.
const CookieName = "todo_session"

// ErrNotFound is returned when a token does not resolve to an active
// session, whether it never existed, expired or was deleted on logout.
var ErrNotFound = errors.New("session not found")

// Session is the server-side record of an authenticated identity.
type Session struct {
	UserID    uint64    `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists sessions keyed by the hash of an opaque token.
type Store interface {
	// Create stores s and returns the raw token for the cookie.
	Create(ctx context.Context, s Session) (string, error)
	// Get resolves a raw token to its session or ErrNotFound.
	Get(ctx context.Context, token string) (Session, error)
	// Delete destroys the session for a raw token.  Deleting an unknown
	// token is not an error; logout is idempotent.
	Delete(ctx context.Context, token string) error
}

// NewToken returns a fresh random token: 48 bytes of entropy encoded as
// 96 hex characters.
func NewToken() (string, error) {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashToken returns the hex HMAC-SHA256 of a raw token under the
// application session secret.  Store keys are always hashes, never raw
// tokens.
func HashToken(secret, raw string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}
