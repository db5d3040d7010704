package session

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// DBStore keeps sessions in the MySQL `sessions` table.  It is the
// fallback when no Redis server is available.  Expired rows are removed
// lazily when their token is next presented.
type DBStore struct {
	db     *sql.DB
	secret string
}

// NewDBStore returns a DBStore using the given database handle and
// session secret.
func NewDBStore(db *sql.DB, secret string) *DBStore {
	return &DBStore{db: db, secret: secret}
}

// Create inserts the session row and returns the raw token.
func (s *DBStore) Create(ctx context.Context, sess Session) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO sessions (token_hash, user_id, username, expires_at) VALUES (?,?,?,?)",
		HashToken(s.secret, token), sess.UserID, sess.Username, sess.ExpiresAt.UTC())
	if err != nil {
		return "", err
	}
	return token, nil
}

// Get resolves a raw token.  A row past its expiry is deleted and
// reported as ErrNotFound.
func (s *DBStore) Get(ctx context.Context, token string) (Session, error) {
	hash := HashToken(s.secret, token)
	var sess Session
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, username, expires_at FROM sessions WHERE token_hash=? LIMIT 1",
		hash).Scan(&sess.UserID, &sess.Username, &sess.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		_, _ = s.db.ExecContext(ctx, "DELETE FROM sessions WHERE token_hash=?", hash)
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Delete removes the session row for a raw token.
func (s *DBStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE token_hash=?", HashToken(s.secret, token))
	return err
}
