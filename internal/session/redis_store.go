package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions as JSON values with a native TTL, so expiry
// needs no sweeper.  It is the preferred store when Redis is reachable.
type RedisStore struct {
	client *redis.Client
	secret string
	prefix string
}

// NewRedisStore returns a RedisStore using the given client and session
// secret.
func NewRedisStore(client *redis.Client, secret string) *RedisStore {
	return &RedisStore{client: client, secret: secret, prefix: "sess:"}
}

func (s *RedisStore) key(token string) string {
	return s.prefix + HashToken(s.secret, token)
}

// Create stores the session under the token hash with a TTL matching the
// session expiry and returns the raw token.
func (s *RedisStore) Create(ctx context.Context, sess Session) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return "", errors.New("session already expired")
	}
	val, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.key(token), val, ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Get resolves a raw token, returning ErrNotFound once the key expired or
// was deleted.
func (s *RedisStore) Get(ctx context.Context, token string) (Session, error) {
	val, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Delete removes the session key.  Unknown tokens delete zero keys,
// which is fine.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}
