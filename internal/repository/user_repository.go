package repository

import (
	"context"
	"database/sql"
	"strings"

	"todoapp/internal/model"
	"todoapp/internal/utils"
)

// UserRepo persists application users.  Passwords are hashed with bcrypt
// before they reach the database.
type UserRepo struct {
	db   *sql.DB
	cost int
}

// NewUserRepo returns a UserRepo bound to the given database using the
// given bcrypt cost.
func NewUserRepo(db *sql.DB, bcryptCost int) *UserRepo {
	return &UserRepo{db: db, cost: bcryptCost}
}

// Create inserts a user and returns its ID.  A duplicate username maps to
// ErrUsernameTaken.
func (r *UserRepo) Create(ctx context.Context, username, password string) (uint64, error) {
	hash, err := utils.HashPassword(password, r.cost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash) VALUES (?,?)",
		username, hash)
	if err != nil {
		// MySQL 1062 = duplicate entry on the unique username index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, username, password_hash, created_at FROM users WHERE username=? LIMIT 1",
		username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, username, password_hash, created_at FROM users WHERE user_id=? LIMIT 1",
		id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, err
}
