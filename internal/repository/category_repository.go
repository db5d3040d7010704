package repository

import (
	"context"
	"database/sql"

	"todoapp/internal/model"
)

// CategoryRepo encapsulates all database queries related to categories.
type CategoryRepo struct {
	db *sql.DB
}

// NewCategoryRepo constructs a CategoryRepo with the provided DB handle.
func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// ListByUser returns all categories owned by the user ordered by id.
func (r *CategoryRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Category, error) {
	const q = `SELECT category_id, user_id, category_name, created_at
	           FROM categories WHERE user_id = ? ORDER BY category_id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create inserts a new category for the user and returns its ID.
func (r *CategoryRepo) Create(ctx context.Context, userID uint64, name string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (user_id, category_name) VALUES (?,?)",
		userID, name)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Delete detaches the category from every task of the user referencing it
// and removes the category row.  Both steps run in one transaction so a
// partial result is never observable.  Deleting an absent or foreign id
// affects zero rows and is not an error.
func (r *CategoryRepo) Delete(ctx context.Context, userID, categoryID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"UPDATE tasks SET category_id=NULL WHERE category_id=? AND user_id=?",
		categoryID, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM categories WHERE category_id=? AND user_id=?",
		categoryID, userID); err != nil {
		return err
	}
	return tx.Commit()
}
