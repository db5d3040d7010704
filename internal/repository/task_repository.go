package repository

import (
	"context"
	"database/sql"
	"errors"

	"todoapp/internal/model"
)

// TaskRepo encapsulates all database queries related to tasks.  Every
// query carries an ownership clause on user_id so that a task is only ever
// visible to, and mutable by, the user who created it.
type TaskRepo struct {
	db *sql.DB
}

// NewTaskRepo constructs a TaskRepo with the provided DB handle.
func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

// taskOrder is the single ordering policy for task lists: manual position
// first, then a deterministic chain for rows sharing a position (fresh
// rows default to the end, racing creates may collide): completed tasks
// last, dateless tasks last, earlier due dates first, higher priority
// first, newest first.
const taskOrder = ` ORDER BY t.position,
	(t.status = 'completed'),
	t.due_date IS NULL,
	t.due_date,
	CASE t.priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END,
	t.created_at DESC`

// ListByUser returns the user's tasks joined with their category names.
// status narrows the result to 'pending' or 'completed' rows when set and
// is ignored when empty.
func (r *TaskRepo) ListByUser(ctx context.Context, userID uint64, status string) ([]model.Task, error) {
	q := `SELECT t.task_id, t.user_id, t.title, t.due_date, t.priority, t.status,
	             t.category_id, c.category_name, t.position, t.created_at
	      FROM tasks t
	      LEFT JOIN categories c ON t.category_id = c.category_id
	      WHERE t.user_id = ?`
	args := []interface{}{userID}
	if status != "" {
		q += " AND t.status = ?"
		args = append(args, status)
	}
	q += taskOrder

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		var (
			t       model.Task
			due     sql.NullTime
			catID   sql.NullInt64
			catName sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &due, &t.Priority, &t.Status,
			&catID, &catName, &t.Position, &t.CreatedAt); err != nil {
			return nil, err
		}
		if due.Valid {
			t.DueDate = &model.DateOnly{Time: due.Time}
		}
		if catID.Valid {
			id := uint64(catID.Int64)
			t.CategoryID = &id
		}
		if catName.Valid {
			name := catName.String
			t.CategoryName = &name
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create inserts a task for the user and returns its ID.  The position is
// assigned as the user's current maximum plus one in the same INSERT so
// the task lands at the end of the list.  A draft category id is checked
// against the user's own categories first.
func (r *TaskRepo) Create(ctx context.Context, userID uint64, d model.TaskDraft) (uint64, error) {
	if err := r.checkCategory(ctx, userID, d.CategoryID); err != nil {
		return 0, err
	}
	const q = `INSERT INTO tasks (user_id, title, due_date, priority, category_id, position)
	           SELECT ?, ?, ?, ?, ?, COALESCE(MAX(position)+1, 0)
	           FROM tasks WHERE user_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		userID, d.Title, dueArg(d.DueDate), d.Priority, d.CategoryID, userID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update replaces the mutable fields of a task.  It returns ErrNotFound
// when the user owns no task with that id; a cross-user id therefore
// never leaks data, it simply does not match.
func (r *TaskRepo) Update(ctx context.Context, userID, taskID uint64, d model.TaskDraft) error {
	if err := r.checkCategory(ctx, userID, d.CategoryID); err != nil {
		return err
	}
	const q = `UPDATE tasks SET title=?, due_date=?, priority=?, category_id=?
	           WHERE task_id=? AND user_id=?`
	res, err := r.db.ExecContext(ctx, q,
		d.Title, dueArg(d.DueDate), d.Priority, d.CategoryID, taskID, userID)
	if err != nil {
		return err
	}
	return requireMatch(res)
}

// SetStatus updates only the status column.  Returns ErrNotFound when the
// task does not exist for the user.
func (r *TaskRepo) SetStatus(ctx context.Context, userID, taskID uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET status=? WHERE task_id=? AND user_id=?",
		status, taskID, userID)
	if err != nil {
		return err
	}
	return requireMatch(res)
}

// Delete removes a task.  Deleting an absent or foreign id affects zero
// rows and is treated as success.
func (r *TaskRepo) Delete(ctx context.Context, userID, taskID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE task_id=? AND user_id=?",
		taskID, userID)
	return err
}

// Reorder rewrites position = index for each id in the caller-supplied
// order.  All writes run in one transaction: either the whole new order
// is committed or none of it is.  Ids the user does not own match zero
// rows and are silently skipped.
func (r *TaskRepo) Reorder(ctx context.Context, userID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"UPDATE tasks SET position=? WHERE task_id=? AND user_id=?",
			i, id, userID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// checkCategory verifies that a draft category id, when present, names a
// category owned by the same user.
func (r *TaskRepo) checkCategory(ctx context.Context, userID uint64, categoryID *uint64) error {
	if categoryID == nil {
		return nil
	}
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM categories WHERE category_id=? AND user_id=? LIMIT 1",
		*categoryID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUnknownCategory
	}
	return err
}

// requireMatch maps "zero rows matched" onto ErrNotFound for updates.
func requireMatch(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// dueArg converts an optional date into a driver argument, NULL when absent.
func dueArg(d *model.DateOnly) interface{} {
	if d == nil {
		return nil
	}
	return d.Format("2006-01-02")
}
