package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema statements are idempotent so Migrate can run on every startup.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id       BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(64)  NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		created_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS categories (
		category_id   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id       BIGINT UNSIGNED NOT NULL,
		category_name VARCHAR(100) NOT NULL,
		created_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_categories_user (user_id),
		CONSTRAINT fk_categories_user FOREIGN KEY (user_id) REFERENCES users (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tasks (
		task_id     BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id     BIGINT UNSIGNED NOT NULL,
		title       VARCHAR(255) NOT NULL,
		due_date    DATE         NULL,
		priority    ENUM('high','medium','low') NOT NULL DEFAULT 'medium',
		status      ENUM('pending','completed') NOT NULL DEFAULT 'pending',
		category_id BIGINT UNSIGNED NULL,
		position    INT       NOT NULL DEFAULT 0,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_tasks_user (user_id),
		KEY idx_tasks_category (category_id),
		CONSTRAINT fk_tasks_user FOREIGN KEY (user_id) REFERENCES users (user_id),
		CONSTRAINT fk_tasks_category FOREIGN KEY (category_id) REFERENCES categories (category_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS sessions (
		token_hash VARCHAR(64) NOT NULL PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		username   VARCHAR(64) NOT NULL,
		expires_at DATETIME    NOT NULL,
		created_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_sessions_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the application tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
	}
	return nil
}
