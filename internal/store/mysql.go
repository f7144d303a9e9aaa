package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const documentTableDDL = `
CREATE TABLE IF NOT EXISTS document_store (
	id TINYINT PRIMARY KEY,
	body LONGTEXT NOT NULL,
	updated_at DATETIME NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`

// MySQLBackend keeps the whole document in one row of document_store.
type MySQLBackend struct {
	DB *sql.DB
}

func NewMySQLBackend(db *sql.DB) *MySQLBackend {
	return &MySQLBackend{DB: db}
}

func (b *MySQLBackend) EnsureSchema(ctx context.Context) error {
	_, err := b.DB.ExecContext(ctx, documentTableDDL)
	return err
}

func (b *MySQLBackend) Load(ctx context.Context) ([]byte, error) {
	var body string
	err := b.DB.QueryRowContext(ctx, `SELECT body FROM document_store WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

func (b *MySQLBackend) Save(ctx context.Context, data []byte) error {
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO document_store (id, body, updated_at) VALUES (1, ?, ?)
		ON DUPLICATE KEY UPDATE body = VALUES(body), updated_at = VALUES(updated_at)`,
		string(data), time.Now().UTC(),
	); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
