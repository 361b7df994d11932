package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/cleanshop/cart/pkg/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteSlot keeps slots as rows of cart_slots. Each Save is one upsert
// statement.
type SQLiteSlot struct {
	db *sql.DB
}

func OpenSQLiteSlot(path string) (*SQLiteSlot, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}

	if err := sqlite.RunMigrations(db, migrations, "migrations", "cart_slot_migrations"); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteSlot{db: db}, nil
}

func (s *SQLiteSlot) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, `SELECT value FROM cart_slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query slot: %w", err)
	}
	return value, nil
}

func (s *SQLiteSlot) Save(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO cart_slots (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, key, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to upsert slot: %w", err)
	}
	return nil
}

func (s *SQLiteSlot) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	return nil
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
