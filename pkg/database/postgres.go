package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ShatadruDhar/tekshila/pkg/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// pingTimeout corta el arranque si la base o Redis no responden
const pingTimeout = 5 * time.Second

// NewPostgresDB abre el pool de conexiones del rastro de auditoría y lo
// verifica con un ping acotado antes de entregarlo
func NewPostgresDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
