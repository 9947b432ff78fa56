package publishinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/craftable/errx"
	"github.com/ShatadruDhar/tekshila/publish"
	"github.com/jmoiron/sqlx"
)

// PostgresAuditRepository implementación de PostgreSQL para AuditRepository
type PostgresAuditRepository struct {
	db *sqlx.DB
}

// NewPostgresAuditRepository crea una nueva instancia del repositorio de auditoría
func NewPostgresAuditRepository(db *sqlx.DB) publish.AuditRepository {
	return &PostgresAuditRepository{
		db: db,
	}
}

// EnsureSchema crea la tabla de auditoría si no existe
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS publish_audit (
			id             TEXT PRIMARY KEY,
			actor          TEXT NOT NULL,
			owner          TEXT NOT NULL,
			repo           TEXT NOT NULL,
			branch         TEXT NOT NULL DEFAULT '',
			stage          TEXT NOT NULL DEFAULT '',
			success        BOOLEAN NOT NULL,
			branch_created BOOLEAN NOT NULL,
			file_written   BOOLEAN NOT NULL,
			pr_number      INTEGER NOT NULL DEFAULT 0,
			created_at     TIMESTAMPTZ NOT NULL
		)`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return errx.Wrap(err, "failed to ensure publish audit schema", errx.TypeInternal)
	}

	return nil
}

// Record guarda el resultado de un intento de publicación
func (r *PostgresAuditRepository) Record(ctx context.Context, record publish.AuditRecord) error {
	query := `
		INSERT INTO publish_audit (
			id, actor, owner, repo, branch, stage, success,
			branch_created, file_written, pr_number, created_at
		) VALUES (
			:id, :actor, :owner, :repo, :branch, :stage, :success,
			:branch_created, :file_written, :pr_number, :created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return errx.Wrap(err, "failed to record publish audit entry", errx.TypeInternal).
			WithDetail("owner", record.Owner).
			WithDetail("repo", record.Repo)
	}

	return nil
}

// PurgeOlderThan elimina registros anteriores al corte
func (r *PostgresAuditRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM publish_audit
		WHERE created_at < $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, errx.Wrap(err, "failed to purge publish audit entries", errx.TypeInternal)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	return rowsAffected, nil
}
