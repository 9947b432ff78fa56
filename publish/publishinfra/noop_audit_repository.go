package publishinfra

import (
	"context"
	"time"

	"github.com/ShatadruDhar/tekshila/publish"
)

// NoopAuditRepository descarta el rastro de auditoría. Se usa cuando el
// servicio corre sin base de datos; el pipeline no depende de la auditoría.
type NoopAuditRepository struct{}

// NewNoopAuditRepository crea un repositorio de auditoría que no persiste nada
func NewNoopAuditRepository() publish.AuditRepository {
	return &NoopAuditRepository{}
}

// Record descarta el registro
func (r *NoopAuditRepository) Record(ctx context.Context, record publish.AuditRecord) error {
	return nil
}

// PurgeOlderThan no tiene nada que purgar
func (r *NoopAuditRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}
