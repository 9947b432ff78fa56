package publish

import (
	"context"
	"time"
)

// AuditRepository almacén del rastro de publicaciones. Las escrituras son
// best-effort: una falla aquí nunca debe afectar el resultado del pipeline.
type AuditRepository interface {
	// Record guarda el resultado de un intento de publicación
	Record(ctx context.Context, record AuditRecord) error

	// PurgeOlderThan elimina registros anteriores al corte y retorna cuántos
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
