package kernel

// ============================================================================
// Context Types - Tipos para context.Context
// ============================================================================

type ContextKey string

const (
	// SessionContextKey es la clave para almacenar la sesión en fiber.Locals
	SessionContextKey ContextKey = "session"

	// RequestIDKey es la clave para almacenar el ID de la petición
	RequestIDKey ContextKey = "request_id"
)
