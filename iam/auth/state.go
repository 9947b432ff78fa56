package auth

import (
	"crypto/rand"
	"encoding/base64"
)

// stateEntropyBytes produce 256 bits de entropía por estado OAuth.
const stateEntropyBytes = 32

// GenerateState genera un valor de estado OAuth criptográficamente aleatorio,
// codificado URL-safe para viajar como query param y cookie.
func GenerateState() string {
	b := make([]byte, stateEntropyBytes)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand no falla en plataformas soportadas
		panic("auth: crypto/rand unavailable: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// ValidateState compara el estado retornado por el callback contra el
// almacenado en el navegador. La comparación es exacta y sensible a
// mayúsculas; estados ausentes nunca validan.
func ValidateState(returned, stored string) bool {
	if returned == "" || stored == "" {
		return false
	}
	return returned == stored
}
