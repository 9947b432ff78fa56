package iam

// ============================================================================
// OAuth Providers - Proveedores de identidad soportados
// ============================================================================

// OAuthProvider representa los proveedores OAuth soportados
type OAuthProvider string

const (
	OAuthProviderGitHub OAuthProvider = "GITHUB"
)

// GetProviderName retorna el nombre legible del proveedor
func (p OAuthProvider) GetProviderName() string {
	switch p {
	case OAuthProviderGitHub:
		return "GitHub"
	default:
		return "Unknown"
	}
}
