package ports

import (
	"context"

	"github.com/jhoicas/cartelera-api/internal/domain/entity"
)

// IdentityProvider define el puerto de salida hacia el proveedor de identidad (Keycloak).
// Cada llamada es bloqueante; el contexto debe llevar un timeout.
type IdentityProvider interface {
	// FetchServiceToken obtiene un access token de servicio (client credentials).
	// Los fallos envuelven domain.ErrAuthProviderUnavailable.
	FetchServiceToken(ctx context.Context) (string, error)

	// CreateRemoteUser crea la identidad remota y devuelve su id.
	// Los fallos (incluido 409) envuelven domain.ErrRemoteUserCreationFailed.
	CreateRemoteUser(ctx context.Context, profile entity.UserProfile, token string) (string, error)
}
