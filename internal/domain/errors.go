package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// Alta de usuarios (DNI + Keycloak).
	ErrDuplicateUser            = errors.New("el usuario ya existe")
	ErrAuthProviderUnavailable  = errors.New("no se pudo obtener el token de Keycloak")
	ErrRemoteUserCreationFailed = errors.New("Keycloak rechazó la creación del usuario")
	ErrProvisioningFailed       = errors.New("no se pudo crear el usuario en Keycloak")
	ErrCompensationIncomplete   = errors.New("no se pudo revertir el alta local del usuario")
)

// ProvisioningError es el único error que ve quien pide un alta una vez que la fila local existe.
// errors.Is(err, ErrProvisioningFailed) siempre es verdadero; Unwrap expone la causa del paso fallido.
type ProvisioningError struct {
	Step         string // token, remote-create, link
	Cause        error
	Compensation error // nil si la fila local se borró
}

func (e *ProvisioningError) Error() string {
	return ErrProvisioningFailed.Error()
}

func (e *ProvisioningError) Unwrap() error { return e.Cause }

func (e *ProvisioningError) Is(target error) bool {
	return target == ErrProvisioningFailed
}
