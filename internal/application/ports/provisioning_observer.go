package ports

import "time"

// ProvisioningObserver recibe el resultado de cada alta de usuario (métricas).
// result es uno de: linked, duplicate, compensated, invalid, error.
type ProvisioningObserver interface {
	ObserveProvisioning(result string, elapsed time.Duration)
}
