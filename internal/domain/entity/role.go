package entity

// Roles sembrados por migración.
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
)

// Role rol de un usuario de la cartelera.
type Role struct {
	ID   int64
	Name string
}
