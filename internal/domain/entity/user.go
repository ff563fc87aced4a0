package entity

import "time"

// User representa un usuario de la cartelera. DNI es la clave de identidad entre los no borrados.
type User struct {
	ID           int64
	DNI          string
	Name         string
	PasswordHash string // bcrypt, nunca la contraseña plana
	RoleID       int64
	Role         *Role   // cargado solo en consultas con join
	IDKeycloak   *string // se completa una única vez al vincular con Keycloak
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time // borrado lógico
}

// IsLinked informa si el usuario ya tiene identidad remota.
func (u *User) IsLinked() bool {
	return u.IDKeycloak != nil && *u.IDKeycloak != ""
}

// UserProfile datos de entrada para dar de alta un usuario (local + Keycloak).
type UserProfile struct {
	DNI      string
	Name     string
	Password string // plana; solo vive mientras dura el alta
	RoleID   int64
}
