package dto

// RoleResponse rol asignable a un usuario.
type RoleResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
