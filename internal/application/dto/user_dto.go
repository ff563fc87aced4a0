package dto

import "time"

// CreateUserRequest entrada del alta (password en texto, se hashea en el alta).
type CreateUserRequest struct {
	DNI      string `json:"dni"`
	Name     string `json:"name"`
	Password string `json:"password"`
	RoleID   int64  `json:"roleId"`
}

// UpdateUserRequest actualización parcial; los campos nil no se tocan.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
	RoleID   *int64  `json:"roleId,omitempty"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         int64         `json:"id"`
	DNI        string        `json:"dni"`
	Name       string        `json:"name"`
	RoleID     int64         `json:"roleId"`
	Role       *RoleResponse `json:"role,omitempty"`
	IDKeycloak *string       `json:"idKeycloak"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// UserPageRequest query de /users/page.
type UserPageRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
}

// UserPageResponse alias concreto para la documentación OpenAPI.
type UserPageResponse = PageResponse[UserResponse]
