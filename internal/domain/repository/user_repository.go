package repository

import (
	"context"

	"github.com/jhoicas/cartelera-api/internal/domain/entity"
)

// UserFilter criterios del listado paginado de usuarios.
type UserFilter struct {
	Search string // coincidencia parcial sin distinguir mayúsculas en nombre, DNI o rol
}

// UserRepository define el puerto de persistencia para User (DIP).
// Las lecturas ignoran filas con borrado lógico.
type UserRepository interface {
	// Create inserta con id_keycloak y deleted_at en NULL y completa user.ID.
	// Devuelve domain.ErrDuplicateUser si ya hay un usuario activo con ese DNI.
	Create(ctx context.Context, user *entity.User) error
	FindByDNI(ctx context.Context, dni string) (*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	FindByKeycloakID(ctx context.Context, idKeycloak string) (*entity.User, error)
	ListAll(ctx context.Context) ([]*entity.User, error)
	List(ctx context.Context, filter UserFilter, page, limit int) ([]*entity.User, int, error)
	Update(ctx context.Context, user *entity.User) error
	// SetKeycloakID vincula el usuario activo con su identidad remota. Solo escribe si aún no tenía.
	SetKeycloakID(ctx context.Context, dni, idKeycloak string) error
	SoftDelete(ctx context.Context, id int64) error
	// Delete borra físicamente; solo lo usa la compensación del alta.
	Delete(ctx context.Context, id int64) error
}
