package repository

import (
	"context"

	"github.com/jhoicas/cartelera-api/internal/domain/entity"
)

// RoleRepository define el puerto de lectura de roles.
type RoleRepository interface {
	List(ctx context.Context) ([]*entity.Role, error)
}
