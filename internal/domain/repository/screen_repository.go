package repository

import (
	"context"

	"github.com/jhoicas/cartelera-api/internal/domain/entity"
)

// ScreenRepository define el puerto de persistencia para Screen (DIP).
type ScreenRepository interface {
	Create(ctx context.Context, screen *entity.Screen) error
	GetByID(ctx context.Context, id int64) (*entity.Screen, error)
	List(ctx context.Context) ([]*entity.Screen, error)
	Update(ctx context.Context, screen *entity.Screen) error
	SoftDelete(ctx context.Context, id int64) error
}
