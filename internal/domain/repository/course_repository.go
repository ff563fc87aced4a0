package repository

import (
	"context"

	"github.com/jhoicas/cartelera-api/internal/domain/entity"
)

// CourseRepository define el puerto de persistencia para Course (DIP).
type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) error
	GetByID(ctx context.Context, id int64) (*entity.Course, error)
	List(ctx context.Context) ([]*entity.Course, error)
	ListBySector(ctx context.Context, sectorID int64) ([]*entity.Course, error)
	Update(ctx context.Context, course *entity.Course) error
	SoftDelete(ctx context.Context, id int64) error
}
