package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cartelera-api/internal/domain"
	"github.com/jhoicas/cartelera-api/internal/domain/entity"
	"github.com/jhoicas/cartelera-api/internal/domain/repository"
)

var _ repository.ScreenRepository = (*ScreenRepo)(nil)

// ScreenRepo implementación de ScreenRepository.
type ScreenRepo struct {
	q Querier
}

func NewScreenRepository(q Querier) *ScreenRepo {
	return &ScreenRepo{q: q}
}

func (r *ScreenRepo) Create(ctx context.Context, screen *entity.Screen) error {
	query := `
		INSERT INTO screens (name, location, sector_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query,
		screen.Name, screen.Location, screen.SectorID, screen.CreatedAt, screen.UpdatedAt,
	).Scan(&screen.ID); err != nil {
		return fmt.Errorf("insert screen: %w", err)
	}
	return nil
}

func (r *ScreenRepo) GetByID(ctx context.Context, id int64) (*entity.Screen, error) {
	query := `
		SELECT id, name, location, sector_id, created_at, updated_at, deleted_at
		FROM screens WHERE id = $1 AND deleted_at IS NULL`
	var s entity.Screen
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Location, &s.SectorID, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get screen: %w", err)
	}
	return &s, nil
}

func (r *ScreenRepo) List(ctx context.Context) ([]*entity.Screen, error) {
	query := `
		SELECT id, name, location, sector_id, created_at, updated_at, deleted_at
		FROM screens WHERE deleted_at IS NULL ORDER BY id DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list screens: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Screen, 0)
	for rows.Next() {
		var s entity.Screen
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.SectorID, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan screen: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

func (r *ScreenRepo) Update(ctx context.Context, screen *entity.Screen) error {
	query := `
		UPDATE screens SET name = $2, location = $3, sector_id = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query, screen.ID, screen.Name, screen.Location, screen.SectorID, screen.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update screen: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca deleted_at y actualiza updated_at.
func (r *ScreenRepo) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE screens SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete screen: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
