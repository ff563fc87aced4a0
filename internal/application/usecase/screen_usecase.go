package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/cartelera-api/internal/application/dto"
	"github.com/jhoicas/cartelera-api/internal/domain"
	"github.com/jhoicas/cartelera-api/internal/domain/entity"
	"github.com/jhoicas/cartelera-api/internal/domain/repository"
)

// ScreenUseCase CRUD de pantallas.
type ScreenUseCase struct {
	repo repository.ScreenRepository
}

func NewScreenUseCase(repo repository.ScreenRepository) *ScreenUseCase {
	return &ScreenUseCase{repo: repo}
}

func (uc *ScreenUseCase) Create(ctx context.Context, in dto.CreateScreenRequest) (*dto.ScreenResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	now := time.Now()
	s := &entity.Screen{
		Name:      name,
		Location:  strings.TrimSpace(in.Location),
		SectorID:  in.SectorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return screenToResponse(s), nil
}

func (uc *ScreenUseCase) List(ctx context.Context) ([]dto.ScreenResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ScreenResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *screenToResponse(s))
	}
	return out, nil
}

// GetByID devuelve nil si no existe o está borrada.
func (uc *ScreenUseCase) GetByID(ctx context.Context, id int64) (*dto.ScreenResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}
	return screenToResponse(s), nil
}

func (uc *ScreenUseCase) Update(ctx context.Context, id int64, in dto.UpdateScreenRequest) (*dto.ScreenResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name vacío", domain.ErrInvalidInput)
		}
		s.Name = name
	}
	if in.Location != nil {
		s.Location = strings.TrimSpace(*in.Location)
	}
	if in.SectorID != nil {
		s.SectorID = in.SectorID
	}
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return screenToResponse(s), nil
}

func (uc *ScreenUseCase) Remove(ctx context.Context, id int64) error {
	return uc.repo.SoftDelete(ctx, id)
}

func screenToResponse(s *entity.Screen) *dto.ScreenResponse {
	return &dto.ScreenResponse{
		ID:        s.ID,
		Name:      s.Name,
		Location:  s.Location,
		SectorID:  s.SectorID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
