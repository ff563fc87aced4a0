package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/cartelera-api/internal/application/dto"
	"github.com/jhoicas/cartelera-api/internal/application/ports"
	"github.com/jhoicas/cartelera-api/internal/domain"
	"github.com/jhoicas/cartelera-api/internal/domain/entity"
	"github.com/jhoicas/cartelera-api/internal/domain/repository"
)

// Acciones de las notificaciones de cursos.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// CourseUseCase CRUD de cursos con aviso en tiempo real a las pantallas.
type CourseUseCase struct {
	repo     repository.CourseRepository
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewCourseUseCase(repo repository.CourseRepository, notifier ports.Notifier, log zerolog.Logger) *CourseUseCase {
	return &CourseUseCase{
		repo:     repo,
		notifier: notifier,
		log:      log.With().Str("component", "course_usecase").Logger(),
	}
}

func (uc *CourseUseCase) Create(ctx context.Context, in dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title es requerido", domain.ErrInvalidInput)
	}
	now := time.Now()
	course := &entity.Course{
		Title:     title,
		Subject:   strings.TrimSpace(in.Subject),
		Classroom: strings.TrimSpace(in.Classroom),
		Schedule:  strings.TrimSpace(in.Schedule),
		SectorID:  in.SectorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, course); err != nil {
		return nil, err
	}
	out := courseToResponse(course)
	uc.notify(ctx, ActionCreated, out)
	return out, nil
}

func (uc *CourseUseCase) List(ctx context.Context) ([]dto.CourseResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return coursesToResponse(list), nil
}

// ListBySector cursos de un sector (lo que muestra cada pantalla).
func (uc *CourseUseCase) ListBySector(ctx context.Context, sectorID int64) ([]dto.CourseResponse, error) {
	list, err := uc.repo.ListBySector(ctx, sectorID)
	if err != nil {
		return nil, err
	}
	return coursesToResponse(list), nil
}

// GetByID devuelve nil si no existe.
func (uc *CourseUseCase) GetByID(ctx context.Context, id int64) (*dto.CourseResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	return courseToResponse(c), nil
}

func (uc *CourseUseCase) Update(ctx context.Context, id int64, in dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title vacío", domain.ErrInvalidInput)
		}
		c.Title = title
	}
	if in.Subject != nil {
		c.Subject = strings.TrimSpace(*in.Subject)
	}
	if in.Classroom != nil {
		c.Classroom = strings.TrimSpace(*in.Classroom)
	}
	if in.Schedule != nil {
		c.Schedule = strings.TrimSpace(*in.Schedule)
	}
	if in.SectorID != nil {
		c.SectorID = in.SectorID
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	out := courseToResponse(c)
	uc.notify(ctx, ActionUpdated, out)
	return out, nil
}

// Remove borrado lógico.
func (uc *CourseUseCase) Remove(ctx context.Context, id int64) error {
	if err := uc.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	uc.notify(ctx, ActionDeleted, map[string]int64{"id": id})
	return nil
}

// notify publica el cambio. Un fallo solo se registra.
func (uc *CourseUseCase) notify(ctx context.Context, action string, data any) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.Publish(ctx, ports.EventCourse, action, data); err != nil {
		uc.log.Warn().Err(err).Str("action", action).Msg("no se pudo notificar el cambio de curso")
	}
}

func coursesToResponse(list []*entity.Course) []dto.CourseResponse {
	out := make([]dto.CourseResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *courseToResponse(c))
	}
	return out
}

func courseToResponse(c *entity.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:        c.ID,
		Title:     c.Title,
		Subject:   c.Subject,
		Classroom: c.Classroom,
		Schedule:  c.Schedule,
		SectorID:  c.SectorID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
