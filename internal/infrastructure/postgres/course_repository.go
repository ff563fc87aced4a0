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

var _ repository.CourseRepository = (*CourseRepo)(nil)

// CourseRepo implementación de CourseRepository (usable con pool o tx).
type CourseRepo struct {
	q Querier
}

// NewCourseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCourseRepository(q Querier) *CourseRepo {
	return &CourseRepo{q: q}
}

const courseColumns = `id, title, subject, classroom, schedule, sector_id, created_at, updated_at, deleted_at`

func scanCourse(row pgx.Row) (*entity.Course, error) {
	var c entity.Course
	err := row.Scan(&c.ID, &c.Title, &c.Subject, &c.Classroom, &c.Schedule, &c.SectorID,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo curso.
func (r *CourseRepo) Create(ctx context.Context, course *entity.Course) error {
	query := `
		INSERT INTO courses (title, subject, classroom, schedule, sector_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		course.Title, course.Subject, course.Classroom, course.Schedule, course.SectorID,
		course.CreatedAt, course.UpdatedAt,
	).Scan(&course.ID)
	if err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

// GetByID obtiene un curso activo por ID.
func (r *CourseRepo) GetByID(ctx context.Context, id int64) (*entity.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1 AND deleted_at IS NULL`
	c, err := scanCourse(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

func (r *CourseRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Course, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CourseRepo) List(ctx context.Context) ([]*entity.Course, error) {
	return r.list(ctx, `SELECT `+courseColumns+` FROM courses WHERE deleted_at IS NULL ORDER BY id DESC`)
}

// ListBySector cursos activos de un sector.
func (r *CourseRepo) ListBySector(ctx context.Context, sectorID int64) ([]*entity.Course, error) {
	return r.list(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE sector_id = $1 AND deleted_at IS NULL ORDER BY schedule, id`,
		sectorID)
}

// Update actualiza un curso.
func (r *CourseRepo) Update(ctx context.Context, course *entity.Course) error {
	query := `
		UPDATE courses SET title = $2, subject = $3, classroom = $4, schedule = $5, sector_id = $6, updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query,
		course.ID, course.Title, course.Subject, course.Classroom, course.Schedule, course.SectorID, course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca deleted_at.
func (r *CourseRepo) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE courses SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
