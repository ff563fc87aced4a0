package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/cartelera-api/internal/domain"
	"github.com/jhoicas/cartelera-api/internal/domain/entity"
	"github.com/jhoicas/cartelera-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userSelect = `
	SELECT u.id, u.dni, u.name, u.password_hash, u.role_id, r.name, u.id_keycloak,
	       u.created_at, u.updated_at, u.deleted_at
	FROM users u
	JOIN roles r ON r.id = u.role_id`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var role entity.Role
	if err := row.Scan(
		&u.ID, &u.DNI, &u.Name, &u.PasswordHash, &u.RoleID, &role.Name, &u.IDKeycloak,
		&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	); err != nil {
		return nil, err
	}
	role.ID = u.RoleID
	u.Role = &role
	return &u, nil
}

// Create persiste un nuevo usuario sin vínculo con Keycloak.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (dni, name, password_hash, role_id, id_keycloak, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, NULL, $5, $6, NULL)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		user.DNI, user.Name, user.PasswordHash, user.RoleID, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicateUser
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: rol %d inexistente", domain.ErrInvalidInput, user.RoleID)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.IDKeycloak = nil
	user.DeletedAt = nil
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, userSelect+" WHERE "+where+" AND u.deleted_at IS NULL", arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// FindByDNI usuario activo con ese DNI o nil.
func (r *UserRepo) FindByDNI(ctx context.Context, dni string) (*entity.User, error) {
	return r.findOne(ctx, "u.dni = $1", dni)
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findOne(ctx, "u.id = $1", id)
}

func (r *UserRepo) FindByKeycloakID(ctx context.Context, idKeycloak string) (*entity.User, error) {
	return r.findOne(ctx, "u.id_keycloak = $1", idKeycloak)
}

func (r *UserRepo) collect(rows pgx.Rows) ([]*entity.User, error) {
	defer rows.Close()
	list := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// ListAll usuarios activos, más recientes primero.
func (r *UserRepo) ListAll(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, userSelect+" WHERE u.deleted_at IS NULL ORDER BY u.id DESC")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return r.collect(rows)
}

// List página de usuarios activos y el total que coincide con el filtro.
// Página y conteo se consultan en paralelo, así que requiere el pool y no una tx.
func (r *UserRepo) List(ctx context.Context, filter repository.UserFilter, page, limit int) ([]*entity.User, int, error) {
	where := " WHERE u.deleted_at IS NULL"
	var args []any
	if len(filter.Search) > 1 {
		args = append(args, likePattern(filter.Search))
		where += " AND (u.name ILIKE $1 OR u.dni ILIKE $1 OR r.name ILIKE $1)"
	}

	var (
		list  []*entity.User
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pageArgs := append(append([]any{}, args...), limit, domain.Offset(page, limit))
		n := len(args)
		query := fmt.Sprintf("%s%s ORDER BY u.id DESC LIMIT $%d OFFSET $%d", userSelect, where, n+1, n+2)
		rows, err := r.q.Query(gctx, query, pageArgs...)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		list, err = r.collect(rows)
		return err
	})
	g.Go(func() error {
		query := "SELECT COUNT(*) FROM users u JOIN roles r ON r.id = u.role_id" + where
		if err := r.q.QueryRow(gctx, query, args...).Scan(&total); err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Update actualiza nombre, hash y rol.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET name = $2, password_hash = $3, role_id = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query, user.ID, user.Name, user.PasswordHash, user.RoleID, user.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: rol %d inexistente", domain.ErrInvalidInput, user.RoleID)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetKeycloakID escribe el vínculo una sola vez.
func (r *UserRepo) SetKeycloakID(ctx context.Context, dni, idKeycloak string) error {
	query := `
		UPDATE users SET id_keycloak = $2, updated_at = now()
		WHERE dni = $1 AND deleted_at IS NULL AND id_keycloak IS NULL`
	tag, err := r.q.Exec(ctx, query, dni, idKeycloak)
	if err != nil {
		return fmt.Errorf("link user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marca deleted_at.
func (r *UserRepo) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina físicamente la fila.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
