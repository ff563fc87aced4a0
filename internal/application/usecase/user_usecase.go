package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cartelera-api/internal/application/dto"
	"github.com/jhoicas/cartelera-api/internal/domain"
	"github.com/jhoicas/cartelera-api/internal/domain/entity"
	"github.com/jhoicas/cartelera-api/internal/domain/repository"
)

// UserProvisioner alta de usuario local + Keycloak (provisioning.Saga).
type UserProvisioner interface {
	Provision(ctx context.Context, profile entity.UserProfile) (*entity.User, error)
}

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo        repository.UserRepository
	provisioner UserProvisioner
	bcryptCost  int
}

// NewUserUseCase construye el caso de uso. bcryptCost se usa al cambiar la password.
func NewUserUseCase(repo repository.UserRepository, provisioner UserProvisioner, bcryptCost int) *UserUseCase {
	return &UserUseCase{repo: repo, provisioner: provisioner, bcryptCost: bcryptCost}
}

// Create da de alta el usuario en la base y en Keycloak.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.provisioner.Provision(ctx, entity.UserProfile{
		DNI:      in.DNI,
		Name:     in.Name,
		Password: in.Password,
		RoleID:   in.RoleID,
	})
	if err != nil {
		return nil, err
	}
	// Releer para devolver el rol; si falla se responde con lo que devolvió el alta.
	if full, err := uc.repo.GetByID(ctx, user.ID); err == nil && full != nil {
		user = full
	}
	return entityToUserResponse(user), nil
}

// List todos los usuarios activos.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return usersToResponse(users), nil
}

// Page listado paginado con búsqueda opcional.
func (uc *UserUseCase) Page(ctx context.Context, in dto.UserPageRequest) (*dto.UserPageResponse, error) {
	page, limit := domain.NormalizePage(in.Page, in.Limit)
	users, total, err := uc.repo.List(ctx, repository.UserFilter{Search: strings.TrimSpace(in.Search)}, page, limit)
	if err != nil {
		return nil, err
	}
	return &dto.UserPageResponse{
		Data:       usersToResponse(users),
		Page:       page,
		Total:      total,
		Limit:      limit,
		TotalPages: domain.TotalPages(total, limit),
	}, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// GetByKeycloakID usuario vinculado a una identidad de Keycloak (también /users/me).
func (uc *UserUseCase) GetByKeycloakID(ctx context.Context, idKeycloak string) (*dto.UserResponse, error) {
	user, err := uc.repo.FindByKeycloakID(ctx, idKeycloak)
	if err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// Update cambia nombre, password o rol. No sincroniza Keycloak.
func (uc *UserUseCase) Update(ctx context.Context, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name vacío", domain.ErrInvalidInput)
		}
		user.Name = name
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, fmt.Errorf("%w: password vacía", domain.ErrInvalidInput)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), uc.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hashear password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if in.RoleID != nil {
		if *in.RoleID <= 0 {
			return nil, fmt.Errorf("%w: roleId inválido", domain.ErrInvalidInput)
		}
		user.RoleID = *in.RoleID
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Remove borrado lógico.
func (uc *UserUseCase) Remove(ctx context.Context, id int64) error {
	return uc.repo.SoftDelete(ctx, id)
}

func usersToResponse(users []*entity.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *entityToUserResponse(u))
	}
	return out
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	resp := &dto.UserResponse{
		ID:         u.ID,
		DNI:        u.DNI,
		Name:       u.Name,
		RoleID:     u.RoleID,
		IDKeycloak: u.IDKeycloak,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	if u.Role != nil {
		resp.Role = &dto.RoleResponse{ID: u.Role.ID, Name: u.Role.Name}
	}
	return resp
}
