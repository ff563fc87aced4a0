// Package testutil reúne dobles en memoria de los puertos para tests de casos de uso y handlers.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/cartelera-api/internal/domain"
	"github.com/jhoicas/cartelera-api/internal/domain/entity"
	"github.com/jhoicas/cartelera-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

// UserStore implementación en memoria de repository.UserRepository.
// Respeta la unicidad de DNI entre filas no borradas, igual que el índice parcial de PostgreSQL.
type UserStore struct {
	mu     sync.Mutex
	rows   map[int64]*entity.User
	roles  map[int64]*entity.Role
	nextID int64

	// Errores inyectables por operación.
	FindErr   error
	CreateErr error
	LinkErr   error
	DeleteErr error

	Creates int
	Deletes int
}

// NewUserStore crea el store con los roles sembrados por migración.
func NewUserStore() *UserStore {
	return &UserStore{
		rows: make(map[int64]*entity.User),
		roles: map[int64]*entity.Role{
			1: {ID: 1, Name: entity.RoleAdmin},
			2: {ID: 2, Name: entity.RoleOperador},
		},
	}
}

// Seed inserta usuarios sin pasar por Create (no cuenta en Creates).
func (s *UserStore) Seed(users ...*entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.nextID++
		cp := *u
		cp.ID = s.nextID
		u.ID = cp.ID
		s.rows[cp.ID] = &cp
	}
}

// Len cantidad de filas (incluye borradas lógicamente).
func (s *UserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Snapshot copia de todas las filas ordenadas por id.
func (s *UserStore) Snapshot() []entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.User, 0, len(s.rows))
	for _, u := range s.rows {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *UserStore) withRole(u *entity.User) *entity.User {
	cp := *u
	if r, ok := s.roles[u.RoleID]; ok {
		rc := *r
		cp.Role = &rc
	}
	return &cp
}

func (s *UserStore) Create(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	for _, u := range s.rows {
		if u.DeletedAt == nil && u.DNI == user.DNI {
			return domain.ErrDuplicateUser
		}
	}
	if _, ok := s.roles[user.RoleID]; !ok {
		return domain.ErrInvalidInput
	}
	s.nextID++
	user.ID = s.nextID
	cp := *user
	s.rows[cp.ID] = &cp
	s.Creates++
	return nil
}

func (s *UserStore) FindByDNI(_ context.Context, dni string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	for _, u := range s.rows {
		if u.DeletedAt == nil && u.DNI == dni {
			return s.withRole(u), nil
		}
	}
	return nil, nil
}

func (s *UserStore) GetByID(_ context.Context, id int64) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[id]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	return s.withRole(u), nil
}

func (s *UserStore) FindByKeycloakID(_ context.Context, idKeycloak string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.rows {
		if u.DeletedAt == nil && u.IDKeycloak != nil && *u.IDKeycloak == idKeycloak {
			return s.withRole(u), nil
		}
	}
	return nil, nil
}

func (s *UserStore) active() []*entity.User {
	var list []*entity.User
	for _, u := range s.rows {
		if u.DeletedAt == nil {
			list = append(list, s.withRole(u))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list
}

func (s *UserStore) ListAll(_ context.Context) ([]*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active(), nil
}

func (s *UserStore) List(_ context.Context, filter repository.UserFilter, page, limit int) ([]*entity.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	term := strings.ToLower(filter.Search)
	var matched []*entity.User
	for _, u := range s.active() {
		if len(term) > 1 {
			roleName := ""
			if u.Role != nil {
				roleName = u.Role.Name
			}
			if !strings.Contains(strings.ToLower(u.Name), term) &&
				!strings.Contains(strings.ToLower(u.DNI), term) &&
				!strings.Contains(strings.ToLower(roleName), term) {
				continue
			}
		}
		matched = append(matched, u)
	}
	total := len(matched)
	from := domain.Offset(page, limit)
	if from > total {
		from = total
	}
	to := from + limit
	if to > total {
		to = total
	}
	return matched[from:to], total, nil
}

func (s *UserStore) Update(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[user.ID]
	if !ok || u.DeletedAt != nil {
		return domain.ErrNotFound
	}
	u.Name = user.Name
	u.PasswordHash = user.PasswordHash
	u.RoleID = user.RoleID
	u.UpdatedAt = user.UpdatedAt
	return nil
}

func (s *UserStore) SetKeycloakID(_ context.Context, dni, idKeycloak string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LinkErr != nil {
		return s.LinkErr
	}
	for _, u := range s.rows {
		if u.DeletedAt == nil && u.DNI == dni && u.IDKeycloak == nil {
			ref := idKeycloak
			u.IDKeycloak = &ref
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *UserStore) SoftDelete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[id]
	if !ok || u.DeletedAt != nil {
		return domain.ErrNotFound
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

func (s *UserStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.rows, id)
	s.Deletes++
	return nil
}
