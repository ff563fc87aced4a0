package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/cartelera-api/internal/domain"
	"github.com/jhoicas/cartelera-api/internal/domain/entity"
	"github.com/jhoicas/cartelera-api/internal/domain/repository"
)

var (
	_ repository.CourseRepository = (*CourseStore)(nil)
	_ repository.ScreenRepository = (*ScreenStore)(nil)
	_ repository.RoleRepository   = (*RoleStore)(nil)
)

// CourseStore cursos en memoria.
type CourseStore struct {
	mu     sync.Mutex
	rows   map[int64]*entity.Course
	nextID int64
}

func NewCourseStore() *CourseStore {
	return &CourseStore{rows: make(map[int64]*entity.Course)}
}

func (s *CourseStore) Create(_ context.Context, c *entity.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.ID = s.nextID
	cp := *c
	s.rows[cp.ID] = &cp
	return nil
}

func (s *CourseStore) GetByID(_ context.Context, id int64) (*entity.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	if !ok || c.DeletedAt != nil {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *CourseStore) filter(keep func(*entity.Course) bool) []*entity.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*entity.Course, 0)
	for _, c := range s.rows {
		if c.DeletedAt == nil && keep(c) {
			cp := *c
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list
}

func (s *CourseStore) List(_ context.Context) ([]*entity.Course, error) {
	return s.filter(func(*entity.Course) bool { return true }), nil
}

func (s *CourseStore) ListBySector(_ context.Context, sectorID int64) ([]*entity.Course, error) {
	return s.filter(func(c *entity.Course) bool { return c.SectorID != nil && *c.SectorID == sectorID }), nil
}

func (s *CourseStore) Update(_ context.Context, c *entity.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[c.ID]
	if !ok || cur.DeletedAt != nil {
		return domain.ErrNotFound
	}
	cp := *c
	s.rows[c.ID] = &cp
	return nil
}

func (s *CourseStore) SoftDelete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	if !ok || c.DeletedAt != nil {
		return domain.ErrNotFound
	}
	now := time.Now()
	c.DeletedAt = &now
	c.UpdatedAt = now
	return nil
}

// ScreenStore pantallas en memoria.
type ScreenStore struct {
	mu     sync.Mutex
	rows   map[int64]*entity.Screen
	nextID int64
}

func NewScreenStore() *ScreenStore {
	return &ScreenStore{rows: make(map[int64]*entity.Screen)}
}

func (s *ScreenStore) Create(_ context.Context, sc *entity.Screen) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	sc.ID = s.nextID
	cp := *sc
	s.rows[cp.ID] = &cp
	return nil
}

func (s *ScreenStore) GetByID(_ context.Context, id int64) (*entity.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.rows[id]
	if !ok || sc.DeletedAt != nil {
		return nil, nil
	}
	cp := *sc
	return &cp, nil
}

// Raw fila tal cual está guardada, incluso borrada.
func (s *ScreenStore) Raw(id int64) (entity.Screen, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.rows[id]
	if !ok {
		return entity.Screen{}, false
	}
	return *sc, true
}

func (s *ScreenStore) List(_ context.Context) ([]*entity.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*entity.Screen, 0)
	for _, sc := range s.rows {
		if sc.DeletedAt == nil {
			cp := *sc
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (s *ScreenStore) Update(_ context.Context, sc *entity.Screen) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[sc.ID]
	if !ok || cur.DeletedAt != nil {
		return domain.ErrNotFound
	}
	cp := *sc
	s.rows[sc.ID] = &cp
	return nil
}

func (s *ScreenStore) SoftDelete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.rows[id]
	if !ok || sc.DeletedAt != nil {
		return domain.ErrNotFound
	}
	now := time.Now()
	sc.DeletedAt = &now
	sc.UpdatedAt = now
	return nil
}

// RoleStore roles fijos admin y operador.
type RoleStore struct{}

func (RoleStore) List(_ context.Context) ([]*entity.Role, error) {
	return []*entity.Role{
		{ID: 1, Name: entity.RoleAdmin},
		{ID: 2, Name: entity.RoleOperador},
	}, nil
}
