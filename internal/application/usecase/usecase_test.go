package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cartelera-api/internal/application/dto"
	"github.com/jhoicas/cartelera-api/internal/application/ports"
	"github.com/jhoicas/cartelera-api/internal/application/provisioning"
	"github.com/jhoicas/cartelera-api/internal/application/usecase"
	"github.com/jhoicas/cartelera-api/internal/domain"
	"github.com/jhoicas/cartelera-api/internal/domain/entity"
	"github.com/jhoicas/cartelera-api/internal/testutil"
)

func newUserUseCase(store *testutil.UserStore) *usecase.UserUseCase {
	idp := &testutil.IdentityProvider{Token: "tok", Ref: "kc-1"}
	saga := provisioning.NewSaga(store, idp, provisioning.Config{StepTimeout: time.Second, BcryptCost: bcrypt.MinCost}, zerolog.Nop(), nil)
	return usecase.NewUserUseCase(store, saga, bcrypt.MinCost)
}

func TestUserUseCase_CreateDevuelveRol(t *testing.T) {
	store := testutil.NewUserStore()
	uc := newUserUseCase(store)

	out, err := uc.Create(context.Background(), dto.CreateUserRequest{DNI: "30111222", Name: "Ana", Password: "secret", RoleID: 1})
	require.NoError(t, err)
	assert.Equal(t, "kc-1", *out.IDKeycloak)
	require.NotNil(t, out.Role)
	assert.Equal(t, entity.RoleAdmin, out.Role.Name)
}

func TestUserUseCase_Page(t *testing.T) {
	store := testutil.NewUserStore()
	for i := 0; i < 25; i++ {
		store.Seed(&entity.User{DNI: fmt.Sprintf("%08d", i), Name: fmt.Sprintf("Usuario %d", i), RoleID: 2})
	}
	uc := newUserUseCase(store)

	page, err := uc.Page(context.Background(), dto.UserPageRequest{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.Page)

	page, err = uc.Page(context.Background(), dto.UserPageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)

	page, err = uc.Page(context.Background(), dto.UserPageRequest{Search: "usuario 7"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestUserUseCase_UpdateRehasheaPassword(t *testing.T) {
	store := testutil.NewUserStore()
	u := &entity.User{DNI: "1", Name: "Ana", PasswordHash: "x", RoleID: 2}
	store.Seed(u)
	uc := newUserUseCase(store)

	name, pass, role := "Ana María", "nueva", int64(1)
	out, err := uc.Update(context.Background(), u.ID, dto.UpdateUserRequest{Name: &name, Password: &pass, RoleID: &role})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", out.Name)
	assert.Equal(t, int64(1), out.RoleID)

	rows := store.Snapshot()
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(rows[0].PasswordHash), []byte("nueva")))

	empty := ""
	_, err = uc.Update(context.Background(), u.ID, dto.UpdateUserRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(context.Background(), 999, dto.UpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserUseCase_RemoveOcultaAlUsuario(t *testing.T) {
	store := testutil.NewUserStore()
	u := &entity.User{DNI: "1", Name: "Ana", RoleID: 2}
	store.Seed(u)
	uc := newUserUseCase(store)

	require.NoError(t, uc.Remove(context.Background(), u.ID))
	got, err := uc.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, uc.Remove(context.Background(), u.ID), domain.ErrNotFound)
}

func TestCourseUseCase_Notifica(t *testing.T) {
	notifier := &testutil.Notifier{}
	uc := usecase.NewCourseUseCase(testutil.NewCourseStore(), notifier, zerolog.Nop())
	ctx := context.Background()

	sector := int64(3)
	created, err := uc.Create(ctx, dto.CreateCourseRequest{Title: "Álgebra", SectorID: &sector})
	require.NoError(t, err)

	title := "Álgebra II"
	_, err = uc.Update(ctx, created.ID, dto.UpdateCourseRequest{Title: &title})
	require.NoError(t, err)
	require.NoError(t, uc.Remove(ctx, created.ID))

	require.Len(t, notifier.Events, 3)
	assert.Equal(t, ports.EventCourse, notifier.Events[0].Event)
	assert.Equal(t, usecase.ActionCreated, notifier.Events[0].Action)
	assert.Equal(t, usecase.ActionUpdated, notifier.Events[1].Action)
	assert.Equal(t, "Álgebra II", notifier.Events[1].Data.(*dto.CourseResponse).Title)
	assert.Equal(t, usecase.ActionDeleted, notifier.Events[2].Action)
}

func TestCourseUseCase_FalloDeNotificacionNoFalla(t *testing.T) {
	notifier := &testutil.Notifier{Err: errors.New("redis caído")}
	uc := usecase.NewCourseUseCase(testutil.NewCourseStore(), notifier, zerolog.Nop())

	out, err := uc.Create(context.Background(), dto.CreateCourseRequest{Title: "Física"})
	require.NoError(t, err)
	assert.NotZero(t, out.ID)
}

func TestCourseUseCase_ListBySector(t *testing.T) {
	uc := usecase.NewCourseUseCase(testutil.NewCourseStore(), nil, zerolog.Nop())
	ctx := context.Background()
	s1, s2 := int64(1), int64(2)
	_, _ = uc.Create(ctx, dto.CreateCourseRequest{Title: "A", SectorID: &s1})
	_, _ = uc.Create(ctx, dto.CreateCourseRequest{Title: "B", SectorID: &s2})
	_, _ = uc.Create(ctx, dto.CreateCourseRequest{Title: "C", SectorID: &s1})

	list, err := uc.ListBySector(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = uc.Create(ctx, dto.CreateCourseRequest{Title: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestScreenUseCase_SoftDelete(t *testing.T) {
	store := testutil.NewScreenStore()
	uc := usecase.NewScreenUseCase(store)
	ctx := context.Background()

	s, err := uc.Create(ctx, dto.CreateScreenRequest{Name: "Hall", Location: "PB"})
	require.NoError(t, err)
	require.NoError(t, uc.Remove(ctx, s.ID))

	got, err := uc.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	raw, ok := store.Raw(s.ID)
	require.True(t, ok)
	require.NotNil(t, raw.DeletedAt)
	assert.False(t, raw.UpdatedAt.Before(s.UpdatedAt))
}
