package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/cartelera-api/internal/domain"
	"github.com/jhoicas/cartelera-api/internal/domain/entity"
	"github.com/jhoicas/cartelera-api/internal/domain/repository"
	"github.com/jhoicas/cartelera-api/pkg/config"
)

// setupTestDB levanta PostgreSQL en un contenedor y aplica las migraciones.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("test de integración omitido: TEST_INTEGRATION no definida")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"docker.io/postgres:16-alpine",
		tcpostgres.WithDatabase("cartelera_test"),
		tcpostgres.WithUsername("cartelera"),
		tcpostgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("no se pudo detener el contenedor: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, Migrate(dsn, zerolog.Nop()))

	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func newUser(dni string) *entity.User {
	now := time.Now()
	return &entity.User{DNI: dni, Name: "Usuario " + dni, PasswordHash: "hash", RoleID: 2, CreatedAt: now, UpdatedAt: now}
}

func TestUserRepo_Integration(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	t.Run("DNI único entre activos", func(t *testing.T) {
		u := newUser("111")
		require.NoError(t, repo.Create(ctx, u))
		assert.NotZero(t, u.ID)

		err := repo.Create(ctx, newUser("111"))
		assert.ErrorIs(t, err, domain.ErrDuplicateUser)

		require.NoError(t, repo.SoftDelete(ctx, u.ID))
		require.NoError(t, repo.Create(ctx, newUser("111")), "un DNI borrado lógicamente se puede reutilizar")
	})

	t.Run("rol inexistente", func(t *testing.T) {
		u := newUser("222")
		u.RoleID = 999
		assert.ErrorIs(t, repo.Create(ctx, u), domain.ErrInvalidInput)
	})

	t.Run("vínculo con Keycloak se escribe una vez", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, newUser("333")))
		require.NoError(t, repo.SetKeycloakID(ctx, "333", "kc-333"))
		assert.ErrorIs(t, repo.SetKeycloakID(ctx, "333", "kc-otro"), domain.ErrNotFound)

		got, err := repo.FindByKeycloakID(ctx, "kc-333")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "333", got.DNI)
		assert.Equal(t, entity.RoleOperador, got.Role.Name)
	})

	t.Run("compensación borra la fila", func(t *testing.T) {
		u := newUser("444")
		require.NoError(t, repo.Create(ctx, u))
		require.NoError(t, repo.Delete(ctx, u.ID))
		got, err := repo.FindByDNI(ctx, "444")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestUserRepo_Paginacion_Integration(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		require.NoError(t, repo.Create(ctx, newUser(fmt.Sprintf("4%07d", i))))
	}

	list, total, err := repo.List(ctx, repository.UserFilter{}, 2, 10)
	require.NoError(t, err)
	assert.Len(t, list, 10)
	assert.Equal(t, 25, total)
	assert.Equal(t, 3, domain.TotalPages(total, 10))

	list, total, err = repo.List(ctx, repository.UserFilter{Search: "40000001"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)

	_, total, err = repo.List(ctx, repository.UserFilter{Search: "OPERADOR"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total, "busca también por nombre de rol")
}

func TestCourseRepo_Integration(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCourseRepository(pool)
	ctx := context.Background()

	sector := int64(7)
	now := time.Now()
	c := &entity.Course{Title: "Álgebra", Subject: "Matemática", Classroom: "A1", Schedule: "Lun 8:00", SectorID: &sector, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, c))
	require.NoError(t, repo.Create(ctx, &entity.Course{Title: "Física", CreatedAt: now, UpdatedAt: now}))

	bySector, err := repo.ListBySector(ctx, sector)
	require.NoError(t, err)
	require.Len(t, bySector, 1)
	assert.Equal(t, "Álgebra", bySector[0].Title)

	require.NoError(t, repo.SoftDelete(ctx, c.ID))
	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, repo.SoftDelete(ctx, c.ID), domain.ErrNotFound)
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", migrateURL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://u@h/db", migrateURL("postgresql://u@h/db"))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%ana%", likePattern("ana"))
	assert.Equal(t, `%50\%\_x%`, likePattern("50%_x"))
}
