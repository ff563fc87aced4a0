package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cartelera-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "cartelera-api", cfg.App.Name)
	assert.Equal(t, "http://localhost:8080", cfg.Keycloak.URL)
	assert.Equal(t, "cartelera", cfg.Keycloak.Realm)
	assert.Equal(t, "cartelera-back", cfg.Keycloak.ClientID)
	assert.Empty(t, cfg.Keycloak.ClientSecret, "el secreto nunca debe tener valor por defecto")
	assert.Equal(t, 10*time.Second, cfg.Keycloak.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Saga.StepTimeout)
	assert.Equal(t, "http://localhost:8080/realms/cartelera/protocol/openid-connect/certs", cfg.Auth.JWKSURL)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestLoad_EnvSobrescribe(t *testing.T) {
	t.Setenv("KEYCLOAK_URL", "https://sso.unahur.edu.ar/")
	t.Setenv("KEYCLOAK_REALM", "campus")
	t.Setenv("KEYCLOAK_CLIENT_SECRET", "s3cr3t")
	t.Setenv("KEYCLOAK_TIMEOUT_SECONDS", "3")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.Keycloak.ClientSecret)
	assert.Equal(t, 3*time.Second, cfg.Keycloak.Timeout)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "https://sso.unahur.edu.ar/realms/campus/protocol/openid-connect/certs", cfg.Auth.JWKSURL)
	require.NoError(t, cfg.Validate())
}

func TestValidate_SinSecretoFalla(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KEYCLOAK_CLIENT_SECRET")
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "cartelera", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/cartelera?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
