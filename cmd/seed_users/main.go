// seed_users da de alta usuarios en lote a partir de un CSV, pasando cada fila por el mismo
// flujo de alta que POST /api/users (fila local + identidad en Keycloak).
//
// Uso: go run ./cmd/seed_users [-charset iso-8859-1] usuarios.csv
// Encabezado esperado: dni,nombre,password,rol_id
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/cartelera-api/internal/application/provisioning"
	"github.com/jhoicas/cartelera-api/internal/domain"
	"github.com/jhoicas/cartelera-api/internal/domain/entity"
	"github.com/jhoicas/cartelera-api/internal/infrastructure/keycloak"
	"github.com/jhoicas/cartelera-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cartelera-api/pkg/config"
	"github.com/jhoicas/cartelera-api/pkg/logger"
)

var expectedHeader = []string{"dni", "nombre", "password", "rol_id"}

// row fila del CSV ya convertida; Line es la línea del archivo (encabezado = 1).
type row struct {
	Line    int
	Profile entity.UserProfile
}

func main() {
	charset := flag.String("charset", "utf-8", "codificación del CSV: utf-8 o iso-8859-1")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_users [-charset iso-8859-1] usuarios.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	in, err := decodeCharset(f, *charset)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	rows, err := parseRows(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_users"})
	if cfg.Keycloak.ClientSecret == "" {
		log.Fatal().Msg("KEYCLOAK_CLIENT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	saga := provisioning.NewSaga(
		postgres.NewUserRepository(pool),
		keycloak.New(cfg.Keycloak, nil, log.Zerolog()),
		provisioning.Config{StepTimeout: cfg.Saga.StepTimeout},
		log.Zerolog(),
		nil,
	)

	var created, failed int
	for _, r := range rows {
		u, err := saga.Provision(ctx, r.Profile)
		if err != nil {
			failed++
			log.Error().Err(err).Int("line", r.Line).Str("dni", r.Profile.DNI).
				Str("outcome", outcome(err)).Msg("fila rechazada")
			continue
		}
		created++
		log.Info().Int("line", r.Line).Str("dni", u.DNI).Int64("id", u.ID).Msg("usuario creado")
	}

	fmt.Printf("Filas: %d  creadas: %d  fallidas: %d\n", len(rows), created, failed)
	if failed > 0 {
		pool.Close()
		os.Exit(1)
	}
}

// decodeCharset envuelve r para que entregue UTF-8.
func decodeCharset(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(charset, "_", "-")) {
	case "", "utf-8", "utf8":
		return r, nil
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("charset no soportado: %q", charset)
	}
}

// parseRows valida el encabezado y convierte cada fila. Un error de formato corta la lectura
// completa: no se da de alta nada de un archivo mal armado.
func parseRows(r io.Reader) ([]row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = len(expectedHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("archivo vacío")
		}
		return nil, err
	}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if h != expectedHeader[i] {
			return nil, fmt.Errorf("encabezado inválido: se esperaba %s", strings.Join(expectedHeader, ","))
		}
	}

	var rows []row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		roleID, err := strconv.ParseInt(strings.TrimSpace(rec[3]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("línea %d: rol_id inválido %q", line, rec[3])
		}
		rows = append(rows, row{
			Line: line,
			Profile: entity.UserProfile{
				DNI:      strings.TrimSpace(rec[0]),
				Name:     strings.TrimSpace(rec[1]),
				Password: rec[2],
				RoleID:   roleID,
			},
		})
	}
	return rows, nil
}

// outcome etiqueta corta para el log de cada fila.
func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateUser):
		return "duplicate"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrProvisioningFailed):
		return "provisioning_failed"
	default:
		return "error"
	}
}
