package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/cartelera-api/internal/domain"
)

func TestParseRows(t *testing.T) {
	in := "dni,nombre,password,rol_id\n123, Ana Pérez ,secreto,1\n456,Luis,otra,2\n"
	rows, err := parseRows(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "123", rows[0].Profile.DNI)
	assert.Equal(t, "Ana Pérez", rows[0].Profile.Name)
	assert.Equal(t, int64(1), rows[0].Profile.RoleID)
	assert.Equal(t, 3, rows[1].Line)
}

func TestParseRows_Errores(t *testing.T) {
	cases := map[string]string{
		"vacío":             "",
		"encabezado ajeno":  "id,name,pass,role\n1,a,b,1\n",
		"rol no numérico":   "dni,nombre,password,rol_id\n1,a,b,admin\n",
		"columnas de menos": "dni,nombre,password,rol_id\n1,a,b\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseRows(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestDecodeCharset_ISO88591(t *testing.T) {
	latin, err := charmap.ISO8859_1.NewEncoder().String("dni,nombre,password,rol_id\n9,José Núñez,x,2\n")
	require.NoError(t, err)

	r, err := decodeCharset(bytes.NewReader([]byte(latin)), "ISO-8859-1")
	require.NoError(t, err)
	rows, err := parseRows(r)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "José Núñez", rows[0].Profile.Name)

	_, err = decodeCharset(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "duplicate", outcome(fmt.Errorf("x: %w", domain.ErrDuplicateUser)))
	assert.Equal(t, "invalid", outcome(domain.ErrInvalidInput))
	assert.Equal(t, "provisioning_failed", outcome(&domain.ProvisioningError{Cause: domain.ErrAuthProviderUnavailable}))
	assert.Equal(t, "error", outcome(assert.AnError))
}
