// Package keycloak cliente HTTP mínimo de Keycloak: token de servicio y alta de usuarios.
package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/cartelera-api/internal/application/ports"
	"github.com/jhoicas/cartelera-api/internal/domain"
	"github.com/jhoicas/cartelera-api/internal/domain/entity"
	"github.com/jhoicas/cartelera-api/pkg/config"
)

// maxErrorBody bytes del cuerpo upstream que se incluyen en los errores.
const maxErrorBody = 512

var _ ports.IdentityProvider = (*Client)(nil)

// Client implementa ports.IdentityProvider contra la API de Keycloak.
// No cachea el token: cada alta pide uno nuevo.
type Client struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string

	httpClient *http.Client
	log        zerolog.Logger
}

// New crea el cliente. Si httpClient es nil se usa uno con cfg.Timeout.
func New(cfg config.KeycloakConfig, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.URL, "/"),
		realm:        cfg.Realm,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   httpClient,
		log:          log.With().Str("component", "keycloak_client").Logger(),
	}
}

func (c *Client) tokenEndpoint() string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", c.baseURL, url.PathEscape(c.realm))
}

func (c *Client) usersEndpoint() string {
	return fmt.Sprintf("%s/admin/realms/%s/users", c.baseURL, url.PathEscape(c.realm))
}

// FetchServiceToken obtiene un access token por client credentials.
func (c *Client) FetchServiceToken(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenEndpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: armar request de token: %v", domain.ErrAuthProviderUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error incluye la URL pero no el cuerpo, así que el secreto no aparece.
		return "", fmt.Errorf("%w: %v", domain.ErrAuthProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := readSnippet(resp.Body)
		c.log.Warn().Int("status", resp.StatusCode).Str("body", body).Msg("Keycloak rechazó la solicitud de token")
		return "", fmt.Errorf("%w: token endpoint respondió %d: %s", domain.ErrAuthProviderUnavailable, resp.StatusCode, body)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("%w: decodificar token: %v", domain.ErrAuthProviderUnavailable, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: respuesta sin access_token", domain.ErrAuthProviderUnavailable)
	}
	c.log.Debug().Int("expires_in", tok.ExpiresIn).Msg("token de servicio obtenido")
	return tok.AccessToken, nil
}

// CreateRemoteUser crea el usuario en el realm y devuelve su id, tomado del header Location.
// Un 409 (ya existe en Keycloak) se trata como cualquier otro fallo.
func (c *Client) CreateRemoteUser(ctx context.Context, profile entity.UserProfile, token string) (string, error) {
	payload := userRepresentation{
		Username:   profile.Name,
		Enabled:    true,
		Attributes: map[string][]string{"DNI": {profile.DNI}},
		Credentials: []credential{
			{Type: "password", Value: profile.Password, Temporary: false},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: serializar usuario: %v", domain.ErrRemoteUserCreationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.usersEndpoint(), bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: armar request: %v", domain.ErrRemoteUserCreationFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRemoteUserCreationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := readSnippet(resp.Body)
		c.log.Warn().Int("status", resp.StatusCode).Str("body", body).Str("dni", profile.DNI).Msg("Keycloak rechazó el alta de usuario")
		return "", fmt.Errorf("%w: respuesta %d: %s", domain.ErrRemoteUserCreationFailed, resp.StatusCode, body)
	}

	ref := refFromLocation(resp.Header.Get("Location"))
	if ref == "" {
		return "", fmt.Errorf("%w: respuesta sin Location", domain.ErrRemoteUserCreationFailed)
	}
	return ref, nil
}

// refFromLocation último segmento del path de Location.
func refFromLocation(loc string) string {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return ""
	}
	if u, err := url.Parse(loc); err == nil {
		loc = u.Path
	}
	loc = strings.TrimRight(loc, "/")
	if loc == "" {
		return ""
	}
	ref := path.Base(loc)
	if ref == "." || ref == "/" {
		return ""
	}
	return ref
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(b))
}
