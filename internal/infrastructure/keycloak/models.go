package keycloak

// tokenResponse respuesta del endpoint de token (client credentials).
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// userRepresentation cuerpo de alta en la Admin REST API.
type userRepresentation struct {
	Username    string              `json:"username"`
	Enabled     bool                `json:"enabled"`
	Attributes  map[string][]string `json:"attributes,omitempty"`
	Credentials []credential        `json:"credentials,omitempty"`
}

type credential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}
