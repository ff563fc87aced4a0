package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// Claims es el subconjunto de un access token de Keycloak que usa la API.
// Subject (sub) es el id del usuario en Keycloak, el mismo que se guarda en users.id_keycloak.
type Claims struct {
	jwt.RegisteredClaims
	PreferredUsername string      `json:"preferred_username,omitempty"`
	RealmAccess       RealmAccess `json:"realm_access"`
}

// RealmAccess roles de realm asignados al usuario.
type RealmAccess struct {
	Roles []string `json:"roles"`
}

// HasAnyRole informa si el token trae alguno de los roles indicados.
func (c *Claims) HasAnyRole(roles ...string) bool {
	for _, have := range c.RealmAccess.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Generate genera un token HS256 con la misma forma que los de Keycloak. Se usa en entorno local y tests.
func Generate(secret, subject, username string, roles []string, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		PreferredUsername: username,
		RealmAccess:       RealmAccess{Roles: roles},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// HMACKeyfunc devuelve una keyfunc que solo acepta firmas HMAC con el secreto dado.
func HMACKeyfunc(secret string) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}
}

// JWKSKeyfunc descarga y refresca en segundo plano las claves públicas del realm.
// El refresco se detiene cuando ctx se cancela.
func JWKSKeyfunc(ctx context.Context, jwksURL string) (jwt.Keyfunc, error) {
	k, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("jwt: crear keyfunc JWKS: %w", err)
	}
	return k.Keyfunc, nil
}

// Parse valida firma, expiración y (si se indica) issuer, y devuelve los claims.
func Parse(tokenString string, keyFunc jwt.Keyfunc, issuer string) (*Claims, error) {
	if keyFunc == nil {
		return nil, fmt.Errorf("jwt: keyfunc no configurada")
	}
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, keyFunc, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token sin sub")
	}
	return claims, nil
}
