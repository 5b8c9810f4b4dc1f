// Package auth issues and verifies the bearer tokens described in
// spec.md §6: a symmetric-signed JWT carrying {id: uuid, name: string}.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/msyu/cambia-arena/internal/models"
)

const tokenTTL = 72 * time.Hour

// Claims carries the identity embedded in a bearer token.
type Claims struct {
	ID   models.PlayerId
	Name string
}

// Issuer signs and verifies tokens with a single symmetric secret,
// matching the single `jwt.secret` config key in spec.md §6.
type Issuer struct {
	secret []byte
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// Issue signs a token for the given identity. id is generated by the
// caller when the request omitted one (see httpapi's /auth/token handler).
func (i *Issuer) Issue(id models.PlayerId, name string) (string, error) {
	claims := jwt.MapClaims{
		"id":   id.String(),
		"name": name,
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify parses and validates a bearer token string, returning the
// embedded Claims. Any malformed, unsigned, expired, or non-UUID-id
// token is rejected — the caller maps this to an InfraAuth / 401.
func (i *Issuer) Verify(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return Claims{}, models.NewInfraError(models.InfraAuth, fmt.Errorf("parse token: %w", err))
	}
	if !token.Valid {
		return Claims{}, models.NewInfraError(models.InfraAuth, fmt.Errorf("invalid token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, models.NewInfraError(models.InfraAuth, fmt.Errorf("malformed claims"))
	}

	rawID, ok := claims["id"].(string)
	if !ok {
		return Claims{}, models.NewInfraError(models.InfraAuth, fmt.Errorf("missing id claim"))
	}
	id, err := models.ParseId(rawID)
	if err != nil {
		return Claims{}, models.NewInfraError(models.InfraAuth, fmt.Errorf("id claim is not a uuid: %w", err))
	}
	name, _ := claims["name"].(string)

	return Claims{ID: id, Name: name}, nil
}
