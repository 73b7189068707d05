// Package jwt verifica los access tokens del proveedor de identidad (HS256, estilo Supabase).
// Generate solo se usa en pruebas y herramientas locales: en producción los tokens los emite el proveedor.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret secreto no configurado.
var ErrEmptySecret = errors.New("jwt: secret vacío")

// Claims claims del proveedor de identidad: sub = id de usuario, email y rol del proveedor
// ("authenticated"); el rol de la aplicación vive en profiles, no en el token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Identity datos mínimos del usuario autenticado.
type Identity struct {
	UserID string
	Email  string
}

// VerifyOptions validaciones opcionales de iss y aud.
type VerifyOptions struct {
	Issuer   string
	Audience string
}

// Generate genera un token HS256 con sub y email.
func Generate(secret, userID, email, issuer string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{"authenticated"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Role:  "authenticated",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma, expiración y (si se configuran) iss y aud.
// Retorna error si el token es inválido, expirado, con firma incorrecta o sin sub.
func Parse(secret, tokenString string, opts VerifyOptions) (Identity, error) {
	if secret == "" {
		return Identity{}, ErrEmptySecret
	}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, parserOpts...)
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("claims inválidos")
	}
	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("token sin sub")
	}
	return Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
