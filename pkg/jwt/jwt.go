package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token emitidos.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrWrongType el token es válido pero no del tipo esperado (ej. refresh usado como access).
var ErrWrongType = errors.New("jwt: tipo de token incorrecto")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role viaja en el token para resolver las capacidades sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"` // admin | manager | staff | operator
	TokenType      string `json:"token_type"`
}

// Params datos para firmar un token.
type Params struct {
	Secret         string
	Issuer         string
	UserID         string
	OrganizationID string
	Role           string
	TokenType      string
	ExpMinutes     int
}

// Generate genera un token JWT firmado (HS256) con un jti único para poder revocarlo.
func Generate(p Params) (string, error) {
	if p.Secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if p.TokenType == "" {
		p.TokenType = TypeAccess
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    p.Issuer,
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(p.ExpMinutes) * time.Minute)),
		},
		UserID:         p.UserID,
		OrganizationID: p.OrganizationID,
		Role:           p.Role,
		TokenType:      p.TokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(p.Secret))
}

// Parse valida firma y expiración y devuelve los claims.
// Si expectedType no está vacío, el token debe ser de ese tipo.
func Parse(secret, tokenString, expectedType string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if expectedType != "" && claims.TokenType != expectedType {
		return nil, ErrWrongType
	}
	return claims, nil
}

// Remaining tiempo de vida restante del token (0 si ya expiró).
func (c *Claims) Remaining() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	d := time.Until(c.ExpiresAt.Time)
	if d < 0 {
		return 0
	}
	return d
}
