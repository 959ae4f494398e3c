package ports

import (
	"context"
	"time"
)

// TokenBlacklist registro de tokens revocados (logout, rotación de refresh).
// Las entradas expiran solas tras ttl: no hace falta guardar un token más allá de su exp.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// RevokeOnce agrega el jti solo si no estaba; false = otro request ya lo revocó.
	RevokeOnce(ctx context.Context, jti string, ttl time.Duration) (bool, error)
}
