// Package redis lista negra de tokens JWT revocados.
package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-backoffice/internal/application/ports"
)

const keyPrefix = "pos:token:revoked:"

var (
	_ ports.TokenBlacklist = (*TokenBlacklist)(nil)
	_ ports.TokenBlacklist = (*MemoryTokenBlacklist)(nil)
)

// TokenBlacklist guarda cada jti revocado como clave con TTL = vida restante del token.
type TokenBlacklist struct {
	client *goredis.Client
}

// NewClient abre la conexión a partir de una URL redis:// y verifica con PING.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: url inválida: %w", err)
	}
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

// NewTokenBlacklist construye la lista negra sobre un cliente existente.
func NewTokenBlacklist(client *goredis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Revoke agrega el jti. Un ttl <= 0 (token ya vencido) no necesita registro.
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, keyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis: revocar token: %w", err)
	}
	return nil
}

// IsRevoked indica si el jti está en la lista.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("redis: consultar token: %w", err)
	}
	return n > 0, nil
}

// RevokeOnce SET NX: atómico entre instancias.
func (b *TokenBlacklist) RevokeOnce(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}
	ok, err := b.client.SetNX(ctx, keyPrefix+jti, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis: revocar token: %w", err)
	}
	return ok, nil
}

// MemoryTokenBlacklist implementación en memoria para una sola instancia (REDIS_URL vacío) y tests.
type MemoryTokenBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time // jti -> vencimiento
	now     func() time.Time
}

// NewMemoryTokenBlacklist crea la lista en memoria.
func NewMemoryTokenBlacklist() *MemoryTokenBlacklist {
	return &MemoryTokenBlacklist{entries: make(map[string]time.Time), now: time.Now}
}

// Revoke agrega el jti hasta now+ttl y de paso purga las entradas vencidas.
func (b *MemoryTokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.purge()
	b.entries[jti] = now.Add(ttl)
	return nil
}

// RevokeOnce como Revoke, pero falla (false) si el jti ya estaba vigente en la lista.
func (b *MemoryTokenBlacklist) RevokeOnce(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.purge()
	if _, ok := b.entries[jti]; ok {
		return false, nil
	}
	b.entries[jti] = now.Add(ttl)
	return true, nil
}

// purge borra las entradas vencidas; requiere b.mu tomado.
func (b *MemoryTokenBlacklist) purge() time.Time {
	now := b.now()
	for k, exp := range b.entries {
		if !now.Before(exp) {
			delete(b.entries, k)
		}
	}
	return now
}

// IsRevoked indica si el jti sigue en la lista.
func (b *MemoryTokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.entries[jti]
	if !ok {
		return false, nil
	}
	if !b.now().Before(exp) {
		delete(b.entries, jti)
		return false, nil
	}
	return true, nil
}
