package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// OperatorFilter filtros del listado de operadores (contains sobre texto).
type OperatorFilter struct {
	FullName   string
	Phone      string
	IsActive   *bool
	IsVerified *bool
}

// UserRepository define el puerto de persistencia para User (DIP).
// Las búsquedas devuelven (nil, nil) si no hay fila.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByPhone(ctx context.Context, phone string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	TouchLastLogin(ctx context.Context, userID string) error
	ListByOrganization(ctx context.Context, organizationID string) ([]*entity.User, error)
	ListOperators(ctx context.Context, organizationID string, f OperatorFilter) ([]*entity.User, error)
}
