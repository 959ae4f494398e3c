package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// ContactMessageRepository persistencia de mensajes del formulario de contacto.
type ContactMessageRepository interface {
	Create(ctx context.Context, m *entity.ContactMessage) error
	List(ctx context.Context, onlyUnread bool, limit, offset int) ([]*entity.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
}
