package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.ContactMessageRepository = (*ContactMessageRepo)(nil)

// ContactMessageRepo mensajes del formulario público de contacto.
type ContactMessageRepo struct {
	q Querier
}

// NewContactMessageRepository construye el adaptador.
func NewContactMessageRepository(q Querier) *ContactMessageRepo {
	return &ContactMessageRepo{q: q}
}

// Create guarda un mensaje.
func (r *ContactMessageRepo) Create(ctx context.Context, m *entity.ContactMessage) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO contact_messages (id, name, email, subject, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Name, m.Email, m.Subject, m.Message, m.IsRead, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

// List mensajes más recientes primero.
func (r *ContactMessageRepo) List(ctx context.Context, onlyUnread bool, limit, offset int) ([]*entity.ContactMessage, error) {
	query := `SELECT id, name, email, subject, message, is_read, created_at FROM contact_messages`
	if onlyUnread {
		query += ` WHERE NOT is_read`
	}
	query += ` ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()
	var list []*entity.ContactMessage
	for rows.Next() {
		var m entity.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// MarkRead marca un mensaje como leído.
func (r *ContactMessageRepo) MarkRead(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE contact_messages SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark contact message read: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
