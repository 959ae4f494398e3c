package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// ContactUseCase mensajes del formulario público de contacto.
type ContactUseCase struct {
	repo repository.ContactMessageRepository
}

// NewContactUseCase construye el caso de uso.
func NewContactUseCase(repo repository.ContactMessageRepository) *ContactUseCase {
	return &ContactUseCase{repo: repo}
}

// Submit guarda un mensaje nuevo (no leído).
func (uc *ContactUseCase) Submit(ctx context.Context, in dto.ContactMessageRequest) (*dto.ContactMessageResponse, error) {
	m := &entity.ContactMessage{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   strings.TrimSpace(in.Message),
		CreatedAt: time.Now(),
	}
	if m.Name == "" || m.Email == "" || m.Subject == "" || m.Message == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toContactResponse(m), nil
}

// List mensajes, más recientes primero.
func (uc *ContactUseCase) List(ctx context.Context, onlyUnread bool, page dto.PageRequest) ([]dto.ContactMessageResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, onlyUnread, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ContactMessageResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toContactResponse(m))
	}
	return out, nil
}

// MarkRead marca un mensaje como leído.
func (uc *ContactUseCase) MarkRead(ctx context.Context, id string) error {
	return uc.repo.MarkRead(ctx, id)
}

func toContactResponse(m *entity.ContactMessage) *dto.ContactMessageResponse {
	return &dto.ContactMessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}
