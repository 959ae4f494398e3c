package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivos por organización y serie (tabla document_sequences).
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el repositorio. Usar con la tx del documento.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el consecutivo. El upsert bloquea la fila hasta el fin de la tx.
func (r *SequenceRepo) Next(ctx context.Context, organizationID, series string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO document_sequences (organization_id, series, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (organization_id, series)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`, organizationID, series).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", series, err)
	}
	return n, nil
}
