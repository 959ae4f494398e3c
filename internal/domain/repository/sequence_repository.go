package repository

import "context"

// Series de numeración de documentos.
const (
	SequenceSale     = "sale"
	SequencePurchase = "purchase"
)

// SequenceRepository entrega consecutivos por organización y serie.
// Debe usarse dentro de la transacción del documento para no dejar huecos.
type SequenceRepository interface {
	Next(ctx context.Context, organizationID, series string) (int64, error)
}
