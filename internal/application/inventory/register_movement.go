package inventory

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInput).
func (uc *MovementUseCase) RegisterMovementFromRequest(ctx context.Context, organizationID, userID string, in dto.CreateMovementRequest) (*dto.StockMovementResponse, error) {
	return uc.RegisterMovement(ctx, MovementInput{
		OrganizationID:  organizationID,
		UserID:          userID,
		ProductID:       in.ProductID,
		Type:            in.MovementType,
		Quantity:        in.Quantity,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
	})
}
