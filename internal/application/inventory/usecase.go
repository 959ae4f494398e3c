package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// MovementUseCase movimientos manuales de stock (carga, merma, conteo) e historial.
type MovementUseCase struct {
	txRunner     TxRunner
	adjuster     *StockAdjuster
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	adjuster *StockAdjuster,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:     txRunner,
		adjuster:     adjuster,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

// MovementInput entrada para registrar un movimiento manual.
type MovementInput struct {
	OrganizationID  string
	UserID          string
	ProductID       string
	Type            string
	Quantity        int
	ReferenceNumber string
	Notes           string
}

// RegisterMovement valida el movimiento y lo aplica en una transacción (UPDATE atómico + insert del movimiento).
func (uc *MovementUseCase) RegisterMovement(ctx context.Context, in MovementInput) (*dto.StockMovementResponse, error) {
	if in.ProductID == "" || !entity.ValidMovementType(in.Type) {
		return nil, domain.ErrInvalidInput
	}

	var (
		mov   *entity.StockMovement
		stock int
	)
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		var err error
		mov, stock, err = uc.adjuster.Apply(ctx, repos, Adjustment{
			OrganizationID: in.OrganizationID,
			ProductID:      in.ProductID,
			Type:           in.Type,
			Quantity:       in.Quantity,
			Reference:      in.ReferenceNumber,
			Notes:          in.Notes,
			ActorID:        in.UserID,
			At:             time.Now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	out := toMovementResponse(mov)
	out.StockAfter = &stock
	return &out, nil
}

// List historial de movimientos de la organización.
func (uc *MovementUseCase) List(ctx context.Context, organizationID string, q dto.MovementListQuery, page dto.PageRequest) (*dto.StockMovementListResponse, error) {
	page.DefaultPage()
	f := repository.MovementFilter{
		ProductID: q.ProductID,
		Type:      q.MovementType,
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	var err error
	if f.From, err = parseDate(q.From); err != nil {
		return nil, err
	}
	if f.To, err = parseDate(q.To); err != nil {
		return nil, err
	}
	return uc.list(ctx, organizationID, f)
}

// ProductHistory movimientos de un producto; 404 si el producto no es de la organización.
func (uc *MovementUseCase) ProductHistory(ctx context.Context, organizationID, productID string, page dto.PageRequest) (*dto.StockMovementListResponse, error) {
	p, err := uc.productRepo.GetByID(ctx, organizationID, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	page.DefaultPage()
	return uc.list(ctx, organizationID, repository.MovementFilter{ProductID: productID, Limit: page.Limit, Offset: page.Offset})
}

func (uc *MovementUseCase) list(ctx context.Context, organizationID string, f repository.MovementFilter) (*dto.StockMovementListResponse, error) {
	list, total, err := uc.movementRepo.List(ctx, organizationID, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.StockMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total},
	}, nil
}

func toMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:              m.ID,
		ProductID:       m.ProductID,
		ProductName:     m.ProductName,
		MovementType:    m.Type,
		Quantity:        m.Quantity,
		ReferenceNumber: m.ReferenceNumber,
		Notes:           m.Notes,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
	}
}

// parseDate interpreta YYYY-MM-DD; vacío = sin filtro.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &t, nil
}
