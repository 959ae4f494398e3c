package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	txRunner     inventory.TxRunner
	adjuster     *inventory.StockAdjuster
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	txRunner inventory.TxRunner,
	adjuster *inventory.StockAdjuster,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, txRunner: txRunner, adjuster: adjuster}
}

// Create crea un producto. Si trae stock inicial, el alta y el movimiento "in" van en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, organizationID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.PurchasePrice.IsNegative() || in.SellPrice.IsNegative() || in.ReorderLevel < 0 || in.InitialStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Unit == "" {
		in.Unit = entity.UnitPiece
	}
	if in.Status == "" {
		in.Status = entity.ProductStatusActive
	}
	if !entity.ValidUnit(in.Unit) || !entity.ValidProductStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}
	category, err := uc.resolveCategory(ctx, organizationID, in.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		ProductCode:    strings.TrimSpace(in.ProductCode),
		Name:           strings.TrimSpace(in.Name),
		SKU:            strings.TrimSpace(in.SKU),
		Unit:           in.Unit,
		PurchasePrice:  in.PurchasePrice,
		SellPrice:      in.SellPrice,
		ReorderLevel:   in.ReorderLevel,
		Barcode:        normalizeBarcode(in.Barcode),
		Status:         in.Status,
		Description:    in.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if category != nil {
		product.CategoryID = &category.ID
		product.CategoryName = category.Name
	}

	if in.InitialStock == 0 {
		if err := uc.repo.Create(ctx, product); err != nil {
			return nil, err
		}
		return toProductResponse(product), nil
	}

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		_, stock, err := uc.adjuster.Apply(ctx, repos, inventory.Adjustment{
			OrganizationID: organizationID,
			ProductID:      product.ID,
			Type:           entity.MovementTypeIn,
			Quantity:       in.InitialStock,
			Notes:          "stock inicial",
			ActorID:        userID,
			At:             now,
		})
		product.CurrentStock = stock
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la organización.
func (uc *ProductUseCase) GetByID(ctx context.Context, organizationID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar el stock (se maneja vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, organizationID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.CategoryID != nil {
		category, err := uc.resolveCategory(ctx, organizationID, in.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID, product.CategoryName = nil, ""
		if category != nil {
			product.CategoryID = &category.ID
			product.CategoryName = category.Name
		}
	}
	if in.ProductCode != nil {
		product.ProductCode = strings.TrimSpace(*in.ProductCode)
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.SKU != nil {
		product.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Unit != nil {
		if !entity.ValidUnit(*in.Unit) {
			return nil, domain.ErrInvalidInput
		}
		product.Unit = *in.Unit
	}
	if in.PurchasePrice != nil {
		if in.PurchasePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.SellPrice != nil {
		if in.SellPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.SellPrice = *in.SellPrice
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.ReorderLevel = *in.ReorderLevel
	}
	if in.Barcode != nil {
		product.Barcode = normalizeBarcode(in.Barcode)
	}
	if in.Status != nil {
		if !entity.ValidProductStatus(*in.Status) {
			return nil, domain.ErrInvalidInput
		}
		product.Status = *in.Status
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if product.Name == "" || product.SKU == "" {
		return nil, domain.ErrInvalidInput
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos de la organización con búsqueda, categoría y paginación.
func (uc *ProductUseCase) List(ctx context.Context, organizationID string, q dto.ProductListQuery, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, organizationID, repository.ProductFilter{
		Search:     q.Search,
		CategoryID: q.CategoryID,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Delete elimina un producto. Si figura en ventas o compras devuelve ErrConflict.
func (uc *ProductUseCase) Delete(ctx context.Context, organizationID, id string) error {
	return uc.repo.Delete(ctx, organizationID, id)
}

// resolveCategory valida que la categoría (si viene) sea de la organización.
func (uc *ProductUseCase) resolveCategory(ctx context.Context, organizationID string, categoryID *string) (*entity.Category, error) {
	if categoryID == nil || *categoryID == "" {
		return nil, nil
	}
	c, err := uc.categoryRepo.GetByID(ctx, organizationID, *categoryID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func normalizeBarcode(b *string) *string {
	if b == nil {
		return nil
	}
	v := strings.TrimSpace(*b)
	if v == "" {
		return nil
	}
	return &v
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		CategoryID:    p.CategoryID,
		CategoryName:  p.CategoryName,
		ProductCode:   p.ProductCode,
		Name:          p.Name,
		SKU:           p.SKU,
		Unit:          p.Unit,
		PurchasePrice: p.PurchasePrice,
		SellPrice:     p.SellPrice,
		ReorderLevel:  p.ReorderLevel,
		CurrentStock:  p.CurrentStock,
		StockStatus:   p.StockStatus(),
		Barcode:       p.Barcode,
		Status:        p.Status,
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
