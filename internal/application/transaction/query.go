package transaction

import (
	"context"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/ledger"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// QueryUseCase consultas de ventas y compras.
type QueryUseCase struct {
	saleRepo     repository.SaleRepository
	purchaseRepo repository.PurchaseRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(saleRepo repository.SaleRepository, purchaseRepo repository.PurchaseRepository) *QueryUseCase {
	return &QueryUseCase{saleRepo: saleRepo, purchaseRepo: purchaseRepo}
}

// GetSale venta con ítems.
func (uc *QueryUseCase) GetSale(ctx context.Context, organizationID, id string) (*dto.SaleResponse, error) {
	s, err := uc.saleRepo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	out := ToSaleResponse(s)
	return &out, nil
}

// ListSales ventas filtradas por fecha y búsqueda.
func (uc *QueryUseCase) ListSales(ctx context.Context, organizationID string, q dto.DocumentListQuery, page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.DefaultPage()
	f, err := DocumentFilter(q)
	if err != nil {
		return nil, err
	}
	f.Limit, f.Offset = page.Limit, page.Offset
	list, total, err := uc.saleRepo.List(ctx, organizationID, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, ToSaleResponse(s))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total}}, nil
}

// GetPurchase compra con ítems.
func (uc *QueryUseCase) GetPurchase(ctx context.Context, organizationID, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.purchaseRepo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	out := ToPurchaseResponse(p)
	return &out, nil
}

// ListPurchases compras filtradas por fecha y búsqueda.
func (uc *QueryUseCase) ListPurchases(ctx context.Context, organizationID string, q dto.DocumentListQuery, page dto.PageRequest) (*dto.PurchaseListResponse, error) {
	page.DefaultPage()
	f, err := DocumentFilter(q)
	if err != nil {
		return nil, err
	}
	f.Limit, f.Offset = page.Limit, page.Offset
	list, total, err := uc.purchaseRepo.List(ctx, organizationID, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, ToPurchaseResponse(p))
	}
	return &dto.PurchaseListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total}}, nil
}

// DocumentFilter traduce la query HTTP (fechas YYYY-MM-DD) al filtro del repositorio, sin paginación.
func DocumentFilter(q dto.DocumentListQuery) (repository.DocumentFilter, error) {
	f := repository.DocumentFilter{Search: q.Search}
	for _, d := range []struct {
		raw string
		dst **time.Time
	}{{q.From, &f.From}, {q.To, &f.To}} {
		if d.raw == "" {
			continue
		}
		t, err := time.ParseInLocation(time.DateOnly, d.raw, time.Local)
		if err != nil {
			return f, domain.ErrInvalidInput
		}
		*d.dst = &t
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, domain.ErrInvalidInput
	}
	return f, nil
}

// ToSaleResponse mapea la venta (con o sin ítems) a su DTO.
func ToSaleResponse(s *entity.Sale) dto.SaleResponse {
	name := s.CustomerName
	if s.CustomerID == nil || name == "" {
		name = entity.WalkInCustomerName
	}
	out := dto.SaleResponse{
		ID:            s.ID,
		InvoiceNumber: s.InvoiceNumber,
		CustomerID:    s.CustomerID,
		CustomerName:  name,
		TotalAmount:   s.TotalAmount,
		Discount:      s.Discount,
		VAT:           s.VAT,
		NetTotal:      s.NetTotal,
		PaidAmount:    s.PaidAmount,
		DueAmount:     ledger.Outstanding(s.NetTotal, s.PaidAmount),
		PaymentStatus: s.PaymentStatus,
		Notes:         s.Notes,
		CreatedBy:     s.CreatedBy,
		ItemsCount:    s.ItemsCount,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.LineItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}

// ToPurchaseResponse mapea la compra a su DTO.
func ToPurchaseResponse(p *entity.Purchase) dto.PurchaseResponse {
	out := dto.PurchaseResponse{
		ID:             p.ID,
		PurchaseNumber: p.PurchaseNumber,
		SupplierID:     p.SupplierID,
		SupplierName:   p.SupplierName,
		TotalAmount:    p.TotalAmount,
		Status:         p.Status,
		Notes:          p.Notes,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	for _, it := range p.Items {
		out.Items = append(out.Items, dto.LineItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}
