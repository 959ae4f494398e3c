// Package transaction registra ventas y compras: cabecera, líneas y ajuste de stock en una sola transacción.
package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/application/ports"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/ledger"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// Prefijos de numeración de documentos.
const (
	SalePrefix     = "INV"
	PurchasePrefix = "PUR"
)

// Recorder crea ventas y compras con sus ítems y descuenta/suma inventario en una sola transacción.
type Recorder struct {
	txRunner     inventory.TxRunner
	adjuster     *inventory.StockAdjuster
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	supplierRepo repository.SupplierRepository
	metrics      ports.BusinessMetrics
	log          *logger.Logger
}

// NewRecorder construye el caso de uso.
func NewRecorder(
	txRunner inventory.TxRunner,
	adjuster *inventory.StockAdjuster,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
	metrics ports.BusinessMetrics,
	log *logger.Logger,
) *Recorder {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Recorder{
		txRunner:     txRunner,
		adjuster:     adjuster,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
		metrics:      metrics,
		log:          log,
	}
}

// resolvedLine línea validada con su producto y precio final.
type resolvedLine struct {
	product *entity.Product
	line    ledger.Line
}

// resolveLines valida las líneas y resuelve el precio por defecto del producto (fuera de la tx, solo lectura).
// priceOf elige sell_price o purchase_price según el documento.
func (r *Recorder) resolveLines(
	ctx context.Context,
	organizationID string,
	items []dto.LineItemRequest,
	priceOf func(*entity.Product) decimal.Decimal,
) ([]resolvedLine, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyItems
	}
	products := make(map[string]*entity.Product, len(items))
	out := make([]resolvedLine, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
		product, ok := products[item.ProductID]
		if !ok {
			p, err := r.productRepo.GetByID(ctx, organizationID, item.ProductID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, domain.ErrNotFound
			}
			products[item.ProductID] = p
			product = p
		}
		price := priceOf(product)
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}
		line := ledger.Line{Quantity: item.Quantity, UnitPrice: price}
		if err := line.Validate(); err != nil {
			return nil, err
		}
		out = append(out, resolvedLine{product: product, line: line})
	}
	return out, nil
}

func lines(rl []resolvedLine) []ledger.Line {
	out := make([]ledger.Line, len(rl))
	for i, l := range rl {
		out[i] = l.line
	}
	return out
}

func documentNumber(prefix string, n int64) string {
	return fmt.Sprintf("%s-%06d", prefix, n)
}

// RecordSale crea la venta, sus ítems y una salida de stock por ítem (en orden), todo o nada.
// net_total = total - descuento + IVA; el estado de pago se deriva de paid_amount.
func (r *Recorder) RecordSale(ctx context.Context, organizationID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if ledger.ValidAmount(in.Discount) != nil || ledger.ValidAmount(in.VAT) != nil {
		return nil, domain.ErrInvalidInput
	}
	if in.PaidAmount != nil && ledger.ValidAmount(*in.PaidAmount) != nil {
		return nil, domain.ErrInvalidInput
	}

	var customer *entity.Customer
	if in.CustomerID != nil && *in.CustomerID != "" {
		c, err := r.customerRepo.GetByID(ctx, organizationID, *in.CustomerID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.ErrNotFound
		}
		customer = c
	}

	resolved, err := r.resolveLines(ctx, organizationID, in.Items, func(p *entity.Product) decimal.Decimal { return p.SellPrice })
	if err != nil {
		return nil, err
	}

	total := ledger.Total(lines(resolved))
	net := ledger.NetTotal(total, in.Discount, in.VAT)
	if ledger.ValidAmount(total) != nil || ledger.ValidAmount(net) != nil {
		return nil, domain.ErrInvalidInput
	}
	paid := net
	if in.PaidAmount != nil {
		paid = *in.PaidAmount
	}
	// Igual que en RegisterPayment: no se admite pagar más que el neto.
	if paid.GreaterThan(net) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		InvoiceNumber:  in.InvoiceNumber,
		TotalAmount:    total,
		Discount:       in.Discount,
		VAT:            in.VAT,
		NetTotal:       net,
		PaidAmount:     paid,
		PaymentStatus:  ledger.PaymentStatus(net, paid),
		Notes:          in.Notes,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if customer != nil {
		sale.CustomerID = &customer.ID
		sale.CustomerName = customer.Name
	} else {
		sale.CustomerName = entity.WalkInCustomerName
	}
	for _, rl := range resolved {
		sale.Items = append(sale.Items, &entity.SaleItem{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			ProductID:   rl.product.ID,
			ProductName: rl.product.Name,
			Quantity:    rl.line.Quantity,
			UnitPrice:   rl.line.UnitPrice,
			Subtotal:    rl.line.Subtotal(),
		})
		sale.ItemsCount += rl.line.Quantity
	}

	err = r.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		if sale.InvoiceNumber == "" {
			n, err := repos.Sequences.Next(ctx, organizationID, repository.SequenceSale)
			if err != nil {
				return err
			}
			sale.InvoiceNumber = documentNumber(SalePrefix, n)
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		for _, item := range sale.Items {
			if err := repos.Sales.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		for _, item := range sale.Items {
			if _, _, err := r.adjuster.Apply(ctx, repos, inventory.Adjustment{
				OrganizationID: organizationID,
				ProductID:      item.ProductID,
				Type:           entity.MovementTypeOut,
				Quantity:       item.Quantity,
				Reference:      sale.InvoiceNumber,
				ActorID:        userID,
				At:             now,
			}); err != nil {
				return err
			}
		}
		if customer != nil {
			return repos.Customers.ApplyBalance(ctx, organizationID, customer.ID, ledger.Outstanding(net, paid), paid)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.metrics.SaleRecorded(len(sale.Items))
	r.log.Info().
		Str("organization_id", organizationID).
		Str("invoice_number", sale.InvoiceNumber).
		Str("net_total", net.StringFixed(2)).
		Int("items", len(sale.Items)).
		Msg("venta registrada")

	out := ToSaleResponse(sale)
	return &out, nil
}

// RecordPurchase crea la compra, sus ítems y una entrada de stock por ítem, todo o nada.
func (r *Recorder) RecordPurchase(ctx context.Context, organizationID, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	var supplier *entity.Supplier
	if in.SupplierID != nil && *in.SupplierID != "" {
		s, err := r.supplierRepo.GetByID(ctx, organizationID, *in.SupplierID)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, domain.ErrNotFound
		}
		supplier = s
	}

	resolved, err := r.resolveLines(ctx, organizationID, in.Items, func(p *entity.Product) decimal.Decimal { return p.PurchasePrice })
	if err != nil {
		return nil, err
	}

	total := ledger.Total(lines(resolved))
	if err := ledger.ValidAmount(total); err != nil {
		return nil, err
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = entity.PurchaseStatusReceived
	}

	now := time.Now()
	purchase := &entity.Purchase{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		PurchaseNumber: in.PurchaseNumber,
		TotalAmount:    total,
		Status:         status,
		Notes:          in.Notes,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if supplier != nil {
		purchase.SupplierID = &supplier.ID
		purchase.SupplierName = supplier.Name
	}
	for _, rl := range resolved {
		purchase.Items = append(purchase.Items, &entity.PurchaseItem{
			ID:          uuid.New().String(),
			PurchaseID:  purchase.ID,
			ProductID:   rl.product.ID,
			ProductName: rl.product.Name,
			Quantity:    rl.line.Quantity,
			UnitPrice:   rl.line.UnitPrice,
			Subtotal:    rl.line.Subtotal(),
		})
	}

	err = r.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		if purchase.PurchaseNumber == "" {
			n, err := repos.Sequences.Next(ctx, organizationID, repository.SequencePurchase)
			if err != nil {
				return err
			}
			purchase.PurchaseNumber = documentNumber(PurchasePrefix, n)
		}
		if err := repos.Purchases.Create(ctx, purchase); err != nil {
			return err
		}
		for _, item := range purchase.Items {
			if err := repos.Purchases.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		for _, item := range purchase.Items {
			if _, _, err := r.adjuster.Apply(ctx, repos, inventory.Adjustment{
				OrganizationID: organizationID,
				ProductID:      item.ProductID,
				Type:           entity.MovementTypeIn,
				Quantity:       item.Quantity,
				Reference:      purchase.PurchaseNumber,
				ActorID:        userID,
				At:             now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.metrics.PurchaseRecorded(len(purchase.Items))
	r.log.Info().
		Str("organization_id", organizationID).
		Str("purchase_number", purchase.PurchaseNumber).
		Str("total_amount", purchase.TotalAmount.StringFixed(2)).
		Msg("compra registrada")

	out := ToPurchaseResponse(purchase)
	return &out, nil
}

// RegisterPayment abona amount a una venta: bloquea la cabecera, recalcula el estado
// y ajusta los saldos del cliente en la misma transacción. No admite abonos mayores al saldo.
func (r *Recorder) RegisterPayment(ctx context.Context, organizationID, saleID string, in dto.PaymentRequest) (*dto.SaleResponse, error) {
	if !in.Amount.IsPositive() || ledger.ValidAmount(in.Amount) != nil {
		return nil, domain.ErrInvalidInput
	}
	var sale *entity.Sale
	err := r.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		s, err := repos.Sales.GetByIDForUpdate(ctx, organizationID, saleID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		before := ledger.Outstanding(s.NetTotal, s.PaidAmount)
		if in.Amount.GreaterThan(before) {
			return domain.ErrInvalidInput
		}
		s.PaidAmount = s.PaidAmount.Add(in.Amount)
		s.PaymentStatus = ledger.PaymentStatus(s.NetTotal, s.PaidAmount)
		s.UpdatedAt = time.Now()
		if err := repos.Sales.UpdatePayment(ctx, s); err != nil {
			return err
		}
		if s.CustomerID != nil {
			after := ledger.Outstanding(s.NetTotal, s.PaidAmount)
			if err := repos.Customers.ApplyBalance(ctx, organizationID, *s.CustomerID, after.Sub(before), in.Amount); err != nil {
				return err
			}
		}
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.log.Info().
		Str("organization_id", organizationID).
		Str("invoice_number", sale.InvoiceNumber).
		Str("amount", in.Amount.StringFixed(2)).
		Str("payment_status", sale.PaymentStatus).
		Msg("abono registrado")
	out := ToSaleResponse(sale)
	return &out, nil
}
