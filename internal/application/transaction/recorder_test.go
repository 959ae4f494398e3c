package transaction_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/application/ports"
	"github.com/jhoicas/pos-backoffice/internal/application/transaction"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-backoffice/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	orgID    = "00000000-0000-0000-0000-0000000000aa"
	otherOrg = "00000000-0000-0000-0000-0000000000bb"
	userID   = "00000000-0000-0000-0000-000000000001"
	prodA    = "00000000-0000-0000-0000-00000000000a"
	prodB    = "00000000-0000-0000-0000-00000000000b"
	custID   = "00000000-0000-0000-0000-0000000000c1"
	suppID   = "00000000-0000-0000-0000-0000000000d1"
)

type countingMetrics struct {
	ports.NopMetrics
	sales     int
	purchases int
}

func (m *countingMetrics) SaleRecorded(int)     { m.sales++ }
func (m *countingMetrics) PurchaseRecorded(int) { m.purchases++ }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

func strPtr(s string) *string { return &s }

type fixture struct {
	store    *memStore
	recorder *transaction.Recorder
	metrics  *countingMetrics
}

// newFixture dos productos con stock 100 (A a 10, B a 5), un cliente y un proveedor.
func newFixture(allowNegative bool) *fixture {
	s := newMemStore()
	s.products[prodA] = &entity.Product{ID: prodA, OrganizationID: orgID, Name: "Arroz", SKU: "A", SellPrice: dec("10"), PurchasePrice: dec("7"), CurrentStock: 100}
	s.products[prodB] = &entity.Product{ID: prodB, OrganizationID: orgID, Name: "Beans", SKU: "B", SellPrice: dec("5"), PurchasePrice: dec("3"), CurrentStock: 100}
	s.customers[custID] = &entity.Customer{ID: custID, OrganizationID: orgID, Name: "Ana"}
	s.suppliers[suppID] = &entity.Supplier{ID: suppID, OrganizationID: orgID, Name: "Mayorista"}

	m := &countingMetrics{}
	adjuster := inventory.NewStockAdjuster(allowNegative, m, nil)
	rec := transaction.NewRecorder(&fakeTxRunner{s}, adjuster, &fakeProducts{s}, &fakeCustomers{s}, &fakeSuppliers{s}, m, nil)
	return &fixture{store: s, recorder: rec, metrics: m}
}

// replayed reconstruye el stock de un producto desde su stock inicial y los movimientos guardados.
func (f *fixture) replayed(t *testing.T, productID string, initial int) int {
	t.Helper()
	var movs []*entity.StockMovement
	for _, m := range f.store.movements {
		if m.ProductID == productID {
			movs = append(movs, m)
		}
	}
	stock, err := domaininv.Replay(initial, movs)
	require.NoError(t, err)
	return stock
}

func saleItems() []dto.LineItemRequest {
	return []dto.LineItemRequest{
		{ProductID: prodA, Quantity: 3, UnitPrice: decPtr("10")},
		{ProductID: prodB, Quantity: 2, UnitPrice: decPtr("5")},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordSale
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordSale_TotalesYStock(t *testing.T) {
	f := newFixture(true)

	out, err := f.recorder.RecordSale(context.Background(), orgID, userID, dto.CreateSaleRequest{Items: saleItems()})
	require.NoError(t, err)

	assert.Equal(t, "40.00", out.TotalAmount.StringFixed(2))
	assert.Equal(t, "40.00", out.NetTotal.StringFixed(2))
	assert.Equal(t, entity.PaymentStatusPaid, out.PaymentStatus, "paid_amount omitido = pagada")
	assert.True(t, out.DueAmount.IsZero())
	assert.Equal(t, "INV-000001", out.InvoiceNumber)
	assert.Equal(t, entity.WalkInCustomerName, out.CustomerName)
	assert.Len(t, out.Items, 2)

	assert.Equal(t, 97, f.store.products[prodA].CurrentStock)
	assert.Equal(t, 98, f.store.products[prodB].CurrentStock)
	assert.Equal(t, f.store.products[prodA].CurrentStock, f.replayed(t, prodA, 100))
	assert.Equal(t, f.store.products[prodB].CurrentStock, f.replayed(t, prodB, 100))

	sum := decimal.Zero
	for _, item := range out.Items {
		sum = sum.Add(item.Subtotal)
	}
	assert.True(t, sum.Equal(out.TotalAmount), "Σ subtotales = total")

	require.Len(t, f.store.movements, 2, "un movimiento out por ítem")
	for i, want := range []struct {
		product string
		qty     int
	}{{prodA, 3}, {prodB, 2}} {
		m := f.store.movements[i]
		assert.Equal(t, want.product, m.ProductID)
		assert.Equal(t, entity.MovementTypeOut, m.Type)
		assert.Equal(t, want.qty, m.Quantity)
		assert.Equal(t, out.InvoiceNumber, m.ReferenceNumber)
		assert.Equal(t, userID, m.CreatedBy)
	}
	assert.Equal(t, 1, f.metrics.sales)
}

func TestRecordSale_MismoProductoDosLineas(t *testing.T) {
	f := newFixture(true)
	items := []dto.LineItemRequest{
		{ProductID: prodA, Quantity: 3, UnitPrice: decPtr("10")},
		{ProductID: prodA, Quantity: 2, UnitPrice: decPtr("5")},
	}

	out, err := f.recorder.RecordSale(context.Background(), orgID, userID, dto.CreateSaleRequest{Items: items})
	require.NoError(t, err)

	assert.Equal(t, "40.00", out.TotalAmount.StringFixed(2))
	assert.Equal(t, 95, f.store.products[prodA].CurrentStock)
	assert.Len(t, f.store.movements, 2)
}

func TestRecordSale_PrecioPorDefectoDelProducto(t *testing.T) {
	f := newFixture(true)
	items := []dto.LineItemRequest{{ProductID: prodB, Quantity: 4}}

	out, err := f.recorder.RecordSale(context.Background(), orgID, userID, dto.CreateSaleRequest{Items: items})
	require.NoError(t, err)

	assert.Equal(t, "20.00", out.TotalAmount.StringFixed(2), "4 × sell_price 5")
}

func TestRecordSale_DescuentoIVAYPagoParcial(t *testing.T) {
	f := newFixture(true)
	in := dto.CreateSaleRequest{
		CustomerID: strPtr(custID),
		Discount:   dec("5"),
		VAT:        dec("2.50"),
		PaidAmount: decPtr("20"),
		Items:      saleItems(),
	}

	out, err := f.recorder.RecordSale(context.Background(), orgID, userID, in)
	require.NoError(t, err)

	assert.Equal(t, "37.50", out.NetTotal.StringFixed(2), "40 - 5 + 2.50")
	assert.Equal(t, entity.PaymentStatusPartial, out.PaymentStatus)
	assert.Equal(t, "17.50", out.DueAmount.StringFixed(2))
	assert.Equal(t, "Ana", out.CustomerName)

	c := f.store.customers[custID]
	assert.Equal(t, "17.50", c.DueAmount.StringFixed(2))
	assert.Equal(t, "20.00", c.PaymentTotal.StringFixed(2))
}

func TestRecordSale_PagoMayorAlNetoNoTocaSaldos(t *testing.T) {
	f := newFixture(true)
	_, err := f.recorder.RecordSale(context.Background(), orgID, userID, dto.CreateSaleRequest{
		CustomerID: strPtr(custID),
		PaidAmount: decPtr("100"),
		Items:      saleItems(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, f.store.customers[custID].PaymentTotal.IsZero())
	assert.Empty(t, f.store.sales)
}

func TestRecordSale_SinPago(t *testing.T) {
	f := newFixture(true)
	out, err := f.recorder.RecordSale(context.Background(), orgID, userID, dto.CreateSaleRequest{
		PaidAmount: decPtr("0"),
		Items:      saleItems(),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusDue, out.PaymentStatus)
}

func TestRecordSale_SinItems(t *testing.T) {
	f := newFixture(true)
	_, err := f.recorder.RecordSale(context.Background(), orgID, userID, dto.CreateSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyItems)
	assert.Empty(t, f.store.sales)
}

func TestRecordSale_EntradasInvalidas(t *testing.T) {
	cases := map[string]dto.CreateSaleRequest{
		"cantidad cero":      {Items: []dto.LineItemRequest{{ProductID: prodA, Quantity: 0}}},
		"precio negativo":    {Items: []dto.LineItemRequest{{ProductID: prodA, Quantity: 1, UnitPrice: decPtr("-1")}}},
		"descuento negativo": {Discount: dec("-1"), Items: saleItems()},
		"neto negativo":      {Discount: dec("100"), Items: saleItems()},
		"pago negativo":      {PaidAmount: decPtr("-5"), Items: saleItems()},
		"precio con tres decimales": {Items: []dto.LineItemRequest{
			{ProductID: prodA, Quantity: 1, UnitPrice: decPtr("0.335")},
			{ProductID: prodB, Quantity: 1, UnitPrice: decPtr("0.335")},
		}},
		"descuento con tres decimales": {Discount: dec("0.005"), Items: saleItems()},
		"iva con tres decimales":       {VAT: dec("1.999"), Items: saleItems()},
		"pago con tres decimales":      {PaidAmount: decPtr("10.001"), Items: saleItems()},
		"cantidad excesiva":            {Items: []dto.LineItemRequest{{ProductID: prodA, Quantity: domaininv.MaxQuantity + 1}}},
		"subtotal desborda":            {Items: []dto.LineItemRequest{{ProductID: prodA, Quantity: 1_000_000, UnitPrice: decPtr("10000000")}}},
		"total desborda": {Items: []dto.LineItemRequest{
			{ProductID: prodA, Quantity: 1_000_000, UnitPrice: decPtr("6000")},
			{ProductID: prodB, Quantity: 1_000_000, UnitPrice: decPtr("6000")},
		}},
		"pago mayor al neto": {PaidAmount: decPtr("40.01"), Items: saleItems()},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(true)
			_, err := f.recorder.RecordSale(context.Background(), orgID, userID, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, f.store.movements)
			assert.Equal(t, 100, f.store.products[prodA].CurrentStock)
		})
	}
}

func TestRecordSale_ProductoDeOtraOrganizacion(t *testing.T) {
	f := newFixture(true)
	f.store.products[prodB].OrganizationID = otherOrg

	_, err := f.recorder.RecordSale(context.Background(), orgID, userID, dto.CreateSaleRequest{Items: saleItems()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 100, f.store.products[prodA].CurrentStock, "ningún efecto parcial")
}

func TestRecordSale_ClienteInexistente(t *testing.T) {
	f := newFixture(true)
	_, err := f.recorder.RecordSale(context.Background(), orgID, userID, dto.CreateSaleRequest{
		CustomerID: strPtr("00000000-0000-0000-0000-0000000000ff"),
		Items:      saleItems(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordSale_FalloEnSegundoMovimientoRevierteTodo(t *testing.T) {
	f := newFixture(true)
	f.store.failMoveAt = 2

	_, err := f.recorder.RecordSale(context.Background(), orgID, userID, dto.CreateSaleRequest{
		CustomerID: strPtr(custID),
		PaidAmount: decPtr("0"),
		Items:      saleItems(),
	})
	require.Error(t, err)

	assert.Empty(t, f.store.sales)
	assert.Empty(t, f.store.saleItems)
	assert.Empty(t, f.store.movements)
	assert.Equal(t, 100, f.store.products[prodA].CurrentStock)
	assert.Equal(t, 100, f.store.products[prodB].CurrentStock)
	assert.True(t, f.store.customers[custID].DueAmount.IsZero())
	assert.Equal(t, 0, f.metrics.sales)
}

func TestRecordSale_StockNegativoPermitido(t *testing.T) {
	f := newFixture(true)
	f.store.products[prodA].CurrentStock = 1

	_, err := f.recorder.RecordSale(context.Background(), orgID, userID, dto.CreateSaleRequest{
		Items: []dto.LineItemRequest{{ProductID: prodA, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, -2, f.store.products[prodA].CurrentStock)
}

func TestRecordSale_StockInsuficienteConGuarda(t *testing.T) {
	f := newFixture(false)
	f.store.products[prodB].CurrentStock = 1

	_, err := f.recorder.RecordSale(context.Background(), orgID, userID, dto.CreateSaleRequest{Items: saleItems()})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 100, f.store.products[prodA].CurrentStock, "la primera línea también se revierte")
	assert.Equal(t, 1, f.store.products[prodB].CurrentStock)
}

func TestRecordSale_NumeroDeFacturaDuplicado(t *testing.T) {
	f := newFixture(true)
	in := dto.CreateSaleRequest{InvoiceNumber: "F-1", Items: saleItems()}

	_, err := f.recorder.RecordSale(context.Background(), orgID, userID, in)
	require.NoError(t, err)
	_, err = f.recorder.RecordSale(context.Background(), orgID, userID, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, 97, f.store.products[prodA].CurrentStock, "solo la primera venta descuenta")
}

func TestRecordSale_NumeracionConsecutiva(t *testing.T) {
	f := newFixture(true)
	first, err := f.recorder.RecordSale(context.Background(), orgID, userID, dto.CreateSaleRequest{Items: saleItems()})
	require.NoError(t, err)
	second, err := f.recorder.RecordSale(context.Background(), orgID, userID, dto.CreateSaleRequest{Items: saleItems()})
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", first.InvoiceNumber)
	assert.Equal(t, "INV-000002", second.InvoiceNumber)
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordPurchase
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordPurchase_SumaStock(t *testing.T) {
	f := newFixture(true)
	out, err := f.recorder.RecordPurchase(context.Background(), orgID, userID, dto.CreatePurchaseRequest{
		SupplierID: strPtr(suppID),
		Items: []dto.LineItemRequest{
			{ProductID: prodA, Quantity: 10},
			{ProductID: prodB, Quantity: 4, UnitPrice: decPtr("2.5")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "80.00", out.TotalAmount.StringFixed(2), "10×7 + 4×2.5")
	assert.Equal(t, entity.PurchaseStatusReceived, out.Status)
	assert.Equal(t, "PUR-000001", out.PurchaseNumber)
	assert.Equal(t, "Mayorista", out.SupplierName)
	assert.Equal(t, 110, f.store.products[prodA].CurrentStock)
	assert.Equal(t, 104, f.store.products[prodB].CurrentStock)
	assert.Equal(t, f.store.products[prodA].CurrentStock, f.replayed(t, prodA, 100))
	assert.Equal(t, f.store.products[prodB].CurrentStock, f.replayed(t, prodB, 100))

	require.Len(t, f.store.movements, 2, "un movimiento in por ítem")
	for i, want := range []struct {
		product string
		qty     int
	}{{prodA, 10}, {prodB, 4}} {
		m := f.store.movements[i]
		assert.Equal(t, want.product, m.ProductID)
		assert.Equal(t, entity.MovementTypeIn, m.Type)
		assert.Equal(t, want.qty, m.Quantity)
		assert.Equal(t, out.PurchaseNumber, m.ReferenceNumber)
		assert.Equal(t, userID, m.CreatedBy)
	}
	assert.Equal(t, 1, f.metrics.purchases)
}

func TestRecordPurchase_EstadoDelCliente(t *testing.T) {
	f := newFixture(true)
	out, err := f.recorder.RecordPurchase(context.Background(), orgID, userID, dto.CreatePurchaseRequest{
		Status: " ordered ",
		Items:  []dto.LineItemRequest{{ProductID: prodA, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ordered", out.Status)
}

func TestRecordPurchase_FalloEnSegundoMovimientoRevierteTodo(t *testing.T) {
	f := newFixture(true)
	f.store.failMoveAt = 2

	_, err := f.recorder.RecordPurchase(context.Background(), orgID, userID, dto.CreatePurchaseRequest{
		SupplierID: strPtr(suppID),
		Items: []dto.LineItemRequest{
			{ProductID: prodA, Quantity: 10},
			{ProductID: prodB, Quantity: 4},
		},
	})
	require.Error(t, err)

	assert.Empty(t, f.store.purchases)
	assert.Empty(t, f.store.purItems)
	assert.Empty(t, f.store.movements)
	assert.Equal(t, 100, f.store.products[prodA].CurrentStock)
	assert.Equal(t, 100, f.store.products[prodB].CurrentStock)
	assert.Equal(t, 0, f.metrics.purchases)

	out, err := f.recorder.RecordPurchase(context.Background(), orgID, userID, dto.CreatePurchaseRequest{
		Items: []dto.LineItemRequest{{ProductID: prodA, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "PUR-000001", out.PurchaseNumber, "el consecutivo también se revierte")
}

func TestRecordPurchase_PrecioConTresDecimales(t *testing.T) {
	f := newFixture(true)
	_, err := f.recorder.RecordPurchase(context.Background(), orgID, userID, dto.CreatePurchaseRequest{
		Items: []dto.LineItemRequest{{ProductID: prodA, Quantity: 3, UnitPrice: decPtr("1.005")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 100, f.store.products[prodA].CurrentStock)
}

func TestRecordPurchase_SinItems(t *testing.T) {
	f := newFixture(true)
	_, err := f.recorder.RecordPurchase(context.Background(), orgID, userID, dto.CreatePurchaseRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyItems)
}

func TestRecordPurchase_ProveedorInexistente(t *testing.T) {
	f := newFixture(true)
	_, err := f.recorder.RecordPurchase(context.Background(), orgID, userID, dto.CreatePurchaseRequest{
		SupplierID: strPtr("00000000-0000-0000-0000-0000000000ee"),
		Items:      []dto.LineItemRequest{{ProductID: prodA, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterPayment
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterPayment_CompletaLaVenta(t *testing.T) {
	f := newFixture(true)
	sale, err := f.recorder.RecordSale(context.Background(), orgID, userID, dto.CreateSaleRequest{
		CustomerID: strPtr(custID),
		PaidAmount: decPtr("10"),
		Items:      saleItems(),
	})
	require.NoError(t, err)

	out, err := f.recorder.RegisterPayment(context.Background(), orgID, sale.ID, dto.PaymentRequest{Amount: dec("15")})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPartial, out.PaymentStatus)
	assert.Equal(t, "15.00", out.DueAmount.StringFixed(2))

	out, err = f.recorder.RegisterPayment(context.Background(), orgID, sale.ID, dto.PaymentRequest{Amount: dec("15")})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, out.PaymentStatus)

	c := f.store.customers[custID]
	assert.True(t, c.DueAmount.IsZero())
	assert.Equal(t, "40.00", c.PaymentTotal.StringFixed(2))
}

func TestRegisterPayment_SobrepagoRechazado(t *testing.T) {
	f := newFixture(true)
	sale, err := f.recorder.RecordSale(context.Background(), orgID, userID, dto.CreateSaleRequest{
		PaidAmount: decPtr("30"),
		Items:      saleItems(),
	})
	require.NoError(t, err)

	_, err = f.recorder.RegisterPayment(context.Background(), orgID, sale.ID, dto.PaymentRequest{Amount: dec("10.01")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterPayment_MontoInvalido(t *testing.T) {
	f := newFixture(true)
	for _, amount := range []string{"0", "-1", "5.555"} {
		_, err := f.recorder.RegisterPayment(context.Background(), orgID, "x", dto.PaymentRequest{Amount: dec(amount)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, amount)
	}
}

func TestRegisterPayment_VentaInexistente(t *testing.T) {
	f := newFixture(true)
	_, err := f.recorder.RegisterPayment(context.Background(), orgID, "no-existe", dto.PaymentRequest{Amount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
