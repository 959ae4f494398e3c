package transaction_test

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// memStore estado en memoria compartido por los repos fake. txRunner hace snapshot y
// lo restaura si el callback falla, igual que un ROLLBACK.
type memStore struct {
	products   map[string]*entity.Product
	customers  map[string]*entity.Customer
	suppliers  map[string]*entity.Supplier
	sales      map[string]*entity.Sale
	saleItems  []*entity.SaleItem
	purchases  map[string]*entity.Purchase
	purItems   []*entity.PurchaseItem
	movements  []*entity.StockMovement
	sequences  map[string]int64
	failMoveAt int // >0: el n-ésimo movimiento falla
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[string]*entity.Product{},
		customers: map[string]*entity.Customer{},
		suppliers: map[string]*entity.Supplier{},
		sales:     map[string]*entity.Sale{},
		purchases: map[string]*entity.Purchase{},
		sequences: map[string]int64{},
	}
}

type snapshot struct {
	stock     map[string]int
	balances  map[string][2]decimal.Decimal
	sales     map[string]entity.Sale
	saleItems int
	purchases map[string]bool
	purItems  int
	movements int
	sequences map[string]int64
}

func (s *memStore) snapshot() snapshot {
	snap := snapshot{
		stock:     map[string]int{},
		balances:  map[string][2]decimal.Decimal{},
		sales:     map[string]entity.Sale{},
		saleItems: len(s.saleItems),
		purchases: map[string]bool{},
		purItems:  len(s.purItems),
		movements: len(s.movements),
		sequences: map[string]int64{},
	}
	for id, p := range s.products {
		snap.stock[id] = p.CurrentStock
	}
	for id, c := range s.customers {
		snap.balances[id] = [2]decimal.Decimal{c.DueAmount, c.PaymentTotal}
	}
	for id, sale := range s.sales {
		snap.sales[id] = *sale
	}
	for id := range s.purchases {
		snap.purchases[id] = true
	}
	for k, v := range s.sequences {
		snap.sequences[k] = v
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	for id, stock := range snap.stock {
		s.products[id].CurrentStock = stock
	}
	for id, b := range snap.balances {
		s.customers[id].DueAmount, s.customers[id].PaymentTotal = b[0], b[1]
	}
	for id := range s.sales {
		if old, ok := snap.sales[id]; ok {
			*s.sales[id] = old
		} else {
			delete(s.sales, id)
		}
	}
	for id := range s.purchases {
		if !snap.purchases[id] {
			delete(s.purchases, id)
		}
	}
	s.saleItems = s.saleItems[:snap.saleItems]
	s.purItems = s.purItems[:snap.purItems]
	s.movements = s.movements[:snap.movements]
	s.sequences = snap.sequences
}

func (s *memStore) repos() repository.TxRepositories {
	return repository.TxRepositories{
		Products:  &fakeProducts{s},
		Movements: &fakeMovements{s},
		Sales:     &fakeSales{s},
		Purchases: &fakePurchases{s},
		Customers: &fakeCustomers{s},
		Sequences: &fakeSequences{s},
	}
}

// fakeTxRunner ejecuta fn sobre el memStore con semántica todo-o-nada.
type fakeTxRunner struct{ s *memStore }

func (r *fakeTxRunner) Run(_ context.Context, fn func(repository.TxRepositories) error) error {
	snap := r.s.snapshot()
	if err := fn(r.s.repos()); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// ── productos ────────────────────────────────────────────────────────────────

type fakeProducts struct {
	s *memStore
}

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error {
	f.s.products[p.ID] = p
	return nil
}

func (f *fakeProducts) GetByID(_ context.Context, organizationID, id string) (*entity.Product, error) {
	p, ok := f.s.products[id]
	if !ok || p.OrganizationID != organizationID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) Update(_ context.Context, p *entity.Product) error {
	f.s.products[p.ID] = p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, _, id string) error {
	delete(f.s.products, id)
	return nil
}

func (f *fakeProducts) List(context.Context, string, repository.ProductFilter) ([]*entity.Product, int, error) {
	return nil, 0, errors.New("no usado")
}

func (f *fakeProducts) ApplyStockDelta(_ context.Context, organizationID, productID string, delta int, guard bool) (int, error) {
	p, ok := f.s.products[productID]
	if !ok || p.OrganizationID != organizationID {
		return 0, domain.ErrNotFound
	}
	if guard && p.CurrentStock+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.CurrentStock += delta
	return p.CurrentStock, nil
}

// ── movimientos ──────────────────────────────────────────────────────────────

type fakeMovements struct {
	s *memStore
}

func (f *fakeMovements) Create(_ context.Context, m *entity.StockMovement) error {
	if f.s.failMoveAt > 0 && len(f.s.movements)+1 == f.s.failMoveAt {
		return errors.New("fallo simulado al insertar movimiento")
	}
	f.s.movements = append(f.s.movements, m)
	return nil
}

func (f *fakeMovements) List(context.Context, string, repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	return f.s.movements, len(f.s.movements), nil
}

// ── ventas ───────────────────────────────────────────────────────────────────

type fakeSales struct {
	s *memStore
}

func (f *fakeSales) Create(_ context.Context, sale *entity.Sale) error {
	for _, other := range f.s.sales {
		if other.OrganizationID == sale.OrganizationID && other.InvoiceNumber == sale.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *sale
	f.s.sales[sale.ID] = &cp
	return nil
}

func (f *fakeSales) CreateItem(_ context.Context, item *entity.SaleItem) error {
	f.s.saleItems = append(f.s.saleItems, item)
	return nil
}

func (f *fakeSales) GetByID(_ context.Context, organizationID, id string) (*entity.Sale, error) {
	sale, ok := f.s.sales[id]
	if !ok || sale.OrganizationID != organizationID {
		return nil, nil
	}
	cp := *sale
	return &cp, nil
}

func (f *fakeSales) GetByIDForUpdate(ctx context.Context, organizationID, id string) (*entity.Sale, error) {
	return f.GetByID(ctx, organizationID, id)
}

func (f *fakeSales) List(context.Context, string, repository.DocumentFilter) ([]*entity.Sale, int, error) {
	return nil, 0, errors.New("no usado")
}

func (f *fakeSales) UpdatePayment(_ context.Context, sale *entity.Sale) error {
	stored, ok := f.s.sales[sale.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.PaidAmount = sale.PaidAmount
	stored.PaymentStatus = sale.PaymentStatus
	stored.UpdatedAt = sale.UpdatedAt
	return nil
}

// ── compras ──────────────────────────────────────────────────────────────────

type fakePurchases struct {
	s *memStore
}

func (f *fakePurchases) Create(_ context.Context, p *entity.Purchase) error {
	cp := *p
	f.s.purchases[p.ID] = &cp
	return nil
}

func (f *fakePurchases) CreateItem(_ context.Context, item *entity.PurchaseItem) error {
	f.s.purItems = append(f.s.purItems, item)
	return nil
}

func (f *fakePurchases) GetByID(_ context.Context, _, id string) (*entity.Purchase, error) {
	return f.s.purchases[id], nil
}

func (f *fakePurchases) List(context.Context, string, repository.DocumentFilter) ([]*entity.Purchase, int, error) {
	return nil, 0, errors.New("no usado")
}

// ── clientes y proveedores ───────────────────────────────────────────────────

type fakeCustomers struct {
	s *memStore
}

func (f *fakeCustomers) Create(_ context.Context, c *entity.Customer) error {
	f.s.customers[c.ID] = c
	return nil
}

func (f *fakeCustomers) GetByID(_ context.Context, organizationID, id string) (*entity.Customer, error) {
	c, ok := f.s.customers[id]
	if !ok || c.OrganizationID != organizationID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCustomers) List(context.Context, string, string, int, int) ([]*entity.Customer, error) {
	return nil, errors.New("no usado")
}

func (f *fakeCustomers) Update(context.Context, *entity.Customer) error {
	return errors.New("no usado")
}

func (f *fakeCustomers) Delete(context.Context, string, string) error { return errors.New("no usado") }

func (f *fakeCustomers) ApplyBalance(_ context.Context, _, id string, dueDelta, paidDelta decimal.Decimal) error {
	c, ok := f.s.customers[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.DueAmount = c.DueAmount.Add(dueDelta)
	c.PaymentTotal = c.PaymentTotal.Add(paidDelta)
	return nil
}

type fakeSuppliers struct {
	s *memStore
}

func (f *fakeSuppliers) Create(_ context.Context, s *entity.Supplier) error {
	f.s.suppliers[s.ID] = s
	return nil
}

func (f *fakeSuppliers) GetByID(_ context.Context, organizationID, id string) (*entity.Supplier, error) {
	s, ok := f.s.suppliers[id]
	if !ok || s.OrganizationID != organizationID {
		return nil, nil
	}
	return s, nil
}

func (f *fakeSuppliers) List(context.Context, string, int, int) ([]*entity.Supplier, error) {
	return nil, errors.New("no usado")
}

func (f *fakeSuppliers) Count(context.Context, string) (int, error) { return len(f.s.suppliers), nil }

func (f *fakeSuppliers) Update(context.Context, *entity.Supplier) error {
	return errors.New("no usado")
}

func (f *fakeSuppliers) Delete(context.Context, string, string) error { return errors.New("no usado") }

// ── consecutivos ─────────────────────────────────────────────────────────────

type fakeSequences struct {
	s *memStore
}

func (f *fakeSequences) Next(_ context.Context, organizationID, series string) (int64, error) {
	key := organizationID + "/" + series
	f.s.sequences[key]++
	return f.s.sequences[key], nil
}
