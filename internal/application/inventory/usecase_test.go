package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/application/ports"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

const (
	orgID     = "00000000-0000-0000-0000-0000000000aa"
	userID    = "00000000-0000-0000-0000-000000000001"
	productID = "00000000-0000-0000-0000-00000000000a"
)

// ── fakes ────────────────────────────────────────────────────────────────────

type stockStore struct {
	products  map[string]*entity.Product
	movements []*entity.StockMovement
	failMove  bool
}

type productRepo struct {
	repository.ProductRepository
	s *stockStore
}

func (r *productRepo) GetByID(_ context.Context, organizationID, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok || p.OrganizationID != organizationID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) ApplyStockDelta(_ context.Context, organizationID, id string, delta int, guard bool) (int, error) {
	p, ok := r.s.products[id]
	if !ok || p.OrganizationID != organizationID {
		return 0, domain.ErrNotFound
	}
	if guard && p.CurrentStock+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.CurrentStock += delta
	return p.CurrentStock, nil
}

type movementRepo struct {
	s        *stockStore
	lastList repository.MovementFilter
}

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if r.s.failMove {
		return errors.New("fallo simulado")
	}
	r.s.movements = append(r.s.movements, m)
	return nil
}

func (r *movementRepo) List(_ context.Context, _ string, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	r.lastList = f
	return r.s.movements, len(r.s.movements), nil
}

type txRunner struct {
	s   *stockStore
	mov *movementRepo
}

func (t *txRunner) Run(_ context.Context, fn func(repository.TxRepositories) error) error {
	before := map[string]int{}
	for id, p := range t.s.products {
		before[id] = p.CurrentStock
	}
	n := len(t.s.movements)
	err := fn(repository.TxRepositories{Products: &productRepo{s: t.s}, Movements: t.mov})
	if err != nil {
		for id, stock := range before {
			t.s.products[id].CurrentStock = stock
		}
		t.s.movements = t.s.movements[:n]
	}
	return err
}

type negativeCounter struct {
	ports.NopMetrics
	negatives int
	byType    map[string]int
}

func (m *negativeCounter) NegativeStock() { m.negatives++ }

func (m *negativeCounter) StockMovement(t string) {
	if m.byType == nil {
		m.byType = map[string]int{}
	}
	m.byType[t]++
}

func newUseCase(allowNegative bool, stock int) (*inventory.MovementUseCase, *stockStore, *movementRepo, *negativeCounter) {
	s := &stockStore{products: map[string]*entity.Product{
		productID: {ID: productID, OrganizationID: orgID, Name: "Arroz", CurrentStock: stock},
	}}
	mov := &movementRepo{s: s}
	m := &negativeCounter{}
	adjuster := inventory.NewStockAdjuster(allowNegative, m, nil)
	uc := inventory.NewMovementUseCase(&txRunner{s: s, mov: mov}, adjuster, &productRepo{s: s}, mov)
	return uc, s, mov, m
}

// ── RegisterMovement ─────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaSalidaYAjuste(t *testing.T) {
	uc, s, _, m := newUseCase(true, 10)
	ctx := context.Background()

	out, err := uc.RegisterMovement(ctx, inventory.MovementInput{OrganizationID: orgID, UserID: userID, ProductID: productID, Type: entity.MovementTypeIn, Quantity: 5})
	require.NoError(t, err)
	require.NotNil(t, out.StockAfter)
	assert.Equal(t, 15, *out.StockAfter)

	out, err = uc.RegisterMovement(ctx, inventory.MovementInput{OrganizationID: orgID, UserID: userID, ProductID: productID, Type: entity.MovementTypeOut, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 11, *out.StockAfter)

	out, err = uc.RegisterMovement(ctx, inventory.MovementInput{OrganizationID: orgID, UserID: userID, ProductID: productID, Type: entity.MovementTypeAdjust, Quantity: -1, Notes: "conteo"})
	require.NoError(t, err)
	assert.Equal(t, 10, *out.StockAfter)
	assert.Equal(t, "conteo", out.Notes)

	assert.Equal(t, 10, s.products[productID].CurrentStock)
	assert.Len(t, s.movements, 3)
	assert.Equal(t, 1, m.byType[entity.MovementTypeAdjust])
}

func TestRegisterMovement_Invalidos(t *testing.T) {
	cases := map[string]inventory.MovementInput{
		"tipo desconocido": {ProductID: productID, Type: "transfer", Quantity: 1},
		"sin producto":     {Type: entity.MovementTypeIn, Quantity: 1},
		"in cero":          {ProductID: productID, Type: entity.MovementTypeIn, Quantity: 0},
		"out negativo":     {ProductID: productID, Type: entity.MovementTypeOut, Quantity: -2},
		"adjust cero":      {ProductID: productID, Type: entity.MovementTypeAdjust, Quantity: 0},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			uc, s, _, _ := newUseCase(true, 10)
			in.OrganizationID = orgID
			_, err := uc.RegisterMovement(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, s.movements)
		})
	}
}

func TestRegisterMovement_ProductoDeOtraOrganizacion(t *testing.T) {
	uc, _, _, _ := newUseCase(true, 10)
	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		OrganizationID: "otra", ProductID: productID, Type: entity.MovementTypeIn, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterMovement_StockNegativo(t *testing.T) {
	t.Run("permitido: queda negativo y se cuenta", func(t *testing.T) {
		uc, s, _, m := newUseCase(true, 2)
		_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{OrganizationID: orgID, ProductID: productID, Type: entity.MovementTypeOut, Quantity: 5})
		require.NoError(t, err)
		assert.Equal(t, -3, s.products[productID].CurrentStock)
		assert.Equal(t, 1, m.negatives)
	})
	t.Run("con guarda: se rechaza", func(t *testing.T) {
		uc, s, _, _ := newUseCase(false, 2)
		_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{OrganizationID: orgID, ProductID: productID, Type: entity.MovementTypeOut, Quantity: 5})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, 2, s.products[productID].CurrentStock)
		assert.Empty(t, s.movements)
	})
}

func TestRegisterMovement_FalloAlGuardarMovimientoRevierteStock(t *testing.T) {
	uc, s, _, _ := newUseCase(true, 10)
	s.failMove = true

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{OrganizationID: orgID, ProductID: productID, Type: entity.MovementTypeIn, Quantity: 5})
	require.Error(t, err)
	assert.Equal(t, 10, s.products[productID].CurrentStock)
}

// ── List / ProductHistory ────────────────────────────────────────────────────

func TestList_FechasYPaginacion(t *testing.T) {
	uc, _, mov, _ := newUseCase(true, 10)

	out, err := uc.List(context.Background(), orgID, dto.MovementListQuery{From: "2024-01-01", To: "2024-01-31"}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 20, out.Page.Limit, "límite por defecto")
	require.NotNil(t, mov.lastList.From)
	require.NotNil(t, mov.lastList.To)
	assert.Equal(t, "2024-01-01", mov.lastList.From.Format("2006-01-02"))
}

func TestList_FechaInvalida(t *testing.T) {
	uc, _, _, _ := newUseCase(true, 10)
	_, err := uc.List(context.Background(), orgID, dto.MovementListQuery{From: "01/02/2024"}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductHistory_ProductoInexistente(t *testing.T) {
	uc, _, _, _ := newUseCase(true, 10)
	_, err := uc.ProductHistory(context.Background(), orgID, "no-existe", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductHistory_FiltraPorProducto(t *testing.T) {
	uc, _, mov, _ := newUseCase(true, 10)
	_, err := uc.ProductHistory(context.Background(), orgID, productID, dto.PageRequest{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, productID, mov.lastList.ProductID)
	assert.Equal(t, 5, mov.lastList.Limit)
}
