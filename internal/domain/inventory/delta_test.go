package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/inventory"
)

func TestDelta(t *testing.T) {
	cases := []struct {
		typ     string
		qty     int
		want    int
		wantErr bool
	}{
		{entity.MovementTypeIn, 5, 5, false},
		{entity.MovementTypeOut, 3, -3, false},
		{entity.MovementTypeAdjust, -7, -7, false},
		{entity.MovementTypeAdjust, 4, 4, false},
		{entity.MovementTypeIn, 0, 0, true},
		{entity.MovementTypeOut, -1, 0, true},
		{entity.MovementTypeAdjust, 0, 0, true},
		{"transfer", 1, 0, true},
		{entity.MovementTypeIn, inventory.MaxQuantity, inventory.MaxQuantity, false},
		{entity.MovementTypeIn, inventory.MaxQuantity + 1, 0, true},
		{entity.MovementTypeAdjust, -inventory.MaxQuantity - 1, 0, true},
	}
	for _, tc := range cases {
		got, err := inventory.Delta(tc.typ, tc.qty)
		if tc.wantErr {
			assert.ErrorIs(t, err, domain.ErrInvalidInput, "%s %d", tc.typ, tc.qty)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s %d", tc.typ, tc.qty)
	}
}

func TestReplay_ReconstruyeStock(t *testing.T) {
	movs := []*entity.StockMovement{
		{Type: entity.MovementTypeIn, Quantity: 100},
		{Type: entity.MovementTypeOut, Quantity: 3},
		{Type: entity.MovementTypeOut, Quantity: 2},
		{Type: entity.MovementTypeAdjust, Quantity: -5},
	}
	stock, err := inventory.Replay(0, movs)
	require.NoError(t, err)
	assert.Equal(t, 90, stock)
}

func TestReplay_MovimientoInvalido(t *testing.T) {
	_, err := inventory.Replay(10, []*entity.StockMovement{{Type: "x", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
