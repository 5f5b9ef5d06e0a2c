package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

func TestRegisterPurchase_CostoPromedioYStock(t *testing.T) {
	f := newFixture(t)
	p1 := f.product("P1", "5", "10", f.w1, map[string]string{f.w1: "10"})

	res, err := f.svc.RegisterPurchase(f.ctx, f.actor, f.pol, ledger.PurchaseInput{
		Supplier: "Distribuidora",
		Items:    []ledger.PurchaseItem{{Code: "P1", Quantity: d("10"), UnitCost: d("3")}},
	})
	require.NoError(t, err)
	assertDec(t, "30", res.TotalUSD)

	p, err := f.store.Products().GetByID(f.ctx, f.actor.CompanyID, p1)
	require.NoError(t, err)
	assertDec(t, "2", p.Cost, "(10*1 + 10*3) / 20")
	assertDec(t, "20", p.Stock)
	assertDec(t, "20", f.alloc(p1, f.w1))
}

func TestRegisterPurchase_BodegaDestino(t *testing.T) {
	f := newFixture(t)
	nuevo := f.product("NUEVO", "1", "0", "", nil)
	p1 := f.product("P1", "1", "0", f.w1, nil)

	// Sin bodega en la petición: la del producto o, si no tiene, la principal.
	_, err := f.svc.RegisterPurchase(f.ctx, f.actor, f.pol, ledger.PurchaseInput{
		Items: []ledger.PurchaseItem{{Code: "NUEVO", Quantity: d("2.5"), UnitCost: d("1")}},
	})
	require.NoError(t, err)
	assertDec(t, "2.5", f.alloc(nuevo, f.w1))
	assert.Equal(t, f.w1, f.assigned(nuevo))

	// Bodega explícita.
	_, err = f.svc.RegisterPurchase(f.ctx, f.actor, f.pol, ledger.PurchaseInput{
		WarehouseID: f.w2,
		Items:       []ledger.PurchaseItem{{Code: "P1", Quantity: d("3"), UnitCost: d("1")}},
	})
	require.NoError(t, err)
	assertDec(t, "3", f.alloc(p1, f.w2))
	assert.Equal(t, f.w1, f.assigned(p1), "la asignación existente no cambia")
	assertDec(t, "3", f.stock(p1))
}

func TestRegisterPurchase_BodegaDeCabecera(t *testing.T) {
	f := newFixture(t)
	f.product("A", "1", "0", f.w1, nil)
	f.product("B", "1", "0", f.w2, nil)

	// Cada línea entra a la bodega de su producto: la cabecera no registra ninguna.
	mixed, err := f.svc.RegisterPurchase(f.ctx, f.actor, f.pol, ledger.PurchaseInput{
		Items: []ledger.PurchaseItem{
			{Code: "A", Quantity: d("1"), UnitCost: d("1")},
			{Code: "B", Quantity: d("1"), UnitCost: d("1")},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, mixed.WarehouseID)

	// Todas las líneas en la bodega asignada de B, que no es la principal.
	single, err := f.svc.RegisterPurchase(f.ctx, f.actor, f.pol, ledger.PurchaseInput{
		Items: []ledger.PurchaseItem{{Code: "B", Quantity: d("1"), UnitCost: d("1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, f.w2, single.WarehouseID)

	explicit, err := f.svc.RegisterPurchase(f.ctx, f.actor, f.pol, ledger.PurchaseInput{
		WarehouseID: f.w1,
		Items: []ledger.PurchaseItem{
			{Code: "A", Quantity: d("1"), UnitCost: d("1")},
			{Code: "B", Quantity: d("1"), UnitCost: d("1")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, f.w1, explicit.WarehouseID)
}

func TestRegisterPurchase_Errores(t *testing.T) {
	f := newFixture(t)
	f.product("P1", "1", "0", f.w1, nil)
	foreign := f.warehouse("otra-empresa", "Ajena", true)

	_, err := f.svc.RegisterPurchase(f.ctx, f.actor, f.pol, ledger.PurchaseInput{})
	require.ErrorIs(t, err, domain.ErrEmptyItems)

	_, err = f.svc.RegisterPurchase(f.ctx, f.actor, f.pol, ledger.PurchaseInput{
		Items: []ledger.PurchaseItem{{Code: "P1", Quantity: d("1"), UnitCost: d("-1")}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidItem)

	_, err = f.svc.RegisterPurchase(f.ctx, f.actor, f.pol, ledger.PurchaseInput{
		WarehouseID: foreign,
		Items:       []ledger.PurchaseItem{{Code: "P1", Quantity: d("1"), UnitCost: d("1")}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidDestination)

	_, err = f.svc.RegisterPurchase(f.ctx, f.actor, f.pol, ledger.PurchaseInput{
		Items: []ledger.PurchaseItem{{Code: "P1", Quantity: d("1"), UnitCost: d("1")}, {Code: "X", Quantity: d("1"), UnitCost: d("1")}},
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Zero(t, f.store.Stats().Purchases)
}
