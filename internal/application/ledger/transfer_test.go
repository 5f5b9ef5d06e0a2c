package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

// Escenario D: trasladar las 6 unidades de W1 a W2 deja W1 en cero y reasigna el producto.
func TestTransferStock_TrasladoCompletoReasignaBodega(t *testing.T) {
	f := newFixture(t)
	p1 := f.product("P1", "1", "6", f.w1, map[string]string{f.w1: "6"})

	res, err := f.svc.TransferStock(f.ctx, f.actor, f.pol, ledger.TransferInput{
		ProductID: p1, FromWarehouseID: f.w1, ToWarehouseID: f.w2, Quantity: qty("6"),
	})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.True(t, res.Reassigned)

	assertDec(t, "0", f.alloc(p1, f.w1))
	assertDec(t, "6", f.alloc(p1, f.w2))
	assertDec(t, "6", f.stock(p1))
	assert.Equal(t, f.w2, f.assigned(p1))

	transfers, err := f.store.Repos().Transfers().ListByProduct(f.ctx, f.actor.CompanyID, p1, 10, 0)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	require.NotNil(t, transfers[0].FromWarehouseID)
	assert.Equal(t, f.w1, *transfers[0].FromWarehouseID)
	assertDec(t, "6", transfers[0].Quantity)
}

func TestTransferStock_ParcialNoReasigna(t *testing.T) {
	f := newFixture(t)
	p1 := f.product("P1", "1", "10", f.w1, map[string]string{f.w1: "10"})

	res, err := f.svc.TransferStock(f.ctx, f.actor, f.pol, ledger.TransferInput{
		ProductID: p1, ToWarehouseID: f.w2, Quantity: qty("2.5"),
	})
	require.NoError(t, err)
	assert.False(t, res.Reassigned)
	assert.Equal(t, f.w1, res.FromWarehouseID, "origen inferido: única bodega con stock")
	assertDec(t, "7.5", f.alloc(p1, f.w1))
	assertDec(t, "2.5", f.alloc(p1, f.w2))
	assertDec(t, "10", f.stock(p1))
	assert.Equal(t, f.w1, f.assigned(p1))
}

func TestTransferStock_SinCantidadMueveTodo(t *testing.T) {
	f := newFixture(t)
	p1 := f.product("P1", "1", "4", f.w1, map[string]string{f.w1: "4"})

	res, err := f.svc.TransferStock(f.ctx, f.actor, f.pol, ledger.TransferInput{ProductID: p1, ToWarehouseID: f.w2})
	require.NoError(t, err)
	assertDec(t, "4", res.Quantity)
	assertDec(t, "4", f.alloc(p1, f.w2))
}

func TestTransferStock_InferenciaDeOrigen(t *testing.T) {
	f := newFixture(t)
	w3 := f.warehouse(f.actor.CompanyID, "W3", false)
	split := f.product("SPLIT", "1", "10", f.w2, map[string]string{f.w1: "4", f.w2: "6"})

	// Varias bodegas con stock: cae a la bodega asignada (W2).
	res, err := f.svc.TransferStock(f.ctx, f.actor, f.pol, ledger.TransferInput{ProductID: split, ToWarehouseID: w3, Quantity: qty("1")})
	require.NoError(t, err)
	assert.Equal(t, f.w2, res.FromWarehouseID)

	// En modo estricto se exige el origen explícito.
	strict := f.pol
	strict.StrictTransferSource = true
	_, err = f.svc.TransferStock(f.ctx, f.actor, strict, ledger.TransferInput{ProductID: split, ToWarehouseID: w3, Quantity: qty("1")})
	require.ErrorIs(t, err, domain.ErrNoSourceWarehouse)

	orphan := f.product("ORPHAN", "1", "5", "", nil)
	_, err = f.svc.TransferStock(f.ctx, f.actor, f.pol, ledger.TransferInput{ProductID: orphan, ToWarehouseID: w3})
	require.ErrorIs(t, err, domain.ErrNoSourceWarehouse)
}

func TestTransferStock_Errores(t *testing.T) {
	f := newFixture(t)
	p1 := f.product("P1", "1", "6", f.w1, map[string]string{f.w1: "6"})
	foreign := f.warehouse("otra-empresa", "Ajena", true)

	cases := []struct {
		name string
		in   ledger.TransferInput
		want error
	}{
		{"sin producto", ledger.TransferInput{ToWarehouseID: f.w2}, domain.ErrMissingProduct},
		{"sin destino", ledger.TransferInput{ProductID: p1}, domain.ErrInvalidDestination},
		{"destino de otra empresa", ledger.TransferInput{ProductID: p1, ToWarehouseID: foreign}, domain.ErrInvalidDestination},
		{"origen de otra empresa", ledger.TransferInput{ProductID: p1, FromWarehouseID: foreign, ToWarehouseID: f.w2}, domain.ErrInvalidSource},
		{"misma bodega", ledger.TransferInput{ProductID: p1, ToWarehouseID: f.w1}, domain.ErrSameWarehouse},
		{"origen vacío", ledger.TransferInput{ProductID: p1, FromWarehouseID: f.w2, ToWarehouseID: f.w1}, domain.ErrNoStockAtSource},
		{"excede disponible", ledger.TransferInput{ProductID: p1, ToWarehouseID: f.w2, Quantity: qty("7")}, domain.ErrInsufficientStockAtSource},
		{"cantidad cero", ledger.TransferInput{ProductID: p1, ToWarehouseID: f.w2, Quantity: qty("0")}, domain.ErrInvalidQuantity},
		{"producto inexistente", ledger.TransferInput{ProductID: "nope", ToWarehouseID: f.w2}, domain.ErrProductNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.TransferStock(f.ctx, f.actor, f.pol, tc.in)
			require.ErrorIs(t, err, tc.want)
		})
	}
	assertDec(t, "6", f.alloc(p1, f.w1))
	assert.Zero(t, f.store.Stats().Transfers)
}

func TestAllocateStock_AsignaStockDevuelto(t *testing.T) {
	f := newFixture(t)
	p1 := f.product("P1", "1", "10", f.w1, map[string]string{f.w1: "10"})
	sale, err := f.svc.RegisterSale(f.ctx, f.actor, f.pol, f.sale(line("P1", "4")))
	require.NoError(t, err)
	_, err = f.svc.RegisterReturn(f.ctx, f.actor, f.pol, f.ret(sale.SaleID, line("P1", "4")))
	require.NoError(t, err)
	assertDec(t, "6", f.allocated(p1))
	assertDec(t, "10", f.stock(p1))

	_, err = f.svc.AllocateStock(f.ctx, f.actor, ledger.AllocateInput{ProductID: p1, WarehouseID: f.w2, Quantity: qty("5")})
	require.ErrorIs(t, err, domain.ErrInsufficientStockAtSource)

	res, err := f.svc.AllocateStock(f.ctx, f.actor, ledger.AllocateInput{ProductID: p1, WarehouseID: f.w2})
	require.NoError(t, err)
	assertDec(t, "4", res.Quantity)
	assertDec(t, "4", f.alloc(p1, f.w2))
	assertDec(t, "10", f.allocated(p1))

	_, err = f.svc.AllocateStock(f.ctx, f.actor, ledger.AllocateInput{ProductID: p1, WarehouseID: f.w2})
	require.ErrorIs(t, err, domain.ErrNoStockAtSource)

	transfers, err := f.store.Repos().Transfers().ListByProduct(f.ctx, f.actor.CompanyID, p1, 0, 0)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Nil(t, transfers[0].FromWarehouseID)
}

func TestAllocateStock_AsignaBodegaSiNoTenia(t *testing.T) {
	f := newFixture(t)
	p := f.product("LEGACY", "1", "8", "", nil)

	res, err := f.svc.AllocateStock(f.ctx, f.actor, ledger.AllocateInput{ProductID: p, WarehouseID: f.w1})
	require.NoError(t, err)
	assert.True(t, res.Reassigned)
	assert.Equal(t, f.w1, f.assigned(p))
	assertDec(t, "8", f.alloc(p, f.w1))

	// Ahora se puede vender desde la bodega asignada.
	_, err = f.svc.RegisterSale(f.ctx, f.actor, f.pol, f.sale(line("LEGACY", "8")))
	require.NoError(t, err)
	assertDec(t, "0", f.stock(p))
}
