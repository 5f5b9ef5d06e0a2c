package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/ledger"
)

// Conservación: partiendo de un estado consistente, ventas, traslados, compras y
// asignaciones mantienen la suma de asignaciones igual al agregado, incluso con fallos.
func TestLedger_ConservacionDeStock(t *testing.T) {
	f := newFixture(t)
	w3 := f.warehouse(f.actor.CompanyID, "W3", false)
	p1 := f.product("P1", "2", "20", f.w1, map[string]string{f.w1: "12", f.w2: "8"})
	p2 := f.product("P2", "3", "5", f.w2, map[string]string{f.w2: "5"})

	check := func(step string) {
		t.Helper()
		for _, id := range []string{p1, p2} {
			require.Truef(t, f.allocated(id).Equal(f.stock(id)), "%s: asignado %s, agregado %s", step, f.allocated(id), f.stock(id))
		}
	}
	check("inicio")

	steps := []struct {
		name string
		run  func() error
	}{
		{"venta", func() error {
			_, err := f.svc.RegisterSale(f.ctx, f.actor, f.pol, f.sale(line("P1", "5"), line("P2", "2")))
			return err
		}},
		{"venta fallida", func() error {
			_, err := f.svc.RegisterSale(f.ctx, f.actor, f.pol, f.sale(line("P1", "1"), line("P2", "99")))
			if err == nil {
				t.Fatal("se esperaba error")
			}
			return nil
		}},
		{"traslado parcial", func() error {
			_, err := f.svc.TransferStock(f.ctx, f.actor, f.pol, ledger.TransferInput{ProductID: p1, FromWarehouseID: f.w2, ToWarehouseID: w3, Quantity: qty("3")})
			return err
		}},
		{"traslado total", func() error {
			_, err := f.svc.TransferStock(f.ctx, f.actor, f.pol, ledger.TransferInput{ProductID: p1, FromWarehouseID: f.w1, ToWarehouseID: w3})
			return err
		}},
		{"compra", func() error {
			_, err := f.svc.RegisterPurchase(f.ctx, f.actor, f.pol, ledger.PurchaseInput{
				WarehouseID: f.w1,
				Items:       []ledger.PurchaseItem{{Code: "P1", Quantity: d("4"), UnitCost: d("1")}, {Code: "P2", Quantity: d("1.5"), UnitCost: d("2")}},
			})
			return err
		}},
		{"venta desde nueva bodega", func() error {
			_, err := f.svc.RegisterSale(f.ctx, f.actor, f.pol, f.sale(line("P1", "2")))
			return err
		}},
	}
	for _, s := range steps {
		require.NoError(t, s.run(), s.name)
		check(s.name)
	}

	// Devolución: el agregado sube sin bodega; AllocateStock restablece la igualdad.
	sale, err := f.svc.RegisterSale(f.ctx, f.actor, f.pol, f.sale(line("P2", "1")))
	require.NoError(t, err)
	_, err = f.svc.RegisterReturn(f.ctx, f.actor, f.pol, f.ret(sale.SaleID, line("P2", "1")))
	require.NoError(t, err)
	_, err = f.svc.AllocateStock(f.ctx, f.actor, ledger.AllocateInput{ProductID: p2, WarehouseID: f.w2})
	require.NoError(t, err)
	check("devolución + asignación")
}
