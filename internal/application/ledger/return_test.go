package ledger_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

// Escenario B: venta de 4 y devolución de 4. El agregado vuelve a 10, la bodega se queda en 6.
func TestRegisterReturn_RepoAgregadoSolamente(t *testing.T) {
	f := newFixture(t)
	p1 := f.product("P1", "2.50", "10", f.w1, map[string]string{f.w1: "10"})
	sale, err := f.svc.RegisterSale(f.ctx, f.actor, f.pol, f.sale(line("P1", "4")))
	require.NoError(t, err)

	res, err := f.svc.RegisterReturn(f.ctx, f.actor, f.pol, f.ret(sale.SaleID, line("P1", "4")))
	require.NoError(t, err)
	require.NotEmpty(t, res.ReturnID)
	assertDec(t, "10", res.TotalForeign)
	assertDec(t, "400", res.TotalLocal)

	assertDec(t, "10", f.stock(p1))
	assertDec(t, "6", f.alloc(p1, f.w1))

	ret, err := f.store.Repos().Returns().GetByID(f.ctx, f.actor.CompanyID, res.ReturnID)
	require.NoError(t, err)
	require.NotNil(t, ret.SaleID)
	assert.Equal(t, sale.SaleID, *ret.SaleID)
}

// Escenario C: devolver 5 contra una línea de 4 falla y no persiste la devolución.
func TestRegisterReturn_ExcedeLoVendido(t *testing.T) {
	f := newFixture(t)
	p1 := f.product("P1", "1", "10", f.w1, map[string]string{f.w1: "10"})
	sale, err := f.svc.RegisterSale(f.ctx, f.actor, f.pol, f.sale(line("P1", "4")))
	require.NoError(t, err)

	_, err = f.svc.RegisterReturn(f.ctx, f.actor, f.pol, f.ret(sale.SaleID, line("P1", "5")))
	require.ErrorIs(t, err, domain.ErrReturnExceedsSold)
	assert.Contains(t, err.Error(), "vendido 4")
	assert.Zero(t, f.store.Stats().Returns)
	assertDec(t, "6", f.stock(p1))
}

func TestRegisterReturn_TopeAcumulado(t *testing.T) {
	f := newFixture(t)
	f.product("P1", "1", "10", f.w1, map[string]string{f.w1: "10"})
	sale, err := f.svc.RegisterSale(f.ctx, f.actor, f.pol, f.sale(line("P1", "4")))
	require.NoError(t, err)

	_, err = f.svc.RegisterReturn(f.ctx, f.actor, f.pol, f.ret(sale.SaleID, line("P1", "2")))
	require.NoError(t, err)

	_, err = f.svc.RegisterReturn(f.ctx, f.actor, f.pol, f.ret(sale.SaleID, line("P1", "3")))
	require.ErrorIs(t, err, domain.ErrReturnExceedsSold)
	assert.Contains(t, err.Error(), "ya devuelto 2")

	// Líneas repetidas en la misma petición cuentan para el tope.
	_, err = f.svc.RegisterReturn(f.ctx, f.actor, f.pol, f.ret(sale.SaleID, line("P1", "1"), line("P1", "2")))
	require.ErrorIs(t, err, domain.ErrReturnExceedsSold)

	_, err = f.svc.RegisterReturn(f.ctx, f.actor, f.pol, f.ret(sale.SaleID, line("P1", "1"), line("P1", "1")))
	require.NoError(t, err)

	returned, err := f.store.Repos().Returns().ReturnedQtyBySale(f.ctx, f.actor.CompanyID, sale.SaleID)
	require.NoError(t, err)
	require.Len(t, returned, 1)
	for _, q := range returned {
		assertDec(t, "4", q)
	}
	assert.Equal(t, 2, f.store.Stats().Returns)
}

func TestRegisterReturn_PrecioHistoricoYSubtotalProporcional(t *testing.T) {
	f := newFixture(t)
	p1 := f.product("P1", "3.33", "10", f.w1, map[string]string{f.w1: "10"})
	in := f.sale(line("P1", "3"))
	in.ExchangeRate = d("36.5")
	sale, err := f.svc.RegisterSale(f.ctx, f.actor, f.pol, in)
	require.NoError(t, err)

	// El catálogo cambia de precio después de la venta.
	p, err := f.store.Products().GetByID(f.ctx, f.actor.CompanyID, p1)
	require.NoError(t, err)
	p.Price = d("9.99")
	require.NoError(t, f.store.Products().Update(f.ctx, p))

	r := f.ret(sale.SaleID, line("P1", "1"))
	r.ExchangeRate = d("50")
	res, err := f.svc.RegisterReturn(f.ctx, f.actor, f.pol, r)
	require.NoError(t, err)

	// Subtotal local de la venta: 9.99 * 36.5 = 364.635 -> 364.64; un tercio = 121.55.
	assertDec(t, "121.55", res.TotalLocal)
	assertDec(t, "3.33", res.TotalForeign)

	lines, err := f.store.Repos().Returns().GetLines(f.ctx, res.ReturnID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assertDec(t, "3.33", lines[0].UnitPrice)
}

func TestRegisterReturn_SinVentaUsaPrecioDeCatalogo(t *testing.T) {
	f := newFixture(t)
	p1 := f.product("P1", "2", "0", f.w1, nil)

	res, err := f.svc.RegisterReturn(f.ctx, f.actor, f.pol, f.ret("", line("P1", "3")))
	require.NoError(t, err)
	assertDec(t, "6", res.TotalForeign)
	assertDec(t, "240", res.TotalLocal)
	assertDec(t, "3", f.stock(p1))
}

func TestRegisterReturn_ProductoFueraDeLaVenta(t *testing.T) {
	f := newFixture(t)
	f.product("P1", "1", "10", f.w1, map[string]string{f.w1: "10"})
	f.product("P2", "1", "10", f.w1, map[string]string{f.w1: "10"})
	sale, err := f.svc.RegisterSale(f.ctx, f.actor, f.pol, f.sale(line("P1", "1")))
	require.NoError(t, err)

	_, err = f.svc.RegisterReturn(f.ctx, f.actor, f.pol, f.ret(sale.SaleID, line("P1", "1"), line("P2", "1")))
	require.ErrorIs(t, err, domain.ErrProductNotInOriginalSale)
	assert.Zero(t, f.store.Stats().Returns)
}

func TestRegisterReturn_VentaInexistenteOAjena(t *testing.T) {
	f := newFixture(t)
	f.product("P1", "1", "10", f.w1, map[string]string{f.w1: "10"})
	sale, err := f.svc.RegisterSale(f.ctx, f.actor, f.pol, f.sale(line("P1", "1")))
	require.NoError(t, err)

	_, err = f.svc.RegisterReturn(f.ctx, f.actor, f.pol, f.ret("no-existe", line("P1", "1")))
	require.ErrorIs(t, err, domain.ErrOriginalSaleNotFound)

	other := ledger.Actor{CompanyID: "otra-empresa", UserID: "u"}
	_, err = f.svc.RegisterReturn(f.ctx, other, f.pol, f.ret(sale.SaleID, line("P1", "1")))
	require.ErrorIs(t, err, domain.ErrOriginalSaleNotFound)
}

func TestRegisterReturn_Politicas(t *testing.T) {
	f := newFixture(t)
	f.product("P1", "1", "10", f.w1, map[string]string{f.w1: "10"})
	sale, err := f.svc.RegisterSale(f.ctx, f.actor, f.pol, f.sale(line("P1", "2")))
	require.NoError(t, err)

	disabled := f.pol
	disabled.ReturnsEnabled = false
	_, err = f.svc.RegisterReturn(f.ctx, f.actor, disabled, f.ret(sale.SaleID, line("P1", "1")))
	require.ErrorIs(t, err, domain.ErrReturnsDisabled)

	// Diez días después, con ventana de 7 días.
	later := ledger.NewService(f.store, nil, ledger.WithClock(func() time.Time { return testNow.AddDate(0, 0, 10) }))
	window := f.pol
	window.ReturnWindowDays = 7
	_, err = later.RegisterReturn(f.ctx, f.actor, window, f.ret(sale.SaleID, line("P1", "1")))
	require.ErrorIs(t, err, domain.ErrReturnWindowExceeded)

	window.ReturnWindowDays = 30
	_, err = later.RegisterReturn(f.ctx, f.actor, window, f.ret(sale.SaleID, line("P1", "1")))
	require.NoError(t, err)
}

func TestRegisterReturn_ConcurrentesNoSuperanLoVendido(t *testing.T) {
	f := newFixture(t)
	p1 := f.product("P1", "1", "10", f.w1, map[string]string{f.w1: "10"})
	sale, err := f.svc.RegisterSale(f.ctx, f.actor, f.pol, f.sale(line("P1", "4")))
	require.NoError(t, err)

	errs := make([]error, 4)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.RegisterReturn(f.ctx, f.actor, f.pol, f.ret(sale.SaleID, line("P1", "4")))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrReturnExceedsSold), "error inesperado: %v", err)
	}
	assert.Equal(t, 1, ok)
	assertDec(t, "10", f.stock(p1))
}

func TestRegisterReturn_PlazoSeMideConElRelojDelServidor(t *testing.T) {
	f := newFixture(t)
	p1 := f.product("P1", "1", "10", f.w1, map[string]string{f.w1: "10"})
	sale, err := f.svc.RegisterSale(f.ctx, f.actor, f.pol, f.sale(line("P1", "2")))
	require.NoError(t, err)

	// Sesenta días después el cliente envía una fecha dentro del plazo.
	later := ledger.NewService(f.store, nil, ledger.WithClock(func() time.Time { return testNow.AddDate(0, 0, 60) }))
	window := f.pol
	window.ReturnWindowDays = 7
	in := f.ret(sale.SaleID, line("P1", "1"))
	backdated := testNow.AddDate(0, 0, 1)
	in.Date = &backdated

	_, err = later.RegisterReturn(f.ctx, f.actor, window, in)
	require.ErrorIs(t, err, domain.ErrReturnWindowExceeded)
	assert.True(t, f.stock(p1).Equal(d("8")), "sin reposición")
}

func TestRegisterReturn_FechaInvalida(t *testing.T) {
	f := newFixture(t)
	f.product("P1", "1", "10", f.w1, map[string]string{f.w1: "10"})
	sale, err := f.svc.RegisterSale(f.ctx, f.actor, f.pol, f.sale(line("P1", "2")))
	require.NoError(t, err)

	t.Run("anterior a la venta", func(t *testing.T) {
		in := f.ret(sale.SaleID, line("P1", "1"))
		before := testNow.Add(-time.Hour)
		in.Date = &before
		_, err := f.svc.RegisterReturn(f.ctx, f.actor, f.pol, in)
		require.ErrorIs(t, err, domain.ErrInvalidDate)
	})

	t.Run("fecha futura", func(t *testing.T) {
		in := f.ret(sale.SaleID, line("P1", "1"))
		future := testNow.AddDate(0, 0, 1)
		in.Date = &future
		_, err := f.svc.RegisterReturn(f.ctx, f.actor, f.pol, in)
		require.ErrorIs(t, err, domain.ErrInvalidDate)
	})

	t.Run("fecha explícita dentro del rango", func(t *testing.T) {
		in := f.ret(sale.SaleID, line("P1", "1"))
		at := testNow
		in.Date = &at
		_, err := f.svc.RegisterReturn(f.ctx, f.actor, f.pol, in)
		require.NoError(t, err)
	})
}

func TestRegisterReturn_Validaciones(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		mod  func(in *ledger.ReturnInput)
		want error
	}{
		{"sin productos", func(in *ledger.ReturnInput) { in.Items = nil }, domain.ErrEmptyItems},
		{"cliente vacío", func(in *ledger.ReturnInput) { in.CustomerName = "" }, domain.ErrMissingCustomer},
		{"tasa inválida", func(in *ledger.ReturnInput) { in.ExchangeRate = d("0") }, domain.ErrInvalidRate},
		{"cantidad inválida", func(in *ledger.ReturnInput) { in.Items = []ledger.LineItem{line("P1", "-1")} }, domain.ErrInvalidItem},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := f.ret("", line("P1", "1"))
			tc.mod(&in)
			_, err := f.svc.RegisterReturn(f.ctx, f.actor, f.pol, in)
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := f.svc.RegisterReturn(f.ctx, f.actor, f.pol, f.ret("", line("NOEXISTE", "1")))
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}
