package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func qty(s string) *decimal.Decimal { v := d(s); return &v }

// fixture empresa con dos bodegas (W1 principal, W2) sobre el store en memoria.
type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *memory.Store
	svc   *ledger.Service
	disp  *ledger.Dispatcher
	actor ledger.Actor
	pol   ledger.Policy
	w1    string
	w2    string
}

func newFixture(t *testing.T, opts ...ledger.Option) *fixture {
	t.Helper()
	store := memory.New()
	disp := ledger.NewDispatcher(store, store, store, time.Second, zerolog.Nop())
	opts = append([]ledger.Option{ledger.WithClock(func() time.Time { return testNow })}, opts...)
	f := &fixture{
		t:     t,
		ctx:   context.Background(),
		store: store,
		svc:   ledger.NewService(store, disp, opts...),
		disp:  disp,
		actor: ledger.Actor{CompanyID: uuid.NewString(), UserID: uuid.NewString()},
		pol:   ledger.DefaultPolicy(),
	}
	f.w1 = f.warehouse(f.actor.CompanyID, "W1", true)
	f.w2 = f.warehouse(f.actor.CompanyID, "W2", false)
	return f
}

func (f *fixture) warehouse(companyID, name string, primary bool) string {
	f.t.Helper()
	wh := &entity.Warehouse{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Name:      name,
		IsPrimary: primary,
		Active:    true,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	require.NoError(f.t, f.store.Warehouses().Create(f.ctx, wh))
	return wh.ID
}

// product crea un producto con stock agregado total y lo reparte según alloc (bodega -> cantidad).
// assigned vacío = sin bodega asignada.
func (f *fixture) product(code, price string, total string, assigned string, alloc map[string]string) string {
	f.t.Helper()
	p := &entity.Product{
		ID:          uuid.NewString(),
		CompanyID:   f.actor.CompanyID,
		Code:        code,
		Description: "Producto " + code,
		Price:       d(price),
		Cost:        d("1"),
		Stock:       d(total),
		Active:      true,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
	if assigned != "" {
		p.WarehouseID = &assigned
	}
	err := f.store.Run(f.ctx, func(repos ledger.Repos) error {
		if err := repos.Products().Create(f.ctx, p); err != nil {
			return err
		}
		for wh, q := range alloc {
			if err := repos.Stock().Upsert(f.ctx, &entity.StockAllocation{
				CompanyID:   f.actor.CompanyID,
				ProductID:   p.ID,
				WarehouseID: wh,
				Quantity:    d(q),
				UpdatedAt:   testNow,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(f.t, err)
	return p.ID
}

func (f *fixture) stock(productID string) decimal.Decimal {
	f.t.Helper()
	p, err := f.store.Products().GetByID(f.ctx, f.actor.CompanyID, productID)
	require.NoError(f.t, err)
	require.NotNil(f.t, p)
	return p.Stock
}

func (f *fixture) alloc(productID, warehouseID string) decimal.Decimal {
	f.t.Helper()
	a, err := f.store.Repos().Stock().Get(f.ctx, f.actor.CompanyID, productID, warehouseID)
	require.NoError(f.t, err)
	return a.Quantity
}

func (f *fixture) allocated(productID string) decimal.Decimal {
	f.t.Helper()
	list, err := f.store.Repos().Stock().ListByProduct(f.ctx, f.actor.CompanyID, productID)
	require.NoError(f.t, err)
	sum := decimal.Zero
	for _, a := range list {
		sum = sum.Add(a.Quantity)
	}
	return sum
}

func (f *fixture) assigned(productID string) string {
	f.t.Helper()
	p, err := f.store.Products().GetByID(f.ctx, f.actor.CompanyID, productID)
	require.NoError(f.t, err)
	return p.AssignedWarehouse()
}

func (f *fixture) sale(items ...ledger.LineItem) ledger.SaleInput {
	return ledger.SaleInput{
		CustomerName:  "Cliente Demo",
		ExchangeRate:  d("40"),
		PaymentMethod: "efectivo",
		IVAPct:        qty("0"),
		Items:         items,
	}
}

func (f *fixture) ret(saleID string, items ...ledger.LineItem) ledger.ReturnInput {
	return ledger.ReturnInput{
		SaleID:       saleID,
		CustomerName: "Cliente Demo",
		ExchangeRate: d("40"),
		Items:        items,
	}
}

func line(code, q string) ledger.LineItem { return ledger.LineItem{Code: code, Quantity: d(q)} }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.Truef(t, d(want).Equal(got), "esperado %s, obtenido %s %v", want, got, msgAndArgs)
}
