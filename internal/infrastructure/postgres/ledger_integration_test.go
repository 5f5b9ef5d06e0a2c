package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/migration"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Ventas-api/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Integración contra PostgreSQL real (TEST_DATABASE_URL)
// ──────────────────────────────────────────────────────────────────────────────

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../../.env")
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	m, err := migration.New(url, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	pool, err := postgres.NewPool(context.Background(), config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

type pgFixture struct {
	ctx   context.Context
	repos postgres.Repos
	tx    *postgres.TxRunner
	actor ledger.Actor
	w1    string
	w2    string
}

func newPGFixture(t *testing.T) *pgFixture {
	pool := testPool(t)
	ctx := context.Background()
	now := time.Now().UTC()
	f := &pgFixture{
		ctx:   ctx,
		repos: postgres.NewRepos(pool),
		tx:    postgres.NewTxRunner(pool),
		actor: ledger.Actor{CompanyID: uuid.NewString(), UserID: "integration"},
		w1:    uuid.NewString(),
		w2:    uuid.NewString(),
	}
	require.NoError(t, f.repos.Companies().Create(ctx, &entity.Company{ID: f.actor.CompanyID, Name: "Integración", CreatedAt: now, UpdatedAt: now}))
	for i, id := range []string{f.w1, f.w2} {
		require.NoError(t, f.repos.Warehouses().Create(ctx, &entity.Warehouse{
			ID: id, CompanyID: f.actor.CompanyID, Name: []string{"W1", "W2"}[i], IsPrimary: i == 0, Active: true, CreatedAt: now, UpdatedAt: now,
		}))
	}
	return f
}

func (f *pgFixture) product(t *testing.T, code string, stock int64, wh string) string {
	now := time.Now().UTC()
	p := &entity.Product{
		ID: uuid.NewString(), CompanyID: f.actor.CompanyID, Code: code, Description: code,
		Price: decimal.NewFromInt(10), Cost: decimal.NewFromInt(4), Stock: decimal.NewFromInt(stock),
		WarehouseID: &wh, Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.repos.Products().Create(f.ctx, p))
	require.NoError(t, f.repos.Stock().Upsert(f.ctx, &entity.StockAllocation{
		CompanyID: f.actor.CompanyID, ProductID: p.ID, WarehouseID: wh, Quantity: decimal.NewFromInt(stock),
	}))
	return p.ID
}

func TestPostgres_VentaYDevolucion(t *testing.T) {
	f := newPGFixture(t)
	pid := f.product(t, "PG-1", 10, f.w1)
	svc := ledger.NewService(f.tx, nil)
	pol := ledger.DefaultPolicy()

	sale, err := svc.RegisterSale(f.ctx, f.actor, pol, ledger.SaleInput{
		CustomerName:  "Cliente",
		ExchangeRate:  decimal.NewFromInt(36),
		PaymentMethod: "efectivo",
		Items:         []ledger.LineItem{{Code: "PG-1", Quantity: decimal.NewFromInt(4)}},
	})
	require.NoError(t, err)

	p, err := f.repos.Products().GetByID(f.ctx, f.actor.CompanyID, pid)
	require.NoError(t, err)
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(6)))

	_, err = svc.RegisterReturn(f.ctx, f.actor, pol, ledger.ReturnInput{
		SaleID:       sale.SaleID,
		CustomerName: "Cliente",
		ExchangeRate: decimal.NewFromInt(36),
		Items:        []ledger.LineItem{{Code: "PG-1", Quantity: decimal.NewFromInt(5)}},
	})
	assert.ErrorIs(t, err, domain.ErrReturnExceedsSold)

	returned, err := f.repos.Returns().ReturnedQtyBySale(f.ctx, f.actor.CompanyID, sale.SaleID)
	require.NoError(t, err)
	assert.Empty(t, returned)
}

func TestPostgres_RollbackAnteFalloParcial(t *testing.T) {
	f := newPGFixture(t)
	a := f.product(t, "PG-A", 5, f.w1)
	f.product(t, "PG-B", 1, f.w1)
	svc := ledger.NewService(f.tx, nil)

	_, err := svc.RegisterSale(f.ctx, f.actor, ledger.DefaultPolicy(), ledger.SaleInput{
		CustomerName:  "Cliente",
		ExchangeRate:  decimal.NewFromInt(1),
		PaymentMethod: "efectivo",
		Items: []ledger.LineItem{
			{Code: "PG-A", Quantity: decimal.NewFromInt(2)},
			{Code: "PG-B", Quantity: decimal.NewFromInt(3)},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, err := f.repos.Products().GetByID(f.ctx, f.actor.CompanyID, a)
	require.NoError(t, err)
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(5)))
	alloc, err := f.repos.Stock().Get(f.ctx, f.actor.CompanyID, a, f.w1)
	require.NoError(t, err)
	assert.True(t, alloc.Quantity.Equal(decimal.NewFromInt(5)))
}

func TestPostgres_Traslado(t *testing.T) {
	f := newPGFixture(t)
	pid := f.product(t, "PG-T", 8, f.w1)
	svc := ledger.NewService(f.tx, nil)
	q := decimal.NewFromInt(3)

	res, err := svc.TransferStock(f.ctx, f.actor, ledger.DefaultPolicy(), ledger.TransferInput{
		ProductID: pid, FromWarehouseID: f.w1, ToWarehouseID: f.w2, Quantity: &q,
	})
	require.NoError(t, err)
	assert.True(t, res.OK)

	list, err := f.repos.Transfers().ListByProduct(f.ctx, f.actor.CompanyID, pid, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.w2, list[0].ToWarehouseID)

	movs, err := f.repos.Movements().ListByProduct(f.ctx, f.actor.CompanyID, pid, 0, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 2)
}

func TestPostgres_ProductoDuplicado(t *testing.T) {
	f := newPGFixture(t)
	f.product(t, "PG-D", 1, f.w1)
	now := time.Now().UTC()
	err := f.repos.Products().Create(f.ctx, &entity.Product{
		ID: uuid.NewString(), CompanyID: f.actor.CompanyID, Code: "PG-D", Active: true, CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
