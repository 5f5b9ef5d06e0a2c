package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ledger.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repos agrupa todos los repositorios sobre un mismo Querier (pool o tx).
type Repos struct {
	q Querier
}

// NewRepos construye el conjunto de repositorios. Con el pool sirve para lecturas fuera de tx.
func NewRepos(q Querier) Repos {
	return Repos{q: q}
}

func (r Repos) Products() repository.ProductRepository     { return NewProductRepository(r.q) }
func (r Repos) Warehouses() repository.WarehouseRepository { return NewWarehouseRepository(r.q) }
func (r Repos) Stock() repository.StockRepository          { return NewStockRepository(r.q) }
func (r Repos) Movements() repository.InventoryMovementRepository {
	return NewInventoryMovementRepository(r.q)
}
func (r Repos) Sales() repository.SaleRepository             { return NewSaleRepository(r.q) }
func (r Repos) Returns() repository.ReturnRepository         { return NewReturnRepository(r.q) }
func (r Repos) Receivables() repository.ReceivableRepository { return NewReceivableRepository(r.q) }
func (r Repos) Transfers() repository.TransferRepository     { return NewTransferRepository(r.q) }
func (r Repos) Purchases() repository.PurchaseRepository     { return NewPurchaseRepository(r.q) }
func (r Repos) Companies() repository.CompanyRepository      { return NewCompanyRepository(r.q) }
func (r Repos) Settings() repository.SettingsRepository      { return NewSettingsRepository(r.q) }
