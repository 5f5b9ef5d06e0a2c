package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func scanAllocation(row pgx.Row) (*entity.StockAllocation, error) {
	var s entity.StockAllocation
	if err := row.Scan(&s.CompanyID, &s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StockRepo) get(ctx context.Context, query, companyID, productID, warehouseID string) (*entity.StockAllocation, error) {
	s, err := scanAllocation(r.q.QueryRow(ctx, query, companyID, productID, warehouseID))
	if err != nil {
		if isNoRows(err) {
			return &entity.StockAllocation{CompanyID: companyID, ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// Get obtiene la asignación de un producto en una bodega. Sin fila devuelve cantidad cero.
func (r *StockRepo) Get(ctx context.Context, companyID, productID, warehouseID string) (*entity.StockAllocation, error) {
	return r.get(ctx, `
		SELECT company_id, product_id, warehouse_id, quantity, updated_at
		FROM stock_allocations WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3`,
		companyID, productID, warehouseID)
}

// GetForUpdate obtiene la asignación y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, companyID, productID, warehouseID string) (*entity.StockAllocation, error) {
	return r.get(ctx, `
		SELECT company_id, product_id, warehouse_id, quantity, updated_at
		FROM stock_allocations WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3
		FOR UPDATE`,
		companyID, productID, warehouseID)
}

// Upsert inserta o actualiza la cantidad (por producto y bodega).
func (r *StockRepo) Upsert(ctx context.Context, s *entity.StockAllocation) error {
	if s.Quantity.IsNegative() {
		return domain.ErrInsufficientWarehouseStock
	}
	query := `
		INSERT INTO stock_allocations (company_id, product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, s.CompanyID, s.ProductID, s.WarehouseID, s.Quantity)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientWarehouseStock
		}
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

func (r *StockRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockAllocation, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockAllocation
	for rows.Next() {
		s, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ListByProduct asignaciones de un producto en todas las bodegas.
func (r *StockRepo) ListByProduct(ctx context.Context, companyID, productID string) ([]*entity.StockAllocation, error) {
	return r.list(ctx, `
		SELECT company_id, product_id, warehouse_id, quantity, updated_at
		FROM stock_allocations WHERE company_id = $1 AND product_id = $2
		ORDER BY warehouse_id`, companyID, productID)
}

// ListByWarehouse asignaciones de todos los productos en una bodega.
func (r *StockRepo) ListByWarehouse(ctx context.Context, companyID, warehouseID string) ([]*entity.StockAllocation, error) {
	return r.list(ctx, `
		SELECT company_id, product_id, warehouse_id, quantity, updated_at
		FROM stock_allocations WHERE company_id = $1 AND warehouse_id = $2
		ORDER BY product_id`, companyID, warehouseID)
}

// Delete elimina una asignación.
func (r *StockRepo) Delete(ctx context.Context, companyID, productID, warehouseID string) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM stock_allocations WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3`,
		companyID, productID, warehouseID)
	if err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	return nil
}

// DeleteByProduct elimina todas las asignaciones de un producto.
func (r *StockRepo) DeleteByProduct(ctx context.Context, companyID, productID string) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM stock_allocations WHERE company_id = $1 AND product_id = $2`, companyID, productID)
	if err != nil {
		return fmt.Errorf("delete product stock: %w", err)
	}
	return nil
}
