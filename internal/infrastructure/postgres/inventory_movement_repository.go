package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo kardex append-only sobre PostgreSQL.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create inserta un movimiento.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (id, company_id, transaction_id, product_id, warehouse_id, type, quantity, unit_cost, total_cost, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, m.TransactionID, m.ProductID, m.WarehouseID, m.Type,
		m.Quantity, m.UnitCost, m.TotalCost, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByProduct kardex del producto, más reciente primero.
func (r *InventoryMovementRepo) ListByProduct(ctx context.Context, companyID, productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, company_id, transaction_id, product_id, warehouse_id, type, quantity, unit_cost, total_cost, created_at, created_by
		FROM inventory_movements
		WHERE company_id = $1 AND product_id = $2
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, productID, limitOrAll(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.TransactionID, &m.ProductID, &m.WarehouseID, &m.Type,
			&m.Quantity, &m.UnitCost, &m.TotalCost, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
