package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

const warehouseColumns = `id, company_id, name, address, is_primary, active, created_at, updated_at`

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

func scanWarehouse(row pgx.Row) (*entity.Warehouse, error) {
	var w entity.Warehouse
	if err := row.Scan(&w.ID, &w.CompanyID, &w.Name, &w.Address, &w.IsPrimary, &w.Active, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

// Create persiste una bodega. Si es principal desmarca la anterior.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	if w.IsPrimary {
		if err := r.clearPrimary(ctx, w.CompanyID); err != nil {
			return err
		}
	}
	query := `
		INSERT INTO warehouses (` + warehouseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, w.ID, w.CompanyID, w.Name, w.Address, w.IsPrimary, w.Active, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

func (r *WarehouseRepo) clearPrimary(ctx context.Context, companyID string) error {
	_, err := r.q.Exec(ctx, `UPDATE warehouses SET is_primary = false, updated_at = now() WHERE company_id = $1 AND is_primary`, companyID)
	if err != nil {
		return fmt.Errorf("clear primary warehouse: %w", err)
	}
	return nil
}

func (r *WarehouseRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Warehouse, error) {
	w, err := scanWarehouse(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return w, nil
}

// GetByID obtiene una bodega de la empresa.
func (r *WarehouseRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Warehouse, error) {
	return r.getOne(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE company_id = $1 AND id = $2`, companyID, id)
}

// GetPrimary obtiene la bodega principal de la empresa.
func (r *WarehouseRepo) GetPrimary(ctx context.Context, companyID string) (*entity.Warehouse, error) {
	return r.getOne(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE company_id = $1 AND is_primary`, companyID)
}

// Update modifica nombre, dirección y estado. La marca de principal no se toca aquí.
func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE warehouses SET name = $3, address = $4, active = $5, updated_at = $6
		WHERE company_id = $1 AND id = $2`,
		w.CompanyID, w.ID, w.Name, w.Address, w.Active, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	return expectOne(tag)
}

// SetPrimary marca la bodega como principal (una sola por empresa).
func (r *WarehouseRepo) SetPrimary(ctx context.Context, companyID, id string) error {
	w, err := r.GetByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if w == nil {
		return domain.ErrNotFound
	}
	if err := r.clearPrimary(ctx, companyID); err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `UPDATE warehouses SET is_primary = true, updated_at = now() WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("set primary warehouse: %w", err)
	}
	return nil
}

// ListByCompany lista bodegas con la principal primero.
func (r *WarehouseRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+warehouseColumns+` FROM warehouses WHERE company_id = $1
		ORDER BY is_primary DESC, name LIMIT $2 OFFSET $3`,
		companyID, limitOrAll(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var list []*entity.Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// Delete elimina la bodega. Falla si aún tiene stock asignado.
func (r *WarehouseRepo) Delete(ctx context.Context, companyID, id string) error {
	var hasStock bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stock_allocations WHERE company_id = $1 AND warehouse_id = $2 AND quantity > 0)`,
		companyID, id).Scan(&hasStock)
	if err != nil {
		return fmt.Errorf("warehouse stock check: %w", err)
	}
	if hasStock {
		return domain.ErrWarehouseHasStock
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM warehouses WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete warehouse: %w", err)
	}
	return expectOne(tag)
}
