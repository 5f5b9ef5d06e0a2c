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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, company_id, code, description, price, cost, stock, warehouse_id, active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.CompanyID, &p.Code, &p.Description, &p.Price, &p.Cost, &p.Stock,
		&p.WarehouseID, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.Code, p.Description, p.Price, p.Cost, p.Stock,
		p.WarehouseID, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetByID obtiene un producto de la empresa por ID.
func (r *ProductRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product",
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 AND id = $2`, companyID, id)
}

// GetByCode obtiene un producto por empresa y código.
func (r *ProductRepo) GetByCode(ctx context.Context, companyID, code string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by code",
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 AND code = $2`, companyID, code)
}

// GetForUpdate obtiene el producto y bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.getOne(ctx, "lock product",
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 AND id = $2 FOR UPDATE`, companyID, id)
}

// Update modifica los datos de catálogo. El stock solo cambia vía UpdateStock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET code = $3, description = $4, price = $5, cost = $6,
		       warehouse_id = $7, active = $8, updated_at = $9
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, p.CompanyID, p.ID, p.Code, p.Description, p.Price, p.Cost,
		p.WarehouseID, p.Active, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return expectOne(tag)
}

// UpdateStock fija el stock agregado. El CHECK del esquema rechaza valores negativos.
func (r *ProductRepo) UpdateStock(ctx context.Context, companyID, id string, stock decimal.Decimal) error {
	if stock.IsNegative() {
		return domain.ErrInsufficientStock
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET stock = $3, updated_at = now() WHERE company_id = $1 AND id = $2`,
		companyID, id, stock)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("update product stock: %w", err)
	}
	return expectOne(tag)
}

// UpdateCost fija el costo promedio.
func (r *ProductRepo) UpdateCost(ctx context.Context, companyID, id string, cost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET cost = $3, updated_at = now() WHERE company_id = $1 AND id = $2`,
		companyID, id, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return expectOne(tag)
}

// AssignWarehouse cambia (o limpia con nil) la bodega asignada.
func (r *ProductRepo) AssignWarehouse(ctx context.Context, companyID, id string, warehouseID *string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET warehouse_id = $3, updated_at = now() WHERE company_id = $1 AND id = $2`,
		companyID, id, warehouseID)
	if err != nil {
		return fmt.Errorf("assign product warehouse: %w", err)
	}
	return expectOne(tag)
}

// ClearWarehouse deja sin bodega asignada a todos los productos que apuntaban a warehouseID.
func (r *ProductRepo) ClearWarehouse(ctx context.Context, companyID, warehouseID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE products SET warehouse_id = NULL, updated_at = now() WHERE company_id = $1 AND warehouse_id = $2`,
		companyID, warehouseID)
	if err != nil {
		return fmt.Errorf("clear product warehouse: %w", err)
	}
	return nil
}

// ListByCompany lista productos ordenados por código.
func (r *ProductRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 ORDER BY code LIMIT $2 OFFSET $3`,
		companyID, limitOrAll(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// IsReferenced indica si el producto aparece en líneas de venta, devolución o compra.
func (r *ProductRepo) IsReferenced(ctx context.Context, companyID, id string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM sale_lines l JOIN sales s ON s.id = l.sale_id
		               WHERE s.company_id = $1 AND l.product_id = $2)
		    OR EXISTS (SELECT 1 FROM return_lines l JOIN returns d ON d.id = l.return_id
		               WHERE d.company_id = $1 AND l.product_id = $2)
		    OR EXISTS (SELECT 1 FROM purchase_lines l JOIN purchases c ON c.id = l.purchase_id
		               WHERE c.company_id = $1 AND l.product_id = $2)`
	var found bool
	if err := r.q.QueryRow(ctx, query, companyID, id).Scan(&found); err != nil {
		return false, fmt.Errorf("product references: %w", err)
	}
	return found, nil
}

// Delete elimina el producto.
func (r *ProductRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return expectOne(tag)
}
