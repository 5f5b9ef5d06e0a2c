package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Todas las consultas van acotadas a la empresa: no existe búsqueda sin companyID.
// Los métodos Get* devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, companyID, code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error)
	// Update modifica datos de catálogo. No toca Stock (solo vía ledger).
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, companyID, id string, stock decimal.Decimal) error
	UpdateCost(ctx context.Context, companyID, id string, cost decimal.Decimal) error
	AssignWarehouse(ctx context.Context, companyID, id string, warehouseID *string) error
	// ClearWarehouse quita la asignación de todos los productos que apuntan a la bodega.
	ClearWarehouse(ctx context.Context, companyID, warehouseID string) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)
	// IsReferenced indica si alguna línea de venta, devolución o compra usa el producto.
	IsReferenced(ctx context.Context, companyID, id string) (bool, error)
	Delete(ctx context.Context, companyID, id string) error
}
