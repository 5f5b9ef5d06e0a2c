package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por bodega+producto.
// Usado dentro de transacciones para garantizar consistencia. Get y GetForUpdate devuelven
// una asignación con cantidad cero si la fila no existe.
type StockRepository interface {
	Get(ctx context.Context, companyID, productID, warehouseID string) (*entity.StockAllocation, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, companyID, productID, warehouseID string) (*entity.StockAllocation, error)
	Upsert(ctx context.Context, stock *entity.StockAllocation) error
	ListByProduct(ctx context.Context, companyID, productID string) ([]*entity.StockAllocation, error)
	ListByWarehouse(ctx context.Context, companyID, warehouseID string) ([]*entity.StockAllocation, error)
	Delete(ctx context.Context, companyID, productID, warehouseID string) error
	DeleteByProduct(ctx context.Context, companyID, productID string) error
}
