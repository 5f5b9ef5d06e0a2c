package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Warehouse, error)
	GetPrimary(ctx context.Context, companyID string) (*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
	// SetPrimary marca la bodega como principal y desmarca la anterior.
	SetPrimary(ctx context.Context, companyID, id string) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error)
	Delete(ctx context.Context, companyID, id string) error
}
