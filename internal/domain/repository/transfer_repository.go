package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// TransferRepository define el puerto de persistencia de traslados (append-only).
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.WarehouseTransfer) error
	ListByProduct(ctx context.Context, companyID, productID string, limit, offset int) ([]*entity.WarehouseTransfer, error)
}
