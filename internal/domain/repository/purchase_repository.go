package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia de compras.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	CreateLine(ctx context.Context, line *entity.PurchaseLine) error
	UpdateTotals(ctx context.Context, purchase *entity.Purchase) error
}
