package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ReceivableRepository define el puerto de persistencia para cuentas por cobrar.
// Create devuelve domain.ErrDuplicate si la venta ya tiene cuenta por cobrar.
type ReceivableRepository interface {
	Create(ctx context.Context, ar *entity.AccountReceivable) error
	GetBySale(ctx context.Context, companyID, saleID string) (*entity.AccountReceivable, error)
}
