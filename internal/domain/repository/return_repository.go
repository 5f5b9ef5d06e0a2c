package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ReturnRepository define el puerto de persistencia para devoluciones.
type ReturnRepository interface {
	Create(ctx context.Context, ret *entity.Return) error
	CreateLine(ctx context.Context, line *entity.ReturnLine) error
	UpdateTotals(ctx context.Context, ret *entity.Return) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Return, error)
	GetLines(ctx context.Context, returnID string) ([]*entity.ReturnLine, error)
	// ReturnedQtyBySale suma lo ya devuelto por producto entre todas las devoluciones de la venta.
	ReturnedQtyBySale(ctx context.Context, companyID, saleID string) (map[string]decimal.Decimal, error)
}
