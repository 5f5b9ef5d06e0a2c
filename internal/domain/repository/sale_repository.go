package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateLine(ctx context.Context, line *entity.SaleLine) error
	// UpdateTotals persiste los totales calculados (segunda fase del registro).
	UpdateTotals(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error)
	// GetForUpdate lee la cabecera bloqueándola hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error)
	GetLines(ctx context.Context, saleID string) ([]*entity.SaleLine, error)
}
