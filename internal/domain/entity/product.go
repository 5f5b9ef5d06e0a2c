package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de una empresa (multi-bodega).
// Stock es el agregado en todas las bodegas; el detalle por bodega vive en StockAllocation.
// Cost es promedio ponderado calculado desde las compras.
type Product struct {
	ID          string
	CompanyID   string
	Code        string // código único por empresa
	Description string
	Price       decimal.Decimal // precio de venta en USD
	Cost        decimal.Decimal // costo unitario en USD
	Stock       decimal.Decimal
	WarehouseID *string // bodega asignada (donde se descuentan las ventas)
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AssignedWarehouse devuelve la bodega asignada o "" si no tiene.
func (p *Product) AssignedWarehouse() string {
	if p == nil || p.WarehouseID == nil {
		return ""
	}
	return *p.WarehouseID
}
