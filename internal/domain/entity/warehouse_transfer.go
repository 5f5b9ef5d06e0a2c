package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WarehouseTransfer registro append-only de un traslado entre bodegas.
// FromWarehouseID es nil cuando se asigna stock agregado que no estaba en ninguna bodega.
type WarehouseTransfer struct {
	ID              string
	CompanyID       string
	ProductID       string
	FromWarehouseID *string
	ToWarehouseID   string
	Quantity        decimal.Decimal
	Reason          string
	UserID          string
	CreatedAt       time.Time
}
