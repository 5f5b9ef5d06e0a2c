package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAllocation representa la cantidad de un producto asignada físicamente a una bodega.
// Nunca es negativa; se crea de forma perezosa en la primera asignación.
type StockAllocation struct {
	CompanyID   string
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
