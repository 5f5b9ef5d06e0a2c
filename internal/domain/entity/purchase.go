package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase entrada de mercancía a una bodega.
type Purchase struct {
	ID          string
	CompanyID   string
	UserID      string
	Date        time.Time
	Supplier    string
	Reference   string
	WarehouseID string // bodega común a todas las líneas; vacío si entraron a bodegas distintas
	TotalUSD    decimal.Decimal
	CreatedAt   time.Time
}

// PurchaseLine línea de compra con su costo unitario.
type PurchaseLine struct {
	ID          string
	PurchaseID  string
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	SubtotalUSD decimal.Decimal
}
