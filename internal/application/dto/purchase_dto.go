package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItemRequest línea de compra.
type PurchaseItemRequest struct {
	Code     string          `json:"code" validate:"max=100"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	Date        *time.Time            `json:"date"`
	Supplier    string                `json:"supplier" validate:"max=200"`
	Reference   string                `json:"reference" validate:"max=100"`
	WarehouseID string                `json:"warehouse_id" validate:"omitempty,uuid"`
	Items       []PurchaseItemRequest `json:"items" validate:"dive"`
}

// CreatePurchaseResponse salida de POST /api/purchases.
type CreatePurchaseResponse struct {
	PurchaseID  string          `json:"purchase_id"`
	WarehouseID string          `json:"warehouse_id,omitempty"`
	TotalUSD    decimal.Decimal `json:"total_usd"`
}
