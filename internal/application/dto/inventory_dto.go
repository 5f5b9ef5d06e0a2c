package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ProductID       string           `json:"product_id" validate:"omitempty,uuid"`
	FromWarehouseID string           `json:"from_warehouse_id,omitempty" validate:"omitempty,uuid"`
	ToWarehouseID   string           `json:"to_warehouse_id" validate:"omitempty,uuid"`
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	Reason          string           `json:"reason" validate:"max=500"`
}

// AllocateRequest body para POST /api/inventory/allocations.
type AllocateRequest struct {
	ProductID   string           `json:"product_id" validate:"omitempty,uuid"`
	WarehouseID string           `json:"warehouse_id" validate:"omitempty,uuid"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	Reason      string           `json:"reason" validate:"max=500"`
}

// TransferResponse resultado de un traslado o asignación.
type TransferResponse struct {
	OK              bool            `json:"ok"`
	TransferID      string          `json:"transfer_id"`
	FromWarehouseID string          `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Reassigned      bool            `json:"reassigned"`
}

// TransferRecordResponse registro histórico de traslado.
type TransferRecordResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	FromWarehouseID *string         `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Reason          string          `json:"reason"`
	UserID          string          `json:"user_id"`
	CreatedAt       time.Time       `json:"created_at"`
}

// MovementResponse fila del kardex.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	WarehouseID   *string         `json:"warehouse_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by"`
}
