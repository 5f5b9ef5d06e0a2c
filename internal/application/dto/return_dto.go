package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReturnRequest body para POST /api/returns.
type CreateReturnRequest struct {
	Date          *time.Time        `json:"date"`
	SaleID        string            `json:"sale_id" validate:"omitempty,uuid"`
	CustomerName  string            `json:"customer_name" validate:"max=200"`
	CustomerDoc   string            `json:"customer_doc" validate:"max=50"`
	CustomerPhone string            `json:"customer_phone" validate:"max=50"`
	ExchangeRate  decimal.Decimal   `json:"exchange_rate"`
	Reference     string            `json:"reference" validate:"max=100"`
	Reason        string            `json:"reason" validate:"max=500"`
	Items         []LineItemRequest `json:"items" validate:"dive"`
}

// CreateReturnResponse salida de POST /api/returns.
type CreateReturnResponse struct {
	ReturnID     string          `json:"return_id"`
	TotalLocal   decimal.Decimal `json:"total_local"`
	TotalForeign decimal.Decimal `json:"total_foreign"`
}

// ReturnLineResponse línea de devolución.
type ReturnLineResponse struct {
	ProductID     string          `json:"product_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	SubtotalUSD   decimal.Decimal `json:"subtotal_usd"`
	SubtotalLocal decimal.Decimal `json:"subtotal_local"`
}

// ReturnResponse detalle de una devolución.
type ReturnResponse struct {
	ID           string               `json:"id"`
	Date         time.Time            `json:"date"`
	SaleID       *string              `json:"sale_id"`
	CustomerName string               `json:"customer_name"`
	ExchangeRate decimal.Decimal      `json:"exchange_rate"`
	Reason       string               `json:"reason"`
	TotalUSD     decimal.Decimal      `json:"total_usd"`
	TotalLocal   decimal.Decimal      `json:"total_local"`
	Lines        []ReturnLineResponse `json:"lines"`
}
