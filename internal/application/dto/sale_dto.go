package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest línea por código de producto.
type LineItemRequest struct {
	Code     string          `json:"code" validate:"max=100"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Date          *time.Time        `json:"date"`
	CustomerName  string            `json:"customer_name" validate:"max=200"`
	CustomerDoc   string            `json:"customer_doc" validate:"max=50"`
	CustomerPhone string            `json:"customer_phone" validate:"max=50"`
	ExchangeRate  decimal.Decimal   `json:"exchange_rate"`
	DiscountPct   decimal.Decimal   `json:"discount_pct"`
	PaymentMethod string            `json:"payment_method" validate:"max=50"`
	Reference     string            `json:"reference" validate:"max=100"`
	IVAPct        *decimal.Decimal  `json:"iva_pct"`
	IsCredit      bool              `json:"is_credit"`
	CreditDays    *int              `json:"credit_days"`
	DueDate       *time.Time        `json:"due_date"`
	Items         []LineItemRequest `json:"items" validate:"dive"`
}

// CreateSaleResponse salida de POST /api/sales.
type CreateSaleResponse struct {
	SaleID        string          `json:"sale_id"`
	ReceivableID  string          `json:"receivable_id,omitempty"`
	TotalUSD      decimal.Decimal `json:"total_usd"`
	TotalLocal    decimal.Decimal `json:"total_local"`
	TotalUSDIVA   decimal.Decimal `json:"total_usd_iva"`
	TotalLocalIVA decimal.Decimal `json:"total_local_iva"`
}

// SaleLineResponse línea de venta.
type SaleLineResponse struct {
	ProductID     string          `json:"product_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	SubtotalUSD   decimal.Decimal `json:"subtotal_usd"`
	SubtotalLocal decimal.Decimal `json:"subtotal_local"`
}

// ReceivableResponse cuenta por cobrar.
type ReceivableResponse struct {
	ID         string          `json:"id"`
	DueDate    time.Time       `json:"due_date"`
	TotalUSD   decimal.Decimal `json:"total_usd"`
	BalanceUSD decimal.Decimal `json:"balance_usd"`
	Status     string          `json:"status"`
}

// SaleResponse detalle de una venta.
type SaleResponse struct {
	ID            string              `json:"id"`
	Date          time.Time           `json:"date"`
	CustomerName  string              `json:"customer_name"`
	CustomerDoc   string              `json:"customer_doc"`
	ExchangeRate  decimal.Decimal     `json:"exchange_rate"`
	DiscountPct   decimal.Decimal     `json:"discount_pct"`
	IVAPct        decimal.Decimal     `json:"iva_pct"`
	PaymentMethod string              `json:"payment_method"`
	IsCredit      bool                `json:"is_credit"`
	TotalUSD      decimal.Decimal     `json:"total_usd"`
	TotalLocal    decimal.Decimal     `json:"total_local"`
	TotalUSDIVA   decimal.Decimal     `json:"total_usd_iva"`
	TotalLocalIVA decimal.Decimal     `json:"total_local_iva"`
	Lines         []SaleLineResponse  `json:"lines"`
	Receivable    *ReceivableResponse `json:"receivable,omitempty"`
}
