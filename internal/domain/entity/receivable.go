package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una cuenta por cobrar.
const (
	ReceivableStatusPending = "pending"
	ReceivableStatusPartial = "partial"
	ReceivableStatusPaid    = "paid"
)

// AccountReceivable cuenta por cobrar generada por una venta a crédito (máximo una por venta).
// BalanceUSD solo disminuye con el registro de abonos.
type AccountReceivable struct {
	ID           string
	CompanyID    string
	SaleID       string
	CustomerName string
	EmittedAt    time.Time
	DueDate      time.Time
	TotalUSD     decimal.Decimal
	BalanceUSD   decimal.Decimal
	Status       string
	CreatedAt    time.Time
}
