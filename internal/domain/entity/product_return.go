package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Return representa la cabecera de una devolución. SaleID es nil en devoluciones manuales.
type Return struct {
	ID            string
	CompanyID     string
	UserID        string
	Date          time.Time
	CustomerName  string
	CustomerDoc   string
	CustomerPhone string
	ExchangeRate  decimal.Decimal
	Reference     string
	Reason        string
	SaleID        *string
	TotalUSD      decimal.Decimal
	TotalLocal    decimal.Decimal
	CreatedAt     time.Time
}

// ReturnLine línea de devolución con el precio unitario congelado.
type ReturnLine struct {
	ID            string
	ReturnID      string
	ProductID     string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	SubtotalUSD   decimal.Decimal
	SubtotalLocal decimal.Decimal
}
