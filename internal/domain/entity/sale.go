package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethodCredit marcador de método de pago para ventas a crédito.
const PaymentMethodCredit = "credito"

// Sale representa la cabecera de una venta. Los totales se calculan en la misma
// transacción que inserta las líneas y no se modifican después.
type Sale struct {
	ID            string
	CompanyID     string
	UserID        string
	Date          time.Time
	CustomerName  string
	CustomerDoc   string
	CustomerPhone string
	ExchangeRate  decimal.Decimal // moneda local por USD
	DiscountPct   decimal.Decimal
	PaymentMethod string
	Reference     string
	IVAPct        decimal.Decimal
	IsCredit      bool
	TotalUSD      decimal.Decimal // con descuento, sin IVA
	TotalLocal    decimal.Decimal
	TotalUSDIVA   decimal.Decimal // con descuento e IVA
	TotalLocalIVA decimal.Decimal
	CreatedAt     time.Time
}

// SaleLine línea de venta. UnitPrice y UnitCost son copias al momento de la venta
// para que los márgenes históricos no cambien si luego cambia el catálogo.
type SaleLine struct {
	ID            string
	SaleID        string
	ProductID     string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	UnitCost      decimal.Decimal
	SubtotalUSD   decimal.Decimal
	SubtotalLocal decimal.Decimal
}
