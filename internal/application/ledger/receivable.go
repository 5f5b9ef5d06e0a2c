package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// dueDate calcula el vencimiento: fecha explícita o emisión + días (acotado a 1..365).
func dueDate(emission time.Time, explicit *time.Time, days *int, defaultDays int) time.Time {
	if explicit != nil && !explicit.IsZero() {
		return *explicit
	}
	d := defaultDays
	if days != nil {
		d = *days
	}
	return emission.AddDate(0, 0, clampDays(d))
}

// newReceivable crea la cuenta por cobrar de una venta a crédito, con saldo igual al total con IVA.
func newReceivable(sale *entity.Sale, due time.Time, now time.Time) *entity.AccountReceivable {
	return &entity.AccountReceivable{
		ID:           uuid.New().String(),
		CompanyID:    sale.CompanyID,
		SaleID:       sale.ID,
		CustomerName: sale.CustomerName,
		EmittedAt:    sale.Date,
		DueDate:      due,
		TotalUSD:     sale.TotalUSDIVA,
		BalanceUSD:   sale.TotalUSDIVA,
		Status:       entity.ReceivableStatusPending,
		CreatedAt:    now,
	}
}
