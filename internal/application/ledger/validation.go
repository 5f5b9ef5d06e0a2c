package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

// LineItem línea solicitada por código de producto.
type LineItem struct {
	Code     string
	Quantity decimal.Decimal
}

func validateCustomer(name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.ErrMissingCustomer
	}
	return nil
}

func validateRate(rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return domain.ErrInvalidRate
	}
	return nil
}

// validateLines revisa código y cantidad de cada línea: entero positivo acotado.
func validateLines(policy Policy, items []LineItem, empty error) ([]LineItem, error) {
	if len(items) == 0 {
		return nil, empty
	}
	if policy.MaxItems > 0 && len(items) > policy.MaxItems {
		return nil, fmt.Errorf("%w: máximo %d", domain.ErrTooManyItems, policy.MaxItems)
	}
	max := decimal.NewFromInt(policy.MaxLineQuantity)
	out := make([]LineItem, len(items))
	for i, it := range items {
		code := strings.TrimSpace(it.Code)
		if code == "" {
			return nil, fmt.Errorf("%w: línea %d sin código", domain.ErrInvalidItem, i+1)
		}
		q := it.Quantity
		if !q.IsPositive() || !q.IsInteger() || (policy.MaxLineQuantity > 0 && q.GreaterThan(max)) {
			return nil, fmt.Errorf("%w: línea %d cantidad %s", domain.ErrInvalidItem, i+1, q)
		}
		out[i] = LineItem{Code: code, Quantity: q}
	}
	return out, nil
}

func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
