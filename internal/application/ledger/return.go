package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ReturnInput datos de una devolución. SaleID vacío = devolución sin venta de referencia.
type ReturnInput struct {
	Date          *time.Time
	SaleID        string
	CustomerName  string
	CustomerDoc   string
	CustomerPhone string
	ExchangeRate  decimal.Decimal
	Reference     string
	Reason        string
	Items         []LineItem
}

// ReturnResult resultado de RegisterReturn. TotalForeign está en USD.
type ReturnResult struct {
	ReturnID     string
	TotalLocal   decimal.Decimal
	TotalForeign decimal.Decimal
}

// soldLine agrupa lo vendido de un producto en la venta original.
type soldLine struct {
	quantity      decimal.Decimal
	unitPrice     decimal.Decimal
	subtotalLocal decimal.Decimal
}

func soldByProduct(lines []*entity.SaleLine) map[string]*soldLine {
	out := make(map[string]*soldLine, len(lines))
	for _, l := range lines {
		s, ok := out[l.ProductID]
		if !ok {
			out[l.ProductID] = &soldLine{quantity: l.Quantity, unitPrice: l.UnitPrice, subtotalLocal: l.SubtotalLocal}
			continue
		}
		s.quantity = s.quantity.Add(l.Quantity)
		s.subtotalLocal = s.subtotalLocal.Add(l.SubtotalLocal)
	}
	return out
}

// RegisterReturn registra una devolución. Con venta de referencia valida que el producto se
// haya vendido y que lo devuelto acumulado no supere lo vendido. El stock se repone solo en
// el agregado del producto.
func (s *Service) RegisterReturn(ctx context.Context, actor Actor, policy Policy, in ReturnInput) (res ReturnResult, err error) {
	ctx, span := s.startSpan(ctx, "RegisterReturn", actor)
	defer func() { endSpan(span, err) }()

	if !policy.ReturnsEnabled {
		return ReturnResult{}, domain.ErrReturnsDisabled
	}
	items, err := validateLines(policy, in.Items, domain.ErrEmptyItems)
	if err != nil {
		return ReturnResult{}, err
	}
	if err := validateCustomer(in.CustomerName); err != nil {
		return ReturnResult{}, err
	}
	if err := validateRate(in.ExchangeRate); err != nil {
		return ReturnResult{}, err
	}

	now := s.now()
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}
	if date.After(now) {
		return ReturnResult{}, fmt.Errorf("%w: la devolución no puede tener fecha futura", domain.ErrInvalidDate)
	}
	saleID := strings.TrimSpace(in.SaleID)

	err = s.run(ctx, func(repos Repos, fx *effects) error {
		res = ReturnResult{}

		// La cabecera de la venta se bloquea antes de leer lo ya devuelto: dos devoluciones
		// concurrentes contra la misma venta no pueden ver el mismo acumulado.
		var sold map[string]*soldLine
		returned := map[string]decimal.Decimal{}
		if saleID != "" {
			sale, err := repos.Sales().GetForUpdate(ctx, actor.CompanyID, saleID)
			if err != nil {
				return err
			}
			if sale == nil {
				return fmt.Errorf("%w: %s", domain.ErrOriginalSaleNotFound, saleID)
			}
			if date.Before(sale.Date) {
				return fmt.Errorf("%w: la devolución es anterior a la venta", domain.ErrInvalidDate)
			}
			if policy.ReturnWindowDays > 0 && now.Sub(sale.Date) > time.Duration(policy.ReturnWindowDays)*24*time.Hour {
				return fmt.Errorf("%w: máximo %d días", domain.ErrReturnWindowExceeded, policy.ReturnWindowDays)
			}
			lines, err := repos.Sales().GetLines(ctx, sale.ID)
			if err != nil {
				return err
			}
			sold = soldByProduct(lines)
			returned, err = repos.Returns().ReturnedQtyBySale(ctx, actor.CompanyID, sale.ID)
			if err != nil {
				return err
			}
		}

		ret := &entity.Return{
			ID:            uuid.New().String(),
			CompanyID:     actor.CompanyID,
			UserID:        actor.UserID,
			Date:          date,
			CustomerName:  strings.TrimSpace(in.CustomerName),
			CustomerDoc:   strings.TrimSpace(in.CustomerDoc),
			CustomerPhone: strings.TrimSpace(in.CustomerPhone),
			ExchangeRate:  in.ExchangeRate,
			Reference:     strings.TrimSpace(in.Reference),
			Reason:        strings.TrimSpace(in.Reason),
			CreatedAt:     now,
		}
		if saleID != "" {
			ret.SaleID = &saleID
		}
		if err := repos.Returns().Create(ctx, ret); err != nil {
			return err
		}

		book := newStockLedger(repos, actor, ret.ID, now)
		ids := make([]string, len(items))
		for i, it := range items {
			p, err := repos.Products().GetByCode(ctx, actor.CompanyID, it.Code)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: %s", domain.ErrProductNotFound, it.Code)
			}
			ids[i] = p.ID
		}
		if err := book.lockAll(ctx, ids); err != nil {
			return err
		}

		pending := map[string]decimal.Decimal{}
		totalUSD, totalLocal := decimal.Zero, decimal.Zero
		for i, it := range items {
			p, err := book.lock(ctx, ids[i])
			if err != nil {
				return err
			}

			price := p.Price
			subLocal := round2(price.Mul(it.Quantity).Mul(in.ExchangeRate))
			if sold != nil {
				orig, ok := sold[p.ID]
				if !ok {
					return fmt.Errorf("%w: %s", domain.ErrProductNotInOriginalSale, p.Code)
				}
				already := returned[p.ID].Add(pending[p.ID])
				if it.Quantity.Add(already).GreaterThan(orig.quantity) {
					return fmt.Errorf("%w: %s vendido %s, ya devuelto %s", domain.ErrReturnExceedsSold, p.Code, orig.quantity, already)
				}
				pending[p.ID] = pending[p.ID].Add(it.Quantity)
				price = orig.unitPrice
				subLocal = round2(orig.subtotalLocal.Mul(it.Quantity).Div(orig.quantity))
			}
			subUSD := round2(price.Mul(it.Quantity))

			if err := repos.Returns().CreateLine(ctx, &entity.ReturnLine{
				ID:            uuid.New().String(),
				ReturnID:      ret.ID,
				ProductID:     p.ID,
				Quantity:      it.Quantity,
				UnitPrice:     price,
				SubtotalUSD:   subUSD,
				SubtotalLocal: subLocal,
			}); err != nil {
				return err
			}
			totalUSD = totalUSD.Add(subUSD)
			totalLocal = totalLocal.Add(subLocal)

			if err := book.apply(ctx, stockChange{
				Product:   p,
				Aggregate: it.Quantity,
				Type:      entity.MovementTypeReturn,
				UnitCost:  p.Cost,
			}); err != nil {
				return err
			}
		}

		ret.TotalUSD = totalUSD
		ret.TotalLocal = totalLocal
		if err := repos.Returns().UpdateTotals(ctx, ret); err != nil {
			return err
		}
		res = ReturnResult{ReturnID: ret.ID, TotalLocal: totalLocal, TotalForeign: totalUSD}

		fx.audit(AuditEntry{
			CompanyID:  actor.CompanyID,
			UserID:     actor.UserID,
			Action:     "return.create",
			EntityType: "return",
			EntityID:   ret.ID,
			Detail:     fmt.Sprintf("venta %s, %d líneas, total USD %s", saleID, len(items), totalUSD),
			CreatedAt:  now,
		})
		fx.event(Event{
			Type:       "return.registered",
			CompanyID:  actor.CompanyID,
			EntityID:   ret.ID,
			Payload:    map[string]any{"sale_id": saleID, "total_usd": totalUSD.String()},
			OccurredAt: now,
		})
		return nil
	})
	if err != nil {
		return ReturnResult{}, err
	}
	return res, nil
}
