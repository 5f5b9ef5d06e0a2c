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

// SaleInput datos de una venta.
type SaleInput struct {
	Date          *time.Time
	CustomerName  string
	CustomerDoc   string
	CustomerPhone string
	ExchangeRate  decimal.Decimal
	DiscountPct   decimal.Decimal
	PaymentMethod string
	Reference     string
	IVAPct        *decimal.Decimal // nil = IVA por defecto de la empresa
	IsCredit      bool
	CreditDays    *int
	DueDate       *time.Time
	Items         []LineItem
}

// SaleResult resultado de RegisterSale. ReceivableID vacío si la venta no es a crédito.
type SaleResult struct {
	SaleID        string
	ReceivableID  string
	TotalUSD      decimal.Decimal
	TotalLocal    decimal.Decimal
	TotalUSDIVA   decimal.Decimal
	TotalLocalIVA decimal.Decimal
}

type saleRequest struct {
	SaleInput
	paymentMethod string
	discount      decimal.Decimal
	iva           decimal.Decimal
}

func normalizeSale(policy Policy, in SaleInput) (saleRequest, error) {
	items, err := validateLines(policy, in.Items, domain.ErrEmptyCart)
	if err != nil {
		return saleRequest{}, err
	}
	if err := validateCustomer(in.CustomerName); err != nil {
		return saleRequest{}, err
	}
	if err := validateRate(in.ExchangeRate); err != nil {
		return saleRequest{}, err
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" && in.IsCredit {
		method = entity.PaymentMethodCredit
	}
	if method == "" {
		return saleRequest{}, domain.ErrInvalidPaymentMethod
	}
	iva := policy.DefaultIVA
	if in.IVAPct != nil {
		iva = *in.IVAPct
	}
	req := saleRequest{
		SaleInput:     in,
		paymentMethod: method,
		discount:      clampPct(in.DiscountPct),
		iva:           clampPct(iva),
	}
	req.Items = items
	req.CustomerName = strings.TrimSpace(in.CustomerName)
	return req, nil
}

// RegisterSale registra una venta de forma atómica: cabecera, líneas con precio y costo
// congelados, descuento de stock en el agregado y en la bodega asignada, totales y, si es
// a crédito, la cuenta por cobrar.
func (s *Service) RegisterSale(ctx context.Context, actor Actor, policy Policy, in SaleInput) (res SaleResult, err error) {
	ctx, span := s.startSpan(ctx, "RegisterSale", actor)
	defer func() { endSpan(span, err) }()

	req, err := normalizeSale(policy, in)
	if err != nil {
		return SaleResult{}, err
	}

	now := s.now()
	date := now
	if req.Date != nil && !req.Date.IsZero() {
		date = *req.Date
	}

	err = s.run(ctx, func(repos Repos, fx *effects) error {
		res = SaleResult{}
		sale := &entity.Sale{
			ID:            uuid.New().String(),
			CompanyID:     actor.CompanyID,
			UserID:        actor.UserID,
			Date:          date,
			CustomerName:  req.CustomerName,
			CustomerDoc:   strings.TrimSpace(req.CustomerDoc),
			CustomerPhone: strings.TrimSpace(req.CustomerPhone),
			ExchangeRate:  req.ExchangeRate,
			DiscountPct:   req.discount,
			PaymentMethod: req.paymentMethod,
			Reference:     strings.TrimSpace(req.Reference),
			IVAPct:        req.iva,
			IsCredit:      req.IsCredit,
			CreatedAt:     now,
		}
		if err := repos.Sales().Create(ctx, sale); err != nil {
			return err
		}

		book := newStockLedger(repos, actor, sale.ID, now)

		// Resolver todos los códigos en orden de la petición y luego bloquear en orden de id.
		ids := make([]string, len(req.Items))
		for i, it := range req.Items {
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

		totalUSD, totalLocal := decimal.Zero, decimal.Zero
		for i, it := range req.Items {
			p, err := book.lock(ctx, ids[i])
			if err != nil {
				return err
			}
			if p.Stock.LessThan(it.Quantity) {
				return fmt.Errorf("%w: %s disponible %s, solicitado %s", domain.ErrInsufficientStock, p.Code, p.Stock, it.Quantity)
			}
			warehouseID := p.AssignedWarehouse()
			if warehouseID == "" {
				return fmt.Errorf("%w: %s", domain.ErrNoWarehouseAssigned, p.Code)
			}
			available, err := book.allocation(ctx, p.ID, warehouseID)
			if err != nil {
				return err
			}
			if available.LessThan(it.Quantity) {
				return fmt.Errorf("%w: %s disponible %s, solicitado %s", domain.ErrInsufficientWarehouseStock, p.Code, available, it.Quantity)
			}

			subUSD := round2(p.Price.Mul(it.Quantity))
			subLocal := round2(subUSD.Mul(req.ExchangeRate))
			if err := repos.Sales().CreateLine(ctx, &entity.SaleLine{
				ID:            uuid.New().String(),
				SaleID:        sale.ID,
				ProductID:     p.ID,
				Quantity:      it.Quantity,
				UnitPrice:     p.Price,
				UnitCost:      p.Cost,
				SubtotalUSD:   subUSD,
				SubtotalLocal: subLocal,
			}); err != nil {
				return err
			}
			totalUSD = totalUSD.Add(subUSD)
			totalLocal = totalLocal.Add(subLocal)

			if err := book.apply(ctx, stockChange{
				Product:     p,
				WarehouseID: warehouseID,
				Aggregate:   it.Quantity.Neg(),
				Allocation:  it.Quantity.Neg(),
				Type:        entity.MovementTypeSale,
				UnitCost:    p.Cost,
			}); err != nil {
				return err
			}
			if p.Stock.IsZero() {
				fx.alert(Alert{
					CompanyID:  actor.CompanyID,
					Kind:       AlertOutOfStock,
					Message:    fmt.Sprintf("Producto %s (%s) sin existencias", p.Code, p.Description),
					EntityType: "product",
					EntityID:   p.ID,
					CreatedAt:  now,
				})
			}
		}

		discount := decimal.NewFromInt(1).Sub(req.discount.Div(hundred))
		ivaFactor := decimal.NewFromInt(1).Add(req.iva.Div(hundred))
		sale.TotalUSD = round2(totalUSD.Mul(discount))
		sale.TotalLocal = round2(totalLocal.Mul(discount))
		sale.TotalUSDIVA = round2(sale.TotalUSD.Mul(ivaFactor))
		sale.TotalLocalIVA = round2(sale.TotalLocal.Mul(ivaFactor))
		if err := repos.Sales().UpdateTotals(ctx, sale); err != nil {
			return err
		}

		res.SaleID = sale.ID
		res.TotalUSD = sale.TotalUSD
		res.TotalLocal = sale.TotalLocal
		res.TotalUSDIVA = sale.TotalUSDIVA
		res.TotalLocalIVA = sale.TotalLocalIVA

		if sale.IsCredit {
			ar := newReceivable(sale, dueDate(sale.Date, req.DueDate, req.CreditDays, policy.CreditDaysDefault), now)
			if err := repos.Receivables().Create(ctx, ar); err != nil {
				return err
			}
			res.ReceivableID = ar.ID
		}

		fx.audit(AuditEntry{
			CompanyID:  actor.CompanyID,
			UserID:     actor.UserID,
			Action:     "sale.create",
			EntityType: "sale",
			EntityID:   sale.ID,
			Detail:     fmt.Sprintf("%d líneas, total USD %s", len(req.Items), sale.TotalUSDIVA),
			CreatedAt:  now,
		})
		fx.event(Event{
			Type:      "sale.registered",
			CompanyID: actor.CompanyID,
			EntityID:  sale.ID,
			Payload: map[string]any{
				"total_usd_iva": sale.TotalUSDIVA.String(),
				"credit":        sale.IsCredit,
			},
			OccurredAt: now,
		})
		return nil
	})
	if err != nil {
		return SaleResult{}, err
	}
	return res, nil
}
