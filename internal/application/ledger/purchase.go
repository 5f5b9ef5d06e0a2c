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
	"github.com/jhoicas/Ventas-api/internal/domain/inventory"
)

// PurchaseItem línea de compra. Se permiten cantidades fraccionarias.
type PurchaseItem struct {
	Code     string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// PurchaseInput entrada de mercancía. WarehouseID vacío = bodega del producto o la principal.
type PurchaseInput struct {
	Date        *time.Time
	Supplier    string
	Reference   string
	WarehouseID string
	Items       []PurchaseItem
}

// PurchaseResult resultado de RegisterPurchase. WarehouseID vacío si las líneas
// entraron a bodegas distintas.
type PurchaseResult struct {
	PurchaseID  string
	WarehouseID string
	TotalUSD    decimal.Decimal
}

// commonWarehouse devuelve la bodega compartida por todas las líneas o "" si difieren.
func commonWarehouse(targets []string) string {
	if len(targets) == 0 {
		return ""
	}
	for _, t := range targets[1:] {
		if t != targets[0] {
			return ""
		}
	}
	return targets[0]
}

func validatePurchaseItems(policy Policy, items []PurchaseItem) ([]PurchaseItem, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyItems
	}
	if policy.MaxItems > 0 && len(items) > policy.MaxItems {
		return nil, fmt.Errorf("%w: máximo %d", domain.ErrTooManyItems, policy.MaxItems)
	}
	out := make([]PurchaseItem, len(items))
	for i, it := range items {
		it.Code = strings.TrimSpace(it.Code)
		if it.Code == "" || !it.Quantity.IsPositive() || it.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: línea %d", domain.ErrInvalidItem, i+1)
		}
		out[i] = it
	}
	return out, nil
}

// RegisterPurchase ingresa mercancía: suma stock en el agregado y en la bodega destino y
// recalcula el costo promedio ponderado de cada producto.
func (s *Service) RegisterPurchase(ctx context.Context, actor Actor, policy Policy, in PurchaseInput) (res PurchaseResult, err error) {
	ctx, span := s.startSpan(ctx, "RegisterPurchase", actor)
	defer func() { endSpan(span, err) }()

	items, err := validatePurchaseItems(policy, in.Items)
	if err != nil {
		return PurchaseResult{}, err
	}

	now := s.now()
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}
	requested := strings.TrimSpace(in.WarehouseID)

	err = s.run(ctx, func(repos Repos, fx *effects) error {
		res = PurchaseResult{}
		if requested != "" {
			if _, err := ownedWarehouse(ctx, repos, actor.CompanyID, requested, domain.ErrInvalidDestination); err != nil {
				return err
			}
		}
		primary := ""
		if wh, err := repos.Warehouses().GetPrimary(ctx, actor.CompanyID); err != nil {
			return err
		} else if wh != nil {
			primary = wh.ID
		}

		purchase := &entity.Purchase{
			ID:        uuid.New().String(),
			CompanyID: actor.CompanyID,
			UserID:    actor.UserID,
			Date:      date,
			Supplier:  strings.TrimSpace(in.Supplier),
			Reference: strings.TrimSpace(in.Reference),
			CreatedAt: now,
		}

		book := newStockLedger(repos, actor, purchase.ID, now)
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

		targets := make([]string, len(items))
		for i := range items {
			p, err := book.lock(ctx, ids[i])
			if err != nil {
				return err
			}
			target := requested
			if target == "" {
				target = p.AssignedWarehouse()
			}
			if target == "" {
				target = primary
			}
			if target == "" {
				return fmt.Errorf("%w: %s", domain.ErrNoWarehouseAssigned, p.Code)
			}
			targets[i] = target
		}
		purchase.WarehouseID = commonWarehouse(targets)
		if err := repos.Purchases().Create(ctx, purchase); err != nil {
			return err
		}

		total := decimal.Zero
		for i, it := range items {
			p, err := book.lock(ctx, ids[i])
			if err != nil {
				return err
			}
			target := targets[i]

			newCost := inventory.CostCalculator(p.Stock, p.Cost, it.Quantity, it.UnitCost).Round(4)
			if err := repos.Products().UpdateCost(ctx, actor.CompanyID, p.ID, newCost); err != nil {
				return err
			}
			p.Cost = newCost

			subtotal := round2(it.Quantity.Mul(it.UnitCost))
			if err := repos.Purchases().CreateLine(ctx, &entity.PurchaseLine{
				ID:          uuid.New().String(),
				PurchaseID:  purchase.ID,
				ProductID:   p.ID,
				WarehouseID: target,
				Quantity:    it.Quantity,
				UnitCost:    it.UnitCost,
				SubtotalUSD: subtotal,
			}); err != nil {
				return err
			}
			total = total.Add(subtotal)

			if err := book.apply(ctx, stockChange{
				Product:     p,
				WarehouseID: target,
				Aggregate:   it.Quantity,
				Allocation:  it.Quantity,
				Type:        entity.MovementTypePurchase,
				UnitCost:    it.UnitCost,
			}); err != nil {
				return err
			}
			if p.AssignedWarehouse() == "" {
				wh := target
				if err := book.assign(ctx, p, &wh); err != nil {
					return err
				}
			}
		}

		purchase.TotalUSD = total
		if err := repos.Purchases().UpdateTotals(ctx, purchase); err != nil {
			return err
		}
		res = PurchaseResult{PurchaseID: purchase.ID, WarehouseID: purchase.WarehouseID, TotalUSD: total}
		fx.audit(AuditEntry{
			CompanyID:  actor.CompanyID,
			UserID:     actor.UserID,
			Action:     "purchase.create",
			EntityType: "purchase",
			EntityID:   purchase.ID,
			Detail:     fmt.Sprintf("%d líneas, total USD %s", len(items), total),
			CreatedAt:  now,
		})
		fx.event(Event{
			Type:       "purchase.registered",
			CompanyID:  actor.CompanyID,
			EntityID:   purchase.ID,
			Payload:    map[string]any{"total_usd": total.String()},
			OccurredAt: now,
		})
		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}
	return res, nil
}
