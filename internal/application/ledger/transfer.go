package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// TransferInput traslado de un producto entre bodegas. FromWarehouseID vacío = inferir origen;
// Quantity nil = todo lo disponible en el origen.
type TransferInput struct {
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        *decimal.Decimal
	Reason          string
}

// TransferResult resultado de TransferStock.
type TransferResult struct {
	OK              bool
	TransferID      string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        decimal.Decimal
	Reassigned      bool // la bodega asignada del producto pasó al destino
}

// AllocateInput asigna a una bodega stock agregado que no está en ninguna (p.ej. repuesto por devoluciones).
type AllocateInput struct {
	ProductID   string
	WarehouseID string
	Quantity    *decimal.Decimal
	Reason      string
}

func validateOptionalQty(q *decimal.Decimal) error {
	if q != nil && !q.IsPositive() {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// ownedWarehouse verifica que la bodega exista y pertenezca a la empresa; si no, devuelve notOwned.
func ownedWarehouse(ctx context.Context, repos Repos, companyID, id string, notOwned error) (*entity.Warehouse, error) {
	if id == "" {
		return nil, notOwned
	}
	wh, err := repos.Warehouses().GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, fmt.Errorf("%w: %s", notOwned, id)
	}
	return wh, nil
}

// inferSource elige la bodega origen cuando no se indicó: la única con stock positivo o, en su
// defecto, la asignada al producto. En modo estricto, varias bodegas con stock es un error.
func inferSource(allocs []*entity.StockAllocation, p *entity.Product, strict bool) (string, error) {
	var holding []string
	for _, a := range allocs {
		if a.Quantity.IsPositive() {
			holding = append(holding, a.WarehouseID)
		}
	}
	if len(holding) == 1 {
		return holding[0], nil
	}
	if strict && len(holding) > 1 {
		return "", fmt.Errorf("%w: %d bodegas tienen stock, indique el origen", domain.ErrNoSourceWarehouse, len(holding))
	}
	if wh := p.AssignedWarehouse(); wh != "" {
		return wh, nil
	}
	return "", domain.ErrNoSourceWarehouse
}

// TransferStock mueve stock de una bodega a otra. El stock agregado no cambia.
func (s *Service) TransferStock(ctx context.Context, actor Actor, policy Policy, in TransferInput) (res TransferResult, err error) {
	ctx, span := s.startSpan(ctx, "TransferStock", actor)
	defer func() { endSpan(span, err) }()

	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return TransferResult{}, domain.ErrMissingProduct
	}
	toID := strings.TrimSpace(in.ToWarehouseID)
	if toID == "" {
		return TransferResult{}, domain.ErrInvalidDestination
	}
	if err := validateOptionalQty(in.Quantity); err != nil {
		return TransferResult{}, err
	}
	fromID := strings.TrimSpace(in.FromWarehouseID)

	now := s.now()
	err = s.run(ctx, func(repos Repos, fx *effects) error {
		res = TransferResult{}
		if _, err := ownedWarehouse(ctx, repos, actor.CompanyID, toID, domain.ErrInvalidDestination); err != nil {
			return err
		}
		if fromID != "" {
			if _, err := ownedWarehouse(ctx, repos, actor.CompanyID, fromID, domain.ErrInvalidSource); err != nil {
				return err
			}
		}

		transferID := uuid.New().String()
		book := newStockLedger(repos, actor, transferID, now)
		p, err := book.lock(ctx, productID)
		if err != nil {
			return err
		}

		source := fromID
		if source == "" {
			allocs, err := repos.Stock().ListByProduct(ctx, actor.CompanyID, p.ID)
			if err != nil {
				return err
			}
			if source, err = inferSource(allocs, p, policy.StrictTransferSource); err != nil {
				return err
			}
		}
		if source == toID {
			return domain.ErrSameWarehouse
		}

		available, err := book.allocation(ctx, p.ID, source)
		if err != nil {
			return err
		}
		if !available.IsPositive() {
			return fmt.Errorf("%w: %s", domain.ErrNoStockAtSource, p.Code)
		}
		qty := available
		if in.Quantity != nil {
			qty = *in.Quantity
		}
		if qty.GreaterThan(available) {
			return fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientStockAtSource, available, qty)
		}

		if err := book.apply(ctx, stockChange{
			Product:     p,
			WarehouseID: source,
			Allocation:  qty.Neg(),
			Type:        entity.MovementTypeTransferOut,
			UnitCost:    p.Cost,
		}); err != nil {
			return err
		}
		if err := book.apply(ctx, stockChange{
			Product:     p,
			WarehouseID: toID,
			Allocation:  qty,
			Type:        entity.MovementTypeTransferIn,
			UnitCost:    p.Cost,
		}); err != nil {
			return err
		}

		reassigned := false
		if available.Equal(qty) && p.AssignedWarehouse() == source {
			dest := toID
			if err := book.assign(ctx, p, &dest); err != nil {
				return err
			}
			reassigned = true
		}

		src := source
		if err := repos.Transfers().Create(ctx, &entity.WarehouseTransfer{
			ID:              transferID,
			CompanyID:       actor.CompanyID,
			ProductID:       p.ID,
			FromWarehouseID: &src,
			ToWarehouseID:   toID,
			Quantity:        qty,
			Reason:          strings.TrimSpace(in.Reason),
			UserID:          actor.UserID,
			CreatedAt:       now,
		}); err != nil {
			return err
		}

		res = TransferResult{
			OK:              true,
			TransferID:      transferID,
			FromWarehouseID: source,
			ToWarehouseID:   toID,
			Quantity:        qty,
			Reassigned:      reassigned,
		}
		fx.audit(AuditEntry{
			CompanyID:  actor.CompanyID,
			UserID:     actor.UserID,
			Action:     "transfer.create",
			EntityType: "product",
			EntityID:   p.ID,
			Detail:     fmt.Sprintf("%s: %s -> %s", qty, source, toID),
			CreatedAt:  now,
		})
		fx.event(Event{
			Type:       "stock.transferred",
			CompanyID:  actor.CompanyID,
			EntityID:   transferID,
			Payload:    map[string]any{"product_id": p.ID, "from": source, "to": toID, "quantity": qty.String()},
			OccurredAt: now,
		})
		return nil
	})
	if err != nil {
		return TransferResult{}, err
	}
	return res, nil
}

// AllocateStock asigna a una bodega la parte del stock agregado que no está en ninguna bodega.
func (s *Service) AllocateStock(ctx context.Context, actor Actor, in AllocateInput) (res TransferResult, err error) {
	ctx, span := s.startSpan(ctx, "AllocateStock", actor)
	defer func() { endSpan(span, err) }()

	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return TransferResult{}, domain.ErrMissingProduct
	}
	if err := validateOptionalQty(in.Quantity); err != nil {
		return TransferResult{}, err
	}
	toID := strings.TrimSpace(in.WarehouseID)

	now := s.now()
	err = s.run(ctx, func(repos Repos, fx *effects) error {
		res = TransferResult{}
		if _, err := ownedWarehouse(ctx, repos, actor.CompanyID, toID, domain.ErrInvalidDestination); err != nil {
			return err
		}
		transferID := uuid.New().String()
		book := newStockLedger(repos, actor, transferID, now)
		p, err := book.lock(ctx, productID)
		if err != nil {
			return err
		}
		allocs, err := repos.Stock().ListByProduct(ctx, actor.CompanyID, p.ID)
		if err != nil {
			return err
		}
		allocated := decimal.Zero
		for _, a := range allocs {
			allocated = allocated.Add(a.Quantity)
		}
		unallocated := p.Stock.Sub(allocated)
		if !unallocated.IsPositive() {
			return fmt.Errorf("%w: %s no tiene stock sin asignar", domain.ErrNoStockAtSource, p.Code)
		}
		qty := unallocated
		if in.Quantity != nil {
			qty = *in.Quantity
		}
		if qty.GreaterThan(unallocated) {
			return fmt.Errorf("%w: sin asignar %s, solicitado %s", domain.ErrInsufficientStockAtSource, unallocated, qty)
		}

		if err := book.apply(ctx, stockChange{
			Product:     p,
			WarehouseID: toID,
			Allocation:  qty,
			Type:        entity.MovementTypeAllocation,
			UnitCost:    p.Cost,
		}); err != nil {
			return err
		}
		reassigned := false
		if p.AssignedWarehouse() == "" {
			dest := toID
			if err := book.assign(ctx, p, &dest); err != nil {
				return err
			}
			reassigned = true
		}
		if err := repos.Transfers().Create(ctx, &entity.WarehouseTransfer{
			ID:            transferID,
			CompanyID:     actor.CompanyID,
			ProductID:     p.ID,
			ToWarehouseID: toID,
			Quantity:      qty,
			Reason:        strings.TrimSpace(in.Reason),
			UserID:        actor.UserID,
			CreatedAt:     now,
		}); err != nil {
			return err
		}
		res = TransferResult{OK: true, TransferID: transferID, ToWarehouseID: toID, Quantity: qty, Reassigned: reassigned}
		fx.audit(AuditEntry{
			CompanyID:  actor.CompanyID,
			UserID:     actor.UserID,
			Action:     "stock.allocate",
			EntityType: "product",
			EntityID:   p.ID,
			Detail:     fmt.Sprintf("%s -> %s", qty, toID),
			CreatedAt:  now,
		})
		return nil
	})
	if err != nil {
		return TransferResult{}, err
	}
	return res, nil
}
