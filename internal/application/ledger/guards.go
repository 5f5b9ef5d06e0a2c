package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// DeleteWarehouse elimina una bodega. Con stock asignado solo procede si force es true: en ese
// caso el stock de la bodega se descuenta del agregado (sin bajar de cero) y los productos que
// la tenían asignada quedan sin bodega.
func (s *Service) DeleteWarehouse(ctx context.Context, actor Actor, warehouseID string, force bool) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteWarehouse", actor)
	defer func() { endSpan(span, err) }()

	now := s.now()
	return s.run(ctx, func(repos Repos, fx *effects) error {
		wh, err := repos.Warehouses().GetByID(ctx, actor.CompanyID, warehouseID)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrWarehouseNotFound
		}
		allocs, err := repos.Stock().ListByWarehouse(ctx, actor.CompanyID, wh.ID)
		if err != nil {
			return err
		}
		var holding []*entity.StockAllocation
		for _, a := range allocs {
			if a.Quantity.IsPositive() {
				holding = append(holding, a)
			}
		}
		if len(holding) > 0 && !force {
			return fmt.Errorf("%w: %d productos", domain.ErrWarehouseHasStock, len(holding))
		}

		book := newStockLedger(repos, actor, wh.ID, now)
		ids := make([]string, len(holding))
		for i, a := range holding {
			ids[i] = a.ProductID
		}
		if err := book.lockAll(ctx, ids); err != nil {
			return err
		}
		for _, a := range holding {
			p, err := book.lock(ctx, a.ProductID)
			if err != nil {
				return err
			}
			drain := decimal.Min(a.Quantity, p.Stock)
			if err := book.apply(ctx, stockChange{
				Product:     p,
				WarehouseID: wh.ID,
				Aggregate:   drain.Neg(),
				Allocation:  a.Quantity.Neg(),
				Type:        entity.MovementTypeWarehouseDrain,
				UnitCost:    p.Cost,
			}); err != nil {
				return err
			}
		}
		for _, a := range allocs {
			if err := repos.Stock().Delete(ctx, actor.CompanyID, a.ProductID, wh.ID); err != nil {
				return err
			}
		}
		if err := repos.Products().ClearWarehouse(ctx, actor.CompanyID, wh.ID); err != nil {
			return err
		}
		if err := repos.Warehouses().Delete(ctx, actor.CompanyID, wh.ID); err != nil {
			return err
		}

		fx.audit(AuditEntry{
			CompanyID:  actor.CompanyID,
			UserID:     actor.UserID,
			Action:     "warehouse.delete",
			EntityType: "warehouse",
			EntityID:   wh.ID,
			Detail:     fmt.Sprintf("%s, force=%t, productos drenados=%d", wh.Name, force, len(holding)),
			CreatedAt:  now,
		})
		return nil
	})
}

// DeleteProduct elimina un producto que no aparece en ninguna línea de venta, devolución o compra.
func (s *Service) DeleteProduct(ctx context.Context, actor Actor, productID string) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteProduct", actor)
	defer func() { endSpan(span, err) }()

	now := s.now()
	return s.run(ctx, func(repos Repos, fx *effects) error {
		p, err := repos.Products().GetForUpdate(ctx, actor.CompanyID, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		referenced, err := repos.Products().IsReferenced(ctx, actor.CompanyID, p.ID)
		if err != nil {
			return err
		}
		if referenced {
			return fmt.Errorf("%w: %s", domain.ErrProductReferenced, p.Code)
		}
		if err := repos.Stock().DeleteByProduct(ctx, actor.CompanyID, p.ID); err != nil {
			return err
		}
		if err := repos.Products().Delete(ctx, actor.CompanyID, p.ID); err != nil {
			return err
		}
		fx.audit(AuditEntry{
			CompanyID:  actor.CompanyID,
			UserID:     actor.UserID,
			Action:     "product.delete",
			EntityType: "product",
			EntityID:   p.ID,
			Detail:     p.Code,
			CreatedAt:  now,
		})
		return nil
	})
}
