package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// stockChange describe una mutación de stock de un producto. Aggregate se aplica a
// Product.Stock y Allocation a la fila (producto, bodega) cuando WarehouseID no es vacío.
type stockChange struct {
	Product     *entity.Product
	WarehouseID string
	Aggregate   decimal.Decimal
	Allocation  decimal.Decimal
	Type        string
	UnitCost    decimal.Decimal
}

// stockLedger es el único camino de escritura sobre Product.Stock y StockAllocation.
// Vive lo que dura una transacción y cachea los productos ya bloqueados.
type stockLedger struct {
	repos    Repos
	actor    Actor
	docID    string
	now      time.Time
	products map[string]*entity.Product
}

func newStockLedger(repos Repos, actor Actor, docID string, now time.Time) *stockLedger {
	return &stockLedger{
		repos:    repos,
		actor:    actor,
		docID:    docID,
		now:      now,
		products: make(map[string]*entity.Product),
	}
}

// lock bloquea el producto (SELECT FOR UPDATE) una sola vez por transacción.
func (l *stockLedger) lock(ctx context.Context, productID string) (*entity.Product, error) {
	if p, ok := l.products[productID]; ok {
		return p, nil
	}
	p, err := l.repos.Products().GetForUpdate(ctx, l.actor.CompanyID, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	l.products[productID] = p
	return p, nil
}

// lockAll bloquea los productos en orden de id para que dos transacciones concurrentes
// sobre los mismos productos no se bloqueen mutuamente.
func (l *stockLedger) lockAll(ctx context.Context, productIDs []string) error {
	ids := make([]string, 0, len(productIDs))
	seen := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, err := l.lock(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// allocation devuelve la cantidad asignada a la bodega bloqueando la fila.
func (l *stockLedger) allocation(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	alloc, err := l.repos.Stock().GetForUpdate(ctx, l.actor.CompanyID, productID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	if alloc == nil {
		return decimal.Zero, nil
	}
	return alloc.Quantity, nil
}

// apply aplica la mutación: agregado, asignación por bodega y registro en el kardex.
// Ningún valor puede quedar negativo.
func (l *stockLedger) apply(ctx context.Context, ch stockChange) error {
	p := ch.Product
	if !ch.Aggregate.IsZero() {
		next := p.Stock.Add(ch.Aggregate)
		if next.IsNegative() {
			return fmt.Errorf("%w: %s disponible %s", domain.ErrInsufficientStock, p.Code, p.Stock)
		}
		if err := l.repos.Products().UpdateStock(ctx, l.actor.CompanyID, p.ID, next); err != nil {
			return err
		}
		p.Stock = next
	}

	var warehouseID *string
	qty := ch.Aggregate
	if ch.WarehouseID != "" {
		current, err := l.allocation(ctx, p.ID, ch.WarehouseID)
		if err != nil {
			return err
		}
		next := current.Add(ch.Allocation)
		if next.IsNegative() {
			return fmt.Errorf("%w: %s disponible %s", domain.ErrInsufficientWarehouseStock, p.Code, current)
		}
		if err := l.repos.Stock().Upsert(ctx, &entity.StockAllocation{
			CompanyID:   l.actor.CompanyID,
			ProductID:   p.ID,
			WarehouseID: ch.WarehouseID,
			Quantity:    next,
			UpdatedAt:   l.now,
		}); err != nil {
			return err
		}
		wh := ch.WarehouseID
		warehouseID = &wh
		qty = ch.Allocation
	}

	return l.repos.Movements().Create(ctx, &entity.InventoryMovement{
		ID:            uuid.New().String(),
		CompanyID:     l.actor.CompanyID,
		TransactionID: l.docID,
		ProductID:     p.ID,
		WarehouseID:   warehouseID,
		Type:          ch.Type,
		Quantity:      qty,
		UnitCost:      ch.UnitCost,
		TotalCost:     qty.Mul(ch.UnitCost),
		CreatedAt:     l.now,
		CreatedBy:     l.actor.UserID,
	})
}

// assign cambia la bodega asignada del producto.
func (l *stockLedger) assign(ctx context.Context, p *entity.Product, warehouseID *string) error {
	if err := l.repos.Products().AssignWarehouse(ctx, l.actor.CompanyID, p.ID, warehouseID); err != nil {
		return err
	}
	p.WarehouseID = warehouseID
	return nil
}
