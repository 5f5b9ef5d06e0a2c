package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var (
	_ repository.PurchaseRepository = (*PurchaseRepo)(nil)
	_ repository.TransferRepository = (*TransferRepo)(nil)
)

// PurchaseRepo entradas de mercancía.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de compras.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (id, company_id, user_id, date, supplier, reference, warehouse_id, total_usd, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.CompanyID, p.UserID, p.Date, p.Supplier, p.Reference, nullable(p.WarehouseID), p.TotalUSD, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) CreateLine(ctx context.Context, l *entity.PurchaseLine) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_lines (id, purchase_id, product_id, warehouse_id, quantity, unit_cost, subtotal_usd)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.PurchaseID, l.ProductID, l.WarehouseID, l.Quantity, l.UnitCost, l.SubtotalUSD)
	if err != nil {
		return fmt.Errorf("insert purchase line: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) UpdateTotals(ctx context.Context, p *entity.Purchase) error {
	tag, err := r.q.Exec(ctx, `UPDATE purchases SET total_usd = $3 WHERE company_id = $1 AND id = $2`,
		p.CompanyID, p.ID, p.TotalUSD)
	if err != nil {
		return fmt.Errorf("update purchase totals: %w", err)
	}
	return expectOne(tag)
}

// TransferRepo historial append-only de traslados.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de traslados.
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

func (r *TransferRepo) Create(ctx context.Context, t *entity.WarehouseTransfer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO warehouse_transfers (id, company_id, product_id, from_warehouse_id, to_warehouse_id, quantity, reason, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.CompanyID, t.ProductID, t.FromWarehouseID, t.ToWarehouseID, t.Quantity, t.Reason, t.UserID, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// ListByProduct historial más reciente primero. productID vacío lista toda la empresa.
func (r *TransferRepo) ListByProduct(ctx context.Context, companyID, productID string, limit, offset int) ([]*entity.WarehouseTransfer, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, product_id, from_warehouse_id, to_warehouse_id, quantity, reason, user_id, created_at
		FROM warehouse_transfers
		WHERE company_id = $1 AND ($2 = '' OR product_id::text = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, companyID, productID, limitOrAll(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var list []*entity.WarehouseTransfer
	for rows.Next() {
		var t entity.WarehouseTransfer
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.ProductID, &t.FromWarehouseID, &t.ToWarehouseID,
			&t.Quantity, &t.Reason, &t.UserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// nullable convierte "" en NULL para columnas UUID opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
