package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo cabeceras y líneas de devolución.
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador de devoluciones.
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

// Create inserta la cabecera.
func (r *ReturnRepo) Create(ctx context.Context, d *entity.Return) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO returns (id, company_id, user_id, date, customer_name, customer_doc, customer_phone,
		                     exchange_rate, reference, reason, sale_id, total_usd, total_local, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		d.ID, d.CompanyID, d.UserID, d.Date, d.CustomerName, d.CustomerDoc, d.CustomerPhone,
		d.ExchangeRate, d.Reference, d.Reason, d.SaleID, d.TotalUSD, d.TotalLocal, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert return: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de devolución.
func (r *ReturnRepo) CreateLine(ctx context.Context, l *entity.ReturnLine) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO return_lines (id, return_id, product_id, quantity, unit_price, subtotal_usd, subtotal_local)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.ReturnID, l.ProductID, l.Quantity, l.UnitPrice, l.SubtotalUSD, l.SubtotalLocal)
	if err != nil {
		return fmt.Errorf("insert return line: %w", err)
	}
	return nil
}

// UpdateTotals fija los totales calculados.
func (r *ReturnRepo) UpdateTotals(ctx context.Context, d *entity.Return) error {
	tag, err := r.q.Exec(ctx, `UPDATE returns SET total_usd = $3, total_local = $4 WHERE company_id = $1 AND id = $2`,
		d.CompanyID, d.ID, d.TotalUSD, d.TotalLocal)
	if err != nil {
		return fmt.Errorf("update return totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReturnNotFound
	}
	return nil
}

// GetByID obtiene la cabecera de una devolución.
func (r *ReturnRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Return, error) {
	var d entity.Return
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, user_id, date, customer_name, customer_doc, customer_phone,
		       exchange_rate, reference, reason, sale_id, total_usd, total_local, created_at
		FROM returns WHERE company_id = $1 AND id = $2`, companyID, id).Scan(
		&d.ID, &d.CompanyID, &d.UserID, &d.Date, &d.CustomerName, &d.CustomerDoc, &d.CustomerPhone,
		&d.ExchangeRate, &d.Reference, &d.Reason, &d.SaleID, &d.TotalUSD, &d.TotalLocal, &d.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return: %w", err)
	}
	return &d, nil
}

// GetLines líneas de una devolución.
func (r *ReturnRepo) GetLines(ctx context.Context, returnID string) ([]*entity.ReturnLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, return_id, product_id, quantity, unit_price, subtotal_usd, subtotal_local
		FROM return_lines WHERE return_id = $1 ORDER BY seq`, returnID)
	if err != nil {
		return nil, fmt.Errorf("list return lines: %w", err)
	}
	defer rows.Close()

	var list []*entity.ReturnLine
	for rows.Next() {
		var l entity.ReturnLine
		if err := rows.Scan(&l.ID, &l.ReturnID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.SubtotalUSD, &l.SubtotalLocal); err != nil {
			return nil, fmt.Errorf("scan return line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ReturnedQtyBySale suma lo ya devuelto por producto contra una venta.
func (r *ReturnRepo) ReturnedQtyBySale(ctx context.Context, companyID, saleID string) (map[string]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT l.product_id, SUM(l.quantity)
		FROM return_lines l JOIN returns d ON d.id = l.return_id
		WHERE d.company_id = $1 AND d.sale_id = $2
		GROUP BY l.product_id`, companyID, saleID)
	if err != nil {
		return nil, fmt.Errorf("returned qty: %w", err)
	}
	defer rows.Close()

	out := map[string]decimal.Decimal{}
	for rows.Next() {
		var pid string
		var qty decimal.Decimal
		if err := rows.Scan(&pid, &qty); err != nil {
			return nil, fmt.Errorf("scan returned qty: %w", err)
		}
		out[pid] = qty
	}
	return out, rows.Err()
}
