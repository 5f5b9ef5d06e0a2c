package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var (
	_ repository.SaleRepository       = (*SaleRepo)(nil)
	_ repository.ReceivableRepository = (*ReceivableRepo)(nil)
)

// SaleRepo cabeceras y líneas de venta.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera con totales en cero; se completan con UpdateTotals.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, company_id, user_id, date, customer_name, customer_doc, customer_phone,
		                   exchange_rate, discount_pct, payment_method, reference, iva_pct, is_credit,
		                   total_usd, total_local, total_usd_iva, total_local_iva, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.UserID, s.Date, s.CustomerName, s.CustomerDoc, s.CustomerPhone,
		s.ExchangeRate, s.DiscountPct, s.PaymentMethod, s.Reference, s.IVAPct, s.IsCredit,
		s.TotalUSD, s.TotalLocal, s.TotalUSDIVA, s.TotalLocalIVA, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateLine inserta una línea con precio y costo congelados.
func (r *SaleRepo) CreateLine(ctx context.Context, l *entity.SaleLine) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_lines (id, sale_id, product_id, quantity, unit_price, unit_cost, subtotal_usd, subtotal_local)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		l.ID, l.SaleID, l.ProductID, l.Quantity, l.UnitPrice, l.UnitCost, l.SubtotalUSD, l.SubtotalLocal)
	if err != nil {
		return fmt.Errorf("insert sale line: %w", err)
	}
	return nil
}

// UpdateTotals fija los totales calculados.
func (r *SaleRepo) UpdateTotals(ctx context.Context, s *entity.Sale) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sales SET total_usd = $3, total_local = $4, total_usd_iva = $5, total_local_iva = $6
		WHERE company_id = $1 AND id = $2`,
		s.CompanyID, s.ID, s.TotalUSD, s.TotalLocal, s.TotalUSDIVA, s.TotalLocalIVA)
	if err != nil {
		return fmt.Errorf("update sale totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

const saleColumns = `id, company_id, user_id, date, customer_name, customer_doc, customer_phone,
		       exchange_rate, discount_pct, payment_method, reference, iva_pct, is_credit,
		       total_usd, total_local, total_usd_iva, total_local_iva, created_at`

// GetByID obtiene la cabecera de una venta de la empresa.
func (r *SaleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE company_id = $1 AND id = $2`, companyID, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
// Las devoluciones contra una misma venta quedan serializadas.
func (r *SaleRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE company_id = $1 AND id = $2 FOR UPDATE`, companyID, id)
}

func (r *SaleRepo) get(ctx context.Context, query, companyID, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(
		&s.ID, &s.CompanyID, &s.UserID, &s.Date, &s.CustomerName, &s.CustomerDoc, &s.CustomerPhone,
		&s.ExchangeRate, &s.DiscountPct, &s.PaymentMethod, &s.Reference, &s.IVAPct, &s.IsCredit,
		&s.TotalUSD, &s.TotalLocal, &s.TotalUSDIVA, &s.TotalLocalIVA, &s.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// GetLines líneas de una venta en orden de inserción.
func (r *SaleRepo) GetLines(ctx context.Context, saleID string) ([]*entity.SaleLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, unit_cost, subtotal_usd, subtotal_local
		FROM sale_lines WHERE sale_id = $1 ORDER BY seq`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()

	var list []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.UnitCost, &l.SubtotalUSD, &l.SubtotalLocal); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ReceivableRepo cuentas por cobrar.
type ReceivableRepo struct {
	q Querier
}

// NewReceivableRepository construye el adaptador de cuentas por cobrar.
func NewReceivableRepository(q Querier) *ReceivableRepo {
	return &ReceivableRepo{q: q}
}

// Create inserta la cuenta por cobrar. La restricción UNIQUE(sale_id) impide una segunda.
func (r *ReceivableRepo) Create(ctx context.Context, ar *entity.AccountReceivable) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO accounts_receivable (id, company_id, sale_id, customer_name, emitted_at, due_date, total_usd, balance_usd, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		ar.ID, ar.CompanyID, ar.SaleID, ar.CustomerName, ar.EmittedAt, ar.DueDate, ar.TotalUSD, ar.BalanceUSD, ar.Status, ar.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert receivable: %w", err)
	}
	return nil
}

// GetBySale obtiene la cuenta por cobrar de una venta.
func (r *ReceivableRepo) GetBySale(ctx context.Context, companyID, saleID string) (*entity.AccountReceivable, error) {
	var ar entity.AccountReceivable
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, sale_id, customer_name, emitted_at, due_date, total_usd, balance_usd, status, created_at
		FROM accounts_receivable WHERE company_id = $1 AND sale_id = $2`, companyID, saleID).Scan(
		&ar.ID, &ar.CompanyID, &ar.SaleID, &ar.CustomerName, &ar.EmittedAt, &ar.DueDate,
		&ar.TotalUSD, &ar.BalanceUSD, &ar.Status, &ar.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receivable: %w", err)
	}
	return &ar, nil
}
