package usecase

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

// LedgerQueryUseCase consultas de documentos del ledger (ventas, devoluciones, traslados, kardex).
type LedgerQueryUseCase struct {
	repos ledger.Repos
}

// NewLedgerQueryUseCase construye el caso de uso con repositorios fuera de transacción.
func NewLedgerQueryUseCase(repos ledger.Repos) *LedgerQueryUseCase {
	return &LedgerQueryUseCase{repos: repos}
}

// GetSale devuelve la venta con sus líneas y, si aplica, su cuenta por cobrar.
func (uc *LedgerQueryUseCase) GetSale(ctx context.Context, companyID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.repos.Sales().GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrSaleNotFound
	}
	lines, err := uc.repos.Sales().GetLines(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.SaleResponse{
		ID:            sale.ID,
		Date:          sale.Date,
		CustomerName:  sale.CustomerName,
		CustomerDoc:   sale.CustomerDoc,
		ExchangeRate:  sale.ExchangeRate,
		DiscountPct:   sale.DiscountPct,
		IVAPct:        sale.IVAPct,
		PaymentMethod: sale.PaymentMethod,
		IsCredit:      sale.IsCredit,
		TotalUSD:      sale.TotalUSD,
		TotalLocal:    sale.TotalLocal,
		TotalUSDIVA:   sale.TotalUSDIVA,
		TotalLocalIVA: sale.TotalLocalIVA,
		Lines:         make([]dto.SaleLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			UnitCost:      l.UnitCost,
			SubtotalUSD:   l.SubtotalUSD,
			SubtotalLocal: l.SubtotalLocal,
		})
	}
	if sale.IsCredit {
		ar, err := uc.repos.Receivables().GetBySale(ctx, companyID, sale.ID)
		if err != nil {
			return nil, err
		}
		if ar != nil {
			resp.Receivable = &dto.ReceivableResponse{
				ID:         ar.ID,
				DueDate:    ar.DueDate,
				TotalUSD:   ar.TotalUSD,
				BalanceUSD: ar.BalanceUSD,
				Status:     ar.Status,
			}
		}
	}
	return resp, nil
}

// GetReturn devuelve la devolución con sus líneas.
func (uc *LedgerQueryUseCase) GetReturn(ctx context.Context, companyID, id string) (*dto.ReturnResponse, error) {
	ret, err := uc.repos.Returns().GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, domain.ErrReturnNotFound
	}
	lines, err := uc.repos.Returns().GetLines(ctx, ret.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ReturnResponse{
		ID:           ret.ID,
		Date:         ret.Date,
		SaleID:       ret.SaleID,
		CustomerName: ret.CustomerName,
		ExchangeRate: ret.ExchangeRate,
		Reason:       ret.Reason,
		TotalUSD:     ret.TotalUSD,
		TotalLocal:   ret.TotalLocal,
		Lines:        make([]dto.ReturnLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.ReturnLineResponse{
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			SubtotalUSD:   l.SubtotalUSD,
			SubtotalLocal: l.SubtotalLocal,
		})
	}
	return resp, nil
}

// ListTransfers historial de traslados; productID vacío = todos los de la empresa.
func (uc *LedgerQueryUseCase) ListTransfers(ctx context.Context, companyID, productID string, limit, offset int) ([]dto.TransferRecordResponse, error) {
	list, err := uc.repos.Transfers().ListByProduct(ctx, companyID, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransferRecordResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.TransferRecordResponse{
			ID:              t.ID,
			ProductID:       t.ProductID,
			FromWarehouseID: t.FromWarehouseID,
			ToWarehouseID:   t.ToWarehouseID,
			Quantity:        t.Quantity,
			Reason:          t.Reason,
			UserID:          t.UserID,
			CreatedAt:       t.CreatedAt,
		})
	}
	return out, nil
}

// ListMovements kardex de un producto, del más reciente al más antiguo.
func (uc *LedgerQueryUseCase) ListMovements(ctx context.Context, companyID, productID string, limit, offset int) ([]dto.MovementResponse, error) {
	list, err := uc.repos.Movements().ListByProduct(ctx, companyID, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementResponse{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			WarehouseID:   m.WarehouseID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			UnitCost:      m.UnitCost,
			TotalCost:     m.TotalCost,
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
		})
	}
	return out, nil
}
