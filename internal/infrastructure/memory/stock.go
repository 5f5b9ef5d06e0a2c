package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

type stockRepo struct{ h handle }

func (r stockRepo) Get(_ context.Context, companyID, productID, warehouseID string) (*entity.StockAllocation, error) {
	out := &entity.StockAllocation{CompanyID: companyID, ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}
	err := r.h.read(func(st *state) error {
		if a, ok := st.stock[stockKey{productID, warehouseID}]; ok && a.CompanyID == companyID {
			*out = a
		}
		return nil
	})
	return out, err
}

func (r stockRepo) GetForUpdate(ctx context.Context, companyID, productID, warehouseID string) (*entity.StockAllocation, error) {
	return r.Get(ctx, companyID, productID, warehouseID)
}

func (r stockRepo) Upsert(_ context.Context, a *entity.StockAllocation) error {
	if a.Quantity.IsNegative() {
		return domain.ErrInsufficientWarehouseStock
	}
	return r.h.write(func(st *state) error {
		st.stock[stockKey{a.ProductID, a.WarehouseID}] = *a
		return nil
	})
}

func (r stockRepo) list(companyID string, match func(stockKey) bool) ([]*entity.StockAllocation, error) {
	var out []*entity.StockAllocation
	err := r.h.read(func(st *state) error {
		for k, a := range st.stock {
			if a.CompanyID == companyID && match(k) {
				out = append(out, ptr(a))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].WarehouseID < out[j].WarehouseID
	})
	return out, err
}

func (r stockRepo) ListByProduct(_ context.Context, companyID, productID string) ([]*entity.StockAllocation, error) {
	return r.list(companyID, func(k stockKey) bool { return k.productID == productID })
}

func (r stockRepo) ListByWarehouse(_ context.Context, companyID, warehouseID string) ([]*entity.StockAllocation, error) {
	return r.list(companyID, func(k stockKey) bool { return k.warehouseID == warehouseID })
}

func (r stockRepo) Delete(_ context.Context, companyID, productID, warehouseID string) error {
	return r.h.write(func(st *state) error {
		k := stockKey{productID, warehouseID}
		if a, ok := st.stock[k]; ok && a.CompanyID == companyID {
			delete(st.stock, k)
		}
		return nil
	})
}

func (r stockRepo) DeleteByProduct(_ context.Context, companyID, productID string) error {
	return r.h.write(func(st *state) error {
		for k, a := range st.stock {
			if k.productID == productID && a.CompanyID == companyID {
				delete(st.stock, k)
			}
		}
		return nil
	})
}
