package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

type productRepo struct{ h handle }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.h.write(func(st *state) error {
		for _, other := range st.products {
			if other.CompanyID == p.CompanyID && other.Code == p.Code {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r productRepo) find(companyID string, match func(entity.Product) bool) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.read(func(st *state) error {
		for _, p := range st.products {
			if p.CompanyID == companyID && match(p) {
				out = ptr(p)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r productRepo) GetByID(_ context.Context, companyID, id string) (*entity.Product, error) {
	return r.find(companyID, func(p entity.Product) bool { return p.ID == id })
}

func (r productRepo) GetByCode(_ context.Context, companyID, code string) (*entity.Product, error) {
	return r.find(companyID, func(p entity.Product) bool { return p.Code == code })
}

// GetForUpdate en memoria equivale a GetByID: el lock del store ya serializa las transacciones.
func (r productRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r productRepo) mutate(companyID, id string, fn func(p *entity.Product)) error {
	return r.h.write(func(st *state) error {
		p, ok := st.products[id]
		if !ok || p.CompanyID != companyID {
			return domain.ErrNotFound
		}
		fn(&p)
		st.products[id] = p
		return nil
	})
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.h.write(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok || cur.CompanyID != p.CompanyID {
			return domain.ErrNotFound
		}
		for _, other := range st.products {
			if other.ID != p.ID && other.CompanyID == p.CompanyID && other.Code == p.Code {
				return domain.ErrDuplicate
			}
		}
		upd := *p
		upd.Stock = cur.Stock
		upd.CreatedAt = cur.CreatedAt
		st.products[p.ID] = upd
		return nil
	})
}

func (r productRepo) UpdateStock(_ context.Context, companyID, id string, stock decimal.Decimal) error {
	if stock.IsNegative() {
		return domain.ErrInsufficientStock
	}
	return r.mutate(companyID, id, func(p *entity.Product) { p.Stock = stock })
}

func (r productRepo) UpdateCost(_ context.Context, companyID, id string, cost decimal.Decimal) error {
	return r.mutate(companyID, id, func(p *entity.Product) { p.Cost = cost })
}

func (r productRepo) AssignWarehouse(_ context.Context, companyID, id string, warehouseID *string) error {
	return r.mutate(companyID, id, func(p *entity.Product) {
		if warehouseID == nil {
			p.WarehouseID = nil
			return
		}
		p.WarehouseID = ptr(*warehouseID)
	})
}

func (r productRepo) ClearWarehouse(_ context.Context, companyID, warehouseID string) error {
	return r.h.write(func(st *state) error {
		for id, p := range st.products {
			if p.CompanyID == companyID && p.AssignedWarehouse() == warehouseID {
				p.WarehouseID = nil
				st.products[id] = p
			}
		}
		return nil
	})
}

func (r productRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.h.read(func(st *state) error {
		for _, p := range st.products {
			if p.CompanyID == companyID {
				out = append(out, ptr(p))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return paginate(out, limit, offset), err
}

func (r productRepo) IsReferenced(_ context.Context, companyID, id string) (bool, error) {
	found := false
	err := r.h.read(func(st *state) error {
		if p, ok := st.products[id]; !ok || p.CompanyID != companyID {
			return nil
		}
		for _, l := range st.saleLines {
			if l.ProductID == id {
				found = true
				return nil
			}
		}
		for _, l := range st.returnLines {
			if l.ProductID == id {
				found = true
				return nil
			}
		}
		for _, l := range st.purchaseLines {
			if l.ProductID == id {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r productRepo) Delete(_ context.Context, companyID, id string) error {
	return r.h.write(func(st *state) error {
		p, ok := st.products[id]
		if !ok || p.CompanyID != companyID {
			return domain.ErrNotFound
		}
		delete(st.products, id)
		for k := range st.stock {
			if k.productID == id {
				delete(st.stock, k)
			}
		}
		return nil
	})
}
