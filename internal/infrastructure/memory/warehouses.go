package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

type warehouseRepo struct{ h handle }

func (r warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; ok {
			return domain.ErrDuplicate
		}
		if w.IsPrimary {
			clearPrimary(st, w.CompanyID)
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func clearPrimary(st *state, companyID string) {
	for id, w := range st.warehouses {
		if w.CompanyID == companyID && w.IsPrimary {
			w.IsPrimary = false
			st.warehouses[id] = w
		}
	}
}

func (r warehouseRepo) GetByID(_ context.Context, companyID, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.h.read(func(st *state) error {
		if w, ok := st.warehouses[id]; ok && w.CompanyID == companyID {
			out = ptr(w)
		}
		return nil
	})
	return out, err
}

func (r warehouseRepo) GetPrimary(_ context.Context, companyID string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.h.read(func(st *state) error {
		for _, w := range st.warehouses {
			if w.CompanyID == companyID && w.IsPrimary {
				out = ptr(w)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r warehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	return r.h.write(func(st *state) error {
		cur, ok := st.warehouses[w.ID]
		if !ok || cur.CompanyID != w.CompanyID {
			return domain.ErrNotFound
		}
		upd := *w
		upd.IsPrimary = cur.IsPrimary
		upd.CreatedAt = cur.CreatedAt
		st.warehouses[w.ID] = upd
		return nil
	})
}

func (r warehouseRepo) SetPrimary(_ context.Context, companyID, id string) error {
	return r.h.write(func(st *state) error {
		w, ok := st.warehouses[id]
		if !ok || w.CompanyID != companyID {
			return domain.ErrNotFound
		}
		clearPrimary(st, companyID)
		w.IsPrimary = true
		st.warehouses[id] = w
		return nil
	})
}

func (r warehouseRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.h.read(func(st *state) error {
		for _, w := range st.warehouses {
			if w.CompanyID == companyID {
				out = append(out, ptr(w))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].Name < out[j].Name
	})
	return paginate(out, limit, offset), err
}

func (r warehouseRepo) Delete(_ context.Context, companyID, id string) error {
	return r.h.write(func(st *state) error {
		w, ok := st.warehouses[id]
		if !ok || w.CompanyID != companyID {
			return domain.ErrNotFound
		}
		for k, a := range st.stock {
			if k.warehouseID == id && a.Quantity.IsPositive() {
				return domain.ErrWarehouseHasStock
			}
		}
		delete(st.warehouses, id)
		return nil
	})
}
