package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

type movementRepo struct{ h handle }

func (r movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	return r.h.write(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r movementRepo) ListByProduct(_ context.Context, companyID, productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	err := r.h.read(func(st *state) error {
		for _, m := range st.movements {
			if m.CompanyID == companyID && m.ProductID == productID {
				out = append(out, ptr(m))
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), err
}

type transferRepo struct{ h handle }

func (r transferRepo) Create(_ context.Context, t *entity.WarehouseTransfer) error {
	return r.h.write(func(st *state) error {
		st.transfers = append(st.transfers, *t)
		return nil
	})
}

func (r transferRepo) ListByProduct(_ context.Context, companyID, productID string, limit, offset int) ([]*entity.WarehouseTransfer, error) {
	var out []*entity.WarehouseTransfer
	err := r.h.read(func(st *state) error {
		for _, t := range st.transfers {
			if t.CompanyID == companyID && (productID == "" || t.ProductID == productID) {
				out = append(out, ptr(t))
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), err
}

type companyRepo struct{ h handle }

func (r companyRepo) Create(_ context.Context, c *entity.Company) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.companies[c.ID]; ok {
			return domain.ErrDuplicate
		}
		st.companies[c.ID] = *c
		return nil
	})
}

func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.h.read(func(st *state) error {
		if c, ok := st.companies[id]; ok {
			out = ptr(c)
		}
		return nil
	})
	return out, err
}

type settingsRepo struct{ h handle }

func (r settingsRepo) GetAll(_ context.Context, companyID string) (map[string]string, error) {
	out := map[string]string{}
	err := r.h.read(func(st *state) error {
		for k, s := range st.settings {
			if k.companyID == companyID {
				out[k.key] = s.Value
			}
		}
		return nil
	})
	return out, err
}

func (r settingsRepo) Upsert(_ context.Context, s *entity.Setting) error {
	return r.h.write(func(st *state) error {
		st.settings[settingKey{s.CompanyID, s.Key}] = *s
		return nil
	})
}
