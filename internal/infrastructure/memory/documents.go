package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

type saleRepo struct{ h handle }

func (r saleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.sales[s.ID]; ok {
			return domain.ErrDuplicate
		}
		st.sales[s.ID] = *s
		return nil
	})
}

func (r saleRepo) CreateLine(_ context.Context, l *entity.SaleLine) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.sales[l.SaleID]; !ok {
			return domain.ErrSaleNotFound
		}
		st.saleLines = append(st.saleLines, *l)
		return nil
	})
}

func (r saleRepo) UpdateTotals(_ context.Context, s *entity.Sale) error {
	return r.h.write(func(st *state) error {
		cur, ok := st.sales[s.ID]
		if !ok || cur.CompanyID != s.CompanyID {
			return domain.ErrSaleNotFound
		}
		cur.TotalUSD = s.TotalUSD
		cur.TotalLocal = s.TotalLocal
		cur.TotalUSDIVA = s.TotalUSDIVA
		cur.TotalLocalIVA = s.TotalLocalIVA
		st.sales[s.ID] = cur
		return nil
	})
}

func (r saleRepo) GetByID(_ context.Context, companyID, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.h.read(func(st *state) error {
		if s, ok := st.sales[id]; ok && s.CompanyID == companyID {
			out = ptr(s)
		}
		return nil
	})
	return out, err
}

// GetForUpdate no necesita bloqueo propio: las escrituras ya están serializadas por el Store.
func (r saleRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r saleRepo) GetLines(_ context.Context, saleID string) ([]*entity.SaleLine, error) {
	var out []*entity.SaleLine
	err := r.h.read(func(st *state) error {
		for _, l := range st.saleLines {
			if l.SaleID == saleID {
				out = append(out, ptr(l))
			}
		}
		return nil
	})
	return out, err
}

type returnRepo struct{ h handle }

func (r returnRepo) Create(_ context.Context, ret *entity.Return) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.returns[ret.ID]; ok {
			return domain.ErrDuplicate
		}
		st.returns[ret.ID] = *ret
		return nil
	})
}

func (r returnRepo) CreateLine(_ context.Context, l *entity.ReturnLine) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.returns[l.ReturnID]; !ok {
			return domain.ErrReturnNotFound
		}
		st.returnLines = append(st.returnLines, *l)
		return nil
	})
}

func (r returnRepo) UpdateTotals(_ context.Context, ret *entity.Return) error {
	return r.h.write(func(st *state) error {
		cur, ok := st.returns[ret.ID]
		if !ok || cur.CompanyID != ret.CompanyID {
			return domain.ErrReturnNotFound
		}
		cur.TotalUSD = ret.TotalUSD
		cur.TotalLocal = ret.TotalLocal
		st.returns[ret.ID] = cur
		return nil
	})
}

func (r returnRepo) GetByID(_ context.Context, companyID, id string) (*entity.Return, error) {
	var out *entity.Return
	err := r.h.read(func(st *state) error {
		if ret, ok := st.returns[id]; ok && ret.CompanyID == companyID {
			out = ptr(ret)
		}
		return nil
	})
	return out, err
}

func (r returnRepo) GetLines(_ context.Context, returnID string) ([]*entity.ReturnLine, error) {
	var out []*entity.ReturnLine
	err := r.h.read(func(st *state) error {
		for _, l := range st.returnLines {
			if l.ReturnID == returnID {
				out = append(out, ptr(l))
			}
		}
		return nil
	})
	return out, err
}

func (r returnRepo) ReturnedQtyBySale(_ context.Context, companyID, saleID string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	err := r.h.read(func(st *state) error {
		ids := map[string]bool{}
		for id, ret := range st.returns {
			if ret.CompanyID == companyID && ret.SaleID != nil && *ret.SaleID == saleID {
				ids[id] = true
			}
		}
		for _, l := range st.returnLines {
			if ids[l.ReturnID] {
				out[l.ProductID] = out[l.ProductID].Add(l.Quantity)
			}
		}
		return nil
	})
	return out, err
}

type receivableRepo struct{ h handle }

func (r receivableRepo) Create(_ context.Context, ar *entity.AccountReceivable) error {
	return r.h.write(func(st *state) error {
		for _, other := range st.receivables {
			if other.SaleID == ar.SaleID {
				return domain.ErrDuplicate
			}
		}
		st.receivables[ar.ID] = *ar
		return nil
	})
}

func (r receivableRepo) GetBySale(_ context.Context, companyID, saleID string) (*entity.AccountReceivable, error) {
	var out *entity.AccountReceivable
	err := r.h.read(func(st *state) error {
		for _, ar := range st.receivables {
			if ar.CompanyID == companyID && ar.SaleID == saleID {
				out = ptr(ar)
				return nil
			}
		}
		return nil
	})
	return out, err
}

type purchaseRepo struct{ h handle }

func (r purchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.purchases[p.ID]; ok {
			return domain.ErrDuplicate
		}
		st.purchases[p.ID] = *p
		return nil
	})
}

func (r purchaseRepo) CreateLine(_ context.Context, l *entity.PurchaseLine) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.purchases[l.PurchaseID]; !ok {
			return domain.ErrNotFound
		}
		st.purchaseLines = append(st.purchaseLines, *l)
		return nil
	})
}

func (r purchaseRepo) UpdateTotals(_ context.Context, p *entity.Purchase) error {
	return r.h.write(func(st *state) error {
		cur, ok := st.purchases[p.ID]
		if !ok || cur.CompanyID != p.CompanyID {
			return domain.ErrNotFound
		}
		cur.TotalUSD = p.TotalUSD
		st.purchases[p.ID] = cur
		return nil
	})
}
