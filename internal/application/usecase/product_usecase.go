package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// ProductUseCase casos de uso de catálogo. Stock nunca se modifica aquí: se mueve con compras,
// ventas, devoluciones y traslados del ledger. La eliminación también pasa por el ledger.
type ProductUseCase struct {
	repo       repository.ProductRepository
	warehouses repository.WarehouseRepository
	stock      repository.StockRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, warehouses repository.WarehouseRepository, stock repository.StockRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, warehouses: warehouses, stock: stock}
}

// Create crea un producto con stock cero. Devuelve domain.ErrDuplicate si el código ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" || in.Price.IsNegative() || in.Cost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, companyID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	warehouseID, err := uc.ownedWarehouse(ctx, companyID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Code:        code,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Cost:        in.Cost,
		Stock:       decimal.Zero,
		WarehouseID: warehouseID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// ownedWarehouse valida que la bodega indicada pertenezca a la empresa. nil o "" = sin bodega.
func (uc *ProductUseCase) ownedWarehouse(ctx context.Context, companyID string, id *string) (*string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	wh, err := uc.warehouses.GetByID(ctx, companyID, strings.TrimSpace(*id))
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrWarehouseNotFound
	}
	return &wh.ID, nil
}

// GetByID obtiene un producto de la empresa.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza datos de catálogo y la bodega asignada.
func (uc *ProductUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Cost = *in.Cost
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	if in.WarehouseID != nil {
		if product.WarehouseID, err = uc.ownedWarehouse(ctx, companyID, in.WarehouseID); err != nil {
			return nil, err
		}
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos por empresa con paginación.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Stock devuelve el desglose del stock del producto por bodega y lo que queda sin asignar.
func (uc *ProductUseCase) Stock(ctx context.Context, companyID, id string) (*dto.ProductStockResponse, error) {
	product, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	allocs, err := uc.stock.ListByProduct(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductStockResponse{
		ProductID:   product.ID,
		Stock:       product.Stock,
		Allocations: make([]dto.StockAllocationResponse, 0, len(allocs)),
	}
	allocated := decimal.Zero
	for _, a := range allocs {
		allocated = allocated.Add(a.Quantity)
		resp.Allocations = append(resp.Allocations, dto.StockAllocationResponse{
			WarehouseID: a.WarehouseID,
			Quantity:    a.Quantity,
			UpdatedAt:   a.UpdatedAt,
		})
	}
	resp.Unallocated = decimal.Max(product.Stock.Sub(allocated), decimal.Zero)
	return resp, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		Code:        p.Code,
		Description: p.Description,
		Price:       p.Price,
		Cost:        p.Cost,
		Stock:       p.Stock,
		WarehouseID: p.WarehouseID,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
