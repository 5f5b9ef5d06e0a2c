package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock inicial entra como compra.
type CreateProductRequest struct {
	Code        string          `json:"code" validate:"required,min=1,max=100"`
	Description string          `json:"description" validate:"required,min=1,max=300"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	WarehouseID *string         `json:"warehouse_id" validate:"omitempty,uuid"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Stock: solo vía ledger).
type UpdateProductRequest struct {
	Description *string          `json:"description" validate:"omitempty,min=1,max=300"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	Active      *bool            `json:"active"`
	WarehouseID *string          `json:"warehouse_id" validate:"omitempty,uuid"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       decimal.Decimal `json:"stock"`
	WarehouseID *string         `json:"warehouse_id"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// StockAllocationResponse stock de un producto en una bodega.
type StockAllocationResponse struct {
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductStockResponse desglose del stock: agregado, por bodega y sin asignar.
type ProductStockResponse struct {
	ProductID   string                    `json:"product_id"`
	Stock       decimal.Decimal           `json:"stock"`
	Allocations []StockAllocationResponse `json:"allocations"`
	Unallocated decimal.Decimal           `json:"unallocated"`
}
