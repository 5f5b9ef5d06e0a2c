package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa.
type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	NIT  string `json:"nit" validate:"omitempty,max=20"`
}

// CompanyResponse salida de una empresa. PrimaryWarehouseID es la bodega "Principal" creada con ella.
type CompanyResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	NIT                string    `json:"nit"`
	PrimaryWarehouseID string    `json:"primary_warehouse_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
