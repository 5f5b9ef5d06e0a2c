package entity

import "time"

// PrincipalWarehouseName nombre de la bodega que se crea con cada empresa.
const PrincipalWarehouseName = "Principal"

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// Solo una bodega por empresa puede ser principal.
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	IsPrimary bool
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
