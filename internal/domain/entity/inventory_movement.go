package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del kardex.
const (
	MovementTypeSale           = "SALE"
	MovementTypeReturn         = "RETURN"
	MovementTypePurchase       = "PURCHASE"
	MovementTypeTransferOut    = "TRANSFER_OUT"
	MovementTypeTransferIn     = "TRANSFER_IN"
	MovementTypeAllocation     = "ALLOCATION"
	MovementTypeWarehouseDrain = "WAREHOUSE_DRAIN"
)

// InventoryMovement registra cada mutación de stock (append-only).
// TransactionID apunta al documento que la originó (venta, devolución, compra, traslado).
// WarehouseID es nil cuando solo cambia el stock agregado (devoluciones).
type InventoryMovement struct {
	ID            string
	CompanyID     string
	TransactionID string
	ProductID     string
	WarehouseID   *string
	Type          string
	Quantity      decimal.Decimal // positivo entrada, negativo salida
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	CreatedAt     time.Time
	CreatedBy     string
}
