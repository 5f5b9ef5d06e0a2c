package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// Kind clasifica un error del ledger para decidir cómo se reporta al caller.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindForbidden
)

// Error es un error tipado del ledger. Los valores son centinelas: se comparan con errors.Is
// y se pueden envolver con fmt.Errorf("%w: detalle", ErrX) sin perder el código.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// Validación de entrada (400).
var (
	ErrEmptyCart            = newError(KindValidation, "EMPTY_CART", "la venta no tiene productos")
	ErrEmptyItems           = newError(KindValidation, "EMPTY_ITEMS", "la devolución no tiene productos")
	ErrTooManyItems         = newError(KindValidation, "TOO_MANY_ITEMS", "demasiados productos en la operación")
	ErrMissingCustomer      = newError(KindValidation, "MISSING_CUSTOMER", "el nombre del cliente es requerido")
	ErrInvalidRate          = newError(KindValidation, "INVALID_RATE", "la tasa de cambio debe ser mayor a cero")
	ErrInvalidPaymentMethod = newError(KindValidation, "INVALID_PAYMENT_METHOD", "método de pago requerido")
	ErrInvalidItem          = newError(KindValidation, "INVALID_ITEM", "producto o cantidad inválidos")
	ErrMissingProduct       = newError(KindValidation, "MISSING_PRODUCT", "el producto es requerido")
	ErrInvalidDestination   = newError(KindValidation, "INVALID_DESTINATION", "bodega destino inválida")
	ErrInvalidSource        = newError(KindValidation, "INVALID_SOURCE", "bodega origen inválida")
	ErrSameWarehouse        = newError(KindValidation, "SAME_WAREHOUSE", "origen y destino son la misma bodega")
	ErrInvalidQuantity      = newError(KindValidation, "INVALID_QUANTITY", "la cantidad debe ser mayor a cero")
	ErrInvalidDate          = newError(KindValidation, "INVALID_DATE", "fecha del documento inválida")
)

// Conflictos con el estado actual del inventario (409).
var (
	ErrInsufficientStock          = newError(KindConflict, "INSUFFICIENT_STOCK", "stock insuficiente")
	ErrNoWarehouseAssigned        = newError(KindConflict, "NO_WAREHOUSE_ASSIGNED", "el producto no tiene bodega asignada")
	ErrInsufficientWarehouseStock = newError(KindConflict, "INSUFFICIENT_WAREHOUSE_STOCK", "stock insuficiente en la bodega asignada")
	ErrReturnsDisabled            = newError(KindConflict, "RETURNS_DISABLED", "las devoluciones están deshabilitadas")
	ErrReturnWindowExceeded       = newError(KindConflict, "RETURN_WINDOW_EXCEEDED", "se superó el plazo máximo para devoluciones")
	ErrProductNotInOriginalSale   = newError(KindConflict, "PRODUCT_NOT_IN_ORIGINAL_SALE", "el producto no pertenece a la venta original")
	ErrReturnExceedsSold          = newError(KindConflict, "RETURN_EXCEEDS_SOLD", "la cantidad a devolver supera la vendida")
	ErrNoSourceWarehouse          = newError(KindConflict, "NO_SOURCE_WAREHOUSE", "no se pudo determinar la bodega origen")
	ErrNoStockAtSource            = newError(KindConflict, "NO_STOCK_AT_SOURCE", "la bodega origen no tiene stock")
	ErrInsufficientStockAtSource  = newError(KindConflict, "INSUFFICIENT_STOCK_AT_SOURCE", "stock insuficiente en la bodega origen")
	ErrWarehouseHasStock          = newError(KindConflict, "WAREHOUSE_HAS_STOCK", "la bodega tiene stock asignado")
	ErrProductReferenced          = newError(KindConflict, "PRODUCT_REFERENCED", "el producto tiene movimientos registrados")
)

// Referencias inexistentes (404).
var (
	ErrProductNotFound      = newError(KindNotFound, "PRODUCT_NOT_FOUND", "producto no encontrado")
	ErrOriginalSaleNotFound = newError(KindNotFound, "ORIGINAL_SALE_NOT_FOUND", "venta original no encontrada")
	ErrWarehouseNotFound    = newError(KindNotFound, "WAREHOUSE_NOT_FOUND", "bodega no encontrada")
	ErrSaleNotFound         = newError(KindNotFound, "SALE_NOT_FOUND", "venta no encontrada")
	ErrReturnNotFound       = newError(KindNotFound, "RETURN_NOT_FOUND", "devolución no encontrada")
	ErrCompanyNotFound      = newError(KindNotFound, "COMPANY_NOT_FOUND", "empresa no encontrada")
)

// KindOf devuelve la clase del error. Los centinelas genéricos se mapean a su clase
// natural; cualquier otro error es interno.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate):
		return KindConflict
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrUnauthorized):
		return KindForbidden
	}
	return KindInternal
}

// CodeOf devuelve el código estable del error o "INTERNAL".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	switch KindOf(err) {
	case KindValidation:
		return "VALIDATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindForbidden:
		return "FORBIDDEN"
	}
	return "INTERNAL"
}
