package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
)

// InventoryHandler traslados entre bodegas, asignaciones, compras y kardex.
type InventoryHandler struct {
	responder
	ledger   *ledger.Service
	settings *usecase.SettingsUseCase
	query    *usecase.LedgerQueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(svc *ledger.Service, settings *usecase.SettingsUseCase, query *usecase.LedgerQueryUseCase, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{responder: responder{log: log}, ledger: svc, settings: settings, query: query}
}

func toTransferResponse(res ledger.TransferResult) dto.TransferResponse {
	return dto.TransferResponse{
		OK:              res.OK,
		TransferID:      res.TransferID,
		FromWarehouseID: res.FromWarehouseID,
		ToWarehouseID:   res.ToWarehouseID,
		Quantity:        res.Quantity,
		Reassigned:      res.Reassigned,
	}
}

// Transfer godoc
// @Summary      Trasladar stock entre bodegas
// @Description  Sin from_warehouse_id el origen se infiere; sin quantity se traslada todo lo disponible.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "Traslado"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	actor := actorFrom(c)
	var in dto.TransferRequest
	if err := bindJSON(c, &in); err != nil {
		return h.fail(c, err)
	}
	ctx := c.UserContext()
	policy, err := h.settings.Policy(ctx, actor.CompanyID)
	if err != nil {
		return h.fail(c, err)
	}
	res, err := h.ledger.TransferStock(ctx, actor, policy, ledger.TransferInput{
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Reason:          in.Reason,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(toTransferResponse(res))
}

// Allocate asigna stock agregado sin bodega (p.ej. el repuesto por devoluciones).
func (h *InventoryHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if err := bindJSON(c, &in); err != nil {
		return h.fail(c, err)
	}
	res, err := h.ledger.AllocateStock(c.UserContext(), actorFrom(c), ledger.AllocateInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Reason:      in.Reason,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(toTransferResponse(res))
}

// ListTransfers historial de traslados, opcionalmente filtrado por ?product_id=.
func (h *InventoryHandler) ListTransfers(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.query.ListTransfers(c.UserContext(), GetCompanyID(c), c.Query("product_id"), limit, offset)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Movements kardex de un producto.
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return h.fail(c, errMissingID)
	}
	limit, offset := page(c)
	out, err := h.query.ListMovements(c.UserContext(), GetCompanyID(c), id, limit, offset)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Purchase godoc
// @Summary      Registrar compra (entrada de mercancía)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Compra"
// @Success      201   {object}  dto.CreatePurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *InventoryHandler) Purchase(c *fiber.Ctx) error {
	actor := actorFrom(c)
	var in dto.CreatePurchaseRequest
	if err := bindJSON(c, &in); err != nil {
		return h.fail(c, err)
	}
	ctx := c.UserContext()
	policy, err := h.settings.Policy(ctx, actor.CompanyID)
	if err != nil {
		return h.fail(c, err)
	}
	items := make([]ledger.PurchaseItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, ledger.PurchaseItem{Code: it.Code, Quantity: it.Quantity, UnitCost: it.UnitCost})
	}
	res, err := h.ledger.RegisterPurchase(ctx, actor, policy, ledger.PurchaseInput{
		Date:        in.Date,
		Supplier:    in.Supplier,
		Reference:   in.Reference,
		WarehouseID: in.WarehouseID,
		Items:       items,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreatePurchaseResponse{PurchaseID: res.PurchaseID, WarehouseID: res.WarehouseID, TotalUSD: res.TotalUSD})
}
