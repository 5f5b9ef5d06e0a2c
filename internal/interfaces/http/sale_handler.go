package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
)

// SaleHandler registro y consulta de ventas.
type SaleHandler struct {
	responder
	ledger   *ledger.Service
	settings *usecase.SettingsUseCase
	query    *usecase.LedgerQueryUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(svc *ledger.Service, settings *usecase.SettingsUseCase, query *usecase.LedgerQueryUseCase, log zerolog.Logger) *SaleHandler {
	return &SaleHandler{responder: responder{log: log}, ledger: svc, settings: settings, query: query}
}

func toLineItems(items []dto.LineItemRequest) []ledger.LineItem {
	out := make([]ledger.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, ledger.LineItem{Code: it.Code, Quantity: it.Quantity})
	}
	return out
}

// Create godoc
// @Summary      Registrar venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201   {object}  dto.CreateSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	actor := actorFrom(c)
	var in dto.CreateSaleRequest
	if err := bindJSON(c, &in); err != nil {
		return h.fail(c, err)
	}
	ctx := c.UserContext()
	policy, err := h.settings.Policy(ctx, actor.CompanyID)
	if err != nil {
		return h.fail(c, err)
	}
	res, err := h.ledger.RegisterSale(ctx, actor, policy, ledger.SaleInput{
		Date:          in.Date,
		CustomerName:  in.CustomerName,
		CustomerDoc:   in.CustomerDoc,
		CustomerPhone: in.CustomerPhone,
		ExchangeRate:  in.ExchangeRate,
		DiscountPct:   in.DiscountPct,
		PaymentMethod: in.PaymentMethod,
		Reference:     in.Reference,
		IVAPct:        in.IVAPct,
		IsCredit:      in.IsCredit,
		CreditDays:    in.CreditDays,
		DueDate:       in.DueDate,
		Items:         toLineItems(in.Items),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateSaleResponse{
		SaleID:        res.SaleID,
		ReceivableID:  res.ReceivableID,
		TotalUSD:      res.TotalUSD,
		TotalLocal:    res.TotalLocal,
		TotalUSDIVA:   res.TotalUSDIVA,
		TotalLocalIVA: res.TotalLocalIVA,
	})
}

// GetByID godoc
// @Summary      Obtener venta con líneas y cuenta por cobrar
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return h.fail(c, errMissingID)
	}
	out, err := h.query.GetSale(c.UserContext(), GetCompanyID(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
