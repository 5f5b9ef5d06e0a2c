package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
)

// ReturnHandler registro y consulta de devoluciones.
type ReturnHandler struct {
	responder
	ledger   *ledger.Service
	settings *usecase.SettingsUseCase
	query    *usecase.LedgerQueryUseCase
}

// NewReturnHandler construye el handler.
func NewReturnHandler(svc *ledger.Service, settings *usecase.SettingsUseCase, query *usecase.LedgerQueryUseCase, log zerolog.Logger) *ReturnHandler {
	return &ReturnHandler{responder: responder{log: log}, ledger: svc, settings: settings, query: query}
}

// Create godoc
// @Summary      Registrar devolución
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "Devolución"
// @Success      201   {object}  dto.CreateReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	actor := actorFrom(c)
	var in dto.CreateReturnRequest
	if err := bindJSON(c, &in); err != nil {
		return h.fail(c, err)
	}
	ctx := c.UserContext()
	policy, err := h.settings.Policy(ctx, actor.CompanyID)
	if err != nil {
		return h.fail(c, err)
	}
	res, err := h.ledger.RegisterReturn(ctx, actor, policy, ledger.ReturnInput{
		Date:          in.Date,
		SaleID:        in.SaleID,
		CustomerName:  in.CustomerName,
		CustomerDoc:   in.CustomerDoc,
		CustomerPhone: in.CustomerPhone,
		ExchangeRate:  in.ExchangeRate,
		Reference:     in.Reference,
		Reason:        in.Reason,
		Items:         toLineItems(in.Items),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateReturnResponse{
		ReturnID:     res.ReturnID,
		TotalLocal:   res.TotalLocal,
		TotalForeign: res.TotalForeign,
	})
}

// GetByID detalle de una devolución.
func (h *ReturnHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return h.fail(c, errMissingID)
	}
	out, err := h.query.GetReturn(c.UserContext(), GetCompanyID(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
