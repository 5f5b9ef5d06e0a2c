package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
)

// SettingsHandler política del ledger de la empresa.
type SettingsHandler struct {
	responder
	uc *usecase.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *usecase.SettingsUseCase, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{responder: responder{log: log}, uc: uc}
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLedgerSettingsRequest
	if err := bindJSON(c, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
