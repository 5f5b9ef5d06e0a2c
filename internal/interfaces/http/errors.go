package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

var (
	validate = validator.New(validator.WithRequiredStructEnabled())

	errInvalidBody = &domain.Error{Kind: domain.KindValidation, Code: "INVALID_BODY", Message: "cuerpo inválido"}
	errMissingID   = &domain.Error{Kind: domain.KindValidation, Code: "MISSING_ID", Message: "id es requerido"}
)

// bindJSON parsea el body y aplica las reglas `validate` del DTO.
func bindJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return errInvalidBody
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindConflict:
		return fiber.StatusConflict
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindForbidden:
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

// responder escribe errores de dominio como dto.ErrorResponse. Los internos se registran
// en el log y el cliente solo recibe un mensaje genérico.
type responder struct {
	log zerolog.Logger
}

func (r responder) fail(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	status := statusFor(kind)
	if kind == domain.KindInternal {
		r.log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("company_id", GetCompanyID(c)).
			Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: domain.CodeOf(err), Message: err.Error()})
}

// page lee limit/offset con los mismos topes en todos los listados.
func page(c *fiber.Ctx) (limit, offset int) {
	p := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}.Normalize()
	return p.Limit, p.Offset
}
