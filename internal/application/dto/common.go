package dto

// Límites de paginación de los listados (productos, bodegas, movimientos).
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest parámetros limit/offset de un listado.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize lleva Limit a [1, MaxPageLimit] (DefaultPageLimit si no vino) y Offset a >= 0.
func (p PageRequest) Normalize() PageRequest {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PageResponse eco de la página aplicada.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
