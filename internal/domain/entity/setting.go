package entity

import "time"

// Setting par clave/valor de configuración por empresa.
type Setting struct {
	CompanyID string
	Key       string
	Value     string
	UpdatedAt time.Time
}
