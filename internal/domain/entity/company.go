package entity

import "time"

// Company representa una organización/tenant del sistema. Todas las entidades del ledger
// pertenecen a una sola empresa.
type Company struct {
	ID        string
	Name      string
	NIT       string // RIF/NIT opcional
	CreatedAt time.Time
	UpdatedAt time.Time
}
