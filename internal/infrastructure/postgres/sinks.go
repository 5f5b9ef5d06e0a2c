package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Ventas-api/internal/application/ledger"
)

var (
	_ ledger.Notifier = (*Sinks)(nil)
	_ ledger.Auditor  = (*Sinks)(nil)
)

// Sinks persiste alertas y auditoría fuera de la transacción de negocio.
type Sinks struct {
	pool *pgxpool.Pool
}

// NewSinks construye los sinks sobre el pool.
func NewSinks(pool *pgxpool.Pool) *Sinks {
	return &Sinks{pool: pool}
}

// Notify guarda la alerta en la tabla alerts.
func (s *Sinks) Notify(ctx context.Context, a ledger.Alert) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO alerts (company_id, kind, message, entity_type, entity_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.CompanyID, a.Kind, a.Message, a.EntityType, a.EntityID, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// Record guarda la entrada en audit_log.
func (s *Sinks) Record(ctx context.Context, e ledger.AuditEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_log (company_id, user_id, action, entity_type, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.CompanyID, e.UserID, e.Action, e.EntityType, e.EntityID, e.Detail, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}
