package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos interface {
	Products() repository.ProductRepository
	Warehouses() repository.WarehouseRepository
	Stock() repository.StockRepository
	Movements() repository.InventoryMovementRepository
	Sales() repository.SaleRepository
	Returns() repository.ReturnRepository
	Receivables() repository.ReceivableRepository
	Transfers() repository.TransferRepository
	Purchases() repository.PurchaseRepository
	Companies() repository.CompanyRepository
	Settings() repository.SettingsRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ningún cambio persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// Tipos de alerta.
const (
	AlertOutOfStock = "out_of_stock"
)

// Alert notificación best-effort generada por el ledger.
type Alert struct {
	CompanyID  string
	Kind       string
	Message    string
	EntityType string
	EntityID   string
	CreatedAt  time.Time
}

// AuditEntry registro de auditoría de una operación confirmada.
type AuditEntry struct {
	CompanyID  string
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Detail     string
	CreatedAt  time.Time
}

// Event hecho de dominio publicado hacia sistemas externos (sincronización entre instalaciones).
type Event struct {
	Type       string         `json:"type"`
	CompanyID  string         `json:"company_id"`
	EntityID   string         `json:"entity_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Notifier envía alertas. Un error solo se registra en el log.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// Auditor registra acciones. Un error solo se registra en el log.
type Auditor interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// EventSink publica eventos. Un error solo se registra en el log.
type EventSink interface {
	Publish(ctx context.Context, event Event) error
}

// Actor identifica quién ejecuta la operación (tenant + usuario), tomado del JWT.
type Actor struct {
	CompanyID string
	UserID    string
}
