// Package ledger implementa el libro de inventario y ventas: ventas, devoluciones,
// traslados entre bodegas, compras y cuentas por cobrar, todo dentro de una transacción.
package ledger

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

const tracerName = "github.com/jhoicas/Ventas-api/internal/application/ledger"

// Service orquesta las operaciones del ledger.
type Service struct {
	tx         TxRunner
	dispatcher *Dispatcher
	now        func() time.Time
}

// Option configura el servicio.
type Option func(*Service)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService construye el servicio. dispatcher puede ser nil (sin efectos secundarios).
func NewService(tx TxRunner, dispatcher *Dispatcher, opts ...Option) *Service {
	s := &Service{tx: tx, dispatcher: dispatcher, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) startSpan(ctx context.Context, op string, actor Actor) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "ledger."+op,
		trace.WithAttributes(
			attribute.String("company_id", actor.CompanyID),
			attribute.String("user_id", actor.UserID),
		))
}

// endSpan marca el span con el resultado; los errores de negocio no son fallos del servicio.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.code", domain.CodeOf(err)))
		if domain.KindOf(err) == domain.KindInternal {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}

// run ejecuta fn en una transacción y despacha los efectos solo si hubo commit.
func (s *Service) run(ctx context.Context, fn func(repos Repos, fx *effects) error) error {
	var fx effects
	err := s.tx.Run(ctx, func(repos Repos) error {
		fx = effects{}
		return fn(repos, &fx)
	})
	if err != nil {
		return err
	}
	s.dispatcher.Dispatch(ctx, fx)
	return nil
}
