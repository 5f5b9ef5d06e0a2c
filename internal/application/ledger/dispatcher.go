package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// effects efectos secundarios acumulados durante una transacción.
// Solo se despachan si la transacción confirma.
type effects struct {
	alerts []Alert
	audits []AuditEntry
	events []Event
}

func (fx *effects) alert(a Alert)      { fx.alerts = append(fx.alerts, a) }
func (fx *effects) audit(e AuditEntry) { fx.audits = append(fx.audits, e) }
func (fx *effects) event(e Event)      { fx.events = append(fx.events, e) }

// Dispatcher ejecuta los efectos secundarios después del commit, en segundo plano.
// Los fallos se registran en el log y no se propagan.
type Dispatcher struct {
	notifier Notifier
	auditor  Auditor
	sink     EventSink
	timeout  time.Duration
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher construye el dispatcher. Cualquier colaborador puede ser nil.
func NewDispatcher(notifier Notifier, auditor Auditor, sink EventSink, timeout time.Duration, log zerolog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{
		notifier: notifier,
		auditor:  auditor,
		sink:     sink,
		timeout:  timeout,
		log:      log,
	}
}

// Dispatch lanza los efectos sin bloquear al caller. El contexto se desacopla de la
// petición para que la cancelación del request no los interrumpa.
func (d *Dispatcher) Dispatch(ctx context.Context, fx effects) {
	if d == nil {
		return
	}
	base := context.WithoutCancel(ctx)
	for _, a := range fx.alerts {
		if d.notifier == nil {
			break
		}
		a := a
		d.run(base, "alert", a.Kind, func(ctx context.Context) error { return d.notifier.Notify(ctx, a) })
	}
	for _, e := range fx.audits {
		if d.auditor == nil {
			break
		}
		e := e
		d.run(base, "audit", e.Action, func(ctx context.Context) error { return d.auditor.Record(ctx, e) })
	}
	for _, ev := range fx.events {
		if d.sink == nil {
			break
		}
		ev := ev
		d.run(base, "event", ev.Type, func(ctx context.Context) error { return d.sink.Publish(ctx, ev) })
	}
}

func (d *Dispatcher) run(base context.Context, kind, name string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error().Str("kind", kind).Str("name", name).Interface("panic", r).Msg("efecto secundario abortado")
			}
		}()
		ctx, cancel := context.WithTimeout(base, d.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			d.log.Warn().Err(err).Str("kind", kind).Str("name", name).Msg("efecto secundario falló")
		}
	}()
}

// Wait espera a que terminen los efectos en curso (apagado ordenado y tests).
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
