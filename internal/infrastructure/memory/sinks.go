package memory

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/application/ledger"
)

var (
	_ ledger.Notifier  = (*Store)(nil)
	_ ledger.Auditor   = (*Store)(nil)
	_ ledger.EventSink = (*Store)(nil)
)

// Notify guarda la alerta en memoria.
func (s *Store) Notify(_ context.Context, a ledger.Alert) error {
	s.sinkMu.Lock()
	defer s.sinkMu.Unlock()
	s.alerts = append(s.alerts, a)
	return nil
}

// Record guarda la entrada de auditoría en memoria.
func (s *Store) Record(_ context.Context, e ledger.AuditEntry) error {
	s.sinkMu.Lock()
	defer s.sinkMu.Unlock()
	s.audits = append(s.audits, e)
	return nil
}

// Publish guarda el evento en memoria.
func (s *Store) Publish(_ context.Context, e ledger.Event) error {
	s.sinkMu.Lock()
	defer s.sinkMu.Unlock()
	s.events = append(s.events, e)
	return nil
}

// Alerts devuelve las alertas de la empresa.
func (s *Store) Alerts(companyID string) []ledger.Alert {
	s.sinkMu.Lock()
	defer s.sinkMu.Unlock()
	var out []ledger.Alert
	for _, a := range s.alerts {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	return out
}

// AuditLog devuelve la auditoría de la empresa.
func (s *Store) AuditLog(companyID string) []ledger.AuditEntry {
	s.sinkMu.Lock()
	defer s.sinkMu.Unlock()
	var out []ledger.AuditEntry
	for _, e := range s.audits {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out
}

// Events devuelve los eventos publicados de la empresa.
func (s *Store) Events(companyID string) []ledger.Event {
	s.sinkMu.Lock()
	defer s.sinkMu.Unlock()
	var out []ledger.Event
	for _, e := range s.events {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out
}
