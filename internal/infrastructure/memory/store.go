// Package memory implementa los repositorios en memoria (modo dev/demo y tests).
// Mantiene la misma semántica transaccional que el backend PostgreSQL: una transacción
// trabaja sobre una copia del estado que solo reemplaza al estado confirmado si fn no falla.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*Store)(nil)

type stockKey struct {
	productID   string
	warehouseID string
}

type settingKey struct {
	companyID string
	key       string
}

type state struct {
	companies     map[string]entity.Company
	products      map[string]entity.Product
	warehouses    map[string]entity.Warehouse
	stock         map[stockKey]entity.StockAllocation
	movements     []entity.InventoryMovement
	sales         map[string]entity.Sale
	saleLines     []entity.SaleLine
	returns       map[string]entity.Return
	returnLines   []entity.ReturnLine
	receivables   map[string]entity.AccountReceivable
	transfers     []entity.WarehouseTransfer
	purchases     map[string]entity.Purchase
	purchaseLines []entity.PurchaseLine
	settings      map[settingKey]entity.Setting
}

func newState() *state {
	return &state{
		companies:   map[string]entity.Company{},
		products:    map[string]entity.Product{},
		warehouses:  map[string]entity.Warehouse{},
		stock:       map[stockKey]entity.StockAllocation{},
		sales:       map[string]entity.Sale{},
		returns:     map[string]entity.Return{},
		receivables: map[string]entity.AccountReceivable{},
		purchases:   map[string]entity.Purchase{},
		settings:    map[settingKey]entity.Setting{},
	}
}

// clone copia el estado. Las entidades se guardan por valor y sus punteros (*string)
// nunca se modifican en sitio, así que basta con copiar mapas y slices.
func (s *state) clone() *state {
	return &state{
		companies:     maps.Clone(s.companies),
		products:      maps.Clone(s.products),
		warehouses:    maps.Clone(s.warehouses),
		stock:         maps.Clone(s.stock),
		movements:     slices.Clone(s.movements),
		sales:         maps.Clone(s.sales),
		saleLines:     slices.Clone(s.saleLines),
		returns:       maps.Clone(s.returns),
		returnLines:   slices.Clone(s.returnLines),
		receivables:   maps.Clone(s.receivables),
		transfers:     slices.Clone(s.transfers),
		purchases:     maps.Clone(s.purchases),
		purchaseLines: slices.Clone(s.purchaseLines),
		settings:      maps.Clone(s.settings),
	}
}

// Store base de datos en memoria con un solo escritor.
type Store struct {
	mu sync.RWMutex
	st *state

	sinkMu sync.Mutex
	alerts []ledger.Alert
	audits []ledger.AuditEntry
	events []ledger.Event
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn sobre una copia del estado y la confirma solo si fn no devuelve error
// y el contexto sigue vigente.
func (s *Store) Run(ctx context.Context, fn func(repos ledger.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(handle{st: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// handle da acceso a los repositorios. Con st != nil opera dentro de una transacción
// (el lock ya está tomado); si no, cada llamada toma el lock del store.
type handle struct {
	store *Store
	st    *state
}

func (h handle) read(fn func(st *state) error) error {
	if h.st != nil {
		return fn(h.st)
	}
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()
	return fn(h.store.st)
}

func (h handle) write(fn func(st *state) error) error {
	if h.st != nil {
		return fn(h.st)
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	work := h.store.st.clone()
	if err := fn(work); err != nil {
		return err
	}
	h.store.st = work
	return nil
}

func (h handle) Products() repository.ProductRepository            { return productRepo{h} }
func (h handle) Warehouses() repository.WarehouseRepository        { return warehouseRepo{h} }
func (h handle) Stock() repository.StockRepository                 { return stockRepo{h} }
func (h handle) Movements() repository.InventoryMovementRepository { return movementRepo{h} }
func (h handle) Sales() repository.SaleRepository                  { return saleRepo{h} }
func (h handle) Returns() repository.ReturnRepository              { return returnRepo{h} }
func (h handle) Receivables() repository.ReceivableRepository      { return receivableRepo{h} }
func (h handle) Transfers() repository.TransferRepository          { return transferRepo{h} }
func (h handle) Purchases() repository.PurchaseRepository          { return purchaseRepo{h} }
func (h handle) Companies() repository.CompanyRepository           { return companyRepo{h} }
func (h handle) Settings() repository.SettingsRepository           { return settingsRepo{h} }

// Repos acceso fuera de transacción (lecturas de los casos de uso).
func (s *Store) Repos() ledger.Repos { return handle{store: s} }

func (s *Store) Products() repository.ProductRepository     { return s.Repos().Products() }
func (s *Store) Warehouses() repository.WarehouseRepository { return s.Repos().Warehouses() }
func (s *Store) Companies() repository.CompanyRepository    { return handle{store: s}.Companies() }
func (s *Store) Settings() repository.SettingsRepository    { return handle{store: s}.Settings() }

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func ptr[T any](v T) *T { return &v }

// Stats conteo de filas confirmadas por tabla.
type Stats struct {
	Sales         int
	SaleLines     int
	Returns       int
	ReturnLines   int
	Receivables   int
	Transfers     int
	Movements     int
	Purchases     int
	PurchaseLines int
}

// Stats devuelve el conteo de filas del estado confirmado.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Sales:         len(s.st.sales),
		SaleLines:     len(s.st.saleLines),
		Returns:       len(s.st.returns),
		ReturnLines:   len(s.st.returnLines),
		Receivables:   len(s.st.receivables),
		Transfers:     len(s.st.transfers),
		Movements:     len(s.st.movements),
		Purchases:     len(s.st.purchases),
		PurchaseLines: len(s.st.purchaseLines),
	}
}
