package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository  = (*CompanyRepo)(nil)
	_ repository.SettingsRepository = (*SettingsRepo)(nil)
)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO companies (id, name, nit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.NIT, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	var c entity.Company
	err := r.q.QueryRow(ctx, `SELECT id, name, nit, created_at, updated_at FROM companies WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.NIT, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// SettingsRepo pares clave/valor por empresa.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador de configuración.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// GetAll devuelve todas las claves de la empresa.
func (r *SettingsRepo) GetAll(ctx context.Context, companyID string) (map[string]string, error) {
	rows, err := r.q.Query(ctx, `SELECT key, value FROM settings WHERE company_id = $1`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// Upsert inserta o reemplaza una clave.
func (r *SettingsRepo) Upsert(ctx context.Context, s *entity.Setting) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO settings (company_id, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		s.CompanyID, s.Key, s.Value, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}
