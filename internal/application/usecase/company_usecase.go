package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	tx   ledger.TxRunner
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso. tx se usa para crear la empresa y su bodega
// principal en la misma transacción.
func NewCompanyUseCase(tx ledger.TxRunner, repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{tx: tx, repo: repo}
}

// Create crea una empresa junto con su bodega "Principal".
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      name,
		NIT:       strings.TrimSpace(in.NIT),
		CreatedAt: now,
		UpdatedAt: now,
	}
	principal := &entity.Warehouse{
		ID:        uuid.New().String(),
		CompanyID: company.ID,
		Name:      entity.PrincipalWarehouseName,
		IsPrimary: true,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.Run(ctx, func(repos ledger.Repos) error {
		if err := repos.Companies().Create(ctx, company); err != nil {
			return err
		}
		return repos.Warehouses().Create(ctx, principal)
	})
	if err != nil {
		return nil, err
	}
	resp := entityToCompanyResponse(company)
	resp.PrimaryWarehouseID = principal.ID
	return resp, nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	return entityToCompanyResponse(company), nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		NIT:       c.NIT,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
