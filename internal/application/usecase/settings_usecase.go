package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// SettingsUseCase carga y actualiza la política del ledger por empresa.
// Los valores por defecto vienen de la configuración de la aplicación.
type SettingsUseCase struct {
	repo     repository.SettingsRepository
	defaults ledger.Policy
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingsRepository, defaults ledger.Policy) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, defaults: defaults}
}

// Policy devuelve la política vigente de la empresa. Se llama una vez por petición.
func (uc *SettingsUseCase) Policy(ctx context.Context, companyID string) (ledger.Policy, error) {
	kv, err := uc.repo.GetAll(ctx, companyID)
	if err != nil {
		return ledger.Policy{}, err
	}
	return uc.defaults.WithSettings(kv), nil
}

// Get devuelve la política vigente como DTO.
func (uc *SettingsUseCase) Get(ctx context.Context, companyID string) (*dto.LedgerSettingsResponse, error) {
	p, err := uc.Policy(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(p), nil
}

// Update guarda solo los campos enviados.
func (uc *SettingsUseCase) Update(ctx context.Context, companyID string, in dto.UpdateLedgerSettingsRequest) (*dto.LedgerSettingsResponse, error) {
	changes := map[string]string{}
	if in.ReturnsEnabled != nil {
		changes[ledger.SettingReturnsEnabled] = strconv.FormatBool(*in.ReturnsEnabled)
	}
	if in.ReturnWindowDays != nil {
		changes[ledger.SettingReturnWindowDays] = strconv.Itoa(*in.ReturnWindowDays)
	}
	if in.DefaultIVA != nil {
		if in.DefaultIVA.IsNegative() || in.DefaultIVA.GreaterThan(hundred) {
			return nil, domain.ErrInvalidInput
		}
		changes[ledger.SettingDefaultIVA] = in.DefaultIVA.String()
	}
	if in.CreditDaysDefault != nil {
		changes[ledger.SettingCreditDaysDefault] = strconv.Itoa(*in.CreditDaysDefault)
	}
	if in.StrictTransferSource != nil {
		changes[ledger.SettingStrictTransferSource] = strconv.FormatBool(*in.StrictTransferSource)
	}
	if in.MaxItems != nil {
		changes[ledger.SettingMaxItems] = strconv.Itoa(*in.MaxItems)
	}
	if in.MaxLineQuantity != nil {
		changes[ledger.SettingMaxLineQuantity] = strconv.FormatInt(*in.MaxLineQuantity, 10)
	}
	now := time.Now()
	for k, v := range changes {
		if err := uc.repo.Upsert(ctx, &entity.Setting{CompanyID: companyID, Key: k, Value: v, UpdatedAt: now}); err != nil {
			return nil, err
		}
	}
	return uc.Get(ctx, companyID)
}

func toSettingsResponse(p ledger.Policy) *dto.LedgerSettingsResponse {
	return &dto.LedgerSettingsResponse{
		ReturnsEnabled:       p.ReturnsEnabled,
		ReturnWindowDays:     p.ReturnWindowDays,
		DefaultIVA:           p.DefaultIVA,
		CreditDaysDefault:    p.CreditDaysDefault,
		StrictTransferSource: p.StrictTransferSource,
		MaxItems:             p.MaxItems,
		MaxLineQuantity:      p.MaxLineQuantity,
	}
}
