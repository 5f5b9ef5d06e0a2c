package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SettingsRepository almacén clave/valor por empresa.
type SettingsRepository interface {
	GetAll(ctx context.Context, companyID string) (map[string]string, error)
	Upsert(ctx context.Context, setting *entity.Setting) error
}
