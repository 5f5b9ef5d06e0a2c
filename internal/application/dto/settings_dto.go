package dto

import "github.com/shopspring/decimal"

// LedgerSettingsResponse política vigente de la empresa.
type LedgerSettingsResponse struct {
	ReturnsEnabled       bool            `json:"returns_enabled"`
	ReturnWindowDays     int             `json:"return_window_days"`
	DefaultIVA           decimal.Decimal `json:"default_iva"`
	CreditDaysDefault    int             `json:"credit_days_default"`
	StrictTransferSource bool            `json:"strict_transfer_source"`
	MaxItems             int             `json:"max_items"`
	MaxLineQuantity      int64           `json:"max_line_quantity"`
}

// UpdateLedgerSettingsRequest campos opcionales a modificar.
type UpdateLedgerSettingsRequest struct {
	ReturnsEnabled       *bool            `json:"returns_enabled"`
	ReturnWindowDays     *int             `json:"return_window_days" validate:"omitempty,min=0,max=3650"`
	DefaultIVA           *decimal.Decimal `json:"default_iva"`
	CreditDaysDefault    *int             `json:"credit_days_default" validate:"omitempty,min=1,max=365"`
	StrictTransferSource *bool            `json:"strict_transfer_source"`
	MaxItems             *int             `json:"max_items" validate:"omitempty,min=1,max=1000"`
	MaxLineQuantity      *int64           `json:"max_line_quantity" validate:"omitempty,min=1"`
}
