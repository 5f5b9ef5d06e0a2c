package ledger

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Claves del almacén de configuración por empresa.
const (
	SettingReturnsEnabled       = "returns_enabled"
	SettingReturnWindowDays     = "return_window_days"
	SettingDefaultIVA           = "default_iva"
	SettingCreditDaysDefault    = "credit_days_default"
	SettingStrictTransferSource = "strict_transfer_source"
	SettingMaxItems             = "max_items"
	SettingMaxLineQuantity      = "max_line_quantity"
)

// Policy configuración del ledger vigente para una petición. Se carga una vez por petición
// y se pasa explícitamente a cada operación.
type Policy struct {
	ReturnsEnabled       bool
	ReturnWindowDays     int // 0 = sin límite
	DefaultIVA           decimal.Decimal
	CreditDaysDefault    int
	StrictTransferSource bool
	MaxItems             int
	MaxLineQuantity      int64
}

// DefaultPolicy valores por defecto cuando no hay configuración.
func DefaultPolicy() Policy {
	return Policy{
		ReturnsEnabled:    true,
		ReturnWindowDays:  0,
		DefaultIVA:        decimal.NewFromInt(16),
		CreditDaysDefault: 21,
		MaxItems:          200,
		MaxLineQuantity:   100000,
	}
}

// WithSettings sobreescribe la política con los valores guardados por la empresa.
// Los valores que no se pueden interpretar se ignoran.
func (p Policy) WithSettings(kv map[string]string) Policy {
	if v, ok := parseBool(kv[SettingReturnsEnabled]); ok {
		p.ReturnsEnabled = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(kv[SettingReturnWindowDays])); err == nil && v >= 0 {
		p.ReturnWindowDays = v
	}
	if v, err := decimal.NewFromString(strings.TrimSpace(kv[SettingDefaultIVA])); err == nil {
		p.DefaultIVA = clampPct(v)
	}
	if v, err := strconv.Atoi(strings.TrimSpace(kv[SettingCreditDaysDefault])); err == nil {
		p.CreditDaysDefault = clampDays(v)
	}
	if v, ok := parseBool(kv[SettingStrictTransferSource]); ok {
		p.StrictTransferSource = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(kv[SettingMaxItems])); err == nil && v > 0 {
		p.MaxItems = v
	}
	if v, err := strconv.ParseInt(strings.TrimSpace(kv[SettingMaxLineQuantity]), 10, 64); err == nil && v > 0 {
		p.MaxLineQuantity = v
	}
	return p
}

// Settings serializa la política al formato clave/valor.
func (p Policy) Settings() map[string]string {
	return map[string]string{
		SettingReturnsEnabled:       strconv.FormatBool(p.ReturnsEnabled),
		SettingReturnWindowDays:     strconv.Itoa(p.ReturnWindowDays),
		SettingDefaultIVA:           p.DefaultIVA.String(),
		SettingCreditDaysDefault:    strconv.Itoa(p.CreditDaysDefault),
		SettingStrictTransferSource: strconv.FormatBool(p.StrictTransferSource),
		SettingMaxItems:             strconv.Itoa(p.MaxItems),
		SettingMaxLineQuantity:      strconv.FormatInt(p.MaxLineQuantity, 10),
	}
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "si", "sí", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}

var hundred = decimal.NewFromInt(100)

func clampPct(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	if v.GreaterThan(hundred) {
		return hundred
	}
	return v
}

func clampDays(d int) int {
	if d < 1 {
		return 1
	}
	if d > 365 {
		return 365
	}
	return d
}
