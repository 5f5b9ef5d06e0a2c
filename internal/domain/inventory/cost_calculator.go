// Package inventory contiene servicios de dominio puros sobre el inventario.
package inventory

import "github.com/shopspring/decimal"

// CostCalculator calcula el costo promedio ponderado tras una entrada de mercancía:
//
//	nuevo = (stock*costo + entrada*costoEntrada) / (stock + entrada)
//
// Un stock previo negativo o cero no aporta al promedio: la entrada fija el costo.
func CostCalculator(stock, cost, inQty, inCost decimal.Decimal) decimal.Decimal {
	if !stock.IsPositive() {
		if !inQty.IsPositive() {
			return cost
		}
		return inCost
	}
	total := stock.Add(inQty)
	if !total.IsPositive() {
		return cost
	}
	return stock.Mul(cost).Add(inQty.Mul(inCost)).Div(total)
}
