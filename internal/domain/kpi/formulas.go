// Package kpi implementa el catálogo de fórmulas de la cadena de suministro
// (servicios de dominio puros, sin I/O).
//
// Convención de guardas: toda fórmula cuyo denominador puede ser legítimamente
// cero o ausente devuelve decimal.NullDecimal; Valid=false significa
// "indefinido" y se persiste/serializa como NULL. Nunca se devuelve error por
// división entre cero.
package kpi

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cadena-kpi/internal/domain/entity"
)

// Etiquetas de estado de los campos derivados persistidos.
const (
	StatusRestockNeeded   = "Restock Needed"
	StatusStockSufficient = "Stock Sufficient"
	StatusOverstocked     = "Overstocked"
	StatusOK              = "OK"
	FlagSlowMover         = "Overstocked / Slow Mover"
	FlagNormal            = "Normal"
)

// Bandas de precio para el análisis de surtido.
const (
	PriceBandLow    = "Low"
	PriceBandMedium = "Medium"
	PriceBandHigh   = "High"
)

var (
	two          = decimal.NewFromInt(2)
	three        = decimal.NewFromInt(3)
	daysPerYear  = decimal.NewFromInt(365)
	holdingRate  = decimal.NewFromFloat(0.2) // costo de mantenimiento = 20% del precio
	safetyFactor = decimal.NewFromFloat(0.1)
	ropFactor    = decimal.NewFromFloat(1.1) // lead_time_demand + safety_stock

	priceBandLowCap  = decimal.NewFromInt(20)
	priceBandHighCap = decimal.NewFromInt(50)
)

// Undefined devuelve el marcador de valor indefinido (NULL en persistencia).
func Undefined() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

// Defined envuelve un decimal como valor definido.
func Defined(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// EOQ calcula la cantidad económica de pedido:
//
//	sqrt((2 × vendidos × costo_envío) / (precio × 0.2))
//
// Redondeada a 2 decimales. Indefinida si el precio no es positivo (el costo
// de mantenimiento sería cero y la división no tiene sentido).
func EOQ(sold, shippingCost, price decimal.Decimal) decimal.NullDecimal {
	denom := price.Mul(holdingRate)
	if denom.LessThanOrEqual(decimal.Zero) {
		return Undefined()
	}
	ratio, _ := two.Mul(sold).Mul(shippingCost).Div(denom).Float64()
	if ratio < 0 {
		return Undefined()
	}
	return Defined(decimal.NewFromFloat(math.Sqrt(ratio)).Round(2))
}

// DailyDemand es la demanda diaria promedio: vendidos_anuales / 365.
func DailyDemand(sold decimal.Decimal) decimal.Decimal {
	return sold.Div(daysPerYear)
}

// LeadTimeDemand es la demanda esperada durante el lead time del proveedor.
func LeadTimeDemand(dailyDemand, leadTime decimal.Decimal) decimal.Decimal {
	return dailyDemand.Mul(leadTime)
}

// SafetyStock es el colchón del 10% sobre la demanda en lead time.
func SafetyStock(leadTimeDemand decimal.Decimal) decimal.Decimal {
	return leadTimeDemand.Mul(safetyFactor)
}

// ReorderPoint es lead_time_demand × 1.1 (equivale a demanda + safety stock).
func ReorderPoint(leadTimeDemand decimal.Decimal) decimal.Decimal {
	return leadTimeDemand.Mul(ropFactor)
}

// InventoryTurnover es revenue / stock; indefinido con stock en cero.
func InventoryTurnover(revenue, stockLevels decimal.Decimal) decimal.NullDecimal {
	if stockLevels.IsZero() {
		return Undefined()
	}
	return Defined(revenue.Div(stockLevels))
}

// DaysSalesOfInventory es (stock / revenue) × 365; indefinido con revenue en cero.
func DaysSalesOfInventory(stockLevels, revenue decimal.Decimal) decimal.NullDecimal {
	if revenue.IsZero() {
		return Undefined()
	}
	return Defined(stockLevels.Div(revenue).Mul(daysPerYear))
}

// LowStockStatus compara el stock contra el punto de reorden.
func LowStockStatus(stockLevels, reorderPoint decimal.Decimal) string {
	if stockLevels.LessThan(reorderPoint) {
		return StatusRestockNeeded
	}
	return StatusStockSufficient
}

// OverstockStatus marca sobrestock cuando el stock supera 2×EOQ.
// Con EOQ indefinida no hay referencia de comparación: se reporta OK.
func OverstockStatus(stockLevels decimal.Decimal, eoq decimal.NullDecimal) string {
	if eoq.Valid && stockLevels.GreaterThan(two.Mul(eoq.Decimal)) {
		return StatusOverstocked
	}
	return StatusOK
}

// MovementFlag marca lento movimiento cuando el stock triplica las ventas anuales.
func MovementFlag(stockLevels, sold decimal.Decimal) string {
	if stockLevels.GreaterThan(three.Mul(sold)) {
		return FlagSlowMover
	}
	return FlagNormal
}

// ShippingCostPerUnit es costo_envío / vendidos; indefinido sin ventas.
func ShippingCostPerUnit(shippingCost, sold decimal.Decimal) decimal.NullDecimal {
	if sold.IsZero() {
		return Undefined()
	}
	return Defined(shippingCost.Div(sold))
}

// ProfitabilityEstimate es revenue - (costo_fabricación + costo_envío).
func ProfitabilityEstimate(revenue, manufacturingCost, shippingCost decimal.Decimal) decimal.Decimal {
	return revenue.Sub(manufacturingCost.Add(shippingCost))
}

// PriceBand clasifica el precio en Low / Medium / High.
// Los límites 20 y 50 son inclusivos en Medium.
func PriceBand(price decimal.Decimal) string {
	switch {
	case price.LessThan(priceBandLowCap):
		return PriceBandLow
	case price.LessThanOrEqual(priceBandHighCap):
		return PriceBandMedium
	default:
		return PriceBandHigh
	}
}

// ComputeDerived aplica todas las fórmulas por registro y devuelve la
// proyección lista para persistir. Los numéricos se redondean a 2 decimales
// al final (precisión de las columnas derivadas); las comparaciones de estado
// usan los valores sin redondear, salvo EOQ cuyo redondeo es parte de la
// definición de la fórmula.
func ComputeDerived(rec entity.SupplyRecord) entity.DerivedMetrics {
	eoq := EOQ(rec.NumberOfProductsSold, rec.ShippingCosts, rec.Price)
	dailyDemand := DailyDemand(rec.NumberOfProductsSold)
	ltDemand := LeadTimeDemand(dailyDemand, rec.LeadTime)
	safety := SafetyStock(ltDemand)
	rop := ReorderPoint(ltDemand)
	turnover := InventoryTurnover(rec.RevenueGenerated, rec.StockLevels)
	dsi := DaysSalesOfInventory(rec.StockLevels, rec.RevenueGenerated)

	return entity.DerivedMetrics{
		EOQ:                  eoq,
		DailyDemand:          dailyDemand.Round(2),
		LeadTimeDemand:       ltDemand.Round(2),
		SafetyStock:          safety.Round(2),
		ReorderPoint:         rop.Round(2),
		InventoryTurnover:    roundNull(turnover),
		DaysSalesOfInventory: roundNull(dsi),
		LowStockStatus:       LowStockStatus(rec.StockLevels, rop),
		OverstockStatus:      OverstockStatus(rec.StockLevels, eoq),
		MovementFlag:         MovementFlag(rec.StockLevels, rec.NumberOfProductsSold),
	}
}

func roundNull(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return Defined(d.Decimal.Round(2))
}
